package model

import "sort"

// ValueKind is the payload shape a field value takes, derived from the
// field type. Scalar kinds store their content as a string, mirroring the
// form controls they back; number fields hold the decimal string as typed.
type ValueKind string

const (
	ValueScalar  ValueKind = "scalar"  // text, textarea, number, date, time
	ValueOption  ValueKind = "option"  // select, radio: at most one option id
	ValueOptions ValueKind = "options" // checkbox: a set of option ids
	ValueFile    ValueKind = "file"    // file: staged reference + display name
)

// KindOf maps a field type to the value kind it stores.
func KindOf(t FieldType) ValueKind {
	switch t {
	case FieldSelect, FieldRadio:
		return ValueOption
	case FieldCheckbox:
		return ValueOptions
	case FieldFile:
		return ValueFile
	default:
		return ValueScalar
	}
}

// FileRef is a staged file value: an opaque storage reference plus the
// display name shown to the user and carried on the order record.
type FileRef struct {
	Ref         string `json:"ref"`
	DisplayName string `json:"displayName"`
}

// Value is the client-held value for one field, tagged by kind. Exactly one
// of the payload members is meaningful for a given kind.
type Value struct {
	Kind      ValueKind
	Text      string
	OptionID  *string
	OptionIDs map[string]struct{}
	File      *FileRef
}

// Empty reports type-specific emptiness: the rule a required field is
// judged by. Non-empty content in the wrong member is never consulted.
func (v Value) Empty() bool {
	switch v.Kind {
	case ValueOption:
		return v.OptionID == nil
	case ValueOptions:
		return len(v.OptionIDs) == 0
	case ValueFile:
		return v.File == nil
	default:
		return v.Text == ""
	}
}

// Has reports whether the checkbox set contains the given option id.
func (v Value) Has(optionID string) bool {
	_, ok := v.OptionIDs[optionID]
	return ok
}

// SelectedOptions returns the checkbox set as a sorted slice.
func (v Value) SelectedOptions() []string {
	ids := make([]string, 0, len(v.OptionIDs))
	for id := range v.OptionIDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
