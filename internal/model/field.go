package model

// FieldType identifies the control a configurable input renders as and the
// shape of the value it holds. The set is closed: every dispatch over it
// (defaulting, validation, serialization) switches exhaustively.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldNumber   FieldType = "number"
	FieldDate     FieldType = "date"
	FieldTime     FieldType = "time"
	FieldFile     FieldType = "file"
	FieldSelect   FieldType = "select"
	FieldRadio    FieldType = "radio"
	FieldCheckbox FieldType = "checkbox"
)

// Known reports whether t is one of the declared field types.
func (t FieldType) Known() bool {
	switch t {
	case FieldText, FieldTextarea, FieldNumber, FieldDate, FieldTime,
		FieldFile, FieldSelect, FieldRadio, FieldCheckbox:
		return true
	}
	return false
}

// IsChoice reports whether the type selects among declared options.
func (t FieldType) IsChoice() bool {
	return t == FieldSelect || t == FieldRadio || t == FieldCheckbox
}

// Option is one selectable choice within a select, radio or checkbox field.
type Option struct {
	ID            string  `json:"id"`
	Label         string  `json:"label"`
	PriceModifier float64 `json:"priceModifier"`
	Image         string  `json:"image,omitempty"`
	IsDefault     bool    `json:"isDefault,omitempty"`
}

// Field is one schema-declared configurable input on a service.
// MinValue, MaxValue, Step and Unit apply to number fields only;
// Options apply to choice fields only.
type Field struct {
	ID          string    `json:"id"`
	Type        FieldType `json:"type"`
	Label       string    `json:"label"`
	Description string    `json:"description,omitempty"`
	Required    bool      `json:"required"`
	MinValue    *float64  `json:"minValue,omitempty"`
	MaxValue    *float64  `json:"maxValue,omitempty"`
	Step        *float64  `json:"step,omitempty"`
	Unit        string    `json:"unit,omitempty"`
	Options     []Option  `json:"options,omitempty"`
}

// OptionByID returns the declared option with the given id, or nil.
func (f *Field) OptionByID(id string) *Option {
	for i := range f.Options {
		if f.Options[i].ID == id {
			return &f.Options[i]
		}
	}
	return nil
}

// DefaultOption returns the option flagged as default, or nil. At most one
// option may carry the flag; if the schema supplies several, the first wins.
func (f *Field) DefaultOption() *Option {
	for i := range f.Options {
		if f.Options[i].IsDefault {
			return &f.Options[i]
		}
	}
	return nil
}
