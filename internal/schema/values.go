package schema

import (
	"path"
	"strconv"

	"svc-forge/internal/model"
)

// ValueStore holds the current value for every field of one service schema,
// keyed by field id. A store is built for exactly one schema; switching
// services discards the store and builds a fresh one, values are never
// carried across schemas even when field ids collide.
type ValueStore struct {
	schema *model.ServiceSchema
	values map[string]model.Value
}

// NewValueStore initializes one entry per schema field with its
// type-appropriate default:
//   - text, textarea, date, time: empty string
//   - number: the field's minimum as a decimal string, if declared
//   - select: the option flagged as default, else no selection
//   - radio: no selection
//   - checkbox: empty set
//   - file: no file
func NewValueStore(s *model.ServiceSchema) *ValueStore {
	vs := &ValueStore{
		schema: s,
		values: make(map[string]model.Value, len(s.Fields)),
	}

	for i := range s.Fields {
		f := &s.Fields[i]
		v := model.Value{Kind: model.KindOf(f.Type)}

		switch f.Type {
		case model.FieldNumber:
			if f.MinValue != nil {
				v.Text = strconv.FormatFloat(*f.MinValue, 'f', -1, 64)
			}
		case model.FieldSelect:
			if def := f.DefaultOption(); def != nil {
				id := def.ID
				v.OptionID = &id
			}
		case model.FieldCheckbox:
			v.OptionIDs = make(map[string]struct{})
		}

		vs.values[f.ID] = v
	}

	return vs
}

// Schema returns the schema this store was built for.
func (vs *ValueStore) Schema() *model.ServiceSchema {
	return vs.schema
}

// Len returns the number of field entries held.
func (vs *ValueStore) Len() int {
	return len(vs.values)
}

// Get returns the current value for a field.
func (vs *ValueStore) Get(fieldID string) (model.Value, bool) {
	v, ok := vs.values[fieldID]
	return v, ok
}

// SetValue overwrites the entry for a scalar or single-choice field.
// For select and radio fields the raw value is an option id (empty clears
// the selection); for number fields a non-empty value must parse as a
// decimal. Checkbox and file fields reject this path.
func (vs *ValueStore) SetValue(fieldID, raw string) error {
	f := vs.schema.FieldByID(fieldID)
	if f == nil {
		return model.ErrUnknownField
	}

	switch f.Type {
	case model.FieldText, model.FieldTextarea, model.FieldDate, model.FieldTime:
		v := vs.values[fieldID]
		v.Text = raw
		vs.values[fieldID] = v
		return nil

	case model.FieldNumber:
		if raw != "" {
			if _, err := strconv.ParseFloat(raw, 64); err != nil {
				return model.ErrFieldTypeMismatch
			}
		}
		v := vs.values[fieldID]
		v.Text = raw
		vs.values[fieldID] = v
		return nil

	case model.FieldSelect, model.FieldRadio:
		v := vs.values[fieldID]
		if raw == "" {
			v.OptionID = nil
		} else {
			if f.OptionByID(raw) == nil {
				return model.ErrUnknownOption
			}
			id := raw
			v.OptionID = &id
		}
		vs.values[fieldID] = v
		return nil

	case model.FieldCheckbox, model.FieldFile:
		return model.ErrFieldTypeMismatch
	}

	return model.ErrFieldTypeMismatch
}

// ToggleCheckboxOption adds the option id to the set if absent, else
// removes it. The toggle is the only mutation path for checkbox values;
// applying it twice restores the original set.
func (vs *ValueStore) ToggleCheckboxOption(fieldID, optionID string) error {
	f := vs.schema.FieldByID(fieldID)
	if f == nil {
		return model.ErrUnknownField
	}
	if f.Type != model.FieldCheckbox {
		return model.ErrFieldTypeMismatch
	}
	if f.OptionByID(optionID) == nil {
		return model.ErrUnknownOption
	}

	v := vs.values[fieldID]
	if _, ok := v.OptionIDs[optionID]; ok {
		delete(v.OptionIDs, optionID)
	} else {
		v.OptionIDs[optionID] = struct{}{}
	}
	vs.values[fieldID] = v
	return nil
}

// SetFile stores a staged file reference for a file field together with the
// display name derived from the original filename.
func (vs *ValueStore) SetFile(fieldID, ref, filename string) error {
	f := vs.schema.FieldByID(fieldID)
	if f == nil {
		return model.ErrUnknownField
	}
	if f.Type != model.FieldFile {
		return model.ErrFieldTypeMismatch
	}

	v := vs.values[fieldID]
	v.File = &model.FileRef{Ref: ref, DisplayName: path.Base(filename)}
	vs.values[fieldID] = v
	return nil
}

// ClearFile removes both the staged reference and the display name.
func (vs *ValueStore) ClearFile(fieldID string) error {
	f := vs.schema.FieldByID(fieldID)
	if f == nil {
		return model.ErrUnknownField
	}
	if f.Type != model.FieldFile {
		return model.ErrFieldTypeMismatch
	}

	v := vs.values[fieldID]
	v.File = nil
	vs.values[fieldID] = v
	return nil
}
