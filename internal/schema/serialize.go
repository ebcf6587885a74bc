package schema

import (
	"fmt"
	"strconv"
	"strings"

	"svc-forge/internal/model"
)

// FieldEntry is one field value in the shape the pricing API expects.
// Exactly one of OptionID, OptionIDs or Value is populated, according to
// the field type.
type FieldEntry struct {
	FieldID   string   `json:"field_id"`
	OptionID  string   `json:"option_id,omitempty"`
	OptionIDs []string `json:"option_ids,omitempty"`
	Value     any      `json:"value,omitempty"`
}

// OrderFieldEntry is one field value in the shape the order API expects:
// the machine-readable payload plus a human-readable display string, so the
// order record stays self-describing even if the schema later changes.
type OrderFieldEntry struct {
	FieldID   string   `json:"field_id"`
	Label     string   `json:"label,omitempty"`
	OptionID  string   `json:"option_id,omitempty"`
	OptionIDs []string `json:"option_ids,omitempty"`
	Value     string   `json:"value"`
}

// CalculationEntries shapes the store into pricing-request entries.
// Fields whose value is empty are omitted from the result entirely;
// omission, not a null placeholder, is the contract. Number fields are
// re-parsed so the wire carries a JSON number rather than a string.
func CalculationEntries(s *model.ServiceSchema, vs *ValueStore) ([]FieldEntry, error) {
	entries := make([]FieldEntry, 0, len(s.Fields))

	for i := range s.Fields {
		f := &s.Fields[i]
		v, ok := vs.Get(f.ID)
		if !ok || v.Empty() {
			continue
		}

		switch f.Type {
		case model.FieldSelect, model.FieldRadio:
			entries = append(entries, FieldEntry{FieldID: f.ID, OptionID: *v.OptionID})

		case model.FieldCheckbox:
			entries = append(entries, FieldEntry{FieldID: f.ID, OptionIDs: v.SelectedOptions()})

		case model.FieldNumber:
			n, err := strconv.ParseFloat(v.Text, 64)
			if err != nil {
				return nil, fmt.Errorf("field %s: malformed number %q: %w", f.ID, v.Text, err)
			}
			entries = append(entries, FieldEntry{FieldID: f.ID, Value: n})

		case model.FieldText, model.FieldTextarea, model.FieldDate, model.FieldTime:
			entries = append(entries, FieldEntry{FieldID: f.ID, Value: v.Text})

		case model.FieldFile:
			// Files do not influence pricing; the staged name rides along
			// so the backend can echo it in the breakdown.
			entries = append(entries, FieldEntry{FieldID: f.ID, Value: v.File.DisplayName})
		}
	}

	return entries, nil
}

// OrderEntries shapes the store into order-request entries with resolved
// display values. Choice fields resolve option ids to their labels; empty
// fields are omitted, matching the calculation contract.
func OrderEntries(s *model.ServiceSchema, vs *ValueStore) []OrderFieldEntry {
	entries := make([]OrderFieldEntry, 0, len(s.Fields))

	for i := range s.Fields {
		f := &s.Fields[i]
		v, ok := vs.Get(f.ID)
		if !ok || v.Empty() {
			continue
		}

		e := OrderFieldEntry{FieldID: f.ID, Label: f.Label}

		switch f.Type {
		case model.FieldSelect, model.FieldRadio:
			e.OptionID = *v.OptionID
			e.Value = optionLabel(f, *v.OptionID)

		case model.FieldCheckbox:
			ids := v.SelectedOptions()
			labels := make([]string, 0, len(ids))
			for _, id := range ids {
				labels = append(labels, optionLabel(f, id))
			}
			e.OptionIDs = ids
			e.Value = strings.Join(labels, ", ")

		case model.FieldNumber:
			e.Value = v.Text
			if f.Unit != "" {
				e.Value = v.Text + " " + f.Unit
			}

		case model.FieldFile:
			e.Value = v.File.DisplayName

		default:
			e.Value = v.Text
		}

		entries = append(entries, e)
	}

	return entries
}

// optionLabel resolves an option id to its display label, falling back to
// the id itself if the schema no longer declares the option.
func optionLabel(f *model.Field, id string) string {
	if opt := f.OptionByID(id); opt != nil {
		return opt.Label
	}
	return id
}
