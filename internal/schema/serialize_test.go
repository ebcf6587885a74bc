package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculationEntries_OmitsEmptyFields(t *testing.T) {
	s := testSchema()
	vs := NewValueStore(s)

	require.NoError(t, vs.SetValue("frequency", "weekly"))
	require.NoError(t, vs.ToggleCheckboxOption("extras", "weeding"))
	require.NoError(t, vs.ToggleCheckboxOption("extras", "edging"))

	entries, err := CalculationEntries(s, vs)
	require.NoError(t, err)

	byField := make(map[string]FieldEntry, len(entries))
	for _, e := range entries {
		byField[e.FieldID] = e
	}

	// Empty fields are absent, not sent as nulls
	assert.NotContains(t, byField, "notes")
	assert.NotContains(t, byField, "description")
	assert.NotContains(t, byField, "visit_date")
	assert.NotContains(t, byField, "photo")

	assert.Equal(t, "standard", byField["package"].OptionID)
	assert.Equal(t, "weekly", byField["frequency"].OptionID)
	assert.Equal(t, []string{"edging", "weeding"}, byField["extras"].OptionIDs)
	assert.Equal(t, float64(10), byField["area"].Value)
}

func TestCalculationEntries_NumberTravelsAsJSONNumber(t *testing.T) {
	s := testSchema()
	vs := NewValueStore(s)
	require.NoError(t, vs.SetValue("area", "42.5"))

	entries, err := CalculationEntries(s, vs)
	require.NoError(t, err)

	raw, err := json.Marshal(entries)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"value":42.5`)
}

func TestCalculationEntries_FileSendsDisplayName(t *testing.T) {
	s := testSchema()
	vs := NewValueStore(s)
	require.NoError(t, vs.SetFile("photo", "ref-9", "side yard.jpg"))

	entries, err := CalculationEntries(s, vs)
	require.NoError(t, err)

	for _, e := range entries {
		if e.FieldID == "photo" {
			assert.Equal(t, "side yard.jpg", e.Value)
			return
		}
	}
	t.Fatal("photo entry missing")
}

func TestOrderEntries_ResolvesDisplayValues(t *testing.T) {
	s := testSchema()
	vs := NewValueStore(s)

	require.NoError(t, vs.SetValue("package", "premium"))
	require.NoError(t, vs.SetValue("frequency", "weekly"))
	require.NoError(t, vs.SetValue("area", "120"))
	require.NoError(t, vs.ToggleCheckboxOption("extras", "edging"))
	require.NoError(t, vs.ToggleCheckboxOption("extras", "weeding"))
	require.NoError(t, vs.SetValue("notes", "side gate"))

	entries := OrderEntries(s, vs)
	byField := make(map[string]OrderFieldEntry, len(entries))
	for _, e := range entries {
		byField[e.FieldID] = e
	}

	assert.Equal(t, "Premium", byField["package"].Value)
	assert.Equal(t, "premium", byField["package"].OptionID)
	assert.Equal(t, "Weekly", byField["frequency"].Value)
	assert.Equal(t, "Edging, Weeding", byField["extras"].Value)
	assert.Equal(t, []string{"edging", "weeding"}, byField["extras"].OptionIDs)
	assert.Equal(t, "120 sqm", byField["area"].Value)
	assert.Equal(t, "side gate", byField["notes"].Value)
	assert.Equal(t, "Package", byField["package"].Label)

	// Empty fields are omitted here too
	assert.NotContains(t, byField, "visit_date")
	assert.NotContains(t, byField, "photo")
}

func TestOrderEntries_UnknownOptionFallsBackToID(t *testing.T) {
	s := testSchema()
	vs := NewValueStore(s)
	require.NoError(t, vs.SetValue("frequency", "weekly"))

	// Simulate the schema losing an option after selection
	s.Fields[6].Options = s.Fields[6].Options[:1]

	entries := OrderEntries(s, vs)
	for _, e := range entries {
		if e.FieldID == "frequency" {
			assert.Equal(t, "weekly", e.Value)
			return
		}
	}
	t.Fatal("frequency entry missing")
}
