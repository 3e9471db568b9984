package properties

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntries() []Entry {
	return []Entry{
		{Name: "test_field", Type: TypeChar, Label: "Test Field", Value: "Initial"},
		{Name: "test_number", Type: TypeInteger, Label: "Test Number", Value: float64(42)},
		{Name: "test_flag", Type: TypeBoolean, Label: "Test Flag", Value: false},
		{Name: "test_choice", Type: TypeSelection, Label: "Test Choice", Value: "a",
			Selection: [][]string{{"a", "Alpha"}, {"b", "Beta"}}},
		{Name: "test_partner", Type: TypeMany2one, Label: "Test Partner", Value: float64(7),
			Comodel: "res.partner"},
	}
}

func TestValue(t *testing.T) {
	entries := sampleEntries()

	v, ok := Value(entries, "test_field")
	assert.True(t, ok)
	assert.Equal(t, "Initial", v)

	v, ok = Value(entries, "test_flag")
	assert.True(t, ok)
	assert.Equal(t, false, v)

	// absent name: not found, never a panic
	v, ok = Value(entries, "no_such_property")
	assert.False(t, ok)
	assert.Nil(t, v)

	v, ok = Value(nil, "anything")
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestDefinition(t *testing.T) {
	entries := sampleEntries()

	def, ok := Definition(entries, "test_choice")
	require.True(t, ok)
	assert.Equal(t, TypeSelection, def.Type)
	assert.Equal(t, [][]string{{"a", "Alpha"}, {"b", "Beta"}}, def.Selection)

	def, ok = Definition(entries, "test_partner")
	require.True(t, ok)
	assert.Equal(t, "res.partner", def.Comodel)

	_, ok = Definition(entries, "missing")
	assert.False(t, ok)
}

func TestToWriteFormat(t *testing.T) {
	entries := sampleEntries()
	w := ToWriteFormat(entries)

	assert.Len(t, w, 5)
	assert.Equal(t, "Initial", w["test_field"])
	assert.Equal(t, float64(42), w["test_number"])
	assert.Equal(t, false, w["test_flag"])

	assert.Empty(t, ToWriteFormat(nil))
}

func TestMergeUpdate(t *testing.T) {
	entries := sampleEntries()
	merged := MergeUpdate(entries, map[string]any{"test_field": "Updated"})

	// the overlaid key reflects the new value; everything else is preserved
	assert.Equal(t, "Updated", merged["test_field"])
	assert.Equal(t, float64(42), merged["test_number"])
	assert.Equal(t, false, merged["test_flag"])
	assert.Len(t, merged, 5)

	// new keys may be introduced by the overlay
	merged = MergeUpdate(entries, map[string]any{"test_new": "fresh"})
	assert.Equal(t, "fresh", merged["test_new"])
	assert.Len(t, merged, 6)
}

func TestDecodeEntries(t *testing.T) {
	raw := []any{
		map[string]any{"name": "test_field", "type": "char", "string": "Test Field", "value": "x"},
		map[string]any{"name": "test_partner", "type": "many2one", "comodel": "res.partner", "value": float64(3)},
	}
	entries, err := DecodeEntries(raw)
	require.Nil(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, TypeChar, entries[0].Type)
	assert.Equal(t, "res.partner", entries[1].Comodel)

	// an unset properties field reads as false
	entries, err = DecodeEntries(false)
	require.Nil(t, err)
	assert.Empty(t, entries)

	entries, err = DecodeEntries(nil)
	require.Nil(t, err)
	assert.Empty(t, entries)
}
