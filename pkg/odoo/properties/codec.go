// Package properties converts between the two shapes of an Odoo properties
// field: the read format, an array of self-describing entries, and the write
// format, a flat name-to-value map.
//
// Writing a properties field replaces the entire set: any property omitted
// from the write map is reset to its empty value server-side. Every update
// must therefore follow read-modify-write — read the current entries, project
// them with ToWriteFormat, overlay only the changed keys, and write the
// complete merged map back. Skipping the read step silently erases all other
// property values.
package properties

import (
	"github.com/odoogo/odoogo/internal/common/apperrors"
	"github.com/odoogo/odoogo/pkg/odoo"
)

// Type is the value type of one property, mirroring the regular field types.
type Type string

// Property types supported by the server.
const (
	TypeChar      Type = "char"
	TypeText      Type = "text"
	TypeInteger   Type = "integer"
	TypeFloat     Type = "float"
	TypeBoolean   Type = "boolean"
	TypeDate      Type = "date"
	TypeDatetime  Type = "datetime"
	TypeSelection Type = "selection"
	TypeTags      Type = "tags"
	TypeMany2one  Type = "many2one"
	TypeMany2many Type = "many2many"
	TypeSeparator Type = "separator"
)

// Entry is one self-describing property as it appears in the read format.
// Value is typed per the Type tag: string, number, boolean, id, id list, or
// tag list. Callers should go through Value/ToWriteFormat rather than pattern
// matching the union by hand.
type Entry struct {
	Name      string     `json:"name" mapstructure:"name"`
	Type      Type       `json:"type" mapstructure:"type"`
	Label     string     `json:"string" mapstructure:"string"`
	Value     any        `json:"value" mapstructure:"value"`
	Selection [][]string `json:"selection,omitempty" mapstructure:"selection"`
	Comodel   string     `json:"comodel,omitempty" mapstructure:"comodel"`
	Default   any        `json:"default,omitempty" mapstructure:"default"`
}

// Value returns the value of the named property. The second result is false
// if no entry with that name exists; absence is not an error.
func Value(entries []Entry, name string) (any, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e.Value, true
		}
	}
	return nil, false
}

// Definition returns the entry describing the named property, without its
// current value semantics. The second result is false if absent.
func Definition(definitions []Entry, name string) (*Entry, bool) {
	for i := range definitions {
		if definitions[i].Name == name {
			return &definitions[i], true
		}
	}
	return nil, false
}

// ToWriteFormat projects read-format entries into the flat map the server
// expects on write. One pass, no validation: the codec trusts the shapes the
// server returned.
func ToWriteFormat(entries []Entry) map[string]any {
	out := make(map[string]any, len(entries))
	for _, e := range entries {
		out[e.Name] = e.Value
	}
	return out
}

// MergeUpdate projects entries to write format and overlays the given
// updates, returning the complete map that must be written to avoid resetting
// unlisted properties.
func MergeUpdate(entries []Entry, updates map[string]any) map[string]any {
	out := ToWriteFormat(entries)
	for name, value := range updates {
		out[name] = value
	}
	return out
}

// DecodeEntries converts a raw read result value (the []any of maps returned
// inside a properties-typed field) into typed entries.
func DecodeEntries(raw any) ([]Entry, apperrors.Error) {
	if raw == nil {
		return []Entry{}, nil
	}
	// an unset properties field reads as false
	if b, ok := raw.(bool); ok && !b {
		return []Entry{}, nil
	}
	var entries []Entry
	if err := odoo.DecodeRecord(raw, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
