// Package introspect queries the server's own metadata registry: the model
// catalog (ir.model) and per-model field definitions (fields_get). Results are
// memoized per model; callers must invalidate after installing or upgrading
// modules, since the server has no schema-change notification mechanism.
package introspect

import (
	"github.com/odoogo/odoogo/pkg/types"
)

// FieldType enumerates the Odoo field type registry.
type FieldType string

// Field types as reported by fields_get.
const (
	TypeChar       FieldType = "char"
	TypeText       FieldType = "text"
	TypeInteger    FieldType = "integer"
	TypeFloat      FieldType = "float"
	TypeBoolean    FieldType = "boolean"
	TypeDate       FieldType = "date"
	TypeDatetime   FieldType = "datetime"
	TypeSelection  FieldType = "selection"
	TypeMany2one   FieldType = "many2one"
	TypeOne2many   FieldType = "one2many"
	TypeMany2many  FieldType = "many2many"
	TypeBinary     FieldType = "binary"
	TypeHTML       FieldType = "html"
	TypeMonetary   FieldType = "monetary"
	TypeReference  FieldType = "reference"
	TypeProperties FieldType = "properties"
)

// Relational reports whether values of this type reference other records.
func (t FieldType) Relational() bool {
	switch t {
	case TypeMany2one, TypeOne2many, TypeMany2many:
		return true
	}
	return false
}

// Model is one row of the model registry, an immutable snapshot at query time.
type Model struct {
	Model     string `json:"model" mapstructure:"model"`
	Name      string `json:"name" mapstructure:"name"`
	Transient bool   `json:"transient" mapstructure:"transient"`
	Modules   string `json:"modules" mapstructure:"modules"`
}

// Field describes one field of one model. Help keeps the server's
// unset-vs-empty distinction, since fields_get reports a missing tooltip as
// the literal false.
type Field struct {
	Name      string               `json:"name" mapstructure:"name"`
	Label     string               `json:"string" mapstructure:"string"`
	Type      FieldType            `json:"type" mapstructure:"type"`
	Required  bool                 `json:"required" mapstructure:"required"`
	Readonly  bool                 `json:"readonly" mapstructure:"readonly"`
	Relation  string               `json:"relation,omitempty" mapstructure:"relation"`
	Help      types.NullableString `json:"help" mapstructure:"help"`
	Selection [][]string           `json:"selection,omitempty" mapstructure:"selection"`
}

// Metadata bundles a model descriptor with its full field list.
type Metadata struct {
	Model  Model   `json:"model"`
	Fields []Field `json:"fields"`
}
