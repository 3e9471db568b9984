// Package codegen renders Go declarations from introspected model metadata.
// Generation is pure templating: the output is deterministic for a given
// metadata snapshot and is never compiled or validated here.
package codegen

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/odoogo/odoogo/pkg/odoo/introspect"
)

// MapFieldType maps an Odoo field type to the Go type expression used in
// generated structs. Relational x2many fields carry id lists, many2one a
// single id. Types outside the table map to any so that generated code stays
// usable when a server ships custom field types.
func MapFieldType(field introspect.Field) string {
	switch field.Type {
	case introspect.TypeChar, introspect.TypeText, introspect.TypeHTML,
		introspect.TypeSelection, introspect.TypeDate, introspect.TypeDatetime,
		introspect.TypeBinary:
		return "string"
	case introspect.TypeInteger:
		return "int64"
	case introspect.TypeFloat, introspect.TypeMonetary:
		return "float64"
	case introspect.TypeBoolean:
		return "bool"
	case introspect.TypeMany2one:
		return "int64"
	case introspect.TypeOne2many, introspect.TypeMany2many:
		return "[]int64"
	default:
		return "any"
	}
}

var titleCaser = cases.Title(language.English, cases.NoLower)

// GoIdentifier converts an Odoo technical name (res.partner, date_deadline)
// into an exported Go identifier, with conventional casing for trailing id
// segments.
func GoIdentifier(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == ' '
	})
	var b strings.Builder
	for _, p := range parts {
		switch strings.ToLower(p) {
		case "id":
			b.WriteString("ID")
		case "ids":
			b.WriteString("IDs")
		case "url":
			b.WriteString("URL")
		case "html":
			b.WriteString("HTML")
		default:
			b.WriteString(titleCaser.String(strings.ToLower(p)))
		}
	}
	if b.Len() == 0 {
		return "Model"
	}
	return b.String()
}

// GenerateModel renders one Go struct declaration for the model plus
// commented method signature hints. Fields are emitted in name order
// regardless of the metadata ordering, so output is stable across runs.
func GenerateModel(md introspect.Metadata) []byte {
	fields := make([]introspect.Field, len(md.Fields))
	copy(fields, md.Fields)
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })

	typeName := GoIdentifier(md.Model.Model)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// %s is the %s model (%s).\n", typeName, md.Model.Name, md.Model.Model)
	fmt.Fprintf(&buf, "type %s struct {\n", typeName)
	for _, f := range fields {
		if f.Name == "id" {
			continue
		}
		comment := string(f.Type)
		if f.Relation != "" {
			comment += " -> " + f.Relation
		}
		if f.Required {
			comment += ", required"
		}
		if f.Readonly {
			comment += ", readonly"
		}
		fmt.Fprintf(&buf, "\t%s %s `odoo:\"%s\"` // %s\n",
			GoIdentifier(f.Name), MapFieldType(f), f.Name, comment)
	}
	buf.WriteString("}\n\n")

	fmt.Fprintf(&buf, "// Suggested operations for %s:\n", md.Model.Model)
	fmt.Fprintf(&buf, "//   Search%s(ctx, client, domain) ([]%s, error)\n", typeName, typeName)
	fmt.Fprintf(&buf, "//   Create%s(ctx, client, values) (int64, error)\n", typeName)
	fmt.Fprintf(&buf, "//   Write%s(ctx, client, id, values) error\n", typeName)
	fmt.Fprintf(&buf, "//   Unlink%s(ctx, client, id) error\n", typeName)

	return buf.Bytes()
}

// GenerateFile wraps one or more model declarations in a complete Go source
// file with the given package name.
func GenerateFile(pkg string, metadata []introspect.Metadata) []byte {
	var buf bytes.Buffer
	buf.WriteString("// Code generated from server model metadata. DO NOT EDIT.\n\n")
	fmt.Fprintf(&buf, "package %s\n\n", pkg)
	for i, md := range metadata {
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.Write(GenerateModel(md))
	}
	return buf.Bytes()
}
