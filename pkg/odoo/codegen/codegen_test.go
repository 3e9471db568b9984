package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odoogo/odoogo/pkg/odoo/introspect"
)

func TestMapFieldType(t *testing.T) {
	cases := []struct {
		ftype introspect.FieldType
		want  string
	}{
		{introspect.TypeChar, "string"},
		{introspect.TypeText, "string"},
		{introspect.TypeHTML, "string"},
		{introspect.TypeSelection, "string"},
		{introspect.TypeDate, "string"},
		{introspect.TypeDatetime, "string"},
		{introspect.TypeBinary, "string"},
		{introspect.TypeInteger, "int64"},
		{introspect.TypeFloat, "float64"},
		{introspect.TypeMonetary, "float64"},
		{introspect.TypeBoolean, "bool"},
		{introspect.TypeMany2one, "int64"},
		{introspect.TypeOne2many, "[]int64"},
		{introspect.TypeMany2many, "[]int64"},
		{introspect.TypeProperties, "any"},
		{introspect.TypeReference, "any"},
		{introspect.FieldType("x_custom_widget"), "any"},
	}
	for _, tc := range cases {
		got := MapFieldType(introspect.Field{Type: tc.ftype})
		assert.Equal(t, tc.want, got, "type %s", tc.ftype)
	}
}

func TestGoIdentifier(t *testing.T) {
	assert.Equal(t, "ResPartner", GoIdentifier("res.partner"))
	assert.Equal(t, "DateDeadline", GoIdentifier("date_deadline"))
	assert.Equal(t, "PartnerID", GoIdentifier("partner_id"))
	assert.Equal(t, "ChildIDs", GoIdentifier("child_ids"))
	assert.Equal(t, "WebsiteURL", GoIdentifier("website_url"))
	assert.Equal(t, "Model", GoIdentifier(""))
}

func sampleMetadata() introspect.Metadata {
	return introspect.Metadata{
		Model: introspect.Model{Model: "res.partner", Name: "Contact"},
		Fields: []introspect.Field{
			{Name: "parent_id", Type: introspect.TypeMany2one, Relation: "res.partner"},
			{Name: "name", Type: introspect.TypeChar, Required: true},
			{Name: "id", Type: introspect.TypeInteger, Readonly: true},
			{Name: "child_ids", Type: introspect.TypeMany2many, Relation: "res.partner"},
			{Name: "active", Type: introspect.TypeBoolean},
		},
	}
}

func TestGenerateModel(t *testing.T) {
	out := string(GenerateModel(sampleMetadata()))

	want := `// ResPartner is the Contact model (res.partner).
type ResPartner struct {
	Active bool ` + "`odoo:\"active\"`" + ` // boolean
	ChildIDs []int64 ` + "`odoo:\"child_ids\"`" + ` // many2many -> res.partner
	Name string ` + "`odoo:\"name\"`" + ` // char, required
	ParentID int64 ` + "`odoo:\"parent_id\"`" + ` // many2one -> res.partner
}

// Suggested operations for res.partner:
//   SearchResPartner(ctx, client, domain) ([]ResPartner, error)
//   CreateResPartner(ctx, client, values) (int64, error)
//   WriteResPartner(ctx, client, id, values) error
//   UnlinkResPartner(ctx, client, id) error
`
	assert.Equal(t, want, out)
}

func TestGenerateModelDeterministic(t *testing.T) {
	md := sampleMetadata()
	first := GenerateModel(md)
	// shuffle the field order; emitted order must not change
	md.Fields[0], md.Fields[3] = md.Fields[3], md.Fields[0]
	second := GenerateModel(md)
	assert.Equal(t, string(first), string(second))
}

func TestGenerateFile(t *testing.T) {
	out := string(GenerateFile("models", []introspect.Metadata{sampleMetadata()}))
	require.True(t, strings.HasPrefix(out, "// Code generated from server model metadata. DO NOT EDIT.\n\npackage models\n"))
	assert.Contains(t, out, "type ResPartner struct {")
}
