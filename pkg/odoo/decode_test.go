package odoo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odoogo/odoogo/pkg/types"
)

func TestDecodeRecordFalseMeansUnset(t *testing.T) {
	type partner struct {
		Name   string `mapstructure:"name"`
		Email  string `mapstructure:"email"`
		Active bool   `mapstructure:"active"`
		Rank   int64  `mapstructure:"rank"`
	}

	var p partner
	err := DecodeRecord(map[string]any{
		"name":   "Test",
		"email":  false, // unset marker, not a boolean
		"active": false, // a real boolean, must survive
		"rank":   false,
	}, &p)
	require.Nil(t, err)
	assert.Equal(t, "Test", p.Name)
	assert.Equal(t, "", p.Email)
	assert.False(t, p.Active)
	assert.Zero(t, p.Rank)
}

func TestDecodeRecordNullableString(t *testing.T) {
	type field struct {
		Help types.NullableString `mapstructure:"help"`
	}

	var set field
	require.Nil(t, DecodeRecord(map[string]any{"help": "A tooltip."}, &set))
	assert.True(t, set.Help.Valid)
	assert.Equal(t, "A tooltip.", set.Help.String())

	// false decodes to the null state, distinct from an empty string
	var unset field
	require.Nil(t, DecodeRecord(map[string]any{"help": false}, &unset))
	assert.False(t, unset.Help.Valid)
	assert.True(t, unset.Help.IsNil())

	var bad field
	err := DecodeRecord(map[string]any{"help": true}, &bad)
	require.NotNil(t, err)
}
