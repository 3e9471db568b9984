package types

import (
	"bytes"
	"encoding/json"
)

// NullableString represents a nullable string value in an Odoo record payload.
// Odoo reports unset char/text/help values as the JSON literal false, so
// unmarshaling treats false, null, and absence identically.
type NullableString struct {
	Value string
	Valid bool // Valid is true if Value was present and not false/null
}

// String returns the string value if valid, or an empty string if null.
func (ns NullableString) String() string {
	if ns.Valid {
		return ns.Value
	}
	return ""
}

// IsNil implements the Nullable interface.
// An empty string with Valid=true is still considered nil for Odoo purposes,
// since the server does not distinguish "" from unset on write.
func (ns NullableString) IsNil() bool {
	return !ns.Valid || ns.Value == ""
}

// Set assigns a string value and marks the NullableString as valid.
func (ns *NullableString) Set(value string) {
	ns.Value = value
	ns.Valid = true
}

// MarshalJSON returns the string value as JSON if valid, or false if unset,
// matching the write convention the server expects for clearable fields.
func (ns NullableString) MarshalJSON() ([]byte, error) {
	if ns.Valid {
		return json.Marshal(ns.Value)
	}
	return json.Marshal(false)
}

// UnmarshalJSON accepts a JSON string, null, or the Odoo unset marker false.
func (ns *NullableString) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte("false")) {
		ns.Value = ""
		ns.Valid = false
		return nil
	}
	ns.Valid = true
	return json.Unmarshal(data, &ns.Value)
}

// NullableStringFrom creates a valid NullableString from a string value.
func NullableStringFrom(s string) NullableString {
	return NullableString{Value: s, Valid: true}
}

// NullString creates a NullableString that represents an unset value.
func NullString() NullableString {
	return NullableString{Value: "", Valid: false}
}

var _ json.Marshaler = &NullableString{}
var _ json.Unmarshaler = &NullableString{}
var _ Nullable = &NullableString{}
