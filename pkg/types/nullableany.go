package types

import (
	"bytes"
	"encoding/json"
	"errors"
)

// NullableAny carries an arbitrary JSON value while distinguishing "absent" from
// every encodable value, including Odoo's false-means-unset convention. It is the
// carrier for RPC keyword arguments and context values, where sending null and
// omitting a key are different requests.
type NullableAny struct {
	value json.RawMessage
	valid bool // valid is true if value is set
}

// IsNil returns true if no value is set.
func (na NullableAny) IsNil() bool {
	return !na.valid
}

// Set stores a value, marshaling it to JSON unless it is already valid raw JSON.
func (na *NullableAny) Set(value any) error {
	var jsonValue json.RawMessage

	switch v := value.(type) {
	case json.RawMessage:
		if !json.Valid(v) {
			na.value = nil
			na.valid = false
			return errors.New("value is not valid JSON")
		}
		jsonValue = v
	case []byte:
		if !json.Valid(v) {
			marshaled, err := json.Marshal(value)
			if err != nil {
				na.value = nil
				na.valid = false
				return err
			}
			jsonValue = marshaled
		} else {
			jsonValue = v
		}
	default:
		marshaled, err := json.Marshal(value)
		if err != nil {
			na.value = nil
			na.valid = false
			return err
		}
		jsonValue = marshaled
	}

	na.value = jsonValue
	na.valid = true
	return nil
}

// Get returns the decoded value, or nil if unset or undecodable.
func (na NullableAny) Get() any {
	if na.valid {
		var v any
		if err := json.Unmarshal(na.value, &v); err != nil {
			return nil
		}
		return v
	}
	return nil
}

// GetAs decodes the value into v. Returns an error if no value is set.
func (na NullableAny) GetAs(v any) error {
	if na.valid {
		return json.Unmarshal(na.value, v)
	}
	return errors.New("value is not set")
}

// Equals compares two NullableAny values by raw JSON bytes.
func (na NullableAny) Equals(other NullableAny) bool {
	if na.valid && other.valid {
		return bytes.Equal(na.value, other.value)
	}
	return na.valid == other.valid
}

// IsFalse reports whether the value is the JSON literal false, which Odoo uses
// as the unset marker in read results.
func (na NullableAny) IsFalse() bool {
	return na.valid && bytes.Equal(bytes.TrimSpace(na.value), []byte("false"))
}

// MarshalJSON implements json.Marshaler.
func (na NullableAny) MarshalJSON() ([]byte, error) {
	if na.valid {
		return na.value, nil
	}
	return json.Marshal(nil)
}

// UnmarshalJSON implements json.Unmarshaler.
func (na *NullableAny) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		na.value = nil
		na.valid = false
		return nil
	}
	if !json.Valid(data) {
		na.value = nil
		na.valid = false
		return errors.New("invalid JSON")
	}
	na.value = data
	na.valid = true
	return nil
}

// NullableAnyFrom creates a NullableAny from any JSON-serializable value.
func NullableAnyFrom(value any) (NullableAny, error) {
	var na NullableAny
	if err := na.Set(value); err != nil {
		return NullableAny{}, err
	}
	return na, nil
}

// NullableAnySetRaw wraps raw JSON without validation.
func NullableAnySetRaw(value json.RawMessage) NullableAny {
	return NullableAny{
		value: value,
		valid: true,
	}
}

// NilAny returns a NullableAny with no value set.
func NilAny() NullableAny {
	return NullableAny{
		value: nil,
		valid: false,
	}
}

var _ json.Marshaler = &NullableAny{}
var _ json.Unmarshaler = &NullableAny{}
var _ Nullable = &NullableAny{}
var _ json.Marshaler = NullableAny{}
