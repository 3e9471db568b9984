package odoo

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"

	"github.com/odoogo/odoogo/internal/common/apperrors"
	"github.com/odoogo/odoogo/pkg/types"
)

// DecodeRecord decodes a raw RPC result value into a typed struct or slice.
// Odoo reports unset values as the JSON literal false regardless of the field
// type, so decode hooks map false onto the target's zero value for non-boolean
// destinations, or onto the null state for types.NullableString targets that
// keep the unset/empty distinction.
func DecodeRecord(input any, output any) apperrors.Error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(nullableStringHook, falseToZeroHook),
		Result:     output,
	})
	if err != nil {
		return ErrRPC.MsgErr("failed to build record decoder", err)
	}
	if err := decoder.Decode(input); err != nil {
		return ErrRPC.MsgErr("unexpected record shape", err)
	}
	return nil
}

var nullableStringType = reflect.TypeOf(types.NullableString{})

func nullableStringHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != nullableStringType {
		return data, nil
	}
	switch v := data.(type) {
	case bool:
		if v {
			return nil, fmt.Errorf("cannot decode true into a string field")
		}
		return types.NullString(), nil
	case nil:
		return types.NullString(), nil
	case string:
		return types.NullableStringFrom(v), nil
	}
	return data, nil
}

func falseToZeroHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.Bool || to.Kind() == reflect.Bool || to.Kind() == reflect.Interface {
		return data, nil
	}
	if b, ok := data.(bool); ok && !b {
		return reflect.Zero(to).Interface(), nil
	}
	return data, nil
}
