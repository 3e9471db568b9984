package apperrors

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	t.Run("TestError", func(t *testing.T) {
		ErrBaseErr := New("base error")
		assert.Equal(t, "base error", ErrBaseErr.Error())
		assert.Equal(t, "msg", ErrBaseErr.New("msg").Error())
		assert.ErrorIs(t, ErrBaseErr, ErrBaseErr)

		ErrFirstLevel := ErrBaseErr.New("first level")
		assert.Equal(t, "first level", ErrFirstLevel.Error())
		assert.ErrorIs(t, ErrFirstLevel, ErrBaseErr)

		ErrAnotherErr := New("another error")
		ErrAnotherErrMsg := ErrAnotherErr.Msg("another error msg")
		ErrYetAnotherErr := New("yet another error")
		ErrYetAnotherErrMsg := ErrYetAnotherErr.Msg("yet another error msg")
		ErrWrappedErr := ErrFirstLevel.Err(ErrAnotherErrMsg, ErrYetAnotherErrMsg)
		assert.Equal(t, "first level", ErrWrappedErr.Error())
		assert.ErrorIs(t, ErrWrappedErr, ErrBaseErr)
		assert.ErrorIs(t, ErrWrappedErr, ErrFirstLevel)
		assert.ErrorIs(t, ErrWrappedErr, ErrAnotherErr)
		assert.ErrorIs(t, ErrWrappedErr, ErrAnotherErrMsg)
		assert.ErrorIs(t, ErrWrappedErr, ErrYetAnotherErr)
		assert.ErrorIs(t, ErrWrappedErr, ErrYetAnotherErrMsg)

		err := errors.New("error")
		ErrWrappedErr = ErrFirstLevel.Err(err)
		assert.Equal(t, "first level", ErrWrappedErr.Error())
		assert.ErrorIs(t, ErrWrappedErr, ErrBaseErr)
		assert.ErrorIs(t, ErrWrappedErr, err)

		ErrWrappedErr = ErrFirstLevel.MsgErr("msg", err)
		assert.Equal(t, "msg", ErrWrappedErr.Error())
		assert.ErrorIs(t, ErrWrappedErr, ErrBaseErr)
		assert.ErrorIs(t, ErrWrappedErr, err)

		ErrAnotherGoErr := fmt.Errorf("another error")
		ErrYetAnotherGoErr := fmt.Errorf("yet another error")
		ErrWrappedGoErr := ErrFirstLevel.Err(ErrAnotherGoErr, ErrYetAnotherGoErr)
		assert.Equal(t, "first level", ErrWrappedGoErr.Error())
		assert.ErrorIs(t, ErrWrappedGoErr, ErrBaseErr)
		assert.ErrorIs(t, ErrWrappedGoErr, ErrAnotherGoErr)
		assert.ErrorIs(t, ErrWrappedGoErr, ErrYetAnotherGoErr)
	})
}

func TestErrorKind(t *testing.T) {
	ErrTagged := New("tagged error").SetKind("VALIDATION_ERROR")
	assert.Equal(t, "VALIDATION_ERROR", ErrTagged.Kind())

	// Kind must survive every chaining operation.
	assert.Equal(t, "VALIDATION_ERROR", ErrTagged.New("derived").Kind())
	assert.Equal(t, "VALIDATION_ERROR", ErrTagged.Msg("wrapped").Kind())
	assert.Equal(t, "VALIDATION_ERROR", ErrTagged.Err(fmt.Errorf("cause")).Kind())
	assert.Equal(t, "VALIDATION_ERROR", ErrTagged.MsgErr("wrapped", fmt.Errorf("cause")).Kind())

	// A derived error may override the tag.
	assert.Equal(t, "ACCESS_ERROR", ErrTagged.New("derived").SetKind("ACCESS_ERROR").Kind())
}

func TestErrorStructured(t *testing.T) {
	details := map[string]any{"field": "name"}
	err := New("server rejected input").SetKind("VALIDATION_ERROR").SetDetails(details)

	s := err.Structured()
	assert.Equal(t, "VALIDATION_ERROR", s.Kind)
	assert.Equal(t, "server rejected input", s.Message)
	assert.Equal(t, details, s.Details)

	expanded := err.SetExpandError(true).Err(errors.New("constraint failed"))
	s = expanded.Structured()
	assert.Contains(t, s.Message, "server rejected input")
	assert.Contains(t, s.Message, "constraint failed")
}
