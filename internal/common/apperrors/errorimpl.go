package apperrors

import (
	"errors"
	"strings"
)

// appError implements the apperrors.Error interface. It provides a concrete implementation
// of the Error interface with support for error wrapping, kind tags, and detail payloads.
type appError struct {
	msg           string  // primary error message
	base          error   // base error for errors.Is/As compatibility
	wrappedErrors []error // additional wrapped errors
	kind          string  // machine-readable kind tag
	details       any     // structured detail payload
	expandError   bool    // controls error message expansion
}

// Error returns the error message without mutating state.
func (e *appError) Error() string {
	return e.msg
}

// ErrorAll returns the full message including wrapped errors if expandError is true.
// Otherwise, returns the same as Error().
func (e *appError) ErrorAll() string {
	if !e.expandError {
		return e.Error()
	}
	var b strings.Builder
	b.WriteString(e.Error())
	for _, err := range e.wrappedErrors {
		b.WriteString("; ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Unwrap returns the base error for compatibility with errors.Is / errors.As.
func (e *appError) Unwrap() error {
	return e.base
}

// UnwrapAll returns all wrapped errors in the order they were added.
func (e *appError) UnwrapAll() []error {
	return e.wrappedErrors
}

// Msg creates a new error with a new message and wraps the original error.
// The new error inherits the kind tag from the original.
func (e *appError) Msg(msg string) Error {
	return &appError{
		msg:           msg,
		base:          e,
		wrappedErrors: append([]error{e}, e.wrappedErrors...),
		kind:          e.kind,
		details:       e.details,
	}
}

// New creates a fresh error using the current error as a template.
// The new error inherits the kind tag but starts with a new message.
func (e *appError) New(msg string) Error {
	return &appError{
		msg:  msg,
		base: e,
		kind: e.kind,
	}
}

// MsgErr creates a new error with a message and wraps additional errors.
// The new error inherits the kind tag from the original.
func (e *appError) MsgErr(msg string, errs ...error) Error {
	all := append([]error{e}, errs...)
	return &appError{
		msg:           msg,
		base:          e,
		wrappedErrors: all,
		kind:          e.kind,
		details:       e.details,
	}
}

// Err creates a new error by attaching additional errors to the current error.
// The new error maintains the original message and kind tag.
func (e *appError) Err(errs ...error) Error {
	all := append([]error{e}, errs...)
	return &appError{
		msg:           e.msg,
		base:          e,
		wrappedErrors: all,
		kind:          e.kind,
		details:       e.details,
	}
}

// SetExpandError returns a shallow copy with an updated expansion flag.
// The original error remains unchanged.
func (e *appError) SetExpandError(flag bool) Error {
	cp := *e
	cp.expandError = flag
	return &cp
}

// SetKind returns a shallow copy with an updated kind tag.
// The original error remains unchanged.
func (e *appError) SetKind(kind string) Error {
	cp := *e
	cp.kind = kind
	return &cp
}

// Kind returns the current machine-readable kind tag.
func (e *appError) Kind() string {
	return e.kind
}

// SetDetails returns a shallow copy with an updated detail payload.
// The original error remains unchanged.
func (e *appError) SetDetails(details any) Error {
	cp := *e
	cp.details = details
	return &cp
}

// Details returns the structured detail payload, or nil if none was set.
func (e *appError) Details() any {
	return e.details
}

// Structured returns the stable projection of the error. The Kind tag is
// preserved through Msg/MsgErr/Err chains so callers can always match on it.
func (e *appError) Structured() StructuredError {
	return StructuredError{
		Kind:    e.kind,
		Message: e.ErrorAll(),
		Details: e.details,
	}
}

// New creates a root-level appError with the given message.
// This is the entry point for creating new errors.
func New(msg string) Error {
	return &appError{
		msg: msg,
	}
}

// Is checks if the error is equal to the target error by checking
// both the base error and all wrapped errors.
func (e *appError) Is(target error) bool {
	if target == nil {
		return false
	}
	if errors.Is(e.base, target) {
		return true
	}
	for _, err := range e.wrappedErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
