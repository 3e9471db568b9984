// Package apperrors provides a flexible error handling system that supports error wrapping,
// machine-readable kind tags, and message formatting. It implements the standard error
// interface while adding extended functionality for error chaining, kind-based
// classification, and structured projection.
package apperrors

// Error defines the interface for application errors. It extends the standard error
// interface with additional methods for error wrapping, message manipulation, and
// kind management. All methods return Error to support method chaining.
type Error interface {
	error
	Unwrap() error // support for errors.Is / errors.As

	// Extended methods
	New(msg string) Error                  // creates a new error using current as template
	Msg(msg string) Error                  // creates a new error with message and wraps original
	MsgErr(msg string, err ...error) Error // creates error with message and wraps extra errors
	Err(err ...error) Error                // attaches additional errors to current error
	SetExpandError(bool) Error             // controls whether ErrorAll expands wrapped errors
	SetKind(string) Error                  // sets the machine-readable kind tag
	Kind() string                          // returns the current kind tag
	SetDetails(any) Error                  // attaches a structured detail payload
	Details() any                          // returns the structured detail payload
	ErrorAll() string                      // returns full message including wrapped errors
	UnwrapAll() []error                    // returns all wrapped errors
	Structured() StructuredError           // stable projection for programmatic matching
}

// StructuredError is a stable, serializable projection of an Error. Calling agents
// and scripts should match on the Kind tag rather than on message text.
type StructuredError struct {
	Kind    string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}
