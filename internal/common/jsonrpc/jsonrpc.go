// Package jsonrpc provides utilities for handling the JSON-RPC 2.0 dialect spoken
// by the Odoo /jsonrpc endpoint. Every request carries the outer method "call" and
// routes to a server-side service/method pair through the params object. The package
// requires valid JSON-serializable types for arguments and results.
package jsonrpc

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/odoogo/odoogo/pkg/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Version specifies the JSON-RPC protocol version
const Version = "2.0"

// CallMethod is the only outer method the Odoo endpoint accepts.
const CallMethod = "call"

// Service identifies the server-side dispatch target.
type Service string

// Services exposed by the Odoo RPC surface.
const (
	ServiceCommon Service = "common" // login, version, authentication
	ServiceObject Service = "object" // execute_kw for every model operation
)

// Params routes a call to a service/method pair with positional arguments.
type Params struct {
	Service Service `json:"service"`
	Method  string  `json:"method"`
	Args    []any   `json:"args"`
}

// Request represents a JSON-RPC 2.0 request in the Odoo dialect.
// ID is a monotonically incrementing integer assigned by the transport.
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  Params `json:"params"`
	ID      int64  `json:"id"`
}

// Response represents a JSON-RPC 2.0 response.
// Either Result or Error is set, but not both. Result is nullable because a
// successful call may legitimately return null or false.
type Response struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      int64             `json:"id"`
	Result  types.NullableAny `json:"result,omitempty"`
	Error   *ErrorObject      `json:"error,omitempty"`
}

// ErrorObject represents a JSON-RPC 2.0 error object.
// Odoo nests the server exception description under Data.
type ErrorObject struct {
	Code    int        `json:"code"`
	Message string     `json:"message"`
	Data    *ErrorData `json:"data,omitempty"`
}

// ErrorData is the structured payload Odoo attaches to a server-side failure.
// ExceptionType is only present on newer server versions; Name carries the fully
// qualified Python exception class on all versions.
type ErrorData struct {
	Name          string `json:"name,omitempty"`
	Message       string `json:"message,omitempty"`
	ExceptionType string `json:"exception_type,omitempty"`
	Arguments     []any  `json:"arguments,omitempty"`
	Debug         string `json:"debug,omitempty"`
}

// ConstructCall creates a JSON-RPC call envelope for the given service/method pair.
// Returns an error if any argument cannot be serialized.
func ConstructCall(id int64, service Service, method string, args []any) ([]byte, error) {
	if args == nil {
		args = []any{}
	}
	req := Request{
		JSONRPC: Version,
		Method:  CallMethod,
		Params: Params{
			Service: service,
			Method:  method,
			Args:    args,
		},
		ID: id,
	}
	return json.Marshal(req)
}

// ParseRequest unmarshals a JSON-RPC call envelope.
// Returns an error if the request is invalid or missing required fields.
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	if req.JSONRPC != Version || req.Method != CallMethod {
		return nil, errors.New("invalid JSON-RPC request")
	}
	if req.Params.Service == "" || req.Params.Method == "" {
		return nil, errors.New("missing service or method")
	}
	return &req, nil
}

// ParseResponse unmarshals a JSON-RPC response.
// Returns an error if the response is invalid or carries both result and error.
func ParseResponse(data []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	if resp.JSONRPC != Version {
		return nil, errors.New("invalid JSON-RPC response")
	}
	if !resp.Result.IsNil() && resp.Error != nil {
		return nil, errors.New("response must have either result or error")
	}
	return &resp, nil
}

// ExceptionName returns the server exception class name from the error payload,
// or the top-level message when no structured data is present.
func (e *ErrorObject) ExceptionName() string {
	if e.Data != nil && e.Data.Name != "" {
		return e.Data.Name
	}
	return e.Message
}

// ServerMessage returns the human-readable message the server attached to the
// failure, preferring the nested exception message over the envelope message.
func (e *ErrorObject) ServerMessage() string {
	if e.Data != nil && e.Data.Message != "" {
		return e.Data.Message
	}
	return e.Message
}
