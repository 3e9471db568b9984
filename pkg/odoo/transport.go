// Package odoo provides a client library for the Odoo JSON-RPC API: session
// authentication, generic model operations through execute_kw, and a typed
// wrapper surface with local safety guards. The package requires a reachable
// /jsonrpc endpoint and a database name; everything else is per-call input.
package odoo

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/odoogo/odoogo/internal/common/apperrors"
	"github.com/odoogo/odoogo/internal/common/jsonrpc"
	"github.com/odoogo/odoogo/internal/common/logtrace"
	"github.com/odoogo/odoogo/pkg/types"
)

// Transport executes raw RPC calls against an Odoo server. It owns the session
// lifecycle; every other component goes through a Transport implementation so
// tests can substitute a recording fake.
type Transport interface {
	Authenticate(ctx context.Context, username, password string) (*Session, apperrors.Error)
	Call(ctx context.Context, service jsonrpc.Service, method string, args []any) (types.NullableAny, apperrors.Error)
	ExecuteKw(ctx context.Context, model, method string, args []any, kwargs map[string]any) (types.NullableAny, apperrors.Error)
	Session() *Session
	Logout()
}

// RPCTransport is the production Transport. It posts JSON-RPC 2.0 envelopes to
// a single /jsonrpc endpoint with a monotonically incrementing request id.
// Concurrent calls are independent requests; there is no pipelining or batching.
type RPCTransport struct {
	endpoint   string
	database   string
	httpClient *http.Client

	nextID atomic.Int64

	mu       sync.RWMutex
	session  *Session
	password string
}

// TransportOption configures an RPCTransport.
type TransportOption func(*RPCTransport)

// WithHTTPClient substitutes the underlying *http.Client. Timeout policy is
// deliberately left to this client; the transport enforces none of its own.
func WithHTTPClient(hc *http.Client) TransportOption {
	return func(t *RPCTransport) {
		t.httpClient = hc
	}
}

// WithInsecureTLS skips TLS certificate validation. Intended for development
// servers with self-signed certificates.
func WithInsecureTLS() TransportOption {
	return func(t *RPCTransport) {
		t.httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true,
			},
		}
	}
}

// NewTransport creates an RPCTransport for the given server URL and database.
// The URL may point at the server root or directly at the /jsonrpc endpoint.
func NewTransport(serverURL, database string, opts ...TransportOption) (*RPCTransport, apperrors.Error) {
	u, err := url.Parse(serverURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, ErrInvalidConfig.Msg("invalid server URL: " + serverURL)
	}
	if database == "" {
		return nil, ErrInvalidConfig.Msg("database name is required")
	}
	if !strings.HasSuffix(u.Path, "/jsonrpc") {
		u.Path = path.Join(u.Path, "jsonrpc")
	}

	t := &RPCTransport{
		endpoint:   u.String(),
		database:   database,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Session returns the current session, or nil if not authenticated.
func (t *RPCTransport) Session() *Session {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.session
}

// Logout clears the in-memory session and credentials. No server call is made;
// Odoo's RPC surface has no logout method for password sessions.
func (t *RPCTransport) Logout() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.session = nil
	t.password = ""
}

// Authenticate performs the common/login call. A numeric, non-zero user id in
// the result means success; zero, false, or a non-numeric result is an
// authentication failure regardless of HTTP status.
func (t *RPCTransport) Authenticate(ctx context.Context, username, password string) (*Session, apperrors.Error) {
	result, err := t.Call(ctx, jsonrpc.ServiceCommon, "login", []any{t.database, username, password})
	if err != nil {
		return nil, err
	}

	var uid int64
	if gerr := result.GetAs(&uid); gerr != nil || uid == 0 {
		return nil, ErrAuth.Msg("invalid credentials for database " + t.database)
	}

	session := &Session{UID: uid, Database: t.database}
	t.mu.Lock()
	t.session = session
	t.password = password
	t.mu.Unlock()

	log.Ctx(ctx).Debug().Int64("uid", uid).Str("database", t.database).Msg("authenticated")
	return session, nil
}

// ExecuteKw invokes a model method through the object/execute_kw entry point.
// Requires a prior successful Authenticate.
func (t *RPCTransport) ExecuteKw(ctx context.Context, model, method string, args []any, kwargs map[string]any) (types.NullableAny, apperrors.Error) {
	t.mu.RLock()
	session := t.session
	password := t.password
	t.mu.RUnlock()

	if session == nil {
		return types.NilAny(), ErrNotAuthenticated
	}
	if args == nil {
		args = []any{}
	}
	if kwargs == nil {
		kwargs = map[string]any{}
	}

	callArgs := []any{t.database, session.UID, password, model, method, args, kwargs}
	return t.Call(ctx, jsonrpc.ServiceObject, "execute_kw", callArgs)
}

// Call posts one JSON-RPC envelope and classifies the outcome. HTTP-level
// failure maps to NETWORK_ERROR (TIMEOUT_ERROR for timeouts); a JSON-RPC error
// object in a 200 response is classified by classifyServerError.
func (t *RPCTransport) Call(ctx context.Context, service jsonrpc.Service, method string, args []any) (types.NullableAny, apperrors.Error) {
	id := t.nextID.Add(1)
	ctx = logtrace.WithRPCID(ctx, id)

	payload, err := jsonrpc.ConstructCall(id, service, method, args)
	if err != nil {
		return types.NilAny(), ErrRPC.MsgErr("failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return types.NilAny(), ErrNetwork.MsgErr("failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	log.Ctx(ctx).Debug().Str("service", string(service)).Str("method", method).Msg("rpc call")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return types.NilAny(), classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.NilAny(), ErrNetwork.MsgErr("failed to read response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return types.NilAny(), ErrNetwork.
			Msg("server returned HTTP " + resp.Status).
			SetDetails(map[string]any{"status_code": resp.StatusCode})
	}

	parsed, err := jsonrpc.ParseResponse(body)
	if err != nil {
		return types.NilAny(), ErrRPC.MsgErr("malformed JSON-RPC response", err)
	}
	if parsed.Error != nil {
		cerr := classifyServerError(parsed.Error)
		log.Ctx(ctx).Debug().Str("kind", cerr.Kind()).Str("exception", parsed.Error.ExceptionName()).Msg("rpc error")
		return types.NilAny(), cerr
	}

	return parsed.Result, nil
}

// classifyTransportError maps a failed http.Client.Do into the taxonomy.
func classifyTransportError(err error) apperrors.Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout.Err(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout.Err(err)
	}
	return ErrNetwork.MsgErr("request failed", err)
}

// exceptionTypeKinds maps the structured exception_type tag newer servers emit.
var exceptionTypeKinds = map[string]apperrors.Error{
	"access_denied":    ErrAuth,
	"access_error":     ErrAccess,
	"validation_error": ErrValidation,
	"user_error":       ErrValidation,
	"missing_error":    ErrMissing,
}

// exceptionNameKinds maps substrings of the Python exception class name, used
// when the structured tag is absent. Older servers only expose the class name.
var exceptionNameKinds = []struct {
	substring string
	base      apperrors.Error
}{
	{"AccessDenied", ErrAuth},
	{"AccessError", ErrAccess},
	{"ValidationError", ErrValidation},
	{"UserError", ErrValidation},
	{"MissingError", ErrMissing},
}

// classifyServerError turns a JSON-RPC error object into a taxonomy error.
// Classification is two-tier because different server versions expose different
// levels of structure: the exception_type tag is checked first, then the
// exception class name, and anything unrecognized becomes a generic RPC error.
// The server's own message text is always preserved in the details payload.
func classifyServerError(obj *jsonrpc.ErrorObject) apperrors.Error {
	base := ErrRPC

	if obj.Data != nil && obj.Data.ExceptionType != "" {
		if mapped, ok := exceptionTypeKinds[obj.Data.ExceptionType]; ok {
			base = mapped
		}
	}
	if base == ErrRPC {
		name := obj.ExceptionName()
		for _, m := range exceptionNameKinds {
			if strings.Contains(name, m.substring) {
				base = m.base
				break
			}
		}
	}

	details := map[string]any{
		"message": obj.ServerMessage(),
	}
	if obj.Data != nil {
		if obj.Data.Name != "" {
			details["exception_name"] = obj.Data.Name
		}
		if obj.Data.ExceptionType != "" {
			details["exception_type"] = obj.Data.ExceptionType
		}
		if len(obj.Data.Arguments) > 0 {
			details["arguments"] = obj.Data.Arguments
		}
	}

	return base.Msg(obj.ServerMessage()).SetDetails(details)
}
