package odoo

import (
	"github.com/odoogo/odoogo/internal/common/apperrors"
)

// Error kind tags. These are stable identifiers intended for programmatic
// matching via apperrors.Error.Kind() or Structured(); message text is not
// part of the contract.
const (
	KindOdooError       = "ODOO_ERROR"       // base/generic failure
	KindRPCError        = "RPC_ERROR"        // generic server-side failure
	KindAuthError       = "AUTH_ERROR"       // bad credentials or access denied
	KindNetworkError    = "NETWORK_ERROR"    // transport/connection failure
	KindTimeoutError    = "TIMEOUT_ERROR"    // network failure due to timeout
	KindValidationError = "VALIDATION_ERROR" // server rejected input
	KindAccessError     = "ACCESS_ERROR"     // ACL denial, distinct from auth failure
	KindMissingError    = "MISSING_ERROR"    // referenced record no longer exists
	KindSafetyBlocked   = "SAFETY_BLOCKED"   // local guard rejection, never reached the network
)

// Base error
var (
	ErrOdoo apperrors.Error = apperrors.New("odoo client error").SetKind(KindOdooError)
)

// Server-side errors
var (
	ErrRPC        apperrors.Error = ErrOdoo.New("server-side RPC failure").SetKind(KindRPCError).SetExpandError(true)
	ErrValidation apperrors.Error = ErrOdoo.New("server rejected input").SetKind(KindValidationError).SetExpandError(true)
	ErrAccess     apperrors.Error = ErrOdoo.New("access denied by server ACL").SetKind(KindAccessError).SetExpandError(true)
	ErrMissing    apperrors.Error = ErrOdoo.New("referenced record does not exist").SetKind(KindMissingError).SetExpandError(true)
)

// Authentication errors
var (
	ErrAuth             apperrors.Error = ErrOdoo.New("authentication failed").SetKind(KindAuthError).SetExpandError(true)
	ErrNotAuthenticated apperrors.Error = ErrAuth.New("not authenticated: call Authenticate first").SetKind(KindAuthError)
)

// Transport errors. ErrTimeout derives from ErrNetwork so errors.Is against
// ErrNetwork matches both.
var (
	ErrNetwork apperrors.Error = ErrOdoo.New("network failure").SetKind(KindNetworkError).SetExpandError(true)
	ErrTimeout apperrors.Error = ErrNetwork.New("request timed out").SetKind(KindTimeoutError).SetExpandError(true)
)

// Local guard errors
var (
	ErrSafetyBlocked apperrors.Error = ErrOdoo.New("operation blocked by safety guard").SetKind(KindSafetyBlocked)
)

// Validation errors raised locally before any network call
var (
	ErrEmptyBody      apperrors.Error = ErrValidation.New("message body must be non-empty HTML or plain text")
	ErrInvalidConfig  apperrors.Error = ErrValidation.New("invalid client configuration")
	ErrMissingEnvVars apperrors.Error = ErrInvalidConfig.New("missing required environment variables")
)
