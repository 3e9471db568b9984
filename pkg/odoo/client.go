package odoo

import (
	"context"

	"github.com/odoogo/odoogo/internal/common/apperrors"
	"github.com/odoogo/odoogo/pkg/types"
)

// Record is one model record as returned by read/search_read: field name to
// value, with Odoo's usual read-format quirks (many2one as [id, display_name],
// unset scalars as false).
type Record map[string]any

// SearchOptions are the optional paging parameters for Search and SearchRead.
type SearchOptions struct {
	Offset int
	Limit  int
	Order  string
}

// Client is a thin, typed shaping layer over a Transport. Every method requires
// a prior successful Authenticate; calling anything beforehand fails with
// AUTH_ERROR without touching the network. A single Client holds one logical
// session; concurrent calls race at the transport level without ordering
// guarantees.
type Client struct {
	transport Transport
	confirm   ConfirmFunc
}

// ClientOption configures a Client at construction time. The confirmation
// policy is threaded in explicitly; there is no mutable process-wide default.
type ClientOption func(*Client)

// WithConfirm installs a confirmation callback consulted before every non-read
// operation. A nil callback leaves the client in pass-through mode.
func WithConfirm(f ConfirmFunc) ClientOption {
	return func(c *Client) {
		c.confirm = f
	}
}

// NewClient creates a Client over the given transport.
func NewClient(transport Transport, opts ...ClientOption) *Client {
	c := &Client{transport: transport}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Transport returns the underlying transport.
func (c *Client) Transport() Transport {
	return c.transport
}

// Authenticate logs in and establishes the session used by all other methods.
func (c *Client) Authenticate(ctx context.Context, username, password string) (*Session, apperrors.Error) {
	return c.transport.Authenticate(ctx, username, password)
}

// Logout clears the session. Subsequent calls fail with AUTH_ERROR.
func (c *Client) Logout() {
	c.transport.Logout()
}

// Call is the generic escape hatch every typed method is built on. It checks
// authentication, consults the safety guard, and only then touches the network.
func (c *Client) Call(ctx context.Context, model, method string, args []any, kwargs map[string]any) (types.NullableAny, apperrors.Error) {
	session := c.transport.Session()
	if session == nil {
		return types.NilAny(), ErrNotAuthenticated
	}

	level := InferLevel(method)
	if level != LevelRead && c.confirm != nil {
		op := Operation{
			Name:        method,
			Level:       level,
			Model:       model,
			Description: level.String() + " " + method + " on " + model,
		}
		if !c.confirm(op) {
			return types.NilAny(), ErrSafetyBlocked.Msg("blocked: " + op.Description)
		}
	}

	return c.transport.ExecuteKw(ctx, model, method, args, kwargs)
}

// Search returns the ids of records matching the domain.
func (c *Client) Search(ctx context.Context, model string, domain Domain, opts *SearchOptions) ([]int64, apperrors.Error) {
	if domain == nil {
		domain = Domain{}
	}
	kwargs := searchKwargs(opts)

	result, err := c.Call(ctx, model, "search", []any{domain}, kwargs)
	if err != nil {
		return nil, err
	}

	var ids []int64
	if gerr := result.GetAs(&ids); gerr != nil {
		return nil, ErrRPC.MsgErr("unexpected search result shape", gerr)
	}
	return ids, nil
}

// SearchCount returns the number of records matching the domain.
func (c *Client) SearchCount(ctx context.Context, model string, domain Domain) (int64, apperrors.Error) {
	if domain == nil {
		domain = Domain{}
	}
	result, err := c.Call(ctx, model, "search_count", []any{domain}, nil)
	if err != nil {
		return 0, err
	}
	var n int64
	if gerr := result.GetAs(&n); gerr != nil {
		return 0, ErrRPC.MsgErr("unexpected search_count result shape", gerr)
	}
	return n, nil
}

// Read fetches the given fields for the given ids. Always returns a slice,
// in server order, even for a single id.
func (c *Client) Read(ctx context.Context, model string, ids []int64, fields []string) ([]Record, apperrors.Error) {
	if fields == nil {
		fields = []string{}
	}
	kwargs := map[string]any{"fields": fields}

	result, err := c.Call(ctx, model, "read", []any{ids}, kwargs)
	if err != nil {
		return nil, err
	}

	var records []Record
	if gerr := result.GetAs(&records); gerr != nil {
		return nil, ErrRPC.MsgErr("unexpected read result shape", gerr)
	}
	return records, nil
}

// ReadOne fetches a single record by id. Returns MISSING_ERROR if the record
// does not exist (read of a stale id yields an empty result set).
func (c *Client) ReadOne(ctx context.Context, model string, id int64, fields []string) (Record, apperrors.Error) {
	records, err := c.Read(ctx, model, []int64{id}, fields)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrMissing.Msg("no record for id")
	}
	return records[0], nil
}

// SearchRead combines Search and Read in one server round trip.
func (c *Client) SearchRead(ctx context.Context, model string, domain Domain, fields []string, opts *SearchOptions) ([]Record, apperrors.Error) {
	if domain == nil {
		domain = Domain{}
	}
	if fields == nil {
		fields = []string{}
	}
	kwargs := searchKwargs(opts)
	kwargs["fields"] = fields

	result, err := c.Call(ctx, model, "search_read", []any{domain}, kwargs)
	if err != nil {
		return nil, err
	}

	var records []Record
	if gerr := result.GetAs(&records); gerr != nil {
		return nil, ErrRPC.MsgErr("unexpected search_read result shape", gerr)
	}
	return records, nil
}

// Create inserts one record and returns its id. recordContext, when non-nil,
// is passed as the Odoo context kwarg (e.g. lang, tz, default_* keys).
func (c *Client) Create(ctx context.Context, model string, values Record, recordContext map[string]any) (int64, apperrors.Error) {
	kwargs := contextKwargs(recordContext)

	result, err := c.Call(ctx, model, "create", []any{values}, kwargs)
	if err != nil {
		return 0, err
	}

	var id int64
	if gerr := result.GetAs(&id); gerr != nil {
		return 0, ErrRPC.MsgErr("unexpected create result shape", gerr)
	}
	return id, nil
}

// Write updates the given fields on the given ids. The server returns true on
// success; any failure surfaces as a classified error.
func (c *Client) Write(ctx context.Context, model string, ids []int64, values Record, recordContext map[string]any) (bool, apperrors.Error) {
	kwargs := contextKwargs(recordContext)

	result, err := c.Call(ctx, model, "write", []any{ids, values}, kwargs)
	if err != nil {
		return false, err
	}
	return !result.IsFalse(), nil
}

// WriteOne updates a single record.
func (c *Client) WriteOne(ctx context.Context, model string, id int64, values Record, recordContext map[string]any) (bool, apperrors.Error) {
	return c.Write(ctx, model, []int64{id}, values, recordContext)
}

// Unlink deletes the given ids.
func (c *Client) Unlink(ctx context.Context, model string, ids []int64) (bool, apperrors.Error) {
	result, err := c.Call(ctx, model, "unlink", []any{ids}, nil)
	if err != nil {
		return false, err
	}
	return !result.IsFalse(), nil
}

// UnlinkOne deletes a single record.
func (c *Client) UnlinkOne(ctx context.Context, model string, id int64) (bool, apperrors.Error) {
	return c.Unlink(ctx, model, []int64{id})
}

func searchKwargs(opts *SearchOptions) map[string]any {
	kwargs := map[string]any{}
	if opts == nil {
		return kwargs
	}
	if opts.Offset > 0 {
		kwargs["offset"] = opts.Offset
	}
	if opts.Limit > 0 {
		kwargs["limit"] = opts.Limit
	}
	if opts.Order != "" {
		kwargs["order"] = opts.Order
	}
	return kwargs
}

func contextKwargs(recordContext map[string]any) map[string]any {
	kwargs := map[string]any{}
	if len(recordContext) > 0 {
		kwargs["context"] = recordContext
	}
	return kwargs
}
