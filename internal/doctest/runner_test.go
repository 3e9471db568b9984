package doctest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odoogo/odoogo/internal/common/apperrors"
	"github.com/odoogo/odoogo/pkg/odoo"
	"github.com/odoogo/odoogo/pkg/odoo/odootest"
)

func TestRunnerExpectBoolean(t *testing.T) {
	r := NewRunner(Deps{})
	r.Register("count", func(ctx context.Context, deps Deps) (any, apperrors.Error) {
		return int64(3), nil
	})

	report := r.Run(context.Background(), []Block{{ID: "count", Expect: "result > 0"}})
	require.Len(t, report.Results, 1)
	assert.True(t, report.Passed())
	assert.NotEmpty(t, report.RunID)
}

func TestRunnerExpectFailure(t *testing.T) {
	r := NewRunner(Deps{})
	r.Register("count", func(ctx context.Context, deps Deps) (any, apperrors.Error) {
		return int64(0), nil
	})

	report := r.Run(context.Background(), []Block{{ID: "count", Expect: "result > 0"}})
	assert.False(t, report.Passed())
	assert.Equal(t, 1, report.Failed())
	require.NotNil(t, report.Results[0].Err)
	assert.ErrorIs(t, report.Results[0].Err, ErrExpectFailed)
}

func TestRunnerExpectObjectCanonical(t *testing.T) {
	r := NewRunner(Deps{})
	r.Register("shape", func(ctx context.Context, deps Deps) (any, apperrors.Error) {
		return map[string]any{"name": "Test", "count": 2}, nil
	})

	// key order in the expectation differs from the result; canonical JSON
	// comparison must not care
	report := r.Run(context.Background(), []Block{{
		ID:     "shape",
		Expect: `({count: 2, name: "Test"})`,
	}})
	assert.True(t, report.Passed())
}

func TestRunnerExpectInvalidExpression(t *testing.T) {
	r := NewRunner(Deps{})
	r.Register("x", func(ctx context.Context, deps Deps) (any, apperrors.Error) {
		return 1, nil
	})

	report := r.Run(context.Background(), []Block{{ID: "x", Expect: "result +"}})
	assert.False(t, report.Passed())
	assert.ErrorIs(t, report.Results[0].Err, ErrExpectInvalid)
}

func TestRunnerUnknownBlock(t *testing.T) {
	r := NewRunner(Deps{})
	report := r.Run(context.Background(), []Block{{ID: "never-registered"}})
	assert.False(t, report.Passed())
	assert.ErrorIs(t, report.Results[0].Err, ErrUnknownBlock)
}

func TestRunnerContinuesPastFailures(t *testing.T) {
	r := NewRunner(Deps{})
	r.Register("fails", func(ctx context.Context, deps Deps) (any, apperrors.Error) {
		return nil, odoo.ErrRPC.Msg("boom")
	})
	r.Register("passes", func(ctx context.Context, deps Deps) (any, apperrors.Error) {
		return true, nil
	})

	report := r.Run(context.Background(), []Block{
		{ID: "fails"},
		{ID: "passes", Expect: "result === true"},
	})
	require.Len(t, report.Results, 2)
	assert.False(t, report.Results[0].Passed)
	assert.True(t, report.Results[1].Passed)
	assert.Equal(t, 1, report.Failed())
}

func TestRunnerCreatesCleanup(t *testing.T) {
	srv := odootest.New()
	t.Cleanup(srv.Close)
	partners := odootest.NewModelStore(srv, "res.partner")

	transport, err := odoo.NewTransport(srv.URL(), "test-db")
	require.Nil(t, err)
	client := odoo.NewClient(transport)
	_, err = client.Authenticate(context.Background(), "admin", "admin")
	require.Nil(t, err)

	r := NewRunner(Deps{Client: client})
	r.Register("create-partner", func(ctx context.Context, deps Deps) (any, apperrors.Error) {
		return deps.Client.Create(ctx, "res.partner", odoo.Record{"name": "Doc"}, nil)
	})

	report := r.Run(context.Background(), []Block{{
		ID:      "create-partner",
		Creates: "res.partner",
		Expect:  "result > 0",
	}})
	require.True(t, report.Passed())

	// the created record was torn down when the run finished
	id, ok := report.Results[0].Result.(int64)
	require.True(t, ok)
	_, exists := partners.Get(id)
	assert.False(t, exists)
}

func TestRunnerCleanupSwallowsErrors(t *testing.T) {
	srv := odootest.New()
	t.Cleanup(srv.Close)
	srv.Handle("res.partner", "create", func(args []any, kwargs map[string]any) (any, *odootest.ServerError) {
		return int64(41), nil
	})
	srv.Handle("res.partner", "unlink", func(args []any, kwargs map[string]any) (any, *odootest.ServerError) {
		return nil, &odootest.ServerError{Name: "odoo.exceptions.AccessError", Message: "nope"}
	})

	transport, err := odoo.NewTransport(srv.URL(), "test-db")
	require.Nil(t, err)
	client := odoo.NewClient(transport)
	_, err = client.Authenticate(context.Background(), "admin", "admin")
	require.Nil(t, err)

	r := NewRunner(Deps{Client: client})
	r.Register("create", func(ctx context.Context, deps Deps) (any, apperrors.Error) {
		return deps.Client.Create(ctx, "res.partner", odoo.Record{"name": "x"}, nil)
	})

	// a failing unlink during teardown must not affect the verdict
	report := r.Run(context.Background(), []Block{{ID: "create", Creates: "res.partner"}})
	assert.True(t, report.Passed())
}
