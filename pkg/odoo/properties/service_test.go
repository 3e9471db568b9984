package properties

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odoogo/odoogo/pkg/odoo"
	"github.com/odoogo/odoogo/pkg/odoo/odootest"
)

// propertiesModel emulates the server-side behavior of a properties field:
// reads return self-describing entries built from the definition set, and
// writes replace the entire value map, resetting omitted names to false.
type propertiesModel struct {
	mu          sync.Mutex
	definitions []Entry // value carries no meaning here
	values      map[string]any
}

func newPropertiesFake(srv *odootest.Server, model, field string, definitions []Entry) *propertiesModel {
	pm := &propertiesModel{definitions: definitions, values: map[string]any{}}

	srv.Handle(model, "read", func(args []any, kwargs map[string]any) (any, *odootest.ServerError) {
		pm.mu.Lock()
		defer pm.mu.Unlock()
		entries := []any{}
		for _, def := range pm.definitions {
			value, ok := pm.values[def.Name]
			if !ok {
				value = false // total replace resets omitted names
			}
			entries = append(entries, map[string]any{
				"name":   def.Name,
				"type":   string(def.Type),
				"string": def.Label,
				"value":  value,
			})
		}
		return []any{map[string]any{"id": float64(1), field: entries}}, nil
	})

	srv.Handle(model, "write", func(args []any, kwargs map[string]any) (any, *odootest.ServerError) {
		values, ok := args[1].(map[string]any)
		if !ok {
			return nil, &odootest.ServerError{Name: "builtins.TypeError", Message: "bad write payload"}
		}
		raw, ok := values[field].(map[string]any)
		if !ok {
			return nil, &odootest.ServerError{Name: "odoo.exceptions.ValidationError", Message: "expected write-format map"}
		}
		pm.mu.Lock()
		pm.values = map[string]any{}
		for k, v := range raw {
			pm.values[k] = v
		}
		pm.mu.Unlock()
		return true, nil
	})

	return pm
}

func setup(t *testing.T) (*odoo.Client, *Service, *propertiesModel, func()) {
	t.Helper()
	srv := odootest.New()
	pm := newPropertiesFake(srv, "crm.lead", "lead_properties", []Entry{
		{Name: "test_field", Type: TypeChar, Label: "Test Field"},
		{Name: "test_number", Type: TypeInteger, Label: "Test Number"},
	})

	transport, err := odoo.NewTransport(srv.URL(), "test-db")
	require.Nil(t, err)
	client := odoo.NewClient(transport)
	_, err = client.Authenticate(context.Background(), "admin", "admin")
	require.Nil(t, err)

	return client, NewService(client), pm, srv.Close
}

func TestTotalReplaceInvariant(t *testing.T) {
	_, svc, _, teardown := setup(t)
	defer teardown()
	ctx := context.Background()

	require.Nil(t, svc.Replace(ctx, "crm.lead", 1, "lead_properties", map[string]any{
		"test_field":  "one",
		"test_number": 2,
	}))

	// a second write naming only one property resets the other
	require.Nil(t, svc.Replace(ctx, "crm.lead", 1, "lead_properties", map[string]any{
		"test_field": "nine",
	}))

	entries, err := svc.Read(ctx, "crm.lead", 1, "lead_properties")
	require.Nil(t, err)

	v, ok := Value(entries, "test_field")
	require.True(t, ok)
	assert.Equal(t, "nine", v)

	v, ok = Value(entries, "test_number")
	require.True(t, ok)
	assert.Equal(t, false, v) // reset, not preserved
}

func TestSafePartialUpdate(t *testing.T) {
	_, svc, _, teardown := setup(t)
	defer teardown()
	ctx := context.Background()

	require.Nil(t, svc.Replace(ctx, "crm.lead", 1, "lead_properties", map[string]any{
		"test_field":  "Initial",
		"test_number": 42,
	}))

	require.Nil(t, svc.UpdateProperty(ctx, "crm.lead", 1, "lead_properties", "test_field", "Updated"))

	entries, err := svc.Read(ctx, "crm.lead", 1, "lead_properties")
	require.Nil(t, err)

	v, _ := Value(entries, "test_field")
	assert.Equal(t, "Updated", v)
	v, _ = Value(entries, "test_number")
	assert.Equal(t, float64(42), v) // unrelated key preserved by the merge
}

func TestReadModifyWriteRoundTrip(t *testing.T) {
	_, svc, pm, teardown := setup(t)
	defer teardown()
	ctx := context.Background()

	require.Nil(t, svc.Replace(ctx, "crm.lead", 1, "lead_properties", map[string]any{
		"test_field":  "keep-me",
		"test_number": 7,
	}))

	require.Nil(t, svc.UpdateProperties(ctx, "crm.lead", 1, "lead_properties", map[string]any{
		"test_number": 8,
	}))

	pm.mu.Lock()
	defer pm.mu.Unlock()
	assert.Equal(t, "keep-me", pm.values["test_field"])
	assert.Equal(t, float64(8), pm.values["test_number"])
}
