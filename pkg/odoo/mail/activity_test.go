package mail

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odoogo/odoogo/pkg/odoo"
	"github.com/odoogo/odoogo/pkg/odoo/odootest"
)

func newActivityFixture(t *testing.T) (*Service, *odootest.ModelStore, *odootest.Server) {
	t.Helper()
	srv := odootest.New()
	t.Cleanup(srv.Close)

	registry := odootest.NewModelStore(srv, "ir.model")
	registry.Create(map[string]any{"model": "res.partner", "name": "Contact"})
	activities := odootest.NewModelStore(srv, "mail.activity")

	transport, err := odoo.NewTransport(srv.URL(), "test-db")
	require.Nil(t, err)
	client := odoo.NewClient(transport)
	_, err = client.Authenticate(context.Background(), "admin", "admin")
	require.Nil(t, err)

	return NewService(client), activities, srv
}

func TestScheduleActivity(t *testing.T) {
	svc, activities, _ := newActivityFixture(t)

	id, err := svc.ScheduleActivity(context.Background(), ActivityRequest{
		Model:    "res.partner",
		ResID:    7,
		TypeID:   4,
		Summary:  "Call back",
		Note:     "ask about renewal",
		Deadline: "2026-09-15",
	})
	require.Nil(t, err)

	rec, ok := activities.Get(id)
	require.True(t, ok)
	// the record model is stored as its registry id, not the technical name
	assert.Equal(t, float64(1), rec["res_model_id"])
	assert.Equal(t, float64(7), rec["res_id"])
	assert.Equal(t, float64(4), rec["activity_type_id"])
	assert.Equal(t, "Call back", rec["summary"])
	assert.Equal(t, "<p>ask about renewal</p>", rec["note"])
	assert.Equal(t, "2026-09-15", rec["date_deadline"])
}

func TestScheduleActivityValidation(t *testing.T) {
	svc, _, srv := newActivityFixture(t)

	_, err := svc.ScheduleActivity(context.Background(), ActivityRequest{Model: "res.partner"})
	require.NotNil(t, err)
	assert.Equal(t, odoo.KindValidationError, err.Kind())
	assert.Zero(t, len(srv.Calls()))
}

func TestScheduleActivityUnknownModel(t *testing.T) {
	svc, _, _ := newActivityFixture(t)

	_, err := svc.ScheduleActivity(context.Background(), ActivityRequest{
		Model:  "no.such.model",
		ResID:  1,
		TypeID: 1,
	})
	require.NotNil(t, err)
	assert.Equal(t, odoo.KindMissingError, err.Kind())
}

func TestMarkActivityDone(t *testing.T) {
	svc, _, srv := newActivityFixture(t)

	var gotFeedback any
	srv.Handle("mail.activity", "action_feedback", func(args []any, kwargs map[string]any) (any, *odootest.ServerError) {
		gotFeedback = kwargs["feedback"]
		return true, nil
	})

	err := svc.MarkActivityDone(context.Background(), 12, "spoke to customer")
	require.Nil(t, err)
	assert.Equal(t, "spoke to customer", gotFeedback)
}

func TestListActivities(t *testing.T) {
	svc, activities, _ := newActivityFixture(t)

	activities.Create(map[string]any{
		"res_model": "res.partner", "res_id": int64(7),
		"summary": "Call back", "date_deadline": "2026-09-15", "state": "planned",
	})
	activities.Create(map[string]any{
		"res_model": "res.partner", "res_id": int64(99),
		"summary": "other record",
	})

	list, err := svc.ListActivities(context.Background(), "res.partner", 7)
	require.Nil(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Call back", list[0].Summary)
	assert.Equal(t, "2026-09-15", list[0].Deadline)
	assert.Equal(t, "planned", list[0].State)
	// note was never set; the unset marker decodes to the zero value
	assert.Equal(t, "", list[0].Note)
}
