package mail

import (
	"context"

	"github.com/odoogo/odoogo/internal/common/apperrors"
	"github.com/odoogo/odoogo/pkg/odoo"
)

// ActivityRequest describes a scheduled activity on one record.
type ActivityRequest struct {
	Model    string
	ResID    int64
	TypeID   int64  // mail.activity.type id
	Summary  string
	Note     string
	Deadline string // YYYY-MM-DD; empty lets the server default
	UserID   int64  // assignee; zero lets the server default to the caller
}

// Activity is one pending activity as read back from the server.
type Activity struct {
	ID       int64  `mapstructure:"id"`
	Summary  string `mapstructure:"summary"`
	Note     string `mapstructure:"note"`
	Deadline string `mapstructure:"date_deadline"`
	State    string `mapstructure:"state"`
}

// ScheduleActivity creates a mail.activity on the given record and returns
// its id. The record model is resolved to its registry id, which the activity
// model requires instead of the technical name.
func (s *Service) ScheduleActivity(ctx context.Context, req ActivityRequest) (int64, apperrors.Error) {
	if req.Model == "" || req.ResID == 0 || req.TypeID == 0 {
		return 0, odoo.ErrValidation.Msg("model, res id and activity type are required")
	}

	modelID, err := s.resolveModelID(ctx, req.Model)
	if err != nil {
		return 0, err
	}

	values := odoo.Record{
		"res_model_id":     modelID,
		"res_id":           req.ResID,
		"activity_type_id": req.TypeID,
	}
	if req.Summary != "" {
		values["summary"] = req.Summary
	}
	if req.Note != "" {
		html, herr := EnsureHTMLBody(req.Note)
		if herr != nil {
			return 0, herr
		}
		values["note"] = html
	}
	if req.Deadline != "" {
		values["date_deadline"] = req.Deadline
	}
	if req.UserID != 0 {
		values["user_id"] = req.UserID
	}

	return s.client.Create(ctx, "mail.activity", values, nil)
}

// MarkActivityDone completes an activity with optional feedback text, which
// posts the usual done-note in the record's chatter.
func (s *Service) MarkActivityDone(ctx context.Context, activityID int64, feedback string) apperrors.Error {
	kwargs := map[string]any{}
	if feedback != "" {
		kwargs["feedback"] = feedback
	}
	_, err := s.client.Call(ctx, "mail.activity", "action_feedback", []any{[]int64{activityID}}, kwargs)
	return err
}

// ListActivities returns the pending activities on one record.
func (s *Service) ListActivities(ctx context.Context, model string, resID int64) ([]Activity, apperrors.Error) {
	records, err := s.client.SearchRead(ctx, "mail.activity",
		odoo.NewDomain(odoo.Eq("res_model", model), odoo.Eq("res_id", resID)),
		[]string{"summary", "note", "date_deadline", "state"}, nil)
	if err != nil {
		return nil, err
	}

	activities := make([]Activity, 0, len(records))
	for _, rec := range records {
		var a Activity
		if derr := odoo.DecodeRecord(rec, &a); derr != nil {
			return nil, derr
		}
		activities = append(activities, a)
	}
	return activities, nil
}

// resolveModelID maps a technical model name to its ir.model registry id.
func (s *Service) resolveModelID(ctx context.Context, model string) (int64, apperrors.Error) {
	ids, err := s.client.Search(ctx, "ir.model", odoo.NewDomain(odoo.Eq("model", model)), &odoo.SearchOptions{Limit: 1})
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, odoo.ErrMissing.Msg("model not found: " + model)
	}
	return ids[0], nil
}
