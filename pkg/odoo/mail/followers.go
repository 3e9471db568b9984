package mail

import (
	"context"

	"github.com/odoogo/odoogo/internal/common/apperrors"
	"github.com/odoogo/odoogo/pkg/odoo"
)

// Follower is one subscription entry on a record.
type Follower struct {
	ID        int64 `mapstructure:"id"`
	PartnerID int64 // extracted from the partner_id [id, name] pair
	Name      string
}

// Subscribe adds the given partners as followers of one record.
func (s *Service) Subscribe(ctx context.Context, model string, resID int64, partnerIDs []int64) apperrors.Error {
	if len(partnerIDs) == 0 {
		return odoo.ErrValidation.Msg("at least one partner id is required")
	}
	_, err := s.client.Call(ctx, model, "message_subscribe", []any{[]int64{resID}, partnerIDs}, nil)
	return err
}

// Unsubscribe removes the given partners from a record's followers.
func (s *Service) Unsubscribe(ctx context.Context, model string, resID int64, partnerIDs []int64) apperrors.Error {
	if len(partnerIDs) == 0 {
		return odoo.ErrValidation.Msg("at least one partner id is required")
	}
	_, err := s.client.Call(ctx, model, "message_unsubscribe", []any{[]int64{resID}, partnerIDs}, nil)
	return err
}

// ListFollowers returns the current followers of one record.
func (s *Service) ListFollowers(ctx context.Context, model string, resID int64) ([]Follower, apperrors.Error) {
	records, err := s.client.SearchRead(ctx, "mail.followers",
		odoo.NewDomain(odoo.Eq("res_model", model), odoo.Eq("res_id", resID)),
		[]string{"partner_id"}, nil)
	if err != nil {
		return nil, err
	}

	followers := make([]Follower, 0, len(records))
	for _, rec := range records {
		f := Follower{}
		if id, ok := rec["id"].(float64); ok {
			f.ID = int64(id)
		}
		// many2one reads as [id, display_name]
		if pair, ok := rec["partner_id"].([]any); ok && len(pair) == 2 {
			if pid, ok := pair[0].(float64); ok {
				f.PartnerID = int64(pid)
			}
			f.Name, _ = pair[1].(string)
		}
		followers = append(followers, f)
	}
	return followers, nil
}
