package properties

import (
	"context"

	"github.com/odoogo/odoogo/internal/common/apperrors"
	"github.com/odoogo/odoogo/pkg/odoo"
)

// Service performs safe partial updates on properties fields. All update
// methods follow read-modify-write internally, since the server replaces the
// entire property set on every write.
type Service struct {
	client *odoo.Client
}

// NewService creates a Service over the given client.
func NewService(client *odoo.Client) *Service {
	return &Service{client: client}
}

// Read returns the current entries of a properties field on one record.
func (s *Service) Read(ctx context.Context, model string, id int64, field string) ([]Entry, apperrors.Error) {
	rec, err := s.client.ReadOne(ctx, model, id, []string{field})
	if err != nil {
		return nil, err
	}
	return DecodeEntries(rec[field])
}

// UpdateProperty changes a single property without disturbing the others:
// the current entries are read, projected, overlaid with the one change, and
// the complete merged map is written back.
func (s *Service) UpdateProperty(ctx context.Context, model string, id int64, field, name string, value any) apperrors.Error {
	return s.UpdateProperties(ctx, model, id, field, map[string]any{name: value})
}

// UpdateProperties overlays several property changes in one write, preserving
// every property not named in updates.
func (s *Service) UpdateProperties(ctx context.Context, model string, id int64, field string, updates map[string]any) apperrors.Error {
	entries, err := s.Read(ctx, model, id, field)
	if err != nil {
		return err
	}
	merged := MergeUpdate(entries, updates)
	_, err = s.client.WriteOne(ctx, model, id, odoo.Record{field: merged}, nil)
	return err
}

// Replace writes the given map as the complete new property set. Properties
// omitted from values are reset server-side; use UpdateProperties for partial
// changes.
func (s *Service) Replace(ctx context.Context, model string, id int64, field string, values map[string]any) apperrors.Error {
	_, err := s.client.WriteOne(ctx, model, id, odoo.Record{field: values}, nil)
	return err
}
