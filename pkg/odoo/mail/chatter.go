// Package mail wraps the chatter surface of the server: posting messages,
// scheduling activities, managing followers, and attaching files. Messages are
// created directly as mail.message records rather than through the server's
// message_post action, which is unreliable over the external RPC surface for
// several parameter combinations.
package mail

import (
	"context"
	"strings"
	"sync"

	"github.com/odoogo/odoogo/internal/common/apperrors"
	"github.com/odoogo/odoogo/pkg/odoo"
)

// Message subtype external identifiers. The subtype distinguishes internal
// notes from publicly visible comments.
const (
	SubtypeNote    = "mail.mt_note"
	SubtypeComment = "mail.mt_comment"
)

// MessageOptions are the optional parts of a posted message.
type MessageOptions struct {
	Subject       string
	PartnerIDs    []int64 // partners to notify
	AttachmentIDs []int64
}

// Service posts chatter messages and manages the related records.
type Service struct {
	client *odoo.Client

	mu       sync.Mutex
	subtypes map[string]int64 // xmlid -> database id
}

// NewService creates a Service over the given client.
func NewService(client *odoo.Client) *Service {
	return &Service{
		client:   client,
		subtypes: map[string]int64{},
	}
}

// EnsureHTMLBody validates and normalizes a message body. Empty or
// whitespace-only input is rejected; the server would silently accept an empty
// message, which is always a caller bug. Input that already starts with '<'
// after trimming is used as-is; plain text is wrapped in a single paragraph.
// The function is idempotent: already-HTML input is never wrapped again.
func EnsureHTMLBody(body string) (string, apperrors.Error) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return "", odoo.ErrEmptyBody
	}
	if strings.HasPrefix(trimmed, "<") {
		return body, nil
	}
	return "<p>" + trimmed + "</p>", nil
}

// PostInternalNote posts a message visible only to internal users.
// Returns the id of the created mail.message.
func (s *Service) PostInternalNote(ctx context.Context, model string, resID int64, body string, opts *MessageOptions) (int64, apperrors.Error) {
	return s.post(ctx, model, resID, body, SubtypeNote, true, opts)
}

// PostOpenMessage posts a comment visible to all followers, including portal
// users and customers.
func (s *Service) PostOpenMessage(ctx context.Context, model string, resID int64, body string, opts *MessageOptions) (int64, apperrors.Error) {
	return s.post(ctx, model, resID, body, SubtypeComment, false, opts)
}

func (s *Service) post(ctx context.Context, model string, resID int64, body, subtypeXMLID string, internal bool, opts *MessageOptions) (int64, apperrors.Error) {
	html, err := EnsureHTMLBody(body)
	if err != nil {
		return 0, err
	}

	subtypeID, err := s.resolveSubtype(ctx, subtypeXMLID)
	if err != nil {
		return 0, err
	}

	values := odoo.Record{
		"model":        model,
		"res_id":       resID,
		"body":         html,
		"message_type": "comment",
		"subtype_id":   subtypeID,
		"is_internal":  internal,
	}
	if opts != nil {
		if opts.Subject != "" {
			values["subject"] = opts.Subject
		}
		if len(opts.PartnerIDs) > 0 {
			values["partner_ids"] = ReplaceAllCommand(opts.PartnerIDs)
		}
		if len(opts.AttachmentIDs) > 0 {
			values["attachment_ids"] = ReplaceAllCommand(opts.AttachmentIDs)
		}
	}

	return s.client.Create(ctx, "mail.message", values, nil)
}

// ReplaceAllCommand builds the many2many command tuple [[6, 0, ids]] that
// replaces the full relation with the given ids.
func ReplaceAllCommand(ids []int64) []any {
	list := make([]any, len(ids))
	for i, id := range ids {
		list[i] = id
	}
	return []any{[]any{6, 0, list}}
}

// resolveSubtype maps a subtype xmlid to its database id, memoized per
// service instance. Subtype ids differ between databases, so they cannot be
// hardcoded.
func (s *Service) resolveSubtype(ctx context.Context, xmlid string) (int64, apperrors.Error) {
	s.mu.Lock()
	if id, ok := s.subtypes[xmlid]; ok {
		s.mu.Unlock()
		return id, nil
	}
	s.mu.Unlock()

	module, name, ok := strings.Cut(xmlid, ".")
	if !ok {
		return 0, odoo.ErrValidation.Msg("invalid xmlid: " + xmlid)
	}

	result, err := s.client.Call(ctx, "ir.model.data", "check_object_reference", []any{module, name}, nil)
	if err != nil {
		return 0, err
	}

	// result is [model, id]
	var ref []any
	if gerr := result.GetAs(&ref); gerr != nil || len(ref) != 2 {
		return 0, odoo.ErrRPC.Msg("unexpected xmlid reference shape for " + xmlid)
	}
	idFloat, ok := ref[1].(float64)
	if !ok {
		return 0, odoo.ErrRPC.Msg("unexpected xmlid reference id for " + xmlid)
	}

	id := int64(idFloat)
	s.mu.Lock()
	s.subtypes[xmlid] = id
	s.mu.Unlock()
	return id, nil
}
