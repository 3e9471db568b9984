package mail

import (
	"context"
	"encoding/base64"

	"github.com/h2non/filetype"

	"github.com/odoogo/odoogo/internal/common/apperrors"
	"github.com/odoogo/odoogo/pkg/odoo"
)

// AttachFile uploads a file as an ir.attachment bound to one record and
// returns the attachment id. The MIME type is sniffed from the content; the
// server stores application/octet-stream for unrecognized formats.
func (s *Service) AttachFile(ctx context.Context, model string, resID int64, filename string, data []byte) (int64, apperrors.Error) {
	if filename == "" {
		return 0, odoo.ErrValidation.Msg("attachment filename is required")
	}
	if len(data) == 0 {
		return 0, odoo.ErrValidation.Msg("attachment content must be non-empty")
	}

	mimetype := "application/octet-stream"
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		mimetype = kind.MIME.Value
	}

	values := odoo.Record{
		"name":      filename,
		"res_model": model,
		"res_id":    resID,
		"datas":     base64.StdEncoding.EncodeToString(data),
		"mimetype":  mimetype,
	}
	return s.client.Create(ctx, "ir.attachment", values, nil)
}
