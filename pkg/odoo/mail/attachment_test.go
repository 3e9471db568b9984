package mail

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odoogo/odoogo/pkg/odoo"
	"github.com/odoogo/odoogo/pkg/odoo/odootest"
)

// pngHeader is enough of a PNG file for content sniffing.
var pngHeader = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00}

func TestAttachFile(t *testing.T) {
	srv := odootest.New()
	t.Cleanup(srv.Close)
	attachments := odootest.NewModelStore(srv, "ir.attachment")

	transport, err := odoo.NewTransport(srv.URL(), "test-db")
	require.Nil(t, err)
	client := odoo.NewClient(transport)
	_, err = client.Authenticate(context.Background(), "admin", "admin")
	require.Nil(t, err)
	svc := NewService(client)

	id, err := svc.AttachFile(context.Background(), "res.partner", 7, "logo.png", pngHeader)
	require.Nil(t, err)

	rec, ok := attachments.Get(id)
	require.True(t, ok)
	assert.Equal(t, "logo.png", rec["name"])
	assert.Equal(t, "res.partner", rec["res_model"])
	assert.Equal(t, float64(7), rec["res_id"])
	assert.Equal(t, "image/png", rec["mimetype"])
	assert.Equal(t, base64.StdEncoding.EncodeToString(pngHeader), rec["datas"])
}

func TestAttachFileUnknownFormat(t *testing.T) {
	srv := odootest.New()
	t.Cleanup(srv.Close)
	attachments := odootest.NewModelStore(srv, "ir.attachment")

	transport, err := odoo.NewTransport(srv.URL(), "test-db")
	require.Nil(t, err)
	client := odoo.NewClient(transport)
	_, err = client.Authenticate(context.Background(), "admin", "admin")
	require.Nil(t, err)
	svc := NewService(client)

	id, err := svc.AttachFile(context.Background(), "res.partner", 7, "notes.txt", []byte("plain text"))
	require.Nil(t, err)

	rec, ok := attachments.Get(id)
	require.True(t, ok)
	assert.Equal(t, "application/octet-stream", rec["mimetype"])
}

func TestAttachFileValidation(t *testing.T) {
	svc := NewService(nil)

	_, err := svc.AttachFile(context.Background(), "res.partner", 7, "", []byte("x"))
	require.NotNil(t, err)
	assert.Equal(t, odoo.KindValidationError, err.Kind())

	_, err = svc.AttachFile(context.Background(), "res.partner", 7, "x.bin", nil)
	require.NotNil(t, err)
	assert.Equal(t, odoo.KindValidationError, err.Kind())
}
