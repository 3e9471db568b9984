package odoo

// Session holds the authenticated identity for one client instance.
// It is created by a successful login call, held in memory by the transport,
// and cleared on logout. Sessions are never persisted across process restarts.
type Session struct {
	UID      int64  `json:"uid"`
	Database string `json:"database"`
}
