package odoo

import (
	"context"

	"github.com/Masterminds/semver/v3"

	"github.com/odoogo/odoogo/internal/common/apperrors"
	"github.com/odoogo/odoogo/internal/common/jsonrpc"
)

// ServerVersion describes the remote server release as reported by the
// common/version call, which requires no authentication.
type ServerVersion struct {
	Raw      string          // server_version as reported, e.g. "17.0+e"
	Series   string          // server_serie, e.g. "17.0"
	Protocol int64           // protocol_version
	Version  *semver.Version // parsed from Series; nil if unparseable
}

// AtLeast reports whether the server series is at or above the given major
// release. Returns false when the series could not be parsed.
func (v ServerVersion) AtLeast(major uint64) bool {
	return v.Version != nil && v.Version.Major() >= major
}

// Version queries the server release. Unlike model operations this does not
// require authentication, so it is also useful as a reachability probe.
func (c *Client) Version(ctx context.Context) (ServerVersion, apperrors.Error) {
	result, err := c.transport.Call(ctx, jsonrpc.ServiceCommon, "version", nil)
	if err != nil {
		return ServerVersion{}, err
	}

	var payload struct {
		ServerVersion string `json:"server_version"`
		ServerSerie   string `json:"server_serie"`
		Protocol      int64  `json:"protocol_version"`
	}
	if gerr := result.GetAs(&payload); gerr != nil {
		return ServerVersion{}, ErrRPC.MsgErr("unexpected version result shape", gerr)
	}

	v := ServerVersion{
		Raw:      payload.ServerVersion,
		Series:   payload.ServerSerie,
		Protocol: payload.Protocol,
	}
	if parsed, perr := semver.NewVersion(payload.ServerSerie); perr == nil {
		v.Version = parsed
	}
	return v, nil
}
