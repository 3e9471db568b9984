// Package logtrace provides logging utilities for the application.
// It integrates with zerolog for structured logging and supports tagging log
// events with the RPC request id for correlating client calls with server logs.
package logtrace

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger initializes the global logger with Unix timestamp format.
// Configures zerolog to output to stderr with timestamps.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// InitConsoleLogger initializes the global logger with human-readable console
// output. Used by the CLI; services should prefer InitLogger.
func InitConsoleLogger() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

// SetLevel sets the global log level from a zerolog level name.
// Unknown names leave the level unchanged.
func SetLevel(level string) {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return
	}
	zerolog.SetGlobalLevel(l)
}

// WithRPCID returns a context whose logger carries the JSON-RPC request id.
// Callers retrieve it with log.Ctx(ctx).
func WithRPCID(ctx context.Context, id int64) context.Context {
	l := log.Ctx(ctx).With().Int64("rpc_id", id).Logger()
	return l.WithContext(ctx)
}
