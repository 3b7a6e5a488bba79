package testutil

import (
	"io"
	"log/slog"
)

// NopLogger returns a logger whose output goes nowhere. Services take a
// logger unconditionally, so tests pass this to keep output quiet.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
