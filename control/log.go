// control/log.go
// Author: momentics <momentics@gmail.com>
//
// Structured logging setup. The engine uses a four-level severity
// taxonomy matching the reference implementation's debug macros:
// fatal, warn, info, debug.

package control

import (
	"context"
	"log/slog"
	"os"
)

// LevelFatal sits above slog's built-in levels (slog.LevelError+4).
// NewLogger's handler only records it; FatalCtx is what exits afterwards.
const LevelFatal = slog.Level(12)

// NewLogger returns a text-handler slog.Logger writing to w at minLevel,
// tagged with component. Use LevelFatal sparingly: FatalCtx below logs and
// then calls os.Exit(1), matching the reference die() macro.
func NewLogger(w *os.File, minLevel slog.Level, component string) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: minLevel})
	return slog.New(h).With("component", component)
}

// FatalCtx logs msg at LevelFatal and terminates the process, mirroring
// the reference backend's die() macro: unrecoverable setup/teardown
// failures have no sensible caller to return an error to.
func FatalCtx(ctx context.Context, log *slog.Logger, msg string, args ...any) {
	log.Log(ctx, LevelFatal, msg, args...)
	os.Exit(1)
}
