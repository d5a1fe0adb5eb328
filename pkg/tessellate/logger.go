package tessellate

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that discards all records. Enabled returns
// false so callers skip building attributes entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger used by the pipeline. By default
// nothing is logged. Pass nil to restore the silent default.
//
// Levels:
//   - [slog.LevelDebug]: per-ribbon counts (samples, quads, triangles)
//   - [slog.LevelInfo]: one line per completed generation pass
//   - [slog.LevelWarn]: rejected inputs
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current pipeline logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
