package gpuquery

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// silentHandler drops every record. Enabled is false, so validation paths
// never build log attributes unless a logger was installed.
type silentHandler struct{}

func (silentHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (silentHandler) Handle(context.Context, slog.Record) error { return nil }
func (silentHandler) WithAttrs([]slog.Attr) slog.Handler        { return silentHandler{} }
func (silentHandler) WithGroup(string) slog.Handler             { return silentHandler{} }

var activeLogger atomic.Pointer[slog.Logger]

func init() {
	activeLogger.Store(slog.New(silentHandler{}))
}

// SetLogger installs the logger used by every device. Nil restores the
// silent default. Safe to call while devices are in use.
//
// Records gpuquery emits, with their device attribute:
//   - Debug "gpuquery: validation error": every reported *Error, with code
//     and message, before it reaches a scope or callback
//   - Debug: query set creation, latched encoder errors, Finish and Submit
//     handoffs, backend query set allocation and release
//   - Info "gpuquery: device created": label, adapter and capability tags
//   - Warn "gpuquery: uncaptured error": a reported error that no error
//     scope matched and no callback was set to receive
//
// To watch validation failures of a device without a callback:
//
//	gpuquery.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
//	dev, _ := adapter.CreateDevice([]string{"timestamp_query"})
//	dev.CreateQuerySet(&gpuquery.QuerySetDescriptor{Type: gpuquery.QueryTypeTimestamp, Count: 5000})
//	// level=DEBUG msg="gpuquery: validation error" code=QueryCountExceedsLimit ...
//	// level=WARN msg="gpuquery: uncaptured error" code=QueryCountExceedsLimit ...
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(silentHandler{})
	}
	activeLogger.Store(l)
}

// Logger returns the logger installed with SetLogger.
func Logger() *slog.Logger {
	return activeLogger.Load()
}
