// Package middleware provides the HTTP middleware for the API:
// authentication and request tracing.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/taskdeck/taskdeck-api/internal/api/shared"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
)

// NewTraceMiddleware returns middleware that attaches a trace ID and a
// trace-scoped logger to every request context, so that error envelopes and
// log lines can be correlated.
func NewTraceMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			traceLogger := log.With(slog.String("trace_id", shared.GetTraceID(ctx)))
			ctx = logger.WithContext(ctx, traceLogger)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
