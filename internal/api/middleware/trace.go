// Package middleware provides the HTTP middleware shared by API routes.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/lingo-api/internal/api/shared"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
)

// Trace assigns the request a trace ID and puts a logger carrying it on the
// request context. It must run after the otelhttp handler so the span's trace
// ID is reused.
func Trace(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			log := base.With(slog.String("trace_id", shared.GetTraceID(ctx)))
			ctx = logger.WithLogger(ctx, log)

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
