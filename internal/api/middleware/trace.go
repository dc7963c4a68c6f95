package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/supaconf/internal/api/shared"
	"github.com/phrazzld/supaconf/internal/platform/logger"
)

// NewTraceMiddleware returns middleware that tags each request with a trace
// ID and stores a logger carrying it in the request context. Apply it early
// so later handlers can use logger.FromContext.
func NewTraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			traceID := shared.GetTraceID(ctx)

			log := base.With(slog.String("trace_id", traceID))
			ctx = logger.WithLogger(ctx, log)

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			w.Header().Set("X-Trace-ID", traceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
