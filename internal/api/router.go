package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apiMiddleware "github.com/phrazzld/supaconf/internal/api/middleware"
	"github.com/phrazzld/supaconf/internal/api/shared"
	"github.com/phrazzld/supaconf/internal/config"
	"github.com/phrazzld/supaconf/internal/platform/logger"
)

// NewRouter creates the application router with all routes and middleware.
func NewRouter(cc config.ConnectionConfig, l *slog.Logger) (http.Handler, error) {
	configHandler, err := NewConfigHandler(cc)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(l))

	r.Get("/config.json", configHandler.GetJSON)
	r.Get("/config.js", configHandler.GetScript)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.FromContext(r.Context()).Error("Failed to write health check response", "error", err)
		}
	})

	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithErrorAndLog(w, r, http.StatusNotFound, "not found", nil)
	})

	return r, nil
}
