package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/supaconf/internal/anonkey"
	"github.com/phrazzld/supaconf/internal/api"
	"github.com/phrazzld/supaconf/internal/config"
	"github.com/phrazzld/supaconf/internal/redact"
)

// application holds the shared dependencies of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	router http.Handler
}

// newApplication builds the router from cfg and logs what will be served.
// Anon key problems are reported as warnings; they never stop startup.
func newApplication(cfg *config.Config, l *slog.Logger) (*application, error) {
	router, err := api.NewRouter(cfg.Supabase, l)
	if err != nil {
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}

	l.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"supabase_url", cfg.Supabase.URL,
		"anon_key", redact.Key(cfg.Supabase.AnonKey))

	for _, w := range anonkey.Diagnose(cfg.Supabase, time.Now()) {
		l.Warn("anon key check", "warning", w)
	}

	return &application{
		config: cfg,
		logger: l,
		router: router,
	}, nil
}

// Run starts the HTTP server and blocks until it shuts down.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
