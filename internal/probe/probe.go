// Package probe checks that the configured project can actually be reached:
// the auth service health endpoint over HTTP and, when configured, the
// project's Postgres database directly.
package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/jackc/pgx/v5"

	"github.com/phrazzld/supaconf/internal/config"
	"github.com/phrazzld/supaconf/internal/platform/logger"
	"github.com/phrazzld/supaconf/internal/redact"
	"github.com/phrazzld/supaconf/internal/supabase"
)

// Check names used in a Report.
const (
	CheckAuth     = "auth"
	CheckDatabase = "database"
)

// Probe runs reachability checks against one project.
type Probe struct {
	http        *resty.Client
	healthURL   string
	dbURL       string
	timeout     time.Duration
	maxRetries  int
	baseBackoff time.Duration
	maxInterval time.Duration
}

// Option configures a Probe during construction in New.
type Option func(*Probe)

// WithBackoff overrides the retry intervals. Tests use it to keep retries fast.
func WithBackoff(base, maxInterval time.Duration) Option {
	return func(p *Probe) {
		p.baseBackoff = base
		p.maxInterval = maxInterval
	}
}

// WithHTTPClient sets the http.Client underneath resty. The probe works on a
// copy, so c itself is left as it was; the copy's transport is wrapped with the
// project headers.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Probe) {
		hc := *c
		p.http = resty.NewWithClient(&hc)
	}
}

// New builds a Probe for cfg.
func New(cfg *config.Config, opts ...Option) (*Probe, error) {
	eps, err := supabase.EndpointsFor(cfg.Supabase)
	if err != nil {
		return nil, fmt.Errorf("failed to derive endpoints: %w", err)
	}

	p := &Probe{
		http:        resty.New(),
		healthURL:   eps.Auth + "/health",
		dbURL:       cfg.Database.URL,
		timeout:     cfg.Probe.Timeout,
		maxRetries:  cfg.Probe.MaxRetries,
		baseBackoff: 200 * time.Millisecond,
		maxInterval: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}

	var base http.RoundTripper
	if hc := p.http.GetClient(); hc != nil {
		base = hc.Transport
	}
	p.http.SetTransport(supabase.NewTransport(cfg.Supabase, base)).
		SetTimeout(p.timeout).
		SetHeader("Accept", "application/json")

	return p, nil
}

// Auth calls the auth service health endpoint. Transport errors and 5xx
// responses are retried with exponential backoff up to the configured number
// of retries; 4xx responses fail immediately.
func (p *Probe) Auth(ctx context.Context) error {
	log := logger.FromContext(ctx)

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.baseBackoff
	exp.Multiplier = 2
	exp.MaxInterval = p.maxInterval
	exp.Reset()

	attempts := 0
	for {
		err := p.authOnce(ctx)
		if err == nil {
			return nil
		}

		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			return permanent.Err
		}

		if attempts >= p.maxRetries {
			return err
		}

		attempts++
		wait := exp.NextBackOff()
		log.Debug("auth health check failed, retrying",
			"attempt", attempts,
			"wait", wait,
			"error", redact.Error(err))

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (p *Probe) authOnce(ctx context.Context) error {
	resp, err := p.http.R().SetContext(ctx).Get(p.healthURL)
	if err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return fmt.Errorf("auth health request failed: %w", err)
	}

	code := resp.StatusCode()
	switch {
	case code >= http.StatusInternalServerError:
		return fmt.Errorf("%w: auth returned status %d", ErrUnhealthy, code)
	case code >= http.StatusBadRequest:
		return backoff.Permanent(fmt.Errorf("%w: auth returned status %d", ErrRejected, code))
	}
	return nil
}

// Database connects to the configured Postgres URL and pings it.
// It returns ErrSkipped when no database URL is configured.
func (p *Probe) Database(ctx context.Context) error {
	if p.dbURL == "" {
		return ErrSkipped
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	conn, err := pgx.Connect(ctx, p.dbURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() { _ = conn.Close(context.Background()) }()

	if err := conn.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}
