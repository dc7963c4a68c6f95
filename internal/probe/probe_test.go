package probe_test

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/phrazzld/supaconf/internal/config"
	"github.com/phrazzld/supaconf/internal/platform/logger"
	"github.com/phrazzld/supaconf/internal/probe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// healthServer answers /auth/v1/health with the given statuses in order,
// repeating the last one.
func healthServer(t *testing.T, statuses ...int) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&hits, 1)
		if r.URL.Path != "/auth/v1/health" || r.Header.Get("apikey") != config.DefaultAnonKey {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		idx := int(n) - 1
		if idx >= len(statuses) {
			idx = len(statuses) - 1
		}
		w.WriteHeader(statuses[idx])
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func testConfig(url string, retries int) *config.Config {
	cc := config.Default()
	cc.URL = url
	return &config.Config{
		Supabase: cc,
		Server:   config.ServerConfig{Port: 8080, LogLevel: "debug"},
		Probe:    config.ProbeConfig{Timeout: 2 * time.Second, MaxRetries: retries},
	}
}

func newProbe(t *testing.T, cfg *config.Config) *probe.Probe {
	t.Helper()
	p, err := probe.New(cfg, probe.WithBackoff(time.Millisecond, 5*time.Millisecond))
	require.NoError(t, err)
	return p
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name     string
		statuses []int
		retries  int
		wantErr  error
		wantHits int32
	}{
		{name: "healthy", statuses: []int{http.StatusOK}, retries: 2, wantHits: 1},
		{name: "recovers after server errors", statuses: []int{503, 502, 200}, retries: 2, wantHits: 3},
		{name: "gives up after retries", statuses: []int{500}, retries: 1, wantErr: probe.ErrUnhealthy, wantHits: 2},
		{name: "no retries configured", statuses: []int{500}, retries: 0, wantErr: probe.ErrUnhealthy, wantHits: 1},
		{name: "rejected key is permanent", statuses: []int{401}, retries: 3, wantErr: probe.ErrRejected, wantHits: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, hits := healthServer(t, tt.statuses...)
			p := newProbe(t, testConfig(srv.URL, tt.retries))

			err := p.Auth(context.Background())

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantHits, atomic.LoadInt32(hits))
		})
	}
}

func TestAuthHonoursContext(t *testing.T) {
	srv, _ := healthServer(t, http.StatusServiceUnavailable)
	p, err := probe.New(testConfig(srv.URL, 10), probe.WithBackoff(time.Second, time.Second))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = p.Auth(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAuthWithHTTPClient(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/health" || r.Header.Get("apikey") != config.DefaultAnonKey {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	client := srv.Client()
	transport := client.Transport

	for i := 0; i < 2; i++ {
		p, err := probe.New(testConfig(srv.URL, 0), probe.WithHTTPClient(client))
		require.NoError(t, err)
		require.NoError(t, p.Auth(context.Background()))
	}

	assert.Same(t, transport, client.Transport, "caller's client must not be modified")
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := probe.New(testConfig("not-a-url", 0))
	assert.Error(t, err)
}

func TestDatabaseSkippedWithoutURL(t *testing.T) {
	p := newProbe(t, testConfig("http://localhost:54321", 0))

	assert.ErrorIs(t, p.Database(context.Background()), probe.ErrSkipped)
}

func TestDatabaseUnreachable(t *testing.T) {
	// Reserve a port and release it so nothing is listening there.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	cfg := testConfig("http://localhost:54321", 0)
	cfg.Database.URL = "postgres://postgres:postgres@" + addr + "/postgres?sslmode=disable"
	p := newProbe(t, cfg)

	err = p.Database(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to database")
}

func TestRun(t *testing.T) {
	buf, _ := logger.SetupTestLogger(t)
	srv, _ := healthServer(t, http.StatusForbidden)
	p := newProbe(t, testConfig(srv.URL, 0))

	report := p.Run(context.Background())

	require.Len(t, report.Results, 2)
	assert.Equal(t, probe.CheckAuth, report.Results[0].Name)
	assert.False(t, report.Results[0].OK)
	assert.ErrorIs(t, report.Results[0].Err, probe.ErrRejected)
	assert.Equal(t, probe.CheckDatabase, report.Results[1].Name)
	assert.True(t, report.Results[1].Skipped)
	assert.False(t, report.OK())
	logger.AssertLogContains(t, buf, "probe check failed")
}

func TestReportOK(t *testing.T) {
	assert.True(t, probe.Report{}.OK())
	assert.True(t, probe.Report{Results: []probe.Result{{OK: true}, {Skipped: true}}}.OK())
	assert.False(t, probe.Report{Results: []probe.Result{{OK: true}, {OK: false}}}.OK())
}
