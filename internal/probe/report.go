package probe

import (
	"context"
	"errors"
	"time"

	"github.com/phrazzld/supaconf/internal/platform/logger"
	"github.com/phrazzld/supaconf/internal/redact"
)

// Result is the outcome of one check.
type Result struct {
	Name    string
	OK      bool
	Skipped bool
	Latency time.Duration
	Err     error
}

// Report collects the results of Run in execution order.
type Report struct {
	Results []Result
}

// OK reports whether every check that ran succeeded.
func (r Report) OK() bool {
	for _, res := range r.Results {
		if !res.Skipped && !res.OK {
			return false
		}
	}
	return true
}

// Run executes every check and returns their results. It does not stop at
// the first failure.
func (p *Probe) Run(ctx context.Context) Report {
	log := logger.FromContext(ctx)

	checks := []struct {
		name string
		fn   func(context.Context) error
	}{
		{name: CheckAuth, fn: p.Auth},
		{name: CheckDatabase, fn: p.Database},
	}

	var report Report
	for _, c := range checks {
		start := time.Now()
		err := c.fn(ctx)
		res := Result{
			Name:    c.name,
			Latency: time.Since(start),
		}

		switch {
		case errors.Is(err, ErrSkipped):
			res.Skipped = true
		case err != nil:
			res.Err = err
			log.Warn("probe check failed", "check", c.name, "error", redact.Error(err))
		default:
			res.OK = true
			log.Debug("probe check passed", "check", c.name, "latency", res.Latency)
		}
		report.Results = append(report.Results, res)
	}

	return report
}
