package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/phrazzld/supaconf/internal/anonkey"
	"github.com/phrazzld/supaconf/internal/config"
	"github.com/phrazzld/supaconf/internal/platform/logger"
	"github.com/phrazzld/supaconf/internal/probe"
	"github.com/phrazzld/supaconf/internal/redact"
	"github.com/phrazzld/supaconf/internal/supabase"
)

// errChecksFailed is returned by check when a probe fails; the details are
// already printed.
var errChecksFailed = errors.New("one or more checks failed")

// load reads the configuration and installs a JSON logger on stderr.
func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	var loadOpts []config.LoadOption
	if o.configFile != "" {
		loadOpts = append(loadOpts, config.WithConfigFile(o.configFile))
	}

	cfg, err := config.Load(loadOpts...)
	if err != nil {
		return nil, nil, err
	}

	level := "warn"
	if o.debug {
		level = "debug"
	}
	l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: level}, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}

	return cfg, l, nil
}

// showView is what `show` prints: the loaded config with secrets masked.
type showView struct {
	Supabase config.ConnectionConfig `json:"supabase" yaml:"supabase"`
	Server   struct {
		Port     int    `json:"port" yaml:"port"`
		LogLevel string `json:"logLevel" yaml:"log_level"`
	} `json:"server" yaml:"server"`
	DatabaseURL string `json:"databaseUrl,omitempty" yaml:"database_url,omitempty"`
	Probe       struct {
		Timeout    string `json:"timeout" yaml:"timeout"`
		MaxRetries int    `json:"maxRetries" yaml:"max_retries"`
	} `json:"probe" yaml:"probe"`
}

func newShowView(cfg *config.Config, reveal bool) showView {
	var v showView
	v.Supabase = cfg.Supabase
	if !reveal {
		v.Supabase.AnonKey = redact.Key(cfg.Supabase.AnonKey)
		v.DatabaseURL = redact.String(cfg.Database.URL)
	} else {
		v.DatabaseURL = cfg.Database.URL
	}
	v.Server.Port = cfg.Server.Port
	v.Server.LogLevel = cfg.Server.LogLevel
	v.Probe.Timeout = cfg.Probe.Timeout.String()
	v.Probe.MaxRetries = cfg.Probe.MaxRetries
	return v
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	var format string
	var reveal bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load(cmd)
			if err != nil {
				return err
			}
			return writeView(cmd.OutOrStdout(), format, newShowView(cfg, reveal))
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml or json")
	cmd.Flags().BoolVar(&reveal, "reveal", false, "print credentials unmasked")
	return cmd
}

func writeView(out io.Writer, format string, v showView) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q, want yaml or json", format)
	}
}

func newEndpointsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "endpoints",
		Short: "Print the service URLs derived from the project URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load(cmd)
			if err != nil {
				return err
			}
			eps, err := supabase.EndpointsFor(cfg.Supabase)
			if err != nil {
				return err
			}
			return renderTable(cmd.OutOrStdout(), []string{"Service", "URL"}, [][]string{
				{"rest", eps.REST},
				{"auth", eps.Auth},
				{"storage", eps.Storage},
				{"functions", eps.Functions},
				{"realtime", eps.Realtime},
			})
		},
	}
}

func newCheckCmd(opts *rootOptions) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Inspect the anon key and probe the project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, l, err := opts.load(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if claims, err := anonkey.Inspect(cfg.Supabase.AnonKey); err == nil {
				fmt.Fprintf(out, "key: role=%s ref=%s expires=%s\n",
					claims.Role, claims.Ref, formatTime(claims.ExpiresAt))
			}

			warnings := anonkey.Diagnose(cfg.Supabase, time.Now())
			for _, w := range warnings {
				fmt.Fprintf(out, "warning: %s\n", w)
			}

			if offline {
				return nil
			}

			p, err := probe.New(cfg)
			if err != nil {
				return err
			}
			report := p.Run(logger.WithLogger(cmd.Context(), l))

			rows := make([][]string, 0, len(report.Results))
			for _, res := range report.Results {
				rows = append(rows, []string{res.Name, resultStatus(res), res.Latency.Round(time.Millisecond).String()})
			}
			if err := renderTable(out, []string{"Check", "Status", "Latency"}, rows); err != nil {
				return err
			}

			if !report.OK() {
				return errChecksFailed
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "only inspect the key, do not contact the project")
	return cmd
}

func resultStatus(res probe.Result) string {
	switch {
	case res.Skipped:
		return "skipped"
	case res.OK:
		return "ok"
	default:
		return "failed: " + redact.Error(res.Err)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.UTC().Format(time.RFC3339)
}

func renderTable(out io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(out)
	table.Header(header)
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("failed to add rows to table: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}
