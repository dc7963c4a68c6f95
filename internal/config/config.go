package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Supabase ConnectionConfig `mapstructure:"supabase" validate:"required"`
	Server   ServerConfig     `mapstructure:"server" validate:"required"`
	Database DatabaseConfig   `mapstructure:"database"`
	Probe    ProbeConfig      `mapstructure:"probe" validate:"required"`
}

// ConnectionConfig holds the parameters a Supabase client library needs to
// reach a project: the project URL, the public anon key and the auth options.
//
// It is a plain value. Pass it by value to whatever initializes the client;
// holders never share mutable state.
type ConnectionConfig struct {
	URL     string        `mapstructure:"url" validate:"required,url" json:"url" yaml:"url"`
	AnonKey string        `mapstructure:"anon_key" validate:"required" json:"anonKey" yaml:"anon_key"`
	Options ClientOptions `mapstructure:"options" json:"options" yaml:"options"`
}

// ClientOptions are the session handling flags passed to the client library's
// auth module. All of them default to true.
type ClientOptions struct {
	AutoRefreshToken   bool `mapstructure:"auto_refresh_token" json:"autoRefreshToken" yaml:"auto_refresh_token"`
	PersistSession     bool `mapstructure:"persist_session" json:"persistSession" yaml:"persist_session"`
	DetectSessionInURL bool `mapstructure:"detect_session_in_url" json:"detectSessionInUrl" yaml:"detect_session_in_url"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig points at the Postgres instance behind the project.
// It is optional; an empty URL disables the database probe.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// ProbeConfig controls the reachability checks run by `supaconf check`.
type ProbeConfig struct {
	Timeout    time.Duration `mapstructure:"timeout" validate:"gt=0"`
	MaxRetries int           `mapstructure:"max_retries" validate:"gte=0,lte=10"`
}
