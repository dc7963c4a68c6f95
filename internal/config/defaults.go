package config

import "time"

// Connection parameters of the project this deployment talks to. The anon key
// is the project's public, low-privilege key; it is meant to ship to browsers.
const (
	DefaultURL     = "https://yoxyezmyygkhwwaopmiy.supabase.co"
	DefaultAnonKey = "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9." +
		"eyJpc3MiOiJzdXBhYmFzZSIsInJlZiI6InlveHllem15eWdraHd3YW9wbWl5Iiwicm9sZSI6ImFub24iLCJpYXQiOjE3NzIwNDMwMDIsImV4cCI6MjA4NzYxOTAwMn0." +
		"5XA7FnO4Cmwr7thiO7wyL6OnCN6C1h0K58zL-zIEyL4"
)

// Defaults for the non-connection settings.
const (
	DefaultServerPort      = 8080
	DefaultLogLevel        = "info"
	DefaultProbeTimeout    = 5 * time.Second
	DefaultProbeMaxRetries = 2
)

// DefaultClientOptions returns the auth options with every flag enabled.
func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		AutoRefreshToken:   true,
		PersistSession:     true,
		DetectSessionInURL: true,
	}
}

// Default returns the built-in connection parameters. Each call returns an
// equal, independent copy.
func Default() ConnectionConfig {
	return ConnectionConfig{
		URL:     DefaultURL,
		AnonKey: DefaultAnonKey,
		Options: DefaultClientOptions(),
	}
}
