// Package config holds the Supabase connection parameters and the rest of
// the application configuration. It loads them from defaults, an optional
// YAML file and SUPACONF_ environment variables, then validates the result.
//
// The connection parameters are a value type: construct them once at startup
// with Default or Load and pass them to whatever initializes the client.
package config
