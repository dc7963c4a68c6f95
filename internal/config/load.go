package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load,
// e.g. SUPACONF_SUPABASE_ANON_KEY.
const EnvPrefix = "SUPACONF"

// ConfigName is the base name of the optional config file (supaconf.yaml).
const ConfigName = "supaconf"

type loadOptions struct {
	file        string
	searchPaths []string
}

// LoadOption customizes where Load looks for a config file.
type LoadOption func(*loadOptions)

// WithConfigFile makes Load read the given file. Unlike the default search,
// a missing explicit file is an error.
func WithConfigFile(path string) LoadOption {
	return func(o *loadOptions) {
		o.file = path
	}
}

// WithSearchPaths replaces the default directories searched for supaconf.yaml.
func WithSearchPaths(paths ...string) LoadOption {
	return func(o *loadOptions) {
		o.searchPaths = paths
	}
}

func defaultSearchPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", ConfigName))
	}
	return paths
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files, which
// take precedence over the built-in defaults.
// Returns a populated Config struct or an error if loading/validation fails.
func Load(opts ...LoadOption) (*Config, error) {
	o := loadOptions{searchPaths: defaultSearchPaths()}
	for _, opt := range opts {
		opt(&o)
	}

	v := viper.New()
	setDefaults(v)

	if o.file != "" {
		v.SetConfigFile(o.file)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		for _, p := range o.searchPaths {
			v.AddConfigPath(p)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if o.file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Validate checks the connection parameters alone, for callers that build a
// ConnectionConfig without going through Load.
func (c ConnectionConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("connection config validation failed: %w", err)
	}
	return nil
}

// setDefaults registers every key so AutomaticEnv can override it during
// Unmarshal; viper only consults the environment for keys it knows about.
func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("supabase.url", def.URL)
	v.SetDefault("supabase.anon_key", def.AnonKey)
	v.SetDefault("supabase.options.auto_refresh_token", def.Options.AutoRefreshToken)
	v.SetDefault("supabase.options.persist_session", def.Options.PersistSession)
	v.SetDefault("supabase.options.detect_session_in_url", def.Options.DetectSessionInURL)

	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.log_level", DefaultLogLevel)

	v.SetDefault("database.url", "")

	v.SetDefault("probe.timeout", DefaultProbeTimeout)
	v.SetDefault("probe.max_retries", DefaultProbeMaxRetries)
}
