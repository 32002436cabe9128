// Package config loads the siteshim YAML configuration: ${VAR} expansion,
// .env files, per-domain defaults and validation.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/siteshim/internal/foundation/errors"
)

// DefaultPath is where commands look for the configuration file.
const DefaultPath = "siteshim.yaml"

// Config is the complete configuration.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Content ContentConfig `yaml:"content"`
	OAuth   OAuthConfig   `yaml:"oauth"`
	Relay   RelayConfig   `yaml:"relay"`
	Server  ServerConfig  `yaml:"server"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// SiteConfig locates the built site.
type SiteConfig struct {
	BasePath string `yaml:"base_path"` // overrides the page's <base href>
	Dir      string `yaml:"dir"`
}

// ContentConfig controls how content files are fetched.
type ContentConfig struct {
	Origin        string        `yaml:"origin"` // empty: read from Site.Dir
	Timeout       time.Duration `yaml:"timeout"`
	Retries       int           `yaml:"retries"`
	RetryBackoff  string        `yaml:"retry_backoff"`
	RetryDelay    time.Duration `yaml:"retry_delay"`
	ParallelFetch bool          `yaml:"parallel_fetch"`
	Parallelism   int           `yaml:"parallelism"`
	CatalogFile   string        `yaml:"catalog_file"`
}

// OAuthConfig is the CMS editor's authorization server.
type OAuthConfig struct {
	Provider     string `yaml:"provider"`
	TokenURL     string `yaml:"token_url"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// RelayConfig controls WhatsApp links.
type RelayConfig struct {
	FallbackNumber string `yaml:"fallback_number"`
	Title          string `yaml:"title"`
}

// ServerConfig is the listen address of `serve`.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// MetricsConfig toggles the Prometheus recorder and /metrics.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Load reads configPath, expands environment variables, applies defaults and
// validates. A missing file is not an error when allowMissing is set; the
// defaults are returned instead.
func Load(configPath string, allowMissing bool) (*Config, error) {
	loadEnvFiles()

	var cfg Config
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if uerr := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); uerr != nil {
			return nil, errors.WrapError(uerr, errors.CategoryConfig, "failed to parse configuration").
				WithContext("path", configPath).
				Fatal().
				Build()
		}
	case os.IsNotExist(err) && allowMissing:
	case os.IsNotExist(err):
		return nil, errors.ConfigError("configuration file not found").WithContext("path", configPath).Build()
	default:
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read configuration").
			WithContext("path", configPath).
			Build()
	}

	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	_ = applyDefaults(&cfg)
	return &cfg
}
