package config

import (
	"time"

	"git.home.luguber.info/inful/siteshim/internal/foundation/errors"
	"git.home.luguber.info/inful/siteshim/internal/relay"
)

// Default values.
const (
	DefaultSiteDir      = "./public"
	DefaultTimeout      = 10 * time.Second
	DefaultRetryDelay   = 250 * time.Millisecond
	DefaultParallelism  = 4
	DefaultProvider     = "github"
	DefaultTokenURL     = "https://github.com/login/oauth/access_token"
	DefaultAddr         = ":8080"
	DefaultRetryBackoff = "linear"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

type siteDefaults struct{}

func (siteDefaults) Domain() string { return "site" }

func (siteDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Site.Dir == "" {
		cfg.Site.Dir = DefaultSiteDir
	}
	return nil
}

type contentDefaults struct{}

func (contentDefaults) Domain() string { return "content" }

func (contentDefaults) ApplyDefaults(cfg *Config) error {
	c := &cfg.Content
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RetryBackoff == "" {
		c.RetryBackoff = DefaultRetryBackoff
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.ParallelFetch && c.Parallelism < 2 {
		c.Parallelism = DefaultParallelism
	}
	return nil
}

type oauthDefaults struct{}

func (oauthDefaults) Domain() string { return "oauth" }

func (oauthDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.OAuth.Provider == "" {
		cfg.OAuth.Provider = DefaultProvider
	}
	if cfg.OAuth.TokenURL == "" {
		cfg.OAuth.TokenURL = DefaultTokenURL
	}
	return nil
}

type relayDefaults struct{}

func (relayDefaults) Domain() string { return "relay" }

func (relayDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Relay.FallbackNumber == "" {
		cfg.Relay.FallbackNumber = relay.FallbackNumber
	}
	if cfg.Relay.Title == "" {
		cfg.Relay.Title = relay.DefaultTitle
	}
	return nil
}

type serverDefaults struct{}

func (serverDefaults) Domain() string { return "server" }

func (serverDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultAddr
	}
	return nil
}

type loggingDefaults struct{}

func (loggingDefaults) Domain() string { return "logging" }

func (loggingDefaults) ApplyDefaults(cfg *Config) error {
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	return nil
}

var appliers = []DefaultApplier{
	siteDefaults{},
	contentDefaults{},
	oauthDefaults{},
	relayDefaults{},
	serverDefaults{},
	loggingDefaults{},
}

func applyDefaults(cfg *Config) error {
	for _, a := range appliers {
		if err := a.ApplyDefaults(cfg); err != nil {
			return errors.WrapError(err, errors.CategoryConfig, "failed to apply defaults").
				WithContext("domain", a.Domain()).
				Build()
		}
	}
	return nil
}
