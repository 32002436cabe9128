package config

import (
	"net/url"

	"git.home.luguber.info/inful/siteshim/internal/foundation/errors"
	"git.home.luguber.info/inful/siteshim/internal/foundation/normalization"
	"git.home.luguber.info/inful/siteshim/internal/relay"
	"git.home.luguber.info/inful/siteshim/internal/retry"
)

const maxRetries = 10

var backoffNormalizer = normalization.NewNormalizer(map[string]retry.BackoffMode{
	"fixed":       retry.BackoffFixed,
	"linear":      retry.BackoffLinear,
	"exponential": retry.BackoffExponential,
}, retry.BackoffLinear)

// ValidateConfig checks a configuration after defaults have been applied.
func ValidateConfig(cfg *Config) error {
	return newConfigurationValidator(cfg).validate()
}

// configurationValidator coordinates validation across all configuration domains.
type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	for _, check := range []func() error{
		cv.validateContent,
		cv.validateOAuth,
		cv.validateRelay,
	} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func (cv *configurationValidator) validateContent() error {
	c := cv.config.Content
	if c.Origin != "" && !isHTTPURL(c.Origin) {
		return errors.ConfigError("content.origin must be an absolute http(s) URL").WithContext("origin", c.Origin).Build()
	}
	if c.Retries < 0 || c.Retries > maxRetries {
		return errors.ConfigError("content.retries must be between 0 and 10").WithContext("retries", c.Retries).Build()
	}
	if _, err := backoffNormalizer.Parse(c.RetryBackoff); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid content.retry_backoff").Build()
	}
	return nil
}

func (cv *configurationValidator) validateOAuth() error {
	if u := cv.config.OAuth.TokenURL; !isHTTPURL(u) {
		return errors.ConfigError("oauth.token_url must be an absolute http(s) URL").WithContext("token_url", u).Build()
	}
	return nil
}

func (cv *configurationValidator) validateRelay() error {
	if relay.NormalizeNumber(cv.config.Relay.FallbackNumber) == "" {
		return errors.ConfigError("relay.fallback_number must contain digits").Build()
	}
	return nil
}

// RetryPolicy builds the content fetch retry policy.
func (c ContentConfig) RetryPolicy() retry.Policy {
	if c.Retries <= 0 {
		return retry.NoRetry()
	}
	mode := backoffNormalizer.Normalize(c.RetryBackoff)
	return retry.NewPolicy(mode, c.RetryDelay, 8*c.RetryDelay, c.Retries)
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
