package config

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/siteshim/internal/foundation/errors"
)

const exampleConfig = `# siteshim configuration
site:
  base_path: ""            # overrides <base href> when set
  dir: ./public

content:
  origin: ""               # empty: read content from site.dir
  timeout: 10s
  retries: 0
  retry_backoff: linear
  parallel_fetch: false
  catalog_file: ""         # optional override of the built-in catalog

oauth:
  provider: github
  token_url: https://github.com/login/oauth/access_token
  client_id: ${OAUTH_CLIENT_ID}
  client_secret: ${OAUTH_CLIENT_SECRET}

relay:
  fallback_number: "2347035459321"

server:
  addr: ":8080"

metrics:
  enabled: true

logging:
  level: info
  format: text
`

// Init writes an example configuration to configPath.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}
	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to create config directory").Build()
		}
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write configuration").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
