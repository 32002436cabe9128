// Package catalog holds the fixed enumeration of content files the site
// fetches (the known-file lists) and the fallback records rendered when none
// of them are usable.
//
// A Catalog is immutable configuration: it is loaded once and injected into
// the loader and page controller, so tests substitute fixtures freely.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/siteshim/internal/foundation/errors"
)

//go:embed default.yaml
var defaultYAML []byte

// RequiredFallbackKeys are present in every fallback entry so renderers never
// need a second level of defaults.
var RequiredFallbackKeys = []string{"name", "description", "image"}

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Known lists content slugs per section, in fetch order.
type Known struct {
	Products []string `yaml:"products"`
	Team     []string `yaml:"team"`
}

// Fallback holds substitute records per section.
type Fallback struct {
	Products []map[string]string `yaml:"products"`
	Team     []map[string]string `yaml:"team"`
}

// Catalog is the known-file lists plus the fallback records.
type Catalog struct {
	Known    Known    `yaml:"known"`
	Fallback Fallback `yaml:"fallback"`
}

// Default returns the catalog compiled into the binary.
func Default() Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// Load reads a catalog override file. An empty path yields Default().
func Load(path string) (Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, errors.WrapError(err, errors.CategoryConfig, "failed to read catalog file").
			WithContext("path", path).
			Build()
	}
	c, err := Parse(data)
	if err != nil {
		return Catalog{}, errors.WrapError(err, errors.CategoryConfig, "invalid catalog file").
			WithContext("path", path).
			Build()
	}
	return c, nil
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, err
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// Validate checks slugs are path-safe and fallback entries carry the required keys.
func (c Catalog) Validate() error {
	for section, slugs := range map[string][]string{"products": c.Known.Products, "team": c.Known.Team} {
		for _, s := range slugs {
			if !slugPattern.MatchString(s) {
				return errors.ValidationError("invalid content slug").
					WithContext("section", section).
					WithContext("slug", s).
					Build()
			}
		}
	}
	for section, entries := range map[string][]map[string]string{"products": c.Fallback.Products, "team": c.Fallback.Team} {
		if len(entries) == 0 {
			return errors.ValidationError("fallback catalog is empty").WithContext("section", section).Build()
		}
		for i, entry := range entries {
			for _, key := range RequiredFallbackKeys {
				if entry[key] == "" {
					return errors.ValidationError("fallback entry missing required key").
						WithContext("section", section).
						WithContext("index", i).
						WithContext("key", key).
						Build()
				}
			}
		}
	}
	return nil
}
