// Package models defines data structures shared across the renderer.
package models

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	DefaultShellResource    = "index.html"
	DefaultManifestResource = "versions.json"

	// DefaultPrimarySelector matches the element that receives the versions table.
	DefaultPrimarySelector = "article"

	// DefaultNavigationSelector is the secondary sidebar (table of contents)
	// of pydata-sphinx-theme pages. It means nothing on the versions page.
	DefaultNavigationSelector = "body > div.bd-container.container-xl > div > div.bd-sidebar-secondary.d-none.d-xl-block.col-xl-2.bd-toc"

	// EnvPrefix prefixes environment overrides, e.g. VERSIONS_PAGE_DB_PATH.
	EnvPrefix = "VERSIONS_PAGE_"
)

// RenderConfig holds runtime configuration for a render.
// File values are overlaid by environment variables, then by CLI flags.
type RenderConfig struct {
	ShellResource      string `yaml:"shell_resource" koanf:"shell_resource"`
	ManifestResource   string `yaml:"manifest_resource" koanf:"manifest_resource"`
	PrimarySelector    string `yaml:"primary_selector" koanf:"primary_selector"`
	NavigationSelector string `yaml:"navigation_selector" koanf:"navigation_selector"`
	Output             string `yaml:"output" koanf:"output"`
	DBPath             string `yaml:"db_path" koanf:"db_path"`
	History            bool   `yaml:"history" koanf:"history"`
	UserAgent          string `yaml:"user_agent" koanf:"user_agent"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *RenderConfig {
	return &RenderConfig{
		ShellResource:      DefaultShellResource,
		ManifestResource:   DefaultManifestResource,
		PrimarySelector:    DefaultPrimarySelector,
		NavigationSelector: DefaultNavigationSelector,
		History:            true,
		UserAgent:          "versions-page/1.0",
	}
}

// LoadConfig reads configuration from the given YAML file, if it exists,
// then overlays VERSIONS_PAGE_* environment variables.
func LoadConfig(path string) (*RenderConfig, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Validate checks that every resource name and selector is set.
func (c *RenderConfig) Validate() error {
	if strings.TrimSpace(c.ShellResource) == "" {
		return fmt.Errorf("shell_resource is required")
	}
	if strings.TrimSpace(c.ManifestResource) == "" {
		return fmt.Errorf("manifest_resource is required")
	}
	if strings.TrimSpace(c.PrimarySelector) == "" {
		return fmt.Errorf("primary_selector is required")
	}
	if strings.TrimSpace(c.NavigationSelector) == "" {
		return fmt.Errorf("navigation_selector is required")
	}
	return nil
}
