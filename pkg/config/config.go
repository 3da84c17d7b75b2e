// Package config loads viewer settings from a YAML file, falling back to
// engine defaults for anything unset.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kraitsura/insight_viewer/pkg/graph"
)

// Config holds user-tunable viewer settings.
type Config struct {
	// APIBaseURL is the conversation-insights service.
	APIBaseURL string `yaml:"api_base_url"`
	// CollapseFromDepth is the depth at which branches start collapsed.
	CollapseFromDepth int `yaml:"collapse_from_depth"`
	// XSpacing and YSpacing are layout spacing in canvas units.
	XSpacing float64 `yaml:"x_spacing"`
	YSpacing float64 `yaml:"y_spacing"`
	// CachePath is the sqlite snapshot cache location.
	CachePath string `yaml:"cache_path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		CollapseFromDepth: graph.DefaultCollapseFromDepth,
		XSpacing:          graph.DefaultXSpacing,
		YSpacing:          graph.DefaultYSpacing,
		CachePath:         defaultCachePath(),
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "imv", "config.yaml")
}

func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(".", ".imv-cache", "snapshots.db")
	}
	return filepath.Join(dir, "imv", "snapshots.db")
}

// Load reads the config file at path, layered over Default(). A missing
// file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.CollapseFromDepth <= 0 {
		cfg.CollapseFromDepth = graph.DefaultCollapseFromDepth
	}
	if cfg.XSpacing <= 0 {
		cfg.XSpacing = graph.DefaultXSpacing
	}
	if cfg.YSpacing <= 0 {
		cfg.YSpacing = graph.DefaultYSpacing
	}
	if cfg.CachePath == "" {
		cfg.CachePath = defaultCachePath()
	}
	return cfg, nil
}

// EngineOptions converts the config into engine options.
func (c Config) EngineOptions() graph.Options {
	return graph.Options{
		CollapseFromDepth: c.CollapseFromDepth,
		XSpacing:          c.XSpacing,
		YSpacing:          c.YSpacing,
	}
}
