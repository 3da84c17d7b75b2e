package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kraitsura/insight_viewer/pkg/graph"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.CollapseFromDepth != graph.DefaultCollapseFromDepth {
		t.Errorf("expected default collapse depth, got %d", cfg.CollapseFromDepth)
	}
	if cfg.XSpacing != graph.DefaultXSpacing || cfg.YSpacing != graph.DefaultYSpacing {
		t.Error("expected default spacing")
	}
}

func TestLoad_OverridesAndBackfill(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "api_base_url: https://insights.example.com\ncollapse_from_depth: 3\nx_spacing: -5\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.APIBaseURL != "https://insights.example.com" {
		t.Errorf("unexpected api url %s", cfg.APIBaseURL)
	}
	if cfg.CollapseFromDepth != 3 {
		t.Errorf("expected collapse depth 3, got %d", cfg.CollapseFromDepth)
	}
	if cfg.XSpacing != graph.DefaultXSpacing {
		t.Errorf("invalid spacing must fall back to default, got %v", cfg.XSpacing)
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{{nope"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected a parse error")
	}
}
