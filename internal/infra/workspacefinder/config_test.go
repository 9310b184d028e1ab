package workspacefinder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aalvaropc/ordercompat/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "ws")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, ConfigFile), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return root
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	// Partial config (no paths/defaults/server)
	root := writeConfig(t, "ordercompat:\n  masking:\n    enabled: false\n")

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.Masking.Enabled != false {
		t.Fatalf("expected masking=false, got=%v", cfg.Masking.Enabled)
	}
	if cfg.Defaults.Environment != "dev" {
		t.Fatalf("expected default env=dev, got=%s", cfg.Defaults.Environment)
	}
	if cfg.Paths.FixturesFile != "fixtures/orders.yaml" {
		t.Fatalf("expected default fixtures file, got=%s", cfg.Paths.FixturesFile)
	}
	if cfg.Paths.ProbesDir != "probes" || cfg.Paths.EnvironmentsDir != "env" || cfg.Paths.ReportsDir != "reports" {
		t.Fatalf("unexpected default paths: %+v", cfg.Paths)
	}
	if cfg.Server.Addr != "127.0.0.1:5005" || cfg.Server.V1Deprecated {
		t.Fatalf("unexpected default server: %+v", cfg.Server)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	root := writeConfig(t, `ordercompat:
  defaults:
    env: stg
  paths:
    fixtures_file: data/orders.yaml
    probes_dir: checks
    reports_dir: out
  server:
    addr: ":8080"
    v1_deprecated: true
`)

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Defaults.Environment != "stg" {
		t.Fatalf("expected env=stg, got=%s", cfg.Defaults.Environment)
	}
	if cfg.Paths.FixturesFile != "data/orders.yaml" || cfg.Paths.ProbesDir != "checks" || cfg.Paths.ReportsDir != "out" {
		t.Fatalf("unexpected paths: %+v", cfg.Paths)
	}
	if cfg.Paths.EnvironmentsDir != "env" {
		t.Fatalf("expected env dir default kept, got=%s", cfg.Paths.EnvironmentsDir)
	}
	if cfg.Server.Addr != ":8080" || !cfg.Server.V1Deprecated {
		t.Fatalf("unexpected server: %+v", cfg.Server)
	}
	if !cfg.Masking.Enabled {
		t.Fatalf("expected masking default kept")
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	if _, err := LoadConfig(t.TempDir()); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got %v", err)
	}

	root := writeConfig(t, "ordercompat: [\n")
	if _, err := LoadConfig(root); !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got %v", err)
	}
}
