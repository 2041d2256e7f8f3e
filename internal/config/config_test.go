package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ScriptPath != "build.js" || cfg.OutDir != "./dist" || cfg.CacheDir != "./.driver_cache" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log level info, got %s", cfg.LogLevel)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "driver.yaml")
	yamlContent := "scriptPath: custom.js\nsourceRoot: src\noutDir: out\ncacheDir: cache\nfetchTimeout: 5s\n"
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ScriptPath != "custom.js" {
		t.Fatalf("expected YAML to override scriptPath, got %s", cfg.ScriptPath)
	}
	if cfg.OutDir != "out" {
		t.Fatalf("expected YAML to override outDir, got %s", cfg.OutDir)
	}
}

func TestLoadMissingYAMLIsNotAnError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err != nil {
		t.Fatalf("a missing YAML file must not be an error: %v", err)
	}
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.LogLevel = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation failure for an unrecognized log level")
	}
}

func TestEnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "driver.yaml")
	if err := os.WriteFile(path, []byte("scriptPath: from-yaml.js\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DRIVER_SCRIPT", "from-env.js")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ScriptPath != "from-env.js" {
		t.Fatalf("expected env var to win over YAML, got %s", cfg.ScriptPath)
	}
}
