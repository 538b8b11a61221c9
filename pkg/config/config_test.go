package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	if len(cfg.Scan.Extensions) != 1 || cfg.Scan.Extensions[0] != ".rs" {
		t.Errorf("Scan.Extensions = %v, want [.rs]", cfg.Scan.Extensions)
	}
	if !cfg.Scan.Gitignore {
		t.Error("Scan.Gitignore should be true by default")
	}

	if cfg.Cargo.Bin != "cargo" {
		t.Errorf("Cargo.Bin = %q, want cargo", cfg.Cargo.Bin)
	}
	if cfg.Cargo.Manifest != "Cargo.toml" {
		t.Errorf("Cargo.Manifest = %q, want Cargo.toml", cfg.Cargo.Manifest)
	}

	if !cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be true by default")
	}
	if cfg.Cache.Dir != ".featlens/cache" {
		t.Errorf("Cache.Dir = %q, want .featlens/cache", cfg.Cache.Dir)
	}
	if cfg.Cache.TTL != 24 {
		t.Errorf("Cache.TTL = %d, want 24", cfg.Cache.TTL)
	}

	if cfg.Output.Format != "text" {
		t.Errorf("Output.Format = %q, want text", cfg.Output.Format)
	}
	if cfg.Output.ReportDir != ".featlens/report" {
		t.Errorf("Output.ReportDir = %q, want .featlens/report", cfg.Output.ReportDir)
	}
}

func TestLoadTOML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "featlens.toml")

	content := `
[scan]
extensions = [".rs", ".toml"]
gitignore = false

[cargo]
bin = "/opt/cargo/bin/cargo"

[output]
format = "json"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if len(cfg.Scan.Extensions) != 2 {
		t.Errorf("Scan.Extensions = %v, want two entries", cfg.Scan.Extensions)
	}
	if cfg.Scan.Gitignore {
		t.Error("Scan.Gitignore should be overridden to false")
	}
	if cfg.Cargo.Bin != "/opt/cargo/bin/cargo" {
		t.Errorf("Cargo.Bin = %q", cfg.Cargo.Bin)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %q, want json", cfg.Output.Format)
	}

	// Unset sections keep their defaults.
	if cfg.Cache.TTL != 24 {
		t.Errorf("Cache.TTL = %d, want default 24", cfg.Cache.TTL)
	}
}

func TestLoadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "featlens.yaml")

	content := "output:\n  format: markdown\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Output.Format != "markdown" {
		t.Errorf("Output.Format = %q, want markdown", cfg.Output.Format)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load() should fail for a missing file")
	}
}

func TestLoadOrDefaultFallsBack(t *testing.T) {
	tmpDir := t.TempDir()
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error: %v", err)
	}
	defer os.Chdir(origDir)

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Chdir() error: %v", err)
	}

	cfg := LoadOrDefault()
	if cfg.Cargo.Bin != "cargo" {
		t.Errorf("expected defaults, got Cargo.Bin = %q", cfg.Cargo.Bin)
	}
}

func TestLoadOrDefaultFindsFile(t *testing.T) {
	tmpDir := t.TempDir()
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error: %v", err)
	}
	defer os.Chdir(origDir)

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Chdir() error: %v", err)
	}

	content := "[output]\nformat = \"toon\"\n"
	if err := os.WriteFile("featlens.toml", []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg := LoadOrDefault()
	if cfg.Output.Format != "toon" {
		t.Errorf("Output.Format = %q, want toon", cfg.Output.Format)
	}
}
