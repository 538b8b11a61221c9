// Package config loads tool configuration from TOML, YAML, or JSON files.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for featlens.
type Config struct {
	// Source scan settings
	Scan ScanConfig `koanf:"scan" toml:"scan"`

	// Cargo invocation settings
	Cargo CargoConfig `koanf:"cargo" toml:"cargo"`

	// Cache settings
	Cache CacheConfig `koanf:"cache" toml:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output"`
}

// ScanConfig controls which files the usage scan visits.
type ScanConfig struct {
	Extensions []string `koanf:"extensions" toml:"extensions"`
	Exclude    []string `koanf:"exclude" toml:"exclude"`
	Gitignore  bool     `koanf:"gitignore" toml:"gitignore"`
}

// CargoConfig controls how package metadata is obtained.
type CargoConfig struct {
	Bin      string `koanf:"bin" toml:"bin"`
	Manifest string `koanf:"manifest" toml:"manifest"`
}

// CacheConfig controls scan result caching.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled"`
	Dir     string `koanf:"dir" toml:"dir"`
	TTL     int    `koanf:"ttl" toml:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format    string `koanf:"format" toml:"format"` // text, json, markdown, toon
	Color     bool   `koanf:"color" toml:"color"`
	ReportDir string `koanf:"report_dir" toml:"report_dir"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			Extensions: []string{".rs"},
			Exclude: []string{
				"target",
				"vendor",
				".git",
				".featlens",
			},
			Gitignore: true,
		},
		Cargo: CargoConfig{
			Bin:      "cargo",
			Manifest: "Cargo.toml",
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".featlens/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format:    "text",
			Color:     true,
			ReportDir: ".featlens/report",
		},
	}
}

// Load loads configuration from a file, layered over defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault tries standard config locations, falling back to defaults.
func LoadOrDefault() *Config {
	configNames := []string{
		"featlens.toml",
		"featlens.yaml",
		"featlens.yml",
		"featlens.json",
		".featlens.toml",
		".featlens.yaml",
		".featlens.yml",
		".featlens.json",
	}

	searchDirs := []string{".", ".featlens"}

	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				cfg, err := Load(path)
				if err == nil {
					return cfg
				}
			}
		}
	}

	return DefaultConfig()
}
