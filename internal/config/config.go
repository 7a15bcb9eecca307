// Package config loads the compiler configuration file.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Site   SiteConfig   `yaml:"site"`
	Source SourceConfig `yaml:"source"`
	Output OutputConfig `yaml:"output"`
	Serve  ServeConfig  `yaml:"serve,omitempty"`
}

// SiteConfig describes the published site.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	BaseURL     string `yaml:"base_url,omitempty"`
}

// SourceConfig points at the documentation tree.
type SourceConfig struct {
	Directory string `yaml:"directory"`
}

// OutputConfig controls where JSON fragments are written.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"` // Clean output directory before build
}

// ServeConfig configures the preview server.
type ServeConfig struct {
	Addr            string   `yaml:"addr,omitempty"`
	RebuildInterval Duration `yaml:"rebuild_interval,omitempty"`
}

// Duration is a time.Duration that unmarshals from YAML strings like "5m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like \"5m\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Load loads configuration from the specified file.
//
// Environment variables referenced in the YAML (`${VAR}`) are expanded after
// loading a .env file, if one is present in the working directory.
func Load(configPath string) (*Config, error) {
	// Best effort: a missing .env is the normal case.
	if err := godotenv.Load(); err == nil {
		fmt.Fprintln(os.Stderr, "Loaded environment variables from .env")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&config)
	return &config, nil
}

func applyDefaults(config *Config) {
	if config.Site.Title == "" {
		config.Site.Title = "Documentation"
	}
	if config.Source.Directory == "" {
		config.Source.Directory = "./content"
	}
	if config.Output.Directory == "" {
		config.Output.Directory = "./dist"
	}
	if config.Serve.Addr == "" {
		config.Serve.Addr = ":4200"
	}
}

// Hash returns a deterministic content hash of the configuration. It feeds
// build signatures: a config change invalidates cached document builds.
func (c *Config) Hash() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal config for hash: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

const defaultConfigContent = `# Documentation compiler configuration
site:
  title: Tweed
  description: A documentation site
  base_url: https://example.github.io

source:
  directory: ./content

output:
  directory: ./dist
  clean: true

serve:
  addr: ":4200"
`

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}
	if err := os.WriteFile(configPath, []byte(defaultConfigContent), 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
