// Package config provides configuration loading and management for amqspec.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Config represents the complete amqspec configuration
type Config struct {
	Spec   SpecConfig   `yaml:"spec"`
	Output OutputConfig `yaml:"output"`
	Serve  ServeConfig  `yaml:"serve"`
	NATS   NATSConfig   `yaml:"nats"`
	Watch  WatchConfig  `yaml:"watch"`
}

// SpecConfig configures the spec documents to compile
type SpecConfig struct {
	// File is the primary spec document path
	File string `yaml:"file"`
	// Errata lists errata documents, as paths or doublestar glob patterns
	Errata []string `yaml:"errata"`
}

// OutputConfig configures export output
type OutputConfig struct {
	// Format is the export format ("json" or "yaml")
	Format string `yaml:"format"`
	// Path is the output file path (empty = stdout)
	Path string `yaml:"path"`
}

// ServeConfig configures the HTTP surface
type ServeConfig struct {
	// Addr is the listen address (default: ":8323")
	Addr string `yaml:"addr"`
}

// NATSConfig configures spec publishing
type NATSConfig struct {
	// URL is the NATS server URL
	URL string `yaml:"url"`
	// Subject is the subject the compiled spec is published to
	Subject string `yaml:"subject"`
}

// WatchConfig configures the recompile watcher
type WatchConfig struct {
	// Debounce is how long to wait for more changes before recompiling
	Debounce time.Duration `yaml:"debounce"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Spec: SpecConfig{
			File:   "",
			Errata: nil,
		},
		Output: OutputConfig{
			Format: "json",
			Path:   "",
		},
		Serve: ServeConfig{
			Addr: ":8323",
		},
		NATS: NATSConfig{
			URL:     "nats://127.0.0.1:4222",
			Subject: "amqspec.spec",
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	switch c.Output.Format {
	case "json", "yaml":
	default:
		return fmt.Errorf("output.format must be json or yaml, got %q", c.Output.Format)
	}
	if c.Serve.Addr == "" {
		return fmt.Errorf("serve.addr is required")
	}
	if c.NATS.Subject == "" {
		return fmt.Errorf("nats.subject is required")
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Spec
	if other.Spec.File != "" {
		c.Spec.File = other.Spec.File
	}
	if len(other.Spec.Errata) > 0 {
		c.Spec.Errata = other.Spec.Errata
	}

	// Output
	if other.Output.Format != "" {
		c.Output.Format = other.Output.Format
	}
	if other.Output.Path != "" {
		c.Output.Path = other.Output.Path
	}

	// Serve
	if other.Serve.Addr != "" {
		c.Serve.Addr = other.Serve.Addr
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.Subject != "" {
		c.NATS.Subject = other.NATS.Subject
	}

	// Watch
	if other.Watch.Debounce != 0 {
		c.Watch.Debounce = other.Watch.Debounce
	}
}

// ResolveErrata expands the errata patterns to concrete file paths. Plain
// paths pass through unchanged; glob patterns expand to their sorted matches.
// Pattern order is preserved and duplicate paths are dropped.
func (c *Config) ResolveErrata() ([]string, error) {
	var resolved []string
	seen := make(map[string]bool)

	for _, pattern := range c.Spec.Errata {
		paths, err := resolvePattern(pattern)
		if err != nil {
			return nil, fmt.Errorf("resolve errata pattern %q: %w", pattern, err)
		}
		for _, p := range paths {
			if !seen[p] {
				seen[p] = true
				resolved = append(resolved, p)
			}
		}
	}
	return resolved, nil
}

// resolvePattern expands a single errata pattern.
func resolvePattern(pattern string) ([]string, error) {
	if !containsGlob(pattern) {
		return []string{pattern}, nil
	}

	// Use doublestar for ** support
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

// containsGlob checks if a pattern contains glob characters.
func containsGlob(pattern string) bool {
	for _, c := range pattern {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
