// Package config provides configuration management for xmlfmt.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/open-cli-collective/xmlfmt/pkg/xmlfmt"
)

// DefaultExtensions are the file extensions formatted when walking directories.
var DefaultExtensions = []string{".xml"}

// maxIndentWidth bounds indent_width to something a person would choose.
const maxIndentWidth = 16

// Config holds the xmlfmt configuration.
type Config struct {
	IndentWidth  int      `yaml:"indent_width,omitempty"`
	Extensions   []string `yaml:"extensions,omitempty"`
	Jobs         int      `yaml:"jobs,omitempty"`
	OutputFormat string   `yaml:"output_format,omitempty"`
}

// Validate checks that all fields hold usable values. Zero values are valid
// and mean "use the default".
func (c *Config) Validate() error {
	if c.IndentWidth < 0 || c.IndentWidth > maxIndentWidth {
		return fmt.Errorf("indent_width must be between 0 and %d", maxIndentWidth)
	}
	if c.Jobs < 0 {
		return errors.New("jobs must not be negative")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	return nil
}

// FormatOptions returns the formatter options described by the config.
func (c *Config) FormatOptions() xmlfmt.Options {
	return xmlfmt.Options{IndentWidth: c.IndentWidth}
}

// FileExtensions returns the configured extensions, or DefaultExtensions.
func (c *Config) FileExtensions() []string {
	if len(c.Extensions) == 0 {
		return DefaultExtensions
	}
	return c.Extensions
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables override existing values only if set and non-empty.
// Values that do not parse are ignored with a warning.
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("XMLFMT_INDENT_WIDTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.IndentWidth = n
		} else {
			log.Printf("WARN: ignoring XMLFMT_INDENT_WIDTH=%q: %v", v, err)
		}
	}
	if v := os.Getenv("XMLFMT_JOBS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Jobs = n
		} else {
			log.Printf("WARN: ignoring XMLFMT_JOBS=%q: %v", v, err)
		}
	}
	if v := os.Getenv("XMLFMT_EXTENSIONS"); v != "" {
		c.Extensions = SplitExtensions(v)
	}
	if v := os.Getenv("XMLFMT_OUTPUT"); v != "" {
		c.OutputFormat = v
	}
}

// SplitExtensions parses a comma separated extension list. A missing leading
// dot is added, so "xml, svg" yields [".xml" ".svg"].
func SplitExtensions(s string) []string {
	var exts []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !strings.HasPrefix(part, ".") {
			part = "." + part
		}
		exts = append(exts, strings.ToLower(part))
	}
	return exts
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	// Try XDG config directory first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "xmlfmt", "config.yml")
	}

	// Fall back to ~/.config/xmlfmt/config.yml
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".xmlfmt", "config.yml")
	}

	return filepath.Join(home, ".config", "xmlfmt", "config.yml")
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	// Create directory if it doesn't exist
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

// Load reads the configuration from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnv loads configuration from file and overrides with environment variables.
// A missing file is not an error; a file that exists but does not parse is.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		// If file doesn't exist, start with empty config
		cfg = &Config{}
	}

	cfg.LoadFromEnv()
	return cfg, nil
}

// Resolve loads the configuration at path, or at DefaultConfigPath when path
// is empty, applies environment overrides and validates the result.
func Resolve(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg, err := LoadWithEnv(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
