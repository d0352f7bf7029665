package noodles

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config holds interpreter settings
type Config struct {
	Debug            bool     `yaml:"debug" toml:"debug"`
	LogCategories    []string `yaml:"log_categories" toml:"log_categories"`
	ShowErrorContext bool     `yaml:"show_error_context" toml:"show_error_context"`
	ContextLines     int      `yaml:"context_lines" toml:"context_lines"`
	MaxScopeDepth    int      `yaml:"max_scope_depth" toml:"max_scope_depth"`
	Color            bool     `yaml:"color" toml:"color"`

	// Stdout receives program output, Stderr diagnostics. Nil means the
	// process streams.
	Stdout io.Writer `yaml:"-" toml:"-"`
	Stderr io.Writer `yaml:"-" toml:"-"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Debug:            false,
		ShowErrorContext: true,
		ContextLines:     1,
		MaxScopeDepth:    10000,
		Color:            true,
	}
}

// Categories converts LogCategories, rejecting unknown names
func (c *Config) Categories() ([]LogCategory, error) {
	var cats []LogCategory
	for _, name := range c.LogCategories {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if name == "all" {
			return AllCategories, nil
		}
		found := false
		for _, cat := range AllCategories {
			if string(cat) == name {
				cats = append(cats, cat)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown log category %q", name)
		}
	}
	return cats, nil
}

// LoadConfigFile reads a YAML or TOML config file, chosen by extension, on
// top of the defaults
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	if _, err := cfg.Categories(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// WriteConfigFile saves cfg as YAML
func WriteConfigFile(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
