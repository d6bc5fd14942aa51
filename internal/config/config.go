package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"toolsmith/internal/paths"
	"toolsmith/internal/policy"
	"toolsmith/internal/starlark"
)

// Config is the optional config.json document tuning the extension policy.
// Zero values fall back to the policy defaults.
type Config struct {
	// AllowedModules overrides the import allow-list. Every entry must be
	// a module the embedded interpreter can serve.
	AllowedModules []string `json:"allowedModules,omitempty"`
	// MaxSourceBytes and MaxSourceLines override the proposal size limits.
	MaxSourceBytes int `json:"maxSourceBytes,omitempty"`
	MaxSourceLines int `json:"maxSourceLines,omitempty"`
}

// Load reads and parses a config file.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadDefault loads the config from the conventional location. A missing
// file is not an error; it yields an empty config.
func LoadDefault() (*Config, error) {
	configPath, err := paths.GetConfigPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{}, nil
	}
	return Load(configPath)
}

// Validate checks the configuration for basic validity. Allow-listing a
// module the interpreter cannot serve is rejected here, so an accepted
// tool never fails at load time over a missing module.
func (c *Config) Validate() error {
	for _, name := range c.AllowedModules {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("allowedModules contains an empty entry")
		}
		if !starlark.HasModule(name) {
			return fmt.Errorf("allowed module %q is not available (have: %s)",
				name, strings.Join(starlark.ModuleNames(), ", "))
		}
	}
	if c.MaxSourceBytes < 0 {
		return fmt.Errorf("maxSourceBytes must not be negative")
	}
	if c.MaxSourceLines < 0 {
		return fmt.Errorf("maxSourceLines must not be negative")
	}
	return nil
}

// Policy builds the extension policy described by this config, applying
// defaults for any unset field.
func (c *Config) Policy() *policy.Policy {
	p := policy.Default()
	if len(c.AllowedModules) > 0 {
		allowed := make(map[string]bool, len(c.AllowedModules))
		for _, name := range c.AllowedModules {
			allowed[name] = true
		}
		p.AllowedModules = allowed
	}
	if c.MaxSourceBytes > 0 {
		p.MaxSourceBytes = c.MaxSourceBytes
	}
	if c.MaxSourceLines > 0 {
		p.MaxSourceLines = c.MaxSourceLines
	}
	return p
}
