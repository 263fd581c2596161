// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// Default settings
	Defaults struct {
		Format  string `yaml:"format"`
		Workers int    `yaml:"workers"`
		Verbose bool   `yaml:"verbose"`
		Debug   bool   `yaml:"debug"`
		NoColor bool   `yaml:"no_color"`
	} `yaml:"defaults"`

	// Redaction configurations
	Redaction struct {
		// Strategy is the default redaction strategy name
		Strategy string `yaml:"strategy"`

		// Overrides maps entity type names to per-type strategy names
		Overrides map[string]string `yaml:"overrides"`

		// Fields lists the record fields scanned for PII. Empty means the
		// built-in default field set.
		Fields []string `yaml:"fields"`
	} `yaml:"redaction"`

	// Profiles for different redaction scenarios
	Profiles map[string]Profile `yaml:"profiles"`
}

// Profile represents a redaction profile with specific settings
type Profile struct {
	Format      string `yaml:"format"`
	Workers     int    `yaml:"workers"`
	Verbose     bool   `yaml:"verbose"`
	Debug       bool   `yaml:"debug"`
	NoColor     bool   `yaml:"no_color"`
	Description string `yaml:"description"`
	Redaction   struct {
		Strategy  string            `yaml:"strategy"`
		Overrides map[string]string `yaml:"overrides"`
		Fields    []string          `yaml:"fields"`
	} `yaml:"redaction"`
}

// LoadConfig loads configuration from the specified file path
func LoadConfig(configPath string) (*Config, error) {
	// Default configuration
	config := &Config{
		Profiles: make(map[string]Profile),
	}

	// Set default values
	config.Defaults.Format = "text"
	config.Defaults.Workers = 0
	config.Defaults.Verbose = false
	config.Defaults.Debug = false
	config.Defaults.NoColor = false
	config.Redaction.Strategy = "placeholder"

	// If no config file specified, return default config
	if configPath == "" {
		return config, nil
	}

	// Read config file
	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Restore defaults if not explicitly set in config file
	if !containsField(data, "defaults", "format") {
		config.Defaults.Format = "text"
	}
	if !containsField(data, "redaction", "strategy") {
		config.Redaction.Strategy = "placeholder"
	}

	return config, nil
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile() string {
	// Check current directory first - prioritize config.yaml
	if fileExists("config.yaml") {
		return "config.yaml"
	}
	if fileExists("transcript-scrub.yaml") {
		return "transcript-scrub.yaml"
	}
	if fileExists("transcript-scrub.yml") {
		return "transcript-scrub.yml"
	}

	// Check for .transcript-scrub.yaml in current directory (project-specific config)
	if fileExists(".transcript-scrub.yaml") {
		return ".transcript-scrub.yaml"
	}
	if fileExists(".transcript-scrub.yml") {
		return ".transcript-scrub.yml"
	}

	// Check explicit override
	if dir := os.Getenv("TRANSCRIPT_SCRUB_CONFIG_DIR"); dir != "" {
		configFile := filepath.Join(dir, "config.yaml")
		if fileExists(configFile) {
			return configFile
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	// Check legacy location in home directory
	homeConfig := filepath.Join(home, ".transcript-scrub.yaml")
	if fileExists(homeConfig) {
		return homeConfig
	}

	// Check XDG config directory
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	xdgConfigFile := filepath.Join(xdgConfig, "transcript-scrub", "config.yaml")
	if fileExists(xdgConfigFile) {
		return xdgConfigFile
	}
	xdgConfigFile = filepath.Join(xdgConfig, "transcript-scrub", "config.yml")
	if fileExists(xdgConfigFile) {
		return xdgConfigFile
	}

	return ""
}

// fileExists checks if a file exists and is not a directory. Any stat
// failure, not only absence, counts as not existing.
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ListProfiles returns a list of available profile names
func (c *Config) ListProfiles() []string {
	profiles := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		profiles = append(profiles, name)
	}
	return profiles
}

// GetProfile returns a profile by name, or nil if not found
func (c *Config) GetProfile(name string) *Profile {
	if profile, exists := c.Profiles[name]; exists {
		return &profile
	}
	return nil
}

// containsField checks if a nested field exists in the YAML data
func containsField(data []byte, path ...string) bool {
	var yamlData map[string]interface{}
	err := yaml.Unmarshal(data, &yamlData)
	if err != nil {
		return false
	}

	current := yamlData
	for i, key := range path {
		if i == len(path)-1 {
			// Last key - check if it exists
			_, exists := current[key]
			return exists
		}
		// Intermediate key - navigate deeper
		if next, ok := current[key].(map[string]interface{}); ok {
			current = next
		} else {
			return false
		}
	}
	return false
}

// LoadConfigOrDefault loads configuration from configFile (or searches standard
// locations when configFile is empty). If loading fails, it returns a default
// configuration.
func LoadConfigOrDefault(configFile string) *Config {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		cfg, _ = LoadConfig("")
	}
	return cfg
}
