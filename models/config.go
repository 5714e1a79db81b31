// Package models defines configuration structures shared by the commands.
package models

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config holds defaults loadable from a YAML file. CLI flags override every
// field.
type Config struct {
	Workers int    `yaml:"workers"`
	View    string `yaml:"view"`
	Format  string `yaml:"format"`
}

// DefaultConfig returns the built-in defaults used when no config file
// exists.
func DefaultConfig() *Config {
	return &Config{
		Workers: runtime.NumCPU(),
		View:    "detailed",
		Format:  "table",
	}
}

// LoadConfig reads a YAML config file, filling unset fields with defaults.
// A missing file is not an error; the defaults are returned.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.View == "" {
		config.View = "detailed"
	}
	if config.Format == "" {
		config.Format = "table"
	}
	return config, nil
}
