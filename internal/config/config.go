// Package config loads the optional cpconfirm YAML configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the file-configurable settings. Command-line flags override
// any value set here.
type Config struct {
	// Jobs is the hash worker count.
	Jobs int `yaml:"jobs"`

	// HashBuffer is the streaming read chunk size in bytes.
	HashBuffer int `yaml:"hash_buffer"`

	// Cache is the path to the digest cache database. Empty disables
	// caching.
	Cache string `yaml:"cache"`

	// NoProgressBar disables the terminal progress bar.
	NoProgressBar bool `yaml:"no_progress_bar"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Jobs:       1,
		HashBuffer: 1 << 20,
	}
}

// Load reads and validates a YAML config file, starting from Default.
// Unknown keys are rejected so typos fail loudly instead of being ignored.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be >= 1, got %d", c.Jobs)
	}
	if c.HashBuffer < 1 {
		return fmt.Errorf("hash_buffer must be >= 1, got %d", c.HashBuffer)
	}
	return nil
}
