package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file, merging it over Default().
// Environment variables in the file content are expanded before parsing,
// so secrets like the reporting API key can live in the environment.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Retry.MaxRetries < 0 {
		return nil, fmt.Errorf("retry.max_retries must not be negative")
	}
	if _, err := CompilePatterns(cfg.Patterns); err != nil {
		return nil, err
	}

	return &cfg, nil
}
