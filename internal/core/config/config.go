package config

import (
	"fmt"
	"time"

	"github.com/vietddude/faultline/internal/core/domain"
)

// Config is the top-level configuration for the error handling pipeline.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Reporting ReportingConfig `yaml:"reporting"`
	Retry     RetryConfig     `yaml:"retry"`
	Patterns  []PatternConfig `yaml:"patterns"`
}

// ServerConfig holds HTTP server settings for serve mode.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig controls how classified errors are emitted.
type LoggingConfig struct {
	Console      bool   `yaml:"console"`       // enable/disable emission
	Structured   bool   `yaml:"structured"`    // attribute record vs formatted line
	Level        string `yaml:"level"`         // minimum severity: INFO, LOW, MEDIUM, HIGH, CRITICAL
	IncludeStack bool   `yaml:"include_stack"` // append stack text when present
}

// ReportingConfig controls external forwarding. Forwarding stays off
// unless both endpoint and api_key are set.
type ReportingConfig struct {
	Enabled                 bool          `yaml:"enabled"`
	Endpoint                string        `yaml:"endpoint"`
	APIKey                  string        `yaml:"api_key"`
	IncludeUserData         bool          `yaml:"include_user_data"`
	IncludeTechnicalDetails bool          `yaml:"include_technical_details"`
	Timeout                 time.Duration `yaml:"timeout"`
}

// RetryConfig holds the default retry budget used when a call does not
// pass one explicitly.
type RetryConfig struct {
	MaxRetries int `yaml:"max_retries"`
}

// PatternConfig is a custom classification rule declared in YAML. Custom
// rules are consulted before the built-in table, in declaration order.
type PatternConfig struct {
	Name     string   `yaml:"name"`
	Match    []string `yaml:"match"` // case-insensitive substrings
	Category string   `yaml:"category"`
	Severity string   `yaml:"severity"`
	Action   string   `yaml:"action"`
	Message  string   `yaml:"message"`
}

// Default returns the baseline configuration. Loaded files and overrides
// are merged over it.
func Default() Config {
	return Config{
		Server: ServerConfig{Port: 8080},
		Logging: LoggingConfig{
			Console: true,
			Level:   "INFO",
		},
		Retry: RetryConfig{MaxRetries: 3},
	}
}

// Compile turns a PatternConfig into a domain pattern, validating the
// enum fields.
func (p PatternConfig) Compile() (domain.Pattern, error) {
	if len(p.Match) == 0 {
		return domain.Pattern{}, fmt.Errorf("pattern %q: no match phrases", p.Name)
	}

	category, err := parseCategory(p.Category)
	if err != nil {
		return domain.Pattern{}, fmt.Errorf("pattern %q: %w", p.Name, err)
	}
	action, err := parseAction(p.Action)
	if err != nil {
		return domain.Pattern{}, fmt.Errorf("pattern %q: %w", p.Name, err)
	}

	return domain.SubstringPattern(
		p.Name,
		p.Match,
		category,
		domain.ParseSeverity(p.Severity),
		action,
		p.Message,
	), nil
}

// CompilePatterns compiles every declared rule, preserving order.
func CompilePatterns(configs []PatternConfig) ([]domain.Pattern, error) {
	patterns := make([]domain.Pattern, 0, len(configs))
	for _, pc := range configs {
		p, err := pc.Compile()
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

func parseCategory(s string) (domain.Category, error) {
	for _, c := range domain.Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

func parseAction(s string) (domain.RecoveryAction, error) {
	switch domain.RecoveryAction(s) {
	case domain.ActionRetry, domain.ActionRefresh, domain.ActionValidate,
		domain.ActionContact, domain.ActionNone:
		return domain.RecoveryAction(s), nil
	}
	return "", fmt.Errorf("unknown recovery action %q", s)
}

// Overrides is a partial configuration merged over the current one. Nil
// fields leave the corresponding section untouched.
type Overrides struct {
	Logging    *LoggingConfig
	Reporting  *ReportingConfig
	MaxRetries *int
	Patterns   []PatternConfig
}

// Apply merges the overrides into the config.
func (c *Config) Apply(o Overrides) {
	if o.Logging != nil {
		c.Logging = *o.Logging
	}
	if o.Reporting != nil {
		c.Reporting = *o.Reporting
	}
	if o.MaxRetries != nil {
		c.Retry.MaxRetries = *o.MaxRetries
	}
	if o.Patterns != nil {
		c.Patterns = o.Patterns
	}
}
