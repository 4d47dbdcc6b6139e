// Package config holds the optional rule-level configuration of an
// audit: disabling individual detectors and overriding their severity.
// The zero configuration leaves the built-in rule set untouched.
package config

import (
	"encoding/json"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nsxbet/sql-auditor/pkg/types"
)

// Config represents the configuration for a SQL audit
type Config struct {
	ID    string        `yaml:"id" json:"id"`
	Rules []*RuleConfig `yaml:"rules" json:"rules"`
}

// RuleConfig adjusts one detector by name.
type RuleConfig struct {
	// Rule is the detector name, e.g. "SELECT_STAR".
	Rule string `yaml:"rule" json:"rule"`

	// Level overrides the issue severity when set.
	Level types.Severity `yaml:"level,omitempty" json:"level,omitempty"`

	// Disabled drops the detector's issues entirely.
	Disabled bool `yaml:"disabled,omitempty" json:"disabled,omitempty"`
}

// LoadFromFile loads configuration from a file
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config Config

	// Try YAML first, then JSON
	if err := yaml.Unmarshal(data, &config); err != nil {
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	}

	return &config, nil
}

// DefaultConfig returns a default configuration
func DefaultConfig(id string) *Config {
	return &Config{
		ID:    id,
		Rules: []*RuleConfig{},
	}
}

// RuleFor returns the configuration entry for a detector, or nil when
// the detector runs with its built-in behavior.
func (c *Config) RuleFor(name string) *RuleConfig {
	if c == nil {
		return nil
	}
	for _, rule := range c.Rules {
		if rule.Rule == name {
			return rule
		}
	}
	return nil
}

// Apply filters and remaps issues according to the configuration:
// issues of disabled detectors are dropped and severity overrides are
// applied. The input slice is not modified.
func (c *Config) Apply(issues []*types.Issue) []*types.Issue {
	if c == nil || len(c.Rules) == 0 {
		return issues
	}

	out := make([]*types.Issue, 0, len(issues))
	for _, issue := range issues {
		rule := c.RuleFor(issue.Rule)
		if rule == nil {
			out = append(out, issue)
			continue
		}
		if rule.Disabled {
			continue
		}
		if rule.Level != types.Severity_SEVERITY_UNSPECIFIED && rule.Level != issue.Severity {
			remapped := *issue
			remapped.Severity = rule.Level
			out = append(out, &remapped)
			continue
		}
		out = append(out, issue)
	}
	return out
}
