// Package config loads confkit's own run configuration with
// defaults -> file -> environment precedence.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dkoosis/confkit/pkg/sarif"
)

// Config controls which artifacts are checked and how findings are reported.
type Config struct {
	// Manifest is the project manifest path.
	Manifest string `yaml:"manifest"`
	// Workflows is the directory holding CI workflow files.
	Workflows string `yaml:"workflows"`
	// Severity maps rule ids to an overriding level (note, warning, error).
	Severity map[string]string `yaml:"severity"`
	// Disable lists rule ids whose findings are dropped.
	Disable []string `yaml:"disable"`
	// LogLevel sets zerolog's level for diagnostics.
	LogLevel string `yaml:"log-level"`
}

// Default paths when neither file nor environment say otherwise.
const (
	DefaultManifest  = "pyproject.toml"
	DefaultWorkflows = ".github/workflows"
)

var validLevels = map[string]struct{}{
	sarif.LevelNote: {}, sarif.LevelWarning: {}, sarif.LevelError: {},
}

// Load builds the effective configuration. A missing config file is fine;
// a present but malformed one is an error. A local .env file, if any, is
// loaded first so CONFKIT_* variables can live there.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Manifest:  DefaultManifest,
		Workflows: DefaultWorkflows,
		Severity:  map[string]string{},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config: %w", err)
			}
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(data, &fileCfg); err != nil {
				return cfg, fmt.Errorf("decode config: %w", err)
			}
			merge(&cfg, fileCfg)
		}
	}

	if v := os.Getenv("CONFKIT_MANIFEST"); v != "" {
		cfg.Manifest = v
	}
	if v := os.Getenv("CONFKIT_WORKFLOWS"); v != "" {
		cfg.Workflows = v
	}
	if v := os.Getenv("CONFKIT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func merge(dst *Config, src Config) {
	if src.Manifest != "" {
		dst.Manifest = src.Manifest
	}
	if src.Workflows != "" {
		dst.Workflows = src.Workflows
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	for id, level := range src.Severity {
		dst.Severity[id] = level
	}
	dst.Disable = append(dst.Disable, src.Disable...)
}

func (c Config) validate() error {
	for id, level := range c.Severity {
		if _, ok := validLevels[level]; !ok {
			return fmt.Errorf("severity override for %s: %q is not note, warning, or error", id, level)
		}
	}
	return nil
}

// Apply rewrites result levels per the severity overrides and drops results
// whose rule id is disabled.
func (c Config) Apply(results []sarif.Result) []sarif.Result {
	disabled := make(map[string]struct{}, len(c.Disable))
	for _, id := range c.Disable {
		disabled[id] = struct{}{}
	}

	out := results[:0]
	for _, res := range results {
		if _, off := disabled[res.RuleID]; off {
			continue
		}
		if level, ok := c.Severity[res.RuleID]; ok {
			res.Level = level
		}
		out = append(out, res)
	}
	return out
}
