// Package config loads carscout configuration from YAML with CLI flag
// overrides applied by the command layer.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/marden/carscout/internal/models"
)

// DefaultConfigPath is the conventional config location relative to the
// working directory.
const DefaultConfigPath = ".carscout/config.yaml"

// EvaluatorConfig selects and configures the rule evaluator.
type EvaluatorConfig struct {
	// Kind is "embedded" (in-process rule engine) or "swipl" (external
	// SWI-Prolog subprocess). Unknown values fall back to embedded.
	Kind string `yaml:"kind"`

	// RulesFile is the Prolog rule file, used only by the swipl kind.
	RulesFile string `yaml:"rules_file"`

	// Timeout bounds one external evaluator invocation.
	Timeout time.Duration `yaml:"timeout"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr"`

	// ReadTimeout and WriteTimeout bound request handling.
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Config represents carscout configuration options.
type Config struct {
	// DatasetPath locates the integrated dataset (CSV or SQLite).
	DatasetPath string `yaml:"dataset"`

	// ReferenceYear anchors vehicle age derivation at load time.
	ReferenceYear int `yaml:"reference_year"`

	// LogLevel sets logging verbosity (trace, debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// Evaluator selects the rule evaluator.
	Evaluator EvaluatorConfig `yaml:"evaluator"`

	// Server configures the serve command.
	Server ServerConfig `yaml:"server"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		DatasetPath:   "data/integrated_cars.csv",
		ReferenceYear: models.DefaultReferenceYear,
		LogLevel:      "info",
		Evaluator: EvaluatorConfig{
			Kind:    "embedded",
			Timeout: 10 * time.Second,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}
}

// LoadConfig loads configuration from the specified file path.
// A missing file returns the defaults without error; a malformed file is an
// error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Durations arrive as strings in YAML; parse through a shadow struct.
	type yamlEvaluator struct {
		Kind      string `yaml:"kind"`
		RulesFile string `yaml:"rules_file"`
		Timeout   string `yaml:"timeout"`
	}
	type yamlServer struct {
		Addr         string `yaml:"addr"`
		ReadTimeout  string `yaml:"read_timeout"`
		WriteTimeout string `yaml:"write_timeout"`
	}
	type yamlConfig struct {
		DatasetPath   string        `yaml:"dataset"`
		ReferenceYear int           `yaml:"reference_year"`
		LogLevel      string        `yaml:"log_level"`
		Evaluator     yamlEvaluator `yaml:"evaluator"`
		Server        yamlServer    `yaml:"server"`
	}

	var raw yamlConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if raw.DatasetPath != "" {
		cfg.DatasetPath = raw.DatasetPath
	}
	if raw.ReferenceYear != 0 {
		cfg.ReferenceYear = raw.ReferenceYear
	}
	if raw.LogLevel != "" {
		cfg.LogLevel = raw.LogLevel
	}
	if raw.Evaluator.Kind != "" {
		cfg.Evaluator.Kind = raw.Evaluator.Kind
	}
	if raw.Evaluator.RulesFile != "" {
		cfg.Evaluator.RulesFile = raw.Evaluator.RulesFile
	}
	if raw.Evaluator.Timeout != "" {
		timeout, err := time.ParseDuration(raw.Evaluator.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid evaluator timeout %q: %w", raw.Evaluator.Timeout, err)
		}
		cfg.Evaluator.Timeout = timeout
	}
	if raw.Server.Addr != "" {
		cfg.Server.Addr = raw.Server.Addr
	}
	if raw.Server.ReadTimeout != "" {
		timeout, err := time.ParseDuration(raw.Server.ReadTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid server read timeout %q: %w", raw.Server.ReadTimeout, err)
		}
		cfg.Server.ReadTimeout = timeout
	}
	if raw.Server.WriteTimeout != "" {
		timeout, err := time.ParseDuration(raw.Server.WriteTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid server write timeout %q: %w", raw.Server.WriteTimeout, err)
		}
		cfg.Server.WriteTimeout = timeout
	}

	return cfg, nil
}
