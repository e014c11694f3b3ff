package config

import (
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

const (
	DefaultStopTime  = 1.0
	DefaultStepSize  = 0.1
	DefaultSeparator = ";"
	DefaultOutput    = "-"
)

// Config is one run's parameter surface. Output "-" means standard output,
// an empty string means no output, anything else a file path.
type Config struct {
	FMU       string  `yaml:"fmu"`
	StopTime  float64 `yaml:"stop_time"`
	StepSize  float64 `yaml:"step_size"`
	Logging   bool    `yaml:"logging"`
	Separator string  `yaml:"separator"`
	Output    string  `yaml:"output"`
}

func DefaultConfig() *Config {
	return &Config{
		StopTime:  DefaultStopTime,
		StepSize:  DefaultStepSize,
		Separator: DefaultSeparator,
		Output:    DefaultOutput,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.StepSize <= 0 {
		return fmt.Errorf("config: step size must be positive, got %g", c.StepSize)
	}
	if c.StopTime < 0 {
		return fmt.Errorf("config: stop time must not be negative, got %g", c.StopTime)
	}
	if utf8.RuneCountInString(c.Separator) != 1 {
		return fmt.Errorf("config: separator must be a single character, got %q", c.Separator)
	}
	return nil
}

// SeparatorRune returns the configured column separator. Validate first.
func (c *Config) SeparatorRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Separator)
	return r
}
