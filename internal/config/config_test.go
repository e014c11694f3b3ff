package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.StopTime != 1.0 {
		t.Errorf("expected stop time 1.0, got %g", cfg.StopTime)
	}
	if cfg.StepSize != 0.1 {
		t.Errorf("expected step size 0.1, got %g", cfg.StepSize)
	}
	if cfg.Logging {
		t.Error("logging should default to off")
	}
	if cfg.Separator != ";" {
		t.Errorf("expected separator ';', got %q", cfg.Separator)
	}
	if cfg.Output != "-" {
		t.Errorf("expected output '-', got %q", cfg.Output)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := []byte("fmu: bouncingBall.fmu\nstop_time: 4.0\nstep_size: 0.01\nlogging: true\nseparator: \",\"\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.FMU != "bouncingBall.fmu" {
		t.Errorf("fmu: got %q", cfg.FMU)
	}
	if cfg.StopTime != 4.0 || cfg.StepSize != 0.01 {
		t.Errorf("times: got %g/%g", cfg.StopTime, cfg.StepSize)
	}
	if !cfg.Logging {
		t.Error("logging should be on")
	}
	if cfg.SeparatorRune() != ',' {
		t.Errorf("separator: got %q", cfg.SeparatorRune())
	}
	if cfg.Output != "-" {
		t.Errorf("unset output should keep default, got %q", cfg.Output)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := DefaultConfig()
	cfg.FMU = "dq.fmu"
	cfg.StepSize = 0.25

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch: %+v vs %+v", loaded, cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero step", func(c *Config) { c.StepSize = 0 }, true},
		{"negative step", func(c *Config) { c.StepSize = -1 }, true},
		{"negative stop", func(c *Config) { c.StopTime = -1 }, true},
		{"empty separator", func(c *Config) { c.Separator = "" }, true},
		{"long separator", func(c *Config) { c.Separator = ";;" }, true},
		{"tab separator", func(c *Config) { c.Separator = "\t" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
