package config

import (
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"

	"github.com/FranksOps/uagen/internal/generator"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(New(), "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *cfg != Default() {
		t.Errorf("expected defaults %+v, got %+v", Default(), *cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoad_Layering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uagen.toml")
	if err := WriteExample(path); err != nil {
		t.Fatalf("WriteExample failed: %v", err)
	}

	t.Setenv("UAGEN_USA_RATIO", "0.8")

	v := New()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.IntP("number", "n", DefaultNumber, "")
	fs.String("output", DefaultOutput, "")
	if err := BindFlags(v, fs); err != nil {
		t.Fatalf("BindFlags failed: %v", err)
	}
	if err := fs.Parse([]string{"-n", "7"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(v, path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Number != 7 {
		t.Errorf("expected flag to win with 7, got %d", cfg.Number)
	}
	if cfg.USARatio != 0.8 {
		t.Errorf("expected env to win with 0.8, got %v", cfg.USARatio)
	}
	if cfg.Output != DefaultOutput {
		t.Errorf("expected file/default output, got %s", cfg.Output)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(New(), filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Errorf("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero number", func(c *Config) { c.Number = 0 }},
		{"ratio too high", func(c *Config) { c.USARatio = 1.5 }},
		{"ratio negative", func(c *Config) { c.USARatio = -0.5 }},
		{"empty output", func(c *Config) { c.Output = " " }},
		{"negative attempts", func(c *Config) { c.MaxAttempts = -1 }},
		{"bad level", func(c *Config) { c.LogLevel = "TRACE" }},
		{"bad backend", func(c *Config) { c.Backend = "mongo" }},
		{"bad report", func(c *Config) { c.Report = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, generator.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"WARNING": slog.LevelWarn,
		"warn":    slog.LevelWarn,
		"ERROR":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
}
