// Package config resolves uagen settings from flags, environment, an
// optional TOML file and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/FranksOps/uagen/internal/generator"
	"github.com/FranksOps/uagen/internal/storage/open"
)

// EnvPrefix is prepended to every environment override, e.g. UAGEN_USA_RATIO.
const EnvPrefix = "UAGEN"

const (
	DefaultNumber   = 20
	DefaultOutput   = "unique_samsung_us_global_ua.json"
	DefaultUSARatio = 0.5
	DefaultLogLevel = "INFO"
)

// Report formats.
const (
	ReportNone = "none"
	ReportText = "text"
	ReportJSON = "json"
)

// Config holds the resolved settings for one invocation.
type Config struct {
	Number      int     `mapstructure:"number" toml:"number"`
	Output      string  `mapstructure:"output" toml:"output"`
	USARatio    float64 `mapstructure:"usa_ratio" toml:"usa_ratio"`
	LogLevel    string  `mapstructure:"log_level" toml:"log_level"`
	MaxAttempts int     `mapstructure:"max_attempts" toml:"max_attempts"`
	Seed        uint64  `mapstructure:"seed" toml:"seed"`
	Backend     string  `mapstructure:"backend" toml:"backend"`
	Report      string  `mapstructure:"report" toml:"report"`
	MetricsAddr string  `mapstructure:"metrics_addr" toml:"metrics_addr"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Number:   DefaultNumber,
		Output:   DefaultOutput,
		USARatio: DefaultUSARatio,
		LogLevel: DefaultLogLevel,
		Report:   ReportNone,
	}
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"number":       "number",
	"output":       "output",
	"usa-ratio":    "usa_ratio",
	"log-level":    "log_level",
	"max-attempts": "max_attempts",
	"seed":         "seed",
	"backend":      "backend",
	"report":       "report",
	"metrics-addr": "metrics_addr",
}

// New returns a viper instance preloaded with defaults and environment
// bindings.
func New() *viper.Viper {
	v := viper.New()
	d := Default()
	v.SetDefault("number", d.Number)
	v.SetDefault("output", d.Output)
	v.SetDefault("usa_ratio", d.USARatio)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("max_attempts", d.MaxAttempts)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("backend", d.Backend)
	v.SetDefault("report", d.Report)
	v.SetDefault("metrics_addr", d.MetricsAddr)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags binds every flag in fs that has a configuration key.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var errs []error
	fs.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		if err := v.BindPFlag(key, f); err != nil {
			errs = append(errs, fmt.Errorf("bind flag %s: %w", f.Name, err))
		}
	})
	return errors.Join(errs...)
}

// Load reads the optional config file and decodes the layered settings.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Validate rejects settings that would make a run meaningless. Violations
// wrap generator.ErrInvalidArgument.
func (c *Config) Validate() error {
	if err := generator.ValidateArgs(c.Number, c.USARatio); err != nil {
		return err
	}
	if strings.TrimSpace(c.Output) == "" {
		return fmt.Errorf("%w: output path is empty", generator.ErrInvalidArgument)
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("%w: max attempts must not be negative, got %d", generator.ErrInvalidArgument, c.MaxAttempts)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := open.ParseKind(c.Backend); err != nil {
		return fmt.Errorf("%w: %v", generator.ErrInvalidArgument, err)
	}
	switch strings.ToLower(c.Report) {
	case ReportNone, ReportText, ReportJSON, "":
	default:
		return fmt.Errorf("%w: unknown report format %q", generator.ErrInvalidArgument, c.Report)
	}
	return nil
}

// ParseLevel maps DEBUG, INFO, WARNING (or WARN) and ERROR to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO", "":
		return slog.LevelInfo, nil
	case "WARNING", "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: unknown log level %q", generator.ErrInvalidArgument, s)
	}
}

// WriteExample writes the default settings as a TOML file at path.
func WriteExample(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := toml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	content := `# uagen configuration
# Flags and UAGEN_* environment variables override these values.
` + string(data)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
