// Package config loads formfield CLI settings from defaults, an optional
// YAML file, FORMFIELD_ environment variables, and bound flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides (FORMFIELD_LOG_LEVEL, ...).
const EnvPrefix = "FORMFIELD"

// Config holds the CLI settings.
type Config struct {
	Schema        string `mapstructure:"schema"`
	Component     string `mapstructure:"component"` // OpenAPI component schema; empty means a descriptor document
	Values        string `mapstructure:"values"`
	Output        string `mapstructure:"output"` // "-" writes to stdout
	LogLevel      string `mapstructure:"log_level"`
	MarkdownStyle string `mapstructure:"markdown_style"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		Output:        "-",
		LogLevel:      "warn",
		MarkdownStyle: "notty",
	}
}

// SetDefaults registers Defaults on v.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("schema", d.Schema)
	v.SetDefault("component", d.Component)
	v.SetDefault("values", d.Values)
	v.SetDefault("output", d.Output)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("markdown_style", d.MarkdownStyle)
}

// Load reads the configuration into a Config. An empty path skips the config
// file; a missing explicit file is an error.
func Load(v *viper.Viper, path string) (Config, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config: %s not found: %w", path, err)
			}
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseLevel maps a log level name onto slog.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: invalid log level %q: %w", name, err)
	}
	return level, nil
}
