// Package config provides configuration loading and management for
// ckpectl.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/google/renameio/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigName is the per-directory config file name.
	DefaultConfigName = ".ckpectl.yaml"

	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix = "CKPECTL"

	// EnvConfig names the environment variable pointing at an explicit
	// config file.
	EnvConfig = "CKPECTL_CONFIG"
)

// Loader handles loading configuration from files and environment.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

// LoadConfig loads configuration, applies defaults, merges environment
// variables, and validates the result. An explicit path (argument or
// $CKPECTL_CONFIG) must exist; otherwise the search falls through
// .ckpectl.yaml in the working directory, then the XDG config dir, then
// plain defaults when no file exists anywhere.
func (l *Loader) LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		if v := os.Getenv(EnvConfig); v != "" {
			path = v
			explicit = true
		}
	}
	if !explicit {
		path = searchPath()
	}

	cfg := NewConfig()

	if path == "" {
		// No config file anywhere; env overrides still apply.
		l.applyEnvOverrides(cfg)
		cfg.ApplyDefaults()
		if err := cfg.Validate(); err != nil {
			return nil, &LoadError{Path: "(defaults)", Message: "configuration validation failed", Err: err}
		}
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &LoadError{
			Path:    path,
			Message: "config file not found",
			Err:     err,
		}
	}

	l.v.SetConfigFile(path)

	if err := l.v.ReadInConfig(); err != nil {
		return nil, &LoadError{
			Path:    path,
			Message: "failed to read config file",
			Err:     err,
		}
	}

	if err := l.v.Unmarshal(cfg, viperDecodeHook); err != nil {
		return nil, &LoadError{
			Path:    path,
			Message: "failed to parse config file",
			Err:     err,
		}
	}

	l.applyEnvOverrides(cfg)

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, &LoadError{
			Path:    path,
			Message: "configuration validation failed",
			Err:     err,
		}
	}

	return cfg, nil
}

// searchPath returns the first config file found on the search path, or
// empty when none exists.
func searchPath() string {
	if _, err := os.Stat(DefaultConfigName); err == nil {
		return DefaultConfigName
	}
	if xdg := xdgConfigPath(); xdg != "" {
		if _, err := os.Stat(xdg); err == nil {
			return xdg
		}
	}
	return ""
}

// xdgConfigPath returns $XDG_CONFIG_HOME/ckpectl/config.yaml, falling
// back to ~/.config.
func xdgConfigPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "ckpectl", "config.yaml")
}

// applyEnvOverrides applies environment variable overrides to the
// config. CKPECTL_INI is deliberately absent: the INI path env var
// belongs to discovery, which already ranks it above the config file.
func (l *Loader) applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvPrefix + "_STRICT_NAMES"); v != "" {
		cfg.StrictNames = parseBool(v)
	}

	if v := os.Getenv(EnvPrefix + "_BACKUP_ENABLED"); v != "" {
		cfg.Backup.Enabled = parseBool(v)
	}
	if v := os.Getenv(EnvPrefix + "_BACKUP_DIR"); v != "" {
		cfg.Backup.Dir = v
	}
	if v := os.Getenv(EnvPrefix + "_BACKUP_KEEP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Backup.Keep = n
		}
	}

	if v := os.Getenv(EnvPrefix + "_OUTPUT_COLOR"); v != "" {
		cfg.Output.Color = ColorMode(v)
	}
	if v := os.Getenv(EnvPrefix + "_OUTPUT_FORMAT"); v != "" {
		cfg.Output.Format = OutputFormat(v)
	}

	if v := os.Getenv(EnvPrefix + "_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvPrefix + "_LOG_DIR"); v != "" {
		cfg.Log.Dir = v
	}
	if v := os.Getenv(EnvPrefix + "_LOG_CONSOLE"); v != "" {
		cfg.Log.Console = parseBool(v)
	}
}

// parseBool parses a string as a boolean value.
// Returns true for "true", "1", "yes" (case-insensitive).
// Returns false for anything else.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes"
}

// viperDecodeHook provides custom decoding for viper unmarshaling.
// It composes the standard mapstructure hooks with our custom ones.
func viperDecodeHook(dc *mapstructure.DecoderConfig) {
	dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		stringToCustomTypeHookFunc(),
	)
}

// stringToCustomTypeHookFunc creates a decode hook for our custom types.
func stringToCustomTypeHookFunc() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String {
			return data, nil
		}

		switch to {
		case reflect.TypeOf(ColorMode("")):
			return ColorMode(data.(string)), nil
		case reflect.TypeOf(OutputFormat("")):
			return OutputFormat(data.(string)), nil
		}

		return data, nil
	}
}

// Save writes cfg to path as YAML, creating parent directories as
// needed. The write is atomic so a crash cannot leave a half-written
// config behind.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	t, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644), renameio.WithExistingPermissions())
	if err != nil {
		return fmt.Errorf("stage config write: %w", err)
	}
	defer func() { _ = t.Cleanup() }()

	if _, err := t.Write(data); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := t.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

// LoadError represents an error that occurred while loading configuration.
type LoadError struct {
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load is a convenience function that creates a new Loader and loads
// configuration. An empty path walks the search path.
func Load(path string) (*Config, error) {
	return NewLoader().LoadConfig(path)
}
