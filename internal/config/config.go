// Package config provides configuration data structures for ckpectl.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete ckpectl configuration loaded from
// .ckpectl.yaml.
type Config struct {
	// Ini is the path to the CKPE INI file. Empty means discover it
	// from the environment or the working directory.
	Ini string `yaml:"ini" json:"ini" mapstructure:"ini"`
	// StrictNames enforces the canonical INI file name (default: true).
	StrictNames bool `yaml:"strict_names" json:"strict_names" mapstructure:"strict_names"`

	Backup BackupConfig `yaml:"backup" json:"backup" mapstructure:"backup"`
	Output OutputConfig `yaml:"output" json:"output" mapstructure:"output"`
	Log    LogConfig    `yaml:"log"    json:"log"    mapstructure:"log"`
	Hooks  HooksConfig  `yaml:"hooks"  json:"hooks"  mapstructure:"hooks"`
}

// BackupConfig configures pre-save snapshots.
type BackupConfig struct {
	// Enabled turns snapshots before each save on (default: true).
	Enabled bool `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	// Dir is the snapshot directory. Empty means .ckpectl/backups next
	// to the INI.
	Dir string `yaml:"dir" json:"dir" mapstructure:"dir"`
	// Keep is how many snapshots to retain, 1 to 100 (default: 5).
	Keep int `yaml:"keep" json:"keep" mapstructure:"keep"`
}

// ColorMode controls ANSI color in command output.
type ColorMode string

const (
	// ColorAuto colors output only when stdout is a terminal.
	ColorAuto ColorMode = "auto"
	// ColorAlways colors output unconditionally.
	ColorAlways ColorMode = "always"
	// ColorNever emits plain text.
	ColorNever ColorMode = "never"
)

// OutputFormat selects the rendering of command output.
type OutputFormat string

const (
	// FormatText renders human-readable tables and reports.
	FormatText OutputFormat = "text"
	// FormatJSON renders machine-readable JSON.
	FormatJSON OutputFormat = "json"
)

// OutputConfig configures command output.
type OutputConfig struct {
	// Color controls ANSI color (default: auto).
	Color ColorMode `yaml:"color" json:"color" mapstructure:"color"`
	// Format selects text or json output (default: text).
	Format OutputFormat `yaml:"format" json:"format" mapstructure:"format"`
}

// LogConfig configures the log file.
type LogConfig struct {
	// Level is the minimum level written to the log (default: info).
	Level string `yaml:"level" json:"level" mapstructure:"level"`
	// Dir overrides the log directory. Empty means the user cache dir.
	Dir string `yaml:"dir" json:"dir" mapstructure:"dir"`
	// Console echoes log records to stderr (default: false).
	Console bool `yaml:"console" json:"console" mapstructure:"console"`
}

// HooksConfig configures post-save hooks.
type HooksConfig struct {
	// PostSave commands run via sh -c after each successful save.
	PostSave []string `yaml:"post_save" json:"post_save" mapstructure:"post_save"`
	// Timeout bounds each hook command (default: 30s).
	Timeout time.Duration `yaml:"timeout" json:"timeout" mapstructure:"timeout"`
}

// Default values.
const (
	DefaultBackupKeep  = 5
	MaxBackupKeep      = 100
	DefaultLogLevel    = "info"
	DefaultHookTimeout = 30 * time.Second
)

// NewConfig returns a new Config with default values applied.
func NewConfig() *Config {
	return &Config{
		Ini:         "",
		StrictNames: true,
		Backup: BackupConfig{
			Enabled: true,
			Dir:     "",
			Keep:    DefaultBackupKeep,
		},
		Output: OutputConfig{
			Color:  ColorAuto,
			Format: FormatText,
		},
		Log: LogConfig{
			Level:   DefaultLogLevel,
			Dir:     "",
			Console: false,
		},
		Hooks: HooksConfig{
			PostSave: []string{},
			Timeout:  DefaultHookTimeout,
		},
	}
}

// ApplyDefaults applies default values to any unset fields.
// This is used after loading config from file to fill in missing values.
func (c *Config) ApplyDefaults() {
	defaults := NewConfig()

	if c.Backup.Keep == 0 {
		c.Backup.Keep = defaults.Backup.Keep
	}
	// Note: Backup.Enabled and StrictNames default to true but an
	// explicit false is indistinguishable from unset here. The loader
	// handles this by unmarshaling over the default config.

	if c.Output.Color == "" {
		c.Output.Color = defaults.Output.Color
	}
	if c.Output.Format == "" {
		c.Output.Format = defaults.Output.Format
	}

	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}

	if c.Hooks.PostSave == nil {
		c.Hooks.PostSave = []string{}
	}
	if c.Hooks.Timeout == 0 {
		c.Hooks.Timeout = defaults.Hooks.Timeout
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	msg := "multiple validation errors:"
	for _, err := range e {
		msg += "\n  - " + err.Error()
	}
	return msg
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.Backup.Keep < 1 || c.Backup.Keep > MaxBackupKeep {
		errs = append(errs, &ValidationError{
			Field:   "backup.keep",
			Message: fmt.Sprintf("must be between 1 and %d", MaxBackupKeep),
		})
	}

	if c.Output.Color != "" {
		switch c.Output.Color {
		case ColorAuto, ColorAlways, ColorNever:
			// valid
		default:
			errs = append(errs, &ValidationError{
				Field:   "output.color",
				Message: "must be 'auto', 'always', or 'never'",
			})
		}
	}

	if c.Output.Format != "" {
		switch c.Output.Format {
		case FormatText, FormatJSON:
			// valid
		default:
			errs = append(errs, &ValidationError{
				Field:   "output.format",
				Message: "must be 'text' or 'json'",
			})
		}
	}

	if c.Log.Level != "" {
		switch c.Log.Level {
		case "debug", "info", "warn", "error":
			// valid
		default:
			errs = append(errs, &ValidationError{
				Field:   "log.level",
				Message: "must be 'debug', 'info', 'warn', or 'error'",
			})
		}
	}

	if c.Hooks.Timeout < 0 {
		errs = append(errs, &ValidationError{
			Field:   "hooks.timeout",
			Message: "must be non-negative",
		})
	}
	for i, command := range c.Hooks.PostSave {
		if command == "" {
			errs = append(errs, &ValidationError{
				Field:   fmt.Sprintf("hooks.post_save[%d]", i),
				Message: "command must not be empty",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
