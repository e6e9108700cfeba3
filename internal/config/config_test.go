package config

import (
	"strings"
	"testing"
	"time"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()

	if !cfg.StrictNames {
		t.Error("StrictNames = false, want true")
	}
	if !cfg.Backup.Enabled {
		t.Error("Backup.Enabled = false, want true")
	}
	if cfg.Backup.Keep != DefaultBackupKeep {
		t.Errorf("Backup.Keep = %d, want %d", cfg.Backup.Keep, DefaultBackupKeep)
	}
	if cfg.Output.Color != ColorAuto {
		t.Errorf("Output.Color = %q, want auto", cfg.Output.Color)
	}
	if cfg.Output.Format != FormatText {
		t.Errorf("Output.Format = %q, want text", cfg.Output.Format)
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, DefaultLogLevel)
	}
	if cfg.Hooks.PostSave == nil || len(cfg.Hooks.PostSave) != 0 {
		t.Errorf("Hooks.PostSave = %v, want empty slice", cfg.Hooks.PostSave)
	}
	if cfg.Hooks.Timeout != DefaultHookTimeout {
		t.Errorf("Hooks.Timeout = %v, want %v", cfg.Hooks.Timeout, DefaultHookTimeout)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	if cfg.Backup.Keep != DefaultBackupKeep {
		t.Errorf("Backup.Keep = %d, want %d", cfg.Backup.Keep, DefaultBackupKeep)
	}
	if cfg.Output.Color != ColorAuto {
		t.Errorf("Output.Color = %q, want auto", cfg.Output.Color)
	}
	if cfg.Output.Format != FormatText {
		t.Errorf("Output.Format = %q, want text", cfg.Output.Format)
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, DefaultLogLevel)
	}
	if cfg.Hooks.PostSave == nil {
		t.Error("Hooks.PostSave = nil, want empty slice")
	}
	if cfg.Hooks.Timeout != DefaultHookTimeout {
		t.Errorf("Hooks.Timeout = %v, want %v", cfg.Hooks.Timeout, DefaultHookTimeout)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Backup.Keep = 10
	cfg.Output.Color = ColorNever
	cfg.Log.Level = "debug"
	cfg.Hooks.Timeout = time.Minute

	cfg.ApplyDefaults()

	if cfg.Backup.Keep != 10 {
		t.Errorf("Backup.Keep = %d, want 10", cfg.Backup.Keep)
	}
	if cfg.Output.Color != ColorNever {
		t.Errorf("Output.Color = %q, want never", cfg.Output.Color)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Hooks.Timeout != time.Minute {
		t.Errorf("Hooks.Timeout = %v, want 1m", cfg.Hooks.Timeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:   "defaults are valid",
			mutate: func(_ *Config) {},
		},
		{
			name:      "keep too small",
			mutate:    func(c *Config) { c.Backup.Keep = 0 },
			wantField: "backup.keep",
		},
		{
			name:      "keep too large",
			mutate:    func(c *Config) { c.Backup.Keep = 500 },
			wantField: "backup.keep",
		},
		{
			name:      "bad color mode",
			mutate:    func(c *Config) { c.Output.Color = "sometimes" },
			wantField: "output.color",
		},
		{
			name:      "bad output format",
			mutate:    func(c *Config) { c.Output.Format = "xml" },
			wantField: "output.format",
		},
		{
			name:      "bad log level",
			mutate:    func(c *Config) { c.Log.Level = "loud" },
			wantField: "log.level",
		},
		{
			name:      "negative hook timeout",
			mutate:    func(c *Config) { c.Hooks.Timeout = -time.Second },
			wantField: "hooks.timeout",
		},
		{
			name:      "empty hook command",
			mutate:    func(c *Config) { c.Hooks.PostSave = []string{"echo ok", ""} },
			wantField: "hooks.post_save[1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("Validate() = %v, want mention of %s", err, tt.wantField)
			}
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := NewConfig()
	cfg.Backup.Keep = 0
	cfg.Output.Color = "sometimes"
	cfg.Log.Level = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want errors")
	}

	verrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("error type = %T, want ValidationErrors", err)
	}
	if len(verrs) != 3 {
		t.Errorf("len(errors) = %d, want 3: %v", len(verrs), verrs)
	}
	if !strings.Contains(err.Error(), "multiple validation errors") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestValidationErrors_Error(t *testing.T) {
	tests := []struct {
		name string
		errs ValidationErrors
		want string
	}{
		{
			name: "empty",
			errs: ValidationErrors{},
			want: "",
		},
		{
			name: "single",
			errs: ValidationErrors{{Field: "backup.keep", Message: "must be between 1 and 100"}},
			want: "backup.keep: must be between 1 and 100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.errs.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}
