// Package errors provides error types for ckpectl.
// This file contains validation, backup and migration related errors.
package errors

import (
	"fmt"
	"strings"
)

// Validation error constructors.

// ValueRejected creates an error for a value that failed its key spec.
func ValueRejected(section, key, value, reason string) *CkpeError {
	return &CkpeError{
		Kind:    ErrValidation,
		Message: fmt.Sprintf("invalid value for [%s] %s: %s", section, key, reason),
		Details: map[string]string{
			"section": section,
			"key":     key,
			"value":   value,
		},
		Suggestion: fmt.Sprintf("Show the accepted values with 'ckpectl schema show %s.%s'.", section, key),
	}
}

// UnknownKey creates an error for writing a key the schema does not know
// inside a typed section.
func UnknownKey(section, key string) *CkpeError {
	return &CkpeError{
		Kind:    ErrValidation,
		Message: fmt.Sprintf("unknown key [%s] %s", section, key),
		Details: map[string]string{
			"section": section,
			"key":     key,
		},
		Suggestion: `Only schema-known keys can be added to typed sections.
  Free-form entries belong in the [Hotkeys] or [Log] sections.
  If the key is a new CKPE option, add it via a schema overlay:
    ckpectl --help schema`,
	}
}

// EnumRejected creates an error for an enum value outside its option set.
func EnumRejected(section, key, value string, labels []string) *CkpeError {
	return &CkpeError{
		Kind:    ErrValidation,
		Message: fmt.Sprintf("invalid value %q for [%s] %s", value, section, key),
		Details: map[string]string{
			"section": section,
			"key":     key,
			"value":   value,
		},
		Suggestion: fmt.Sprintf("Valid options: %s (labels or their numeric values).", strings.Join(labels, ", ")),
	}
}

// Backup error constructors.

// BackupFailed creates an error for a failed snapshot.
func BackupFailed(src string, cause error) *CkpeError {
	return &CkpeError{
		Kind:    ErrBackup,
		Message: fmt.Sprintf("failed to back up %s", src),
		Cause:   cause,
		Details: map[string]string{
			"source": src,
		},
		Suggestion: `Nothing was written to the INI file.
  Check the backup directory is writable, or disable backups:
    ckpectl set --no-backup ...`,
	}
}

// BackupNotFound creates an error for a missing snapshot.
func BackupNotFound(name string) *CkpeError {
	return &CkpeError{
		Kind:    ErrNotFound,
		Message: fmt.Sprintf("backup not found: %s", name),
		Details: map[string]string{
			"name": name,
		},
		Suggestion: "List available backups with 'ckpectl backup list'.",
	}
}

// Migration error constructors.

// MigrateFailed creates an error for a migration that could not be applied.
func MigrateFailed(cause error) *CkpeError {
	return &CkpeError{
		Kind:    ErrMigrate,
		Message: "migration failed",
		Cause:   cause,
		Suggestion: `The file was not modified.
  Run 'ckpectl migrate --dry-run' to see what the migration would change.`,
	}
}

// HookFailed creates an error for a post-save hook failure.
// The save itself has already completed when this is returned.
func HookFailed(command string, exitCode int, output string) *CkpeError {
	e := &CkpeError{
		Kind:    ErrHook,
		Message: fmt.Sprintf("post-save hook exited with code %d", exitCode),
		Details: map[string]string{
			"command": command,
		},
		Suggestion: "The INI file was saved; only the hook failed. Fix or remove the hook in the ckpectl config (hooks.post_save).",
	}
	if output != "" {
		e.Details["output"] = output
	}
	return e
}
