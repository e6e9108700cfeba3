// Package errors provides error types for ckpectl.
// This file contains INI file and parsing related errors.
package errors

import (
	"fmt"
	"path/filepath"
	"strings"
)

// CanonicalFileName is the only file name CKPE reads its configuration from.
const CanonicalFileName = "CreationKitPlatformExtended.ini"

// INI file error constructors.

// IniNotFound creates an error for a missing INI file.
func IniNotFound(path string) *CkpeError {
	return &CkpeError{
		Kind:    ErrNotFound,
		Message: fmt.Sprintf("INI file not found: %s", path),
		Details: map[string]string{
			"path": path,
		},
		Suggestion: `Point ckpectl at the CKPE configuration file:

  Option 1: Pass the path explicitly
    ckpectl --ini /path/to/CreationKitPlatformExtended.ini lint

  Option 2: Set the environment variable
    export CKPECTL_INI=/path/to/CreationKitPlatformExtended.ini

  Option 3: Run ckpectl from the Creation Kit install directory

  Option 4: Generate a fresh default file
    ckpectl init`,
	}
}

// IniNotLocated creates an error for a failed INI search. installs lists
// Creation Kit directories that matched install markers but hold no INI.
func IniNotLocated(dir string, installs []string) *CkpeError {
	e := &CkpeError{
		Kind:    ErrNotFound,
		Message: fmt.Sprintf("no %s found under %s", CanonicalFileName, dir),
		Details: map[string]string{
			"dir": dir,
		},
		Suggestion: `Pass the path with --ini, set CKPECTL_INI, or run ckpectl
  from the Creation Kit install directory. 'ckpectl init' writes a fresh
  default file.`,
	}
	if len(installs) > 0 {
		e.Details["installs"] = strings.Join(installs, ", ")
		e.Suggestion = fmt.Sprintf(`Found a Creation Kit install without the file:
  %s
Generate a default configuration there:
  ckpectl init --ini %s`,
			strings.Join(installs, "\n  "),
			filepath.Join(installs[0], CanonicalFileName))
	}
	return e
}

// FilenameMismatch creates an error for a file with a non-canonical name.
// CKPE only reads CreationKitPlatformExtended.ini, so editing anything else
// is almost always a mistake.
func FilenameMismatch(path, actual string) *CkpeError {
	return &CkpeError{
		Kind:    ErrFilename,
		Message: fmt.Sprintf("file must be named %q, got %q", CanonicalFileName, actual),
		Details: map[string]string{
			"path":     path,
			"expected": CanonicalFileName,
		},
		Suggestion: fmt.Sprintf(`CKPE only loads %s.
  Rename the file, or pass --allow-any-name if you are editing a copy on purpose.`, CanonicalFileName),
	}
}

// ParseFailed creates an error for an unreadable or malformed INI file.
func ParseFailed(path string, cause error) *CkpeError {
	return &CkpeError{
		Kind:    ErrParse,
		Message: fmt.Sprintf("failed to parse INI file: %s", path),
		Cause:   cause,
		Details: map[string]string{
			"path": path,
		},
		Suggestion: `Check the file for obvious damage:
  1. Section headers must look like [CreationKit]
  2. Entries must look like key=value
  3. Comments start with ;
Run 'ckpectl lint' for a detailed report once the file parses.`,
	}
}

// SectionNotFound creates an error for a missing section.
func SectionNotFound(section string) *CkpeError {
	return &CkpeError{
		Kind:    ErrNotFound,
		Message: fmt.Sprintf("section not found: [%s]", section),
		Details: map[string]string{
			"section": section,
		},
		Suggestion: "List the sections in the file with 'ckpectl list'.",
	}
}

// KeyNotFound creates an error for a key that is in neither the file nor
// the schema.
func KeyNotFound(section, key string) *CkpeError {
	return &CkpeError{
		Kind:    ErrNotFound,
		Message: fmt.Sprintf("no value or default for [%s] %s", section, key),
		Details: map[string]string{
			"section": section,
			"key":     key,
		},
		Suggestion: `Check the spelling against 'ckpectl schema list'.
  Keys follow the CKPE naming convention: bName (bool), uName (unsigned),
  nName (enum/int), fName (float), sName (string).`,
	}
}

// WriteFailed creates an error for a failed save.
func WriteFailed(path string, cause error) *CkpeError {
	return &CkpeError{
		Kind:    ErrStore,
		Message: fmt.Sprintf("failed to write INI file: %s", path),
		Cause:   cause,
		Details: map[string]string{
			"path": path,
		},
		Suggestion: `The original file is untouched (writes are atomic).
  Check directory permissions and free disk space, then retry.`,
	}
}
