// Package discover locates the CKPE configuration file.
package discover

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ckpe-tools/ckpectl/internal/errors"
	"github.com/ckpe-tools/ckpectl/internal/logging"
)

// EnvVar is the environment variable consulted for the INI path.
const EnvVar = "CKPECTL_INI"

// InstallMarkers are files that identify a Creation Kit install directory.
// winhttp.dll is the loader shim CKPE ships as; the CKPE dll is the patch
// itself.
var InstallMarkers = []string{
	"CreationKit.exe",
	"CreationKitPlatformExtended.dll",
	"winhttp.dll",
}

// Install describes a directory that looks like a Creation Kit install.
type Install struct {
	// Path is the absolute path to the install directory.
	Path string `json:"path"`
	// IniPath is the absolute path to the INI inside it, empty when the
	// install has no configuration file yet.
	IniPath string `json:"ini_path,omitempty"`
	// Markers are the install markers found.
	Markers []string `json:"markers,omitempty"`
}

// Options carries the explicit path sources consulted before searching.
type Options struct {
	// Flag is the --ini flag value, highest priority.
	Flag string
	// Config is the ini path from the tool configuration.
	Config string
	// Dir is the directory searched when no explicit source is set.
	// Defaults to the working directory.
	Dir string
}

// Resolve returns the absolute path of the INI to operate on.
// Precedence: the --ini flag, then $CKPECTL_INI, then the tool config,
// then a search of Dir.
func Resolve(opts Options) (string, error) {
	sources := []struct {
		origin string
		path   string
	}{
		{"flag", opts.Flag},
		{"env", os.Getenv(EnvVar)},
		{"config", opts.Config},
	}
	for _, src := range sources {
		if src.path == "" {
			continue
		}
		abs, err := filepath.Abs(src.path)
		if err != nil {
			return "", err
		}
		if _, err := os.Stat(abs); err != nil {
			return "", errors.IniNotFound(abs)
		}
		logging.Debug("resolved ini path", "origin", src.origin, "path", abs)
		return abs, nil
	}

	dir := opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = wd
	}
	return Search(dir)
}

// Search looks for the INI under dir: dir itself first, then immediate
// subdirectories that look like Creation Kit installs, then anywhere
// below dir.
func Search(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	if path := iniIn(abs); path != "" {
		return path, nil
	}

	// Installs found without a configuration file; reported in the
	// not-found suggestion so 'ckpectl init' can target them.
	var bare []string

	entries, err := os.ReadDir(abs)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		install, err := Detect(filepath.Join(abs, entry.Name()))
		if err != nil || install == nil {
			continue
		}
		if install.IniPath != "" {
			logging.Debug("found ini in install", "dir", install.Path, "markers", strings.Join(install.Markers, ","))
			return install.IniPath, nil
		}
		bare = append(bare, install.Path)
	}

	// Walking all of $HOME or / is never useful.
	if !isHomeDir(abs) && !isRootDir(abs) {
		if path := walkFor(abs); path != "" {
			return path, nil
		}
	}

	return "", errors.IniNotLocated(abs, bare)
}

// Detect reports whether dir looks like a Creation Kit install.
// Returns nil when no marker matches.
func Detect(dir string) (*Install, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, os.ErrNotExist
	}

	install := &Install{Path: abs}
	for _, marker := range InstallMarkers {
		fi, err := os.Stat(filepath.Join(abs, marker))
		if err == nil && !fi.IsDir() {
			install.Markers = append(install.Markers, marker)
		}
	}
	if len(install.Markers) == 0 {
		return nil, nil
	}
	install.IniPath = iniIn(abs)
	return install, nil
}

// iniIn returns the INI path inside dir, or "" when absent.
func iniIn(dir string) string {
	path := filepath.Join(dir, errors.CanonicalFileName)
	if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
		return path
	}
	return ""
}

// walkFor returns the first CanonicalFileName below dir, skipping hidden
// directories. Empty when none exists.
func walkFor(dir string) string {
	var found string
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if d.Name() == errors.CanonicalFileName {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	return found
}

func isHomeDir(dir string) bool {
	home, err := os.UserHomeDir()
	if err != nil {
		return false
	}
	absHome, err := filepath.Abs(home)
	if err != nil {
		return false
	}
	return dir == absHome
}

func isRootDir(dir string) bool {
	return dir == "/" || dir == filepath.VolumeName(dir)+`\`
}
