// Package backup keeps timestamped snapshots of an INI file next to an
// index of what was taken when. Old snapshots are pruned so a broken
// save never costs more than the retention window.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/renameio/v2"

	"github.com/ckpe-tools/ckpectl/internal/errors"
	"github.com/ckpe-tools/ckpectl/internal/logging"
)

// DefaultKeep is how many snapshots are retained when the tool config
// does not say otherwise.
const DefaultKeep = 5

// IndexFilename is the name of the snapshot index inside the backup
// directory.
const IndexFilename = "index.json"

// indexMetadata describes the index file itself.
type indexMetadata struct {
	Version   string    `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot is one retained copy of the INI file.
type Snapshot struct {
	// File is the snapshot's file name inside the backup directory.
	File string `json:"file"`
	// Source is the path the snapshot was taken from.
	Source string `json:"source"`
	// CreatedAt is when the snapshot was taken.
	CreatedAt time.Time `json:"created_at"`
	// Size is the snapshot size in bytes.
	Size int64 `json:"size"`
}

type index struct {
	Metadata  indexMetadata `json:"metadata"`
	Snapshots []*Snapshot   `json:"snapshots"`
}

// Manager takes, lists, and restores snapshots in one directory.
type Manager struct {
	dir  string
	keep int
	mu   sync.Mutex
	log  *logging.Logger

	// lastStamp and seq make names within one second strictly
	// increasing, so a pruned name is never handed out again.
	lastStamp string
	seq       int
}

// DefaultDir returns the backup directory used for an INI path when the
// tool config does not override it.
func DefaultDir(iniPath string) string {
	return filepath.Join(filepath.Dir(iniPath), ".ckpectl", "backups")
}

// NewManager creates a manager for the given directory. A keep of zero
// or less means DefaultKeep.
func NewManager(dir string, keep int) *Manager {
	if keep <= 0 {
		keep = DefaultKeep
	}
	return &Manager{dir: dir, keep: keep, log: logging.Global()}
}

// Dir returns the backup directory.
func (m *Manager) Dir() string { return m.dir }

// Snapshot copies the file at srcPath into the backup directory and
// records it in the index, pruning the oldest snapshots beyond the
// retention count.
func (m *Manager) Snapshot(srcPath string) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(srcPath)
	if err != nil {
		return nil, errors.BackupFailed(srcPath, err)
	}

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return nil, errors.BackupFailed(srcPath, err)
	}

	now := time.Now().UTC()
	name := m.snapshotName(srcPath, now)

	if err := writeFileAtomic(filepath.Join(m.dir, name), data); err != nil {
		return nil, errors.BackupFailed(srcPath, err)
	}

	snap := &Snapshot{
		File:      name,
		Source:    srcPath,
		CreatedAt: now,
		Size:      int64(len(data)),
	}

	idx, err := m.loadIndex()
	if err != nil {
		return nil, err
	}
	idx.Snapshots = append(idx.Snapshots, snap)
	m.prune(idx)
	if err := m.saveIndex(idx); err != nil {
		return nil, err
	}

	m.log.Debug("snapshot taken", "file", name, "size", snap.Size)
	return snap, nil
}

// snapshotName builds a unique file name from the source base name and
// a UTC timestamp. Checking the disk alone is not enough: pruning frees
// a name mid-second, so the sequence counter only ever moves forward.
func (m *Manager) snapshotName(srcPath string, now time.Time) string {
	base := filepath.Base(srcPath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	stamp := now.Format("20060102_150405")
	if stamp == m.lastStamp {
		m.seq++
	} else {
		m.lastStamp = stamp
		m.seq = 1
	}

	for {
		name := fmt.Sprintf("%s_%s%s", stem, stamp, ext)
		if m.seq > 1 {
			name = fmt.Sprintf("%s_%s_%d%s", stem, stamp, m.seq, ext)
		}
		if _, err := os.Stat(filepath.Join(m.dir, name)); os.IsNotExist(err) {
			return name
		}
		m.seq++
	}
}

// List returns the recorded snapshots, newest first.
func (m *Manager) List() ([]*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, err := m.loadIndex()
	if err != nil {
		return nil, err
	}
	out := make([]*Snapshot, len(idx.Snapshots))
	copy(out, idx.Snapshots)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Restore copies the named snapshot over dstPath atomically.
func (m *Manager) Restore(name, dstPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, err := m.loadIndex()
	if err != nil {
		return err
	}

	var snap *Snapshot
	for _, s := range idx.Snapshots {
		if s.File == name {
			snap = s
			break
		}
	}
	if snap == nil {
		return errors.BackupNotFound(name)
	}

	data, err := os.ReadFile(filepath.Join(m.dir, snap.File))
	if err != nil {
		return errors.BackupFailed(snap.File, err)
	}
	if err := writeFileAtomic(dstPath, data); err != nil {
		return errors.WriteFailed(dstPath, err)
	}

	m.log.Info("snapshot restored", "file", name, "to", dstPath)
	return nil
}

// prune drops the oldest snapshots beyond the retention count and
// removes their files. Index order is oldest first after pruning.
func (m *Manager) prune(idx *index) {
	sort.Slice(idx.Snapshots, func(i, j int) bool {
		return idx.Snapshots[i].CreatedAt.Before(idx.Snapshots[j].CreatedAt)
	})
	for len(idx.Snapshots) > m.keep {
		victim := idx.Snapshots[0]
		idx.Snapshots = idx.Snapshots[1:]
		if err := os.Remove(filepath.Join(m.dir, victim.File)); err != nil && !os.IsNotExist(err) {
			m.log.Warn("could not remove pruned snapshot", "file", victim.File, "error", err)
		}
	}
}

// loadIndex reads the index, returning an empty one when the directory
// is fresh.
func (m *Manager) loadIndex() (*index, error) {
	data, err := os.ReadFile(filepath.Join(m.dir, IndexFilename))
	if err != nil {
		if os.IsNotExist(err) {
			return &index{
				Metadata: indexMetadata{Version: "1", UpdatedAt: time.Now().UTC()},
			}, nil
		}
		return nil, errors.BackupFailed(IndexFilename, err)
	}

	var idx index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, errors.BackupFailed(IndexFilename, err)
	}
	return &idx, nil
}

func (m *Manager) saveIndex(idx *index) error {
	idx.Metadata.UpdatedAt = time.Now().UTC()
	if idx.Metadata.Version == "" {
		idx.Metadata.Version = "1"
	}

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return errors.BackupFailed(IndexFilename, err)
	}
	if err := writeFileAtomic(filepath.Join(m.dir, IndexFilename), data); err != nil {
		return errors.BackupFailed(IndexFilename, err)
	}
	return nil
}

// writeFileAtomic writes data so the target is never observed half
// written: temp file, fsync, rename.
func writeFileAtomic(path string, data []byte) error {
	pf, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644), renameio.WithExistingPermissions())
	if err != nil {
		return fmt.Errorf("create pending file: %w", err)
	}
	defer pf.Cleanup()

	if _, err := pf.Write(data); err != nil {
		return fmt.Errorf("write pending file: %w", err)
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace file: %w", err)
	}
	return nil
}
