package store

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ckpe-tools/ckpectl/internal/logging"
)

// EventKind classifies watcher notifications.
type EventKind int

const (
	// EventReloaded means the file changed on disk and was re-read
	// cleanly.
	EventReloaded EventKind = iota
	// EventInvalid means the file was re-read but its contents fail
	// validation.
	EventInvalid
	// EventConflict means the file changed on disk while the store
	// has unsaved edits; the reload was skipped.
	EventConflict
)

// String returns a short name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventReloaded:
		return "reloaded"
	case EventInvalid:
		return "invalid"
	case EventConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Event is one watcher notification. Report carries the lint result of
// the re-read file; it is nil for conflicts.
type Event struct {
	Kind   EventKind
	Path   string
	Report *Report
}

// debounceDelay collapses editor save bursts into one reload.
const debounceDelay = 500 * time.Millisecond

// Watcher reloads a store when its INI file changes on disk. External
// edits never clobber unsaved local changes; those surface as conflict
// events instead.
type Watcher struct {
	store  *Store
	fsw    *fsnotify.Watcher
	events chan Event
	log    *logging.Logger
}

// NewWatcher creates a watcher for the store's file. The parent
// directory is watched rather than the file itself, so editors and
// atomic writers that replace the file (rename over it) stay visible.
func NewWatcher(s *Store) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	dir := filepath.Dir(s.Path())
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &Watcher{
		store:  s,
		fsw:    fsw,
		events: make(chan Event, 16),
		log:    logging.Global(),
	}, nil
}

// Events returns the notification channel. Events are dropped rather
// than blocking the watch loop when the consumer lags.
func (w *Watcher) Events() <-chan Event { return w.events }

// Start runs the watch loop until ctx is canceled.
func (w *Watcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

// Close releases the underlying file watcher.
func (w *Watcher) Close() error { return w.fsw.Close() }

func (w *Watcher) loop(ctx context.Context) {
	var debounce *time.Timer
	target := w.store.Path()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("watcher stopped", "path", target)
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(target) {
				continue
			}
			// Write and Create cover in-place editors, vim-style
			// rename-over, and our own atomic saves.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.log.Debug("ini changed on disk", "op", event.Op.String())

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, w.onChange)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", "error", err)
		}
	}
}

// onChange runs after the debounce window. It skips the reload when
// local edits are pending, otherwise reloads and re-checks the file.
func (w *Watcher) onChange() {
	path := w.store.Path()

	if w.store.Dirty() {
		w.log.Warn("external change ignored, store has unsaved edits", "path", path)
		w.emit(Event{Kind: EventConflict, Path: path})
		return
	}

	if err := w.store.Reload(); err != nil {
		w.log.Error("reload failed", "path", path, "error", err)
		w.emit(Event{Kind: EventInvalid, Path: path})
		return
	}

	report := w.store.Check()
	kind := EventReloaded
	if report.HasErrors() {
		kind = EventInvalid
	}
	w.emit(Event{Kind: kind, Path: path, Report: report})
}

func (w *Watcher) emit(e Event) {
	select {
	case w.events <- e:
	default:
		w.log.Warn("event dropped, consumer not keeping up", "kind", e.Kind.String())
	}
}
