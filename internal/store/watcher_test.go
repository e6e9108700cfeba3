package store

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func waitEvent(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case e := <-w.Events():
		return e
	case <-time.After(3 * time.Second):
		t.Fatal("no watcher event within 3s")
		return Event{}
	}
}

func startWatcher(t *testing.T, s *Store) *Watcher {
	t.Helper()
	w, err := NewWatcher(s)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	t.Cleanup(func() { w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	w.Start(ctx)

	// Give the fsnotify goroutine a moment to register the watch.
	time.Sleep(100 * time.Millisecond)
	return w
}

func TestEventKind_String(t *testing.T) {
	tests := []struct {
		kind EventKind
		want string
	}{
		{EventReloaded, "reloaded"},
		{EventInvalid, "invalid"},
		{EventConflict, "conflict"},
		{EventKind(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("EventKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestWatcher_ReloadOnExternalWrite(t *testing.T) {
	s := openStore(t, sampleINI)
	w := startWatcher(t, s)

	updated := strings.Replace(sampleINI, "uTextureCacheSizeMB=256", "uTextureCacheSizeMB=1024", 1)
	if err := os.WriteFile(s.Path(), []byte(updated), 0o644); err != nil {
		t.Fatal(err)
	}

	e := waitEvent(t, w)
	if e.Kind != EventReloaded {
		t.Fatalf("event kind = %s, want reloaded", e.Kind)
	}
	if e.Path != s.Path() {
		t.Errorf("event path = %q, want %q", e.Path, s.Path())
	}
	if n, _ := s.Uint("Graphics", "uTextureCacheSizeMB"); n != 1024 {
		t.Errorf("store not reloaded: uTextureCacheSizeMB = %d", n)
	}
}

func TestWatcher_ConflictWhenDirty(t *testing.T) {
	s := openStore(t, sampleINI)
	if err := s.Set("CreationKit", "bSkipFileCheck", "false"); err != nil {
		t.Fatal(err)
	}
	w := startWatcher(t, s)

	updated := strings.Replace(sampleINI, "bRenderWindowVSync=true", "bRenderWindowVSync=false", 1)
	if err := os.WriteFile(s.Path(), []byte(updated), 0o644); err != nil {
		t.Fatal(err)
	}

	e := waitEvent(t, w)
	if e.Kind != EventConflict {
		t.Fatalf("event kind = %s, want conflict", e.Kind)
	}

	// The pending edit survives; the external change is not pulled in.
	if got, _ := s.Raw("CreationKit", "bSkipFileCheck"); got != "false" {
		t.Errorf("pending edit lost: %q", got)
	}
	if got, _ := s.Raw("Graphics", "bRenderWindowVSync"); got != "true" {
		t.Errorf("external change applied despite conflict: %q", got)
	}
}

func TestWatcher_InvalidContent(t *testing.T) {
	s := openStore(t, sampleINI)
	w := startWatcher(t, s)

	updated := strings.Replace(sampleINI, "bSkipFileCheck=true", "bSkipFileCheck=banana", 1)
	if err := os.WriteFile(s.Path(), []byte(updated), 0o644); err != nil {
		t.Fatal(err)
	}

	e := waitEvent(t, w)
	if e.Kind != EventInvalid {
		t.Fatalf("event kind = %s, want invalid", e.Kind)
	}
	if e.Report == nil || !e.Report.HasErrors() {
		t.Error("invalid event lacks a failing report")
	}
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	s := openStore(t, sampleINI)
	w := startWatcher(t, s)

	// Several writes in quick succession collapse into one reload.
	for i := 0; i < 5; i++ {
		updated := strings.Replace(sampleINI, "uTextureCacheSizeMB=256", "uTextureCacheSizeMB=512", 1)
		if err := os.WriteFile(s.Path(), []byte(updated), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	e := waitEvent(t, w)
	if e.Kind != EventReloaded {
		t.Fatalf("event kind = %s, want reloaded", e.Kind)
	}

	select {
	case extra := <-w.Events():
		t.Errorf("burst produced a second event: %s", extra.Kind)
	case <-time.After(1 * time.Second):
	}
}
