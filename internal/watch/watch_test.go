package watch

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestWatcher(t *testing.T) (*Watcher, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "episode.srt")
	if err := os.WriteFile(path, []byte("1\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	w, err := New(path, 50*time.Millisecond, discard())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { w.Close() })

	return w, path
}

func expectSignal(t *testing.T, w *Watcher) {
	t.Helper()
	select {
	case <-w.Events():
	case <-time.After(3 * time.Second):
		t.Fatal("no change signal received")
	}
}

func expectSilence(t *testing.T, w *Watcher) {
	t.Helper()
	select {
	case <-w.Events():
		t.Fatal("unexpected change signal")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcherSignalsOnWrite(t *testing.T) {
	w, path := newTestWatcher(t)

	if err := os.WriteFile(path, []byte("1\nchanged\n"), 0644); err != nil {
		t.Fatalf("failed to write: %v", err)
	}

	expectSignal(t, w)
}

func TestWatcherSignalsOnReplace(t *testing.T) {
	w, path := newTestWatcher(t)

	// Editors often save by writing a temp file and renaming it over
	tmp := filepath.Join(filepath.Dir(path), "episode.srt.tmp")
	if err := os.WriteFile(tmp, []byte("replaced\n"), 0644); err != nil {
		t.Fatalf("failed to write temp: %v", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("failed to rename: %v", err)
	}

	expectSignal(t, w)
}

func TestWatcherIgnoresSiblings(t *testing.T) {
	w, path := newTestWatcher(t)

	other := filepath.Join(filepath.Dir(path), "unrelated.srt")
	if err := os.WriteFile(other, []byte("noise\n"), 0644); err != nil {
		t.Fatalf("failed to write sibling: %v", err)
	}

	expectSilence(t, w)
}

func TestWatcherCoalescesBursts(t *testing.T) {
	w, path := newTestWatcher(t)

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("burst\n"), 0644); err != nil {
			t.Fatalf("failed to write: %v", err)
		}
	}

	expectSignal(t, w)
	expectSilence(t, w)
}

func TestWatcherMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent", "episode.srt")
	if _, err := New(path, 0, discard()); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
