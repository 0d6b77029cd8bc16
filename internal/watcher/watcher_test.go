package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDirWatcherStopIsIdempotent(t *testing.T) {
	t.Parallel()

	dw, err := NewDirWatcher(t.TempDir(), WatcherConfig{})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}

	dw.Stop()
	dw.Stop()
}

func TestDirWatcherImportsDroppedFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	got := make(chan string, 1)
	dw, err := NewDirWatcher(dir, WatcherConfig{OnLogFile: func(path string) {
		select {
		case got <- path:
		default:
		}
	}})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer dw.Stop()

	if err := dw.Start(); err != nil {
		t.Fatalf("start watcher: %v", err)
	}

	dropped := filepath.Join(dir, "poker_now_log_x.csv")
	if err := os.WriteFile(dropped, []byte("entry,at,order\n"), 0o600); err != nil {
		t.Fatalf("write dropped file: %v", err)
	}

	select {
	case path := <-got:
		if filepath.Clean(path) != filepath.Clean(dropped) {
			t.Fatalf("imported path = %q, want %q", path, dropped)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for dropped file")
	}
}

func TestDirWatcherQueuesPreexistingFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	existing := filepath.Join(dir, "poker_now_log_y.csv")
	if err := os.WriteFile(existing, []byte("entry,at,order\n"), 0o600); err != nil {
		t.Fatalf("write existing file: %v", err)
	}

	got := make(chan string, 1)
	dw, err := NewDirWatcher(dir, WatcherConfig{OnLogFile: func(path string) {
		select {
		case got <- path:
		default:
		}
	}})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer dw.Stop()

	if err := dw.Start(); err != nil {
		t.Fatalf("start watcher: %v", err)
	}

	select {
	case path := <-got:
		if filepath.Clean(path) != filepath.Clean(existing) {
			t.Fatalf("imported path = %q, want %q", path, existing)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for pre-existing file")
	}
}

func TestDirWatcherIgnoresNonCSVFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	got := make(chan string, 1)
	dw, err := NewDirWatcher(dir, WatcherConfig{OnLogFile: func(path string) {
		select {
		case got <- path:
		default:
		}
	}})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer dw.Stop()

	if err := dw.Start(); err != nil {
		t.Fatalf("start watcher: %v", err)
	}

	noise := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(noise, []byte("ignore me"), 0o600); err != nil {
		t.Fatalf("write noise file: %v", err)
	}

	select {
	case path := <-got:
		t.Fatalf("unexpected import of %q", path)
	case <-time.After(1200 * time.Millisecond):
	}
}
