// Package watcher monitors a drop directory for PokerNow log exports and
// imports each file once it has finished being written.
package watcher

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DirWatcher monitors a directory for new CSV exports.
type DirWatcher struct {
	Dir      string
	watcher  *fsnotify.Watcher
	done     chan struct{}
	mu       sync.Mutex
	pending  map[string]int64
	stopOnce sync.Once

	onLogFile func(path string)
	onError   func(err error)
}

type WatcherConfig struct {
	// OnLogFile is called once per file, after its size has been stable
	// for at least one poll interval.
	OnLogFile func(path string)
	OnError   func(err error)
}

// NewDirWatcher creates a watcher for the given drop directory.
func NewDirWatcher(dir string, cfg WatcherConfig) (*DirWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	return &DirWatcher{
		Dir:       dir,
		watcher:   w,
		done:      make(chan struct{}),
		pending:   make(map[string]int64),
		onLogFile: cfg.OnLogFile,
		onError:   cfg.OnError,
	}, nil
}

// Start begins watching for dropped files. Files already present in the
// directory are queued immediately.
func (dw *DirWatcher) Start() error {
	slog.Info("watcher starting", "dir", dw.Dir)
	if err := dw.watcher.Add(dw.Dir); err != nil {
		return fmt.Errorf("watch directory %s: %w", dw.Dir, err)
	}

	entries, err := os.ReadDir(dw.Dir)
	if err != nil {
		return fmt.Errorf("scan directory %s: %w", dw.Dir, err)
	}
	for _, e := range entries {
		if !e.IsDir() && isLogExport(e.Name()) {
			dw.track(filepath.Join(dw.Dir, e.Name()))
		}
	}

	go dw.watchLoop()
	return nil
}

// Stop stops the watcher.
func (dw *DirWatcher) Stop() {
	dw.stopOnce.Do(func() {
		slog.Info("watcher stopped", "dir", dw.Dir)
		close(dw.done)
		_ = dw.watcher.Close()
	})
}

func (dw *DirWatcher) watchLoop() {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-dw.done:
			return
		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			if (event.Has(fsnotify.Create) || event.Has(fsnotify.Write)) && isLogExport(event.Name) {
				dw.track(event.Name)
			}
		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			if dw.onError != nil {
				dw.onError(err)
			}
		case <-ticker.C:
			dw.flushSettled()
		}
	}
}

// track records the current size of a candidate file. The file is only
// handed to OnLogFile once two consecutive polls see the same size, so a
// file still being copied in is never imported half-written.
func (dw *DirWatcher) track(path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}

	dw.mu.Lock()
	defer dw.mu.Unlock()
	dw.pending[filepath.Clean(path)] = info.Size()
}

func (dw *DirWatcher) flushSettled() {
	dw.mu.Lock()
	var ready []string
	for path, size := range dw.pending {
		info, err := os.Stat(path)
		if err != nil {
			delete(dw.pending, path)
			continue
		}
		if info.Size() != size {
			dw.pending[path] = info.Size()
			continue
		}
		ready = append(ready, path)
		delete(dw.pending, path)
	}
	dw.mu.Unlock()

	for _, path := range ready {
		slog.Debug("log export settled", "path", path)
		if dw.onLogFile != nil {
			dw.onLogFile(path)
		}
	}
}

func isLogExport(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}
