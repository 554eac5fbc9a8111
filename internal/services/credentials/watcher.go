// Package credentials watches Pi-hole's setupVars.conf and reports password
// hash changes.
package credentials

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/pihole-sense/internal/config"
	"github.com/j-veylop/pihole-sense/internal/logger"
)

const debounceInterval = 100 * time.Millisecond

// Watcher reloads the password hash when the settings file changes.
type Watcher struct {
	mu            sync.Mutex
	path          string
	hash          string
	watcher       *fsnotify.Watcher
	onChange      func(hash string)
	stopChan      chan struct{}
	debounceTimer *time.Timer
}

// Watch starts watching path. onChange is called from a background goroutine
// with each new, non-empty hash.
func Watch(path string, onChange func(hash string)) (*Watcher, error) {
	w := &Watcher{
		path:     path,
		onChange: onChange,
		stopChan: make(chan struct{}),
	}
	if hash, err := config.ReadPasswordHash(path); err == nil {
		w.hash = hash
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w.watcher = watcher

	// Watch the directory to catch editors that replace the file.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return nil, err
	}

	go w.watchLoop()
	return w, nil
}

// current returns the last hash read from the file.
func (w *Watcher) current() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.hash
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.mu.Lock()
				if w.debounceTimer != nil {
					w.debounceTimer.Stop()
				}
				w.debounceTimer = time.AfterFunc(debounceInterval, w.reload)
				w.mu.Unlock()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Error("setupVars watcher error", "error", err)

		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) reload() {
	hash, err := config.ReadPasswordHash(w.path)
	if err != nil {
		logger.Warn("failed to reload password hash", "path", w.path, "error", err)
		return
	}

	w.mu.Lock()
	changed := hash != w.hash
	w.hash = hash
	w.mu.Unlock()

	if changed {
		logger.Info("Password hash reloaded.", "path", w.path)
		if w.onChange != nil {
			w.onChange(hash)
		}
	}
}

// Close stops the file watcher.
func (w *Watcher) Close() error {
	close(w.stopChan)

	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.mu.Unlock()

	return w.watcher.Close()
}
