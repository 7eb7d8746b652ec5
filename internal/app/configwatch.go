package app

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ConfigWatcher watches the settings file and triggers a callback when it
// changes, so option edits apply without a restart. Editors that save by
// rename are handled by watching the parent directory.
type ConfigWatcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
	doneCh   chan struct{}
	onChange func() // Called after the file settles
}

// NewConfigWatcher creates a watcher for path. Returns an error if the
// directory cannot be watched.
func NewConfigWatcher(path string, debounce time.Duration) (*ConfigWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	return &ConfigWatcher{
		path:     abs,
		debounce: debounce,
		watcher:  w,
	}, nil
}

// OnChange sets the callback to invoke when the file changes.
// The callback is called from a background goroutine - use appropriate
// synchronization if updating UI.
func (c *ConfigWatcher) OnChange(callback func()) {
	c.onChange = callback
}

// Start begins watching in a background goroutine.
func (c *ConfigWatcher) Start() {
	c.stopCh = make(chan struct{})
	c.doneCh = make(chan struct{})
	go c.watchLoop()
}

// Stop stops the watcher goroutine and releases the underlying watch.
func (c *ConfigWatcher) Stop() {
	if c.stopCh != nil {
		close(c.stopCh)
		<-c.doneCh
		c.stopCh = nil
	}
	c.watcher.Close()
}

// Path returns the absolute path being watched.
func (c *ConfigWatcher) Path() string {
	return c.path
}

func (c *ConfigWatcher) watchLoop() {
	defer close(c.doneCh)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-c.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != c.path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			// Editors often write in several steps; wait for quiet.
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(c.debounce)
			fire = timer.C
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Config watcher: %v", err)
		case <-fire:
			fire = nil
			if c.onChange != nil {
				c.onChange()
			}
		}
	}
}
