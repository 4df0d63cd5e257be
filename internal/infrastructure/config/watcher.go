package config

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 150 * time.Millisecond

// Watcher reloads the config file whenever it changes on disk
type Watcher struct {
	path    string
	fsw     *fsnotify.Watcher
	changes chan *Config
	done    chan struct{}
}

// NewWatcher starts watching path. The parent directory is watched so
// that editors which replace the file by renaming are picked up.
func NewWatcher(path string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	w := &Watcher{
		path:    filepath.Clean(path),
		fsw:     fsw,
		changes: make(chan *Config, 1),
		done:    make(chan struct{}),
	}
	go w.run()

	return w, nil
}

// Changes delivers the latest successfully parsed config. Unread values
// are replaced by newer ones.
func (w *Watcher) Changes() <-chan *Config {
	return w.changes
}

// Close stops the watcher
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	<-w.done
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	defer close(w.changes)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			cfg, err := LoadFrom(w.path)
			if err != nil {
				log.Printf("config reload skipped: %v", err)
				continue
			}
			w.publish(cfg)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("config watcher error: %v", err)
		}
	}
}

func (w *Watcher) publish(cfg *Config) {
	select {
	case <-w.changes:
	default:
	}
	w.changes <- cfg
}
