package watcher

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// FileWatcher reports debounced writes to a single file.
type FileWatcher struct {
	path     string
	fs       *fsnotify.Watcher
	debounce *Debouncer[string]
	log      *zap.Logger
	done     chan struct{}
}

// WatchFile starts watching path. onChange runs on a timer goroutine after
// writes, creates or renames of the file settle for duration.
//
// The parent directory is watched so editors that replace the file on save
// keep being tracked.
func WatchFile(path string, duration time.Duration, log *zap.Logger, onChange func(path string)) (*FileWatcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	w := &FileWatcher{
		path:     abs,
		fs:       fs,
		debounce: NewDebouncer(duration, onChange),
		log:      log,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Path returns the absolute path being watched.
func (w *FileWatcher) Path() string {
	return w.path
}

func (w *FileWatcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				w.log.Debug("Dashboard file changed", zap.String("path", ev.Name), zap.Stringer("op", ev.Op))
				w.debounce.Push(w.path)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("File watcher error", zap.Error(err))
		}
	}
}

// Close stops watching and drops any pending notification.
func (w *FileWatcher) Close() error {
	w.debounce.Cancel()
	err := w.fs.Close()
	<-w.done
	if err != nil && !errors.Is(err, fsnotify.ErrClosed) {
		return fmt.Errorf("close file watcher: %w", err)
	}
	return nil
}
