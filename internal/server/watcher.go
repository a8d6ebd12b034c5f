package server

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watcher calls onChange once per burst of file events.
type watcher struct {
	fsw    *fsnotify.Watcher
	wg     sync.WaitGroup
	logger *slog.Logger
}

func newWatcher(dirs []string, debounce time.Duration, onChange func(), logger *slog.Logger) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	w := &watcher{fsw: fsw, logger: logger}
	w.wg.Add(1)
	go w.loop(debounce, onChange)
	return w, nil
}

func (w *watcher) loop(debounce time.Duration, onChange func()) {
	defer w.wg.Done()

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Chmod != 0 {
				continue
			}
			w.logger.Debug("File changed", "path", event.Name, "op", event.Op.String())
			if timer != nil {
				timer.Reset(debounce)
			} else {
				timer = time.AfterFunc(debounce, onChange)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watcher error", "error", err)
		}
	}
}

func (w *watcher) Close() {
	if err := w.fsw.Close(); err != nil {
		w.logger.Warn("Failed to close file watcher", "error", err)
	}
	w.wg.Wait()
}
