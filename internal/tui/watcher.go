package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DropWatcher turns files appearing in a directory into upload events. It is
// the terminal's stand-in for the browser's drag-and-drop zone: drop an image
// into the watched directory and the chat picks it up.
type DropWatcher struct {
	watcher *fsnotify.Watcher
	events  chan string
	logger  *zap.Logger
}

// NewDropWatcher watches dir for new files. The directory is created if it
// does not exist.
func NewDropWatcher(dir string, logger *zap.Logger) (*DropWatcher, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create drop directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &DropWatcher{
		watcher: watcher,
		events:  make(chan string, 8),
		logger:  logger,
	}
	go w.loop()

	return w, nil
}

// Events yields the paths of newly dropped files. The channel closes when
// the watcher is closed.
func (w *DropWatcher) Events() <-chan string {
	return w.events
}

// Close stops watching and closes the event channel.
func (w *DropWatcher) Close() error {
	return w.watcher.Close()
}

func (w *DropWatcher) loop() {
	defer close(w.events)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) {
				continue
			}

			// Give the writer a moment to finish before the file is read.
			time.Sleep(100 * time.Millisecond)

			info, err := os.Stat(event.Name)
			if err != nil || info.IsDir() {
				continue
			}

			w.logger.Debug("file dropped", zap.String("path", event.Name))

			select {
			case w.events <- event.Name:
			default:
				w.logger.Warn("drop event dropped, channel full",
					zap.String("path", filepath.Base(event.Name)))
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}
