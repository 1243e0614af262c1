package source

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher signals when a payload file or directory changes. Bursts of
// events are coalesced into one notification.
type Watcher struct {
	path     string
	debounce time.Duration
}

// NewWatcher watches path. A debounce of zero or less means 250ms.
func NewWatcher(path string, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}
	return &Watcher{path: path, debounce: debounce}
}

// Changes starts watching and returns a channel that receives a value after
// each burst of changes. The channel closes when ctx is done or the watcher
// fails to start.
func (w *Watcher) Changes(ctx context.Context) <-chan struct{} {
	out := make(chan struct{}, 1)

	go func() {
		defer close(out)

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			slog.Error("Payload watch failed to start", "error", err)
			return
		}
		defer func() { _ = watcher.Close() }()

		// Editors replace files by rename, so a single file is watched through
		// its directory and events are filtered by name.
		dir, match := w.path, ""
		if info, statErr := os.Stat(w.path); statErr != nil || !info.IsDir() {
			dir, match = filepath.Dir(w.path), filepath.Clean(w.path)
		}
		if err := watcher.Add(dir); err != nil {
			slog.Error("Payload watch failed to add path", "path", dir, "error", err)
			return
		}

		timer := time.NewTimer(w.debounce)
		if !timer.Stop() {
			<-timer.C
		}
		pending := false

		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return

			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if match != "" && filepath.Clean(ev.Name) != match {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				if pending && !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
				pending = true

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("Payload watch error", "error", err)

			case <-timer.C:
				pending = false
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()

	return out
}
