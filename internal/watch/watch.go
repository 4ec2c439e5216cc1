// Package watch implements the CLI collaborator's optional --watch mode:
// re-run the pipeline whenever a watched script file changes. Adapted from
// the teacher's sentinel.watchBinary debounce loop (watch the containing
// directory rather than the file itself, so editors that write-then-rename
// are still caught, and debounce bursts of events before acting).
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DebounceInterval is the delay after an fsnotify event before invoking
// OnChange, letting a burst of writes from an editor settle first.
const DebounceInterval = 150 * time.Millisecond

// Run watches path's containing directory and calls onChange (with path)
// every time path itself is created, written, or renamed into place, until
// ctx is canceled. It blocks until ctx is done or the watcher errors fatally.
func Run(ctx context.Context, path string, onChange func(path string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	name := filepath.Base(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch: add %s: %w", dir, err)
	}

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(DebounceInterval, func() {
				onChange(path)
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)
		}
	}
}
