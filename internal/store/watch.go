package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"taskrelay/internal/logging"
	"taskrelay/internal/queue"
)

// Watch observes the command collection and invokes onEnqueue with the
// document name each time a command file appears. It blocks until the
// context is cancelled. Used by the serve command to log enqueues as they
// happen rather than only when an executor polls.
func (s *Store) Watch(ctx context.Context, onEnqueue func(name string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	dir, err := s.dir(queue.CollectionCommand)
	if err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	logging.Store("watching command collection at %s", dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			name := filepath.Base(event.Name)
			if !strings.HasSuffix(name, queue.DocumentSuffix) {
				continue
			}
			logging.StoreDebug("command enqueued: %s", name)
			if onEnqueue != nil {
				onEnqueue(name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.StoreWarn("watcher error: %v", err)
		}
	}
}
