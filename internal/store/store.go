// Package store implements the relay's file-backed collections. Each
// collection ("command", "result") is a flat directory of YAML documents
// keyed by filename. Uniquely named files are the queue's only delivery
// guarantee; ordering follows directory listing order.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"taskrelay/internal/logging"
	"taskrelay/internal/queue"
)

// Store is a file-backed document store partitioned into collections.
type Store struct {
	root string
}

// New creates the store and its collection directories under root.
func New(root string) (*Store, error) {
	for _, collection := range []string{queue.CollectionCommand, queue.CollectionResult} {
		dir := filepath.Join(root, collection)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create collection dir %s: %w", dir, err)
		}
	}
	logging.Store("store ready at %s", root)
	return &Store{root: root}, nil
}

// ErrUnknownCollection rejects collection names outside the fixed pair.
var ErrUnknownCollection = fmt.Errorf("unknown collection")

func (s *Store) dir(collection string) (string, error) {
	switch collection {
	case queue.CollectionCommand, queue.CollectionResult:
		return filepath.Join(s.root, collection), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}
}

// Save writes a document, overwriting any existing one under the same name.
func (s *Store) Save(collection, name string, content []byte) error {
	dir, err := s.dir(collection)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to save %s/%s: %w", collection, name, err)
	}
	logging.StoreDebug("saved %s/%s (%d bytes)", collection, name, len(content))
	return nil
}

// Read returns a document's content. A missing document is an error.
func (s *Store) Read(collection, name string) ([]byte, error) {
	dir, err := s.dir(collection)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s/%s: %w", collection, name, err)
	}
	return data, nil
}

// Delete removes a document. Deleting an absent document is not an error:
// finalization may race with manual cleanup.
func (s *Store) Delete(collection, name string) error {
	dir, err := s.dir(collection)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, name, err)
	}
	logging.StoreDebug("deleted %s/%s", collection, name)
	return nil
}

// List returns the names of all documents in a collection carrying the
// queue document suffix, sorted for stable ordering.
func (s *Store) List(collection string) ([]string, error) {
	dir, err := s.dir(collection)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), queue.DocumentSuffix) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
