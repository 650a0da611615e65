package executor

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"taskrelay/internal/client"
	"taskrelay/internal/queue"
)

// fakeStore is an in-memory QueueStore for failure-injection tests. The
// HTTP round trip is covered by the harness-based tests; the fake exists
// to script transport errors precisely.
type fakeStore struct {
	mu   sync.Mutex
	docs map[string]map[string]string

	readErr error
	listErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: map[string]map[string]string{
		queue.CollectionCommand: {},
		queue.CollectionResult:  {},
	}}
}

func (f *fakeStore) put(collection, name, content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[collection][name] = content
}

func (f *fakeStore) has(collection, name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.docs[collection][name]
	return ok
}

func (f *fakeStore) ReadFile(ctx context.Context, collection, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return "", f.readErr
	}
	content, ok := f.docs[collection][name]
	if !ok {
		return "", fmt.Errorf("%w: File not found", client.ErrRemote)
	}
	return content, nil
}

func (f *fakeStore) SaveFile(ctx context.Context, collection, name, content string) error {
	f.put(collection, name, content)
	return nil
}

func (f *fakeStore) DeleteFile(ctx context.Context, collection, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs[collection], name)
	return nil
}

func (f *fakeStore) ListFiles(ctx context.Context, collection string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	names := make([]string, 0, len(f.docs[collection]))
	for name := range f.docs[collection] {
		if strings.HasSuffix(name, queue.DocumentSuffix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
