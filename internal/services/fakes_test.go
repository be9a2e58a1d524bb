package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/yungbote/seoportal-backend/internal/storage"
)

// memStore is an in-memory storage.Store for tests.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deletes []string
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

var _ storage.Store = (*memStore)(nil)

func (s *memStore) Put(ctx context.Context, key string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *memStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %q not found", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deletes = append(s.deletes, key)
	return nil
}

func (s *memStore) PublicURL(key string) string {
	return "https://files.test.invalid/" + key
}

func (s *memStore) size(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects[key])
}

func (s *memStore) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.objects))
	for k := range s.objects {
		out = append(out, k)
	}
	return out
}

// stubRenderer returns the HTML it was handed, prefixed, so tests can assert
// on the exact input without a conversion service running.
type stubRenderer struct {
	mu       sync.Mutex
	calls    []string
	baseURLs []string
}

func (r *stubRenderer) Render(ctx context.Context, html string, baseURL string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, html)
	r.baseURLs = append(r.baseURLs, baseURL)
	return append([]byte("%PDF-stub\n"), html...), nil
}
