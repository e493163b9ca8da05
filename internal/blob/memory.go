package blob

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryStore implements Store in memory. It backs local development and
// tests; uploaded objects resolve to URLs under a fixed base.
type MemoryStore struct {
	baseURL string

	mu      sync.Mutex
	objects map[string][]byte
}

// NewMemoryStore creates a MemoryStore resolving URLs under baseURL.
func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{baseURL: baseURL, objects: make(map[string][]byte)}
}

// Upload reads the full content into memory and stores it under objectPath.
func (s *MemoryStore) Upload(ctx context.Context, content io.Reader, objectPath, contentType string) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("failed to read image content: %w", err)
	}

	s.mu.Lock()
	s.objects[objectPath] = data
	s.mu.Unlock()

	return fmt.Sprintf("%s/%s", s.baseURL, objectPath), nil
}

// Object returns the stored bytes for objectPath.
func (s *MemoryStore) Object(objectPath string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[objectPath]
	return data, ok
}
