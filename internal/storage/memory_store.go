package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryMediaStore is an in-memory MediaStore used by tests and local runs
// without an object store.
type MemoryMediaStore struct {
	objects map[string][]byte
	mu      sync.RWMutex
}

// NewMemoryMediaStore creates an empty MemoryMediaStore.
func NewMemoryMediaStore() *MemoryMediaStore {
	return &MemoryMediaStore{objects: make(map[string][]byte)}
}

// Upload keeps the bytes in memory and returns a synthetic URL.
func (s *MemoryMediaStore) Upload(_ context.Context, publicID string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[publicID] = buf
	return "memory://" + publicID, nil
}

// Download returns previously uploaded bytes.
func (s *MemoryMediaStore) Download(_ context.Context, publicID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[publicID]
	if !ok {
		return nil, fmt.Errorf("object %s not found", publicID)
	}
	return data, nil
}

// Delete drops the object.
func (s *MemoryMediaStore) Delete(_ context.Context, publicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[publicID]; !ok {
		return fmt.Errorf("object %s not found", publicID)
	}
	delete(s.objects, publicID)
	return nil
}

// Len reports how many objects are stored. Test helper.
func (s *MemoryMediaStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Objects returns a copy of the stored objects keyed by public ID. Test
// helper.
func (s *MemoryMediaStore) Objects() map[string][]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]byte, len(s.objects))
	for k, v := range s.objects {
		out[k] = v
	}
	return out
}
