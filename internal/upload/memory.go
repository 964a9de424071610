package upload

import (
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps uploads in memory. Used in tests.
type MemoryStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: make(map[string][]byte)}
}

func (s *MemoryStore) Save(filename string, r io.Reader) (string, error) {
	ext, err := checkExtension(filename)
	if err != nil {
		return "", err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	ref := uuid.New().String() + ext

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[ref] = data

	return ref, nil
}

func (s *MemoryStore) Remove(ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, ref)
	return nil
}

// Get returns stored content for assertions in tests.
func (s *MemoryStore) Get(ref string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[ref]
	return data, ok
}

// Len reports how many uploads are held.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}
