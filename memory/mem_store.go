package memory

import (
	"context"
	"sync"
)

// MemStore holds the serialized document in process. Saves and loads go
// through JSON so callers never share a tree with the store.
type MemStore struct {
	mu    sync.Mutex
	data  []byte
	saves int
}

func NewMemStore() *MemStore { return &MemStore{} }

func (s *MemStore) Load(_ context.Context) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, ErrNotFound
	}
	return decode(s.data)
}

func (s *MemStore) Save(_ context.Context, doc *Document) error {
	b, err := doc.MarshalIndent()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data = b
	s.saves++
	s.mu.Unlock()
	return nil
}

func (s *MemStore) Delete(_ context.Context) error {
	s.mu.Lock()
	s.data = nil
	s.mu.Unlock()
	return nil
}

// Bytes returns the last saved encoding, or nil.
func (s *MemStore) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.data...)
}

// SaveCount reports how many times Save succeeded.
func (s *MemStore) SaveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
