package repository

import (
	"context"
	"sort"
	"sync"
)

type memDoc struct {
	seq  uint64
	body []byte
}

// MemoryStore keeps documents in process memory. It is the default backend
// and the one tests use.
type MemoryStore struct {
	mu          sync.RWMutex
	seq         uint64
	collections map[string]map[string]memDoc
	closed      bool
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]memDoc)}
}

func (s *MemoryStore) put(collection, id string, body []byte, mustCreate bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string]memDoc)
		s.collections[collection] = docs
	}
	cp := append([]byte(nil), body...)
	if existing, ok := docs[id]; ok {
		if mustCreate {
			return conflict(collection, id)
		}
		docs[id] = memDoc{seq: existing.seq, body: cp}
		return nil
	}
	s.seq++
	docs[id] = memDoc{seq: s.seq, body: cp}
	return nil
}

func (s *MemoryStore) Put(_ context.Context, collection, id string, body []byte) error {
	return s.put(collection, id, body, false)
}

func (s *MemoryStore) Insert(_ context.Context, collection, id string, body []byte) error {
	return s.put(collection, id, body, true)
}

func (s *MemoryStore) Get(_ context.Context, collection, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	d, ok := s.collections[collection][id]
	if !ok {
		return nil, notFound(collection, id)
	}
	return append([]byte(nil), d.body...), nil
}

func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	delete(s.collections[collection], id)
	return nil
}

func (s *MemoryStore) List(_ context.Context, collection string) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	docs := make([]memDoc, 0, len(s.collections[collection]))
	for _, d := range s.collections[collection] {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].seq < docs[j].seq })

	out := make([][]byte, len(docs))
	for i, d := range docs {
		out[i] = append([]byte(nil), d.body...)
	}
	return out, nil
}

func (s *MemoryStore) Count(_ context.Context, collection string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}
	return len(s.collections[collection]), nil
}

func (s *MemoryStore) Ping(context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
