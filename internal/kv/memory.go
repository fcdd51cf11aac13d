package kv

import "sync"

// MemoryStore keeps lists in process memory. Used by tests and as the
// ephemeral backend when no data directory is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	lists map[string][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{lists: map[string][]string{}}
}

func (s *MemoryStore) GetList(key string) ([]string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values, ok := s.lists[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out, true, nil
}

func (s *MemoryStore) SetList(key string, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]string, len(values))
	copy(next, values)
	s.lists[key] = next
	return nil
}
