package kv

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

type fileState struct {
	Lists map[string][]string `json:"lists"`
}

func newFileState() fileState {
	return fileState{
		Lists: map[string][]string{},
	}
}

// FileStore persists every list in a single JSON document under dataDir.
// Each SetList rewrites the whole document, so the file on disk is always a
// complete snapshot.
type FileStore struct {
	mu   sync.RWMutex
	path string
	s    fileState
}

func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	st := &FileStore{
		path: filepath.Join(dataDir, "storage.json"),
		s:    newFileState(),
	}
	if err := st.load(); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *FileStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.s = newFileState()
			return nil
		}
		return err
	}

	var loaded fileState
	if err := json.Unmarshal(b, &loaded); err != nil {
		return err
	}
	if loaded.Lists == nil {
		loaded.Lists = map[string][]string{}
	}
	s.s = loaded
	return nil
}

func (s *FileStore) saveLocked() error {
	b, err := json.MarshalIndent(s.s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o644)
}

func (s *FileStore) GetList(key string) ([]string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values, ok := s.s.Lists[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out, true, nil
}

func (s *FileStore) SetList(key string, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]string, len(values))
	copy(next, values)
	s.s.Lists[key] = next
	return s.saveLocked()
}
