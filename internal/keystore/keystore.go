// Package keystore is a small file-backed key-value store, the desktop stand-in
// for a mobile device's local storage. The auth layer persists its session
// here and the credential-reset path sweeps it.
package keystore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store holds string keys and values in one JSON file. Safe for concurrent
// use within a single process; there is no cross-process locking.
type Store struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

// Open loads the store at path, starting empty when the file does not exist.
func Open(path string) (*Store, error) {
	s := &Store{path: path, data: map[string]string{}}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("keystore.Open: %w", err)
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		// A corrupt file is treated as empty rather than bricking startup;
		// the next write replaces it.
		s.data = map[string]string{}
	}
	return s, nil
}

// Keys returns every stored key.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}

// Get returns the value for key and whether it exists.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

// Set stores a value and persists the file.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return s.flush()
}

// RemoveMany deletes the given keys and persists the file. Missing keys are
// ignored.
func (s *Store) RemoveMany(keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.data, k)
	}
	return s.flush()
}

// flush writes the store atomically: stage to a sibling file, then rename.
// Caller holds the lock.
func (s *Store) flush() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("keystore: create dir: %w", err)
	}
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("keystore: marshal: %w", err)
	}
	stage := s.path + ".new"
	if err := os.WriteFile(stage, raw, 0o600); err != nil {
		return fmt.Errorf("keystore: write: %w", err)
	}
	if err := os.Rename(stage, s.path); err != nil {
		return fmt.Errorf("keystore: replace: %w", err)
	}
	return nil
}
