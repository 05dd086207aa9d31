package logger_test

import (
	"errors"
	"sync"
)

var errStoreDown = errors.New("store down")

// memStore is an in-memory logger.SettingsStore.
type memStore struct {
	mu     sync.Mutex
	values map[string]string
	err    error
	puts   int
}

func newMemStore() *memStore {
	return &memStore{values: make(map[string]string)}
}

func (s *memStore) Lookup(name string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return "", false, s.err
	}

	v, ok := s.values[name]

	return v, ok, nil
}

func (s *memStore) Put(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}

	s.values[name] = value
	s.puts++

	return nil
}
