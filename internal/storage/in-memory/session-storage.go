package in_memory

import (
	"context"
	"sync"

	"github.com/iamvkosarev/campus-assistant/internal/model"
)

// SessionStorage is a string key-value store that lives as long as the process,
// which is the browsing session of a terminal client.
type SessionStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewSessionStorage() *SessionStorage {
	return &SessionStorage{
		values: make(map[string]string),
	}
}

func (s *SessionStorage) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return "", model.ErrSessionValueNotFound
	}
	return value, nil
}

func (s *SessionStorage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}
