// Package sessionstore - session storage в памяти процесса.
// Данные живут, пока жива сессия в реестре; при выселении сессии они удаляются.
package sessionstore

import (
	"context"
	"sync"

	"rental-search-service/internal/core/port"

	"github.com/google/uuid"
)

type MemoryBackend struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]map[string]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{sessions: make(map[uuid.UUID]map[string]string)}
}

func (b *MemoryBackend) Scope(sessionID uuid.UUID) port.SessionStoragePort {
	return &memoryStorage{backend: b, sessionID: sessionID}
}

func (b *MemoryBackend) Purge(ctx context.Context, sessionID uuid.UUID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.sessions, sessionID)
	return nil
}

// Sessions - количество сессий, у которых есть хотя бы одно значение.
func (b *MemoryBackend) Sessions() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.sessions)
}

type memoryStorage struct {
	backend   *MemoryBackend
	sessionID uuid.UUID
}

func (s *memoryStorage) Get(ctx context.Context, key string) (string, bool, error) {
	s.backend.mu.RLock()
	defer s.backend.mu.RUnlock()

	value, ok := s.backend.sessions[s.sessionID][key]
	return value, ok, nil
}

func (s *memoryStorage) Set(ctx context.Context, key, value string) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	bucket, ok := s.backend.sessions[s.sessionID]
	if !ok {
		bucket = make(map[string]string)
		s.backend.sessions[s.sessionID] = bucket
	}
	bucket[key] = value
	return nil
}

func (s *memoryStorage) Remove(ctx context.Context, key string) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	bucket, ok := s.backend.sessions[s.sessionID]
	if !ok {
		return nil
	}
	delete(bucket, key)
	if len(bucket) == 0 {
		delete(s.backend.sessions, s.sessionID)
	}
	return nil
}
