package store

import (
	"context"
	"sync"

	"github.com/abrown5421/game-lynq/internal/session"
)

// Memory keeps session documents in a map. It is the default store and the
// one every test uses. Documents are cloned on the way in and out so
// callers never share mutable state with the store.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
	byCode   map[string]string
}

func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[string]*session.Session),
		byCode:   make(map[string]string),
	}
}

func (m *Memory) Create(_ context.Context, s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s.Clone()
	m.byCode[s.Code] = s.ID
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (*session.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	return s.Clone(), nil
}

func (m *Memory) GetByCode(_ context.Context, code string) (*session.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byCode[code]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	return m.sessions[id].Clone(), nil
}

func (m *Memory) Update(_ context.Context, s *session.Session, expectedVersion int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.sessions[s.ID]
	if !ok {
		return session.ErrSessionNotFound
	}
	if cur.Version != expectedVersion {
		return session.ErrStaleWrite
	}
	m.sessions[s.ID] = s.Clone()
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return session.ErrSessionNotFound
	}
	delete(m.byCode, s.Code)
	delete(m.sessions, id)
	return nil
}
