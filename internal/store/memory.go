package store

import (
	"context"
	"sync"
	"time"

	"github.com/jtladams423-replit/degen-gm/internal/draft"
)

type Memory struct {
	mu       sync.RWMutex
	sessions map[string]draft.Session
	now      func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[string]draft.Session),
		now:      time.Now,
	}
}

func (m *Memory) CreateSession(ctx context.Context) (draft.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	code, err := uniqueCode(func(c string) (bool, error) {
		_, ok := m.sessions[c]
		return ok, nil
	})
	if err != nil {
		return draft.Session{}, err
	}

	s := draft.NewSession(code)
	s.CreatedAt = m.now().UTC()
	s.UpdatedAt = s.CreatedAt
	m.sessions[code] = s
	return s.Clone(), nil
}

func (m *Memory) GetSessionByCode(ctx context.Context, code string) (draft.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[NormalizeCode(code)]
	if !ok {
		return draft.Session{}, ErrNotFound
	}
	return s.Clone(), nil
}

func (m *Memory) UpdateSession(ctx context.Context, code string, u Update) (draft.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	code = NormalizeCode(code)
	s, ok := m.sessions[code]
	if !ok {
		return draft.Session{}, ErrNotFound
	}
	u.apply(&s)
	s.UpdatedAt = m.now().UTC()
	// Store a private copy so later caller mutations can't leak in.
	s = s.Clone()
	m.sessions[code] = s
	return s.Clone(), nil
}

func (m *Memory) Close() error { return nil }
