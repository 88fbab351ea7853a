package session

import (
	"context"
	"sync"
	"time"
)

// memoryStore keeps sessions in process. Each session has its own lock so
// updates of one session are serialised without blocking the others.
type memoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
	now     func() time.Time
}

type entry struct {
	mu      sync.Mutex
	session *Session
}

// NewMemoryStore creates an in-process Store. Sessions untouched for longer
// than ttl are treated as gone; a zero ttl keeps them forever.
func NewMemoryStore(ttl time.Duration) Store {
	return &memoryStore{
		entries: make(map[string]*entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *memoryStore) Create(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[s.ID]; ok && !m.expired(e.session) {
		return ErrSessionExists
	}
	m.entries[s.ID] = &entry{session: s.Clone()}
	return nil
}

func (m *memoryStore) Get(ctx context.Context, id string) (*Session, error) {
	e, err := m.entry(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Clone(), nil
}

func (m *memoryStore) Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	e, err := m.entry(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := e.session.Clone()
	if err := fn(s); err != nil {
		return nil, err
	}
	s.UpdatedAt = m.now()
	e.session = s
	return s.Clone(), nil
}

func (m *memoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *memoryStore) entry(id string) (*entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if m.expired(e.session) {
		delete(m.entries, id)
		return nil, ErrSessionNotFound
	}
	return e, nil
}

func (m *memoryStore) expired(s *Session) bool {
	return m.ttl > 0 && m.now().Sub(s.UpdatedAt) > m.ttl
}
