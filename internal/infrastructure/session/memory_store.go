package session

import (
	"context"
	"sync"
	"time"

	"shopify-bundle-upsell/internal/domain"
)

// MemoryStore keeps sessions and pending OAuth states in process memory.
// Nothing survives a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
	states   map[string]domain.OAuthState
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]domain.Session),
		states:   make(map[string]domain.OAuthState),
		now:      time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, shop string) (*domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[shop]
	if !ok {
		return nil, nil
	}
	s.Scopes = append([]string(nil), s.Scopes...)
	return &s, nil
}

func (m *MemoryStore) Put(_ context.Context, session *domain.Session) error {
	s := *session
	s.Scopes = append([]string(nil), session.Scopes...)
	if s.CreatedAt.IsZero() {
		s.CreatedAt = m.now().UTC()
	}

	m.mu.Lock()
	m.sessions[s.Shop] = s
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, shop string) error {
	m.mu.Lock()
	delete(m.sessions, shop)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Save(_ context.Context, state *domain.OAuthState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pruneStatesLocked()
	m.states[state.State] = *state
	return nil
}

func (m *MemoryStore) Consume(_ context.Context, state string) (*domain.OAuthState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.states[state]
	if !ok {
		return nil, nil
	}
	delete(m.states, state)
	return &s, nil
}

// pruneStatesLocked drops states whose callback never arrived
func (m *MemoryStore) pruneStatesLocked() {
	now := m.now()
	for k, s := range m.states {
		if s.Expired(now) {
			delete(m.states, k)
		}
	}
}
