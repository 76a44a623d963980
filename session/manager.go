package session

import (
	"sync"

	"github.com/google/uuid"
)

// Manager scopes session state per user: one store per session ID, created
// lazily and retained for the lifetime of the manager. It mirrors the host
// framework owning one state bag per connected user; within one session
// access is serialized by the store itself.
type Manager struct {
	mu       sync.RWMutex
	stores   map[string]*InMemoryStore
	policies []KeyPolicy
}

// NewManager constructs an empty manager. The key policies are applied to
// every store it creates.
func NewManager(policies ...KeyPolicy) *Manager {
	return &Manager{stores: make(map[string]*InMemoryStore), policies: policies}
}

// Open mints a fresh session ID and returns it with its store.
func (m *Manager) Open() (string, *InMemoryStore) {
	id := uuid.NewString()
	return id, m.Session(id)
}

// Session returns the store for the given session ID, creating it lazily.
func (m *Manager) Session(id string) *InMemoryStore {
	m.mu.RLock()
	store, ok := m.stores[id]
	m.mu.RUnlock()
	if ok {
		return store
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if store, ok := m.stores[id]; ok {
		return store
	}
	store = NewInMemoryStore(m.policies...)
	m.stores[id] = store
	return store
}

// Len reports the number of known sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.stores)
}
