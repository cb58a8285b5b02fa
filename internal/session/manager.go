package session

import "sync"

// Manager hands out one Store per user. Stores are created lazily and
// kept for the lifetime of the process; each one has a single writer in
// practice (the owning user's requests).
type Manager struct {
	mu     sync.Mutex
	stores map[string]*Store
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{stores: make(map[string]*Store)}
}

// Store returns the store for uid, creating it on first use.
func (m *Manager) Store(uid string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.stores[uid]
	if !ok {
		st = NewStore()
		m.stores[uid] = st
	}
	return st
}
