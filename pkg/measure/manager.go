package measure

import "sync"

// Manager guarantees at most one active measurement session. Beginning
// a new session closes the previous one first, which releases its
// camera stream and cancels any pending completion callback.
type Manager struct {
	mu      sync.Mutex
	current *Session
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{}
}

// Begin closes any active session and returns a fresh one.
func (m *Manager) Begin(cfg Config) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		m.current.Close()
	}
	m.current = NewSession(cfg)
	return m.current
}

// Current returns the active session, or nil.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// End closes the active session, if any.
func (m *Manager) End() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		m.current.Close()
		m.current = nil
	}
}
