package auth

import "sync"

// Holder is the shared slot through which request code and the renewal
// daemon reach the current Manager. Replace swaps the manager for a new one,
// e.g. after generating a new device; readers holding the old manager keep a
// valid reference.
type Holder struct {
	mu      sync.RWMutex
	manager *Manager
}

func NewHolder(m *Manager) *Holder {
	return &Holder{manager: m}
}

func (h *Holder) Manager() *Manager {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.manager
}

func (h *Holder) Replace(m *Manager) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.manager = m
}

// Headers returns the current manager's request headers, or nil if the
// holder is empty.
func (h *Holder) Headers() Headers {
	m := h.Manager()
	if m == nil {
		return nil
	}
	return m.Headers()
}
