package denylist

import (
	"context"
	"sync"
	"time"
)

// Memory is a Store held in process memory.
// It suits a single instance; Redis suits several.
type Memory struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemory constructs a *Memory.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]time.Time), now: time.Now}
}

// Revoke implements Store.
// Expired entries are swept on each call.
func (m *Memory) Revoke(_ context.Context, token string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, exp := range m.entries {
		if !exp.After(now) {
			delete(m.entries, k)
		}
	}

	if !until.After(now) {
		return nil
	}

	m.entries[Key(token)] = until
	return nil
}

// Revoked implements Store.
func (m *Memory) Revoked(_ context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := Key(token)
	exp, ok := m.entries[k]
	if !ok {
		return false, nil
	}

	if !exp.After(m.now()) {
		delete(m.entries, k)
		return false, nil
	}

	return true, nil
}

// Len reports how many tokens are held, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
