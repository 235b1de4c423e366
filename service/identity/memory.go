package identity

import (
	"context"
	"sync"
)

// MemoryDirectory is an in-memory Directory for tests and local runs
// without a database.
type MemoryDirectory struct {
	mu    sync.RWMutex
	users map[string]Profile
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{users: make(map[string]Profile)}
}

func (d *MemoryDirectory) Put(p Profile) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[p.ID] = p
}

func (d *MemoryDirectory) Lookup(_ context.Context, userID string) (*Profile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	out := p
	return &out, nil
}
