package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/stampbook/sb-registry/internal/domain"
)

// Memory is an in-process Ledger guarded by a mutex. It is the implementation
// the binaries wire by default; the interface leaves room for a remote ledger.
type Memory struct {
	mu     sync.RWMutex
	owners map[domain.ItemID]domain.Address
}

// NewMemory creates an empty in-memory ledger
func NewMemory() *Memory {
	return &Memory{owners: make(map[domain.ItemID]domain.Address)}
}

// NewMemoryWithOwners creates an in-memory ledger seeded with existing items,
// used when restoring state at boot
func NewMemoryWithOwners(owners map[domain.ItemID]domain.Address) *Memory {
	m := NewMemory()
	for id, owner := range owners {
		m.owners[id] = owner
	}
	return m
}

// Create registers a new item under owner
func (m *Memory) Create(_ context.Context, owner domain.Address, id domain.ItemID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.owners[id]; ok {
		return fmt.Errorf("%w: id %d", ErrItemExists, id)
	}
	m.owners[id] = owner
	return nil
}

// Destroy removes an item
func (m *Memory) Destroy(_ context.Context, id domain.ItemID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.owners[id]; !ok {
		return fmt.Errorf("%w: id %d", ErrUnknownItem, id)
	}
	delete(m.owners, id)
	return nil
}

// Transfer moves an item; from must be the current owner
func (m *Memory) Transfer(_ context.Context, from, to domain.Address, id domain.ItemID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	owner, ok := m.owners[id]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrUnknownItem, id)
	}
	if owner != from {
		return fmt.Errorf("%w: id %d owned by %s", ErrNotOwner, id, owner)
	}
	m.owners[id] = to
	return nil
}

// OwnerOf returns the current owner of an item
func (m *Memory) OwnerOf(_ context.Context, id domain.ItemID) (domain.Address, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	owner, ok := m.owners[id]
	if !ok {
		return "", fmt.Errorf("%w: id %d", ErrUnknownItem, id)
	}
	return owner, nil
}

// Size returns the number of live items
func (m *Memory) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.owners)
}
