// Package storage provides slot store backends: an in-process map for
// tests and tooling, and a SQLite-backed store for durable snapshots.
package storage

import (
	"sync"

	"github.com/feltforge/modelabi"
	"github.com/feltforge/modelabi/felt"
)

// Memory is a map-backed slot store. Unwritten slots read as zero, and
// writing zero releases the slot, so storage usage tracks the set of
// non-zero slots. Safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	slots map[uint64]felt.Felt
}

// NewMemory creates an empty in-memory slot store.
func NewMemory() *Memory {
	return &Memory{slots: make(map[uint64]felt.Felt)}
}

// ReadSlot implements modelabi.SlotReader.
func (m *Memory) ReadSlot(offset uint64) (felt.Felt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.slots[offset], nil
}

// WriteSlot implements modelabi.SlotWriter.
func (m *Memory) WriteSlot(offset uint64, value felt.Felt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if value.IsZero() {
		delete(m.slots, offset)
		return nil
	}
	m.slots[offset] = value
	return nil
}

// Len returns the number of non-zero slots.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.slots)
}

// Bind returns a view of the store shifted by base. Reads and writes
// through the view address slots relative to the bound offset, which lets
// one store carry many entities at disjoint bases.
func Bind(store modelabi.SlotStore, base uint64) modelabi.SlotStore {
	return &boundStore{store: store, base: base}
}

type boundStore struct {
	store modelabi.SlotStore
	base  uint64
}

func (b *boundStore) ReadSlot(offset uint64) (felt.Felt, error) {
	return b.store.ReadSlot(b.base + offset)
}

func (b *boundStore) WriteSlot(offset uint64, value felt.Felt) error {
	return b.store.WriteSlot(b.base+offset, value)
}
