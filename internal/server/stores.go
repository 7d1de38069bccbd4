package server

import "sync"

// MemoryState is the in-process key-value state store one connection
// plays against. Real game builds replace it with the save system.
type MemoryState struct {
	mu   sync.Mutex
	vals map[string]int
}

func NewMemoryState() *MemoryState {
	return &MemoryState{vals: make(map[string]int)}
}

func (s *MemoryState) Value(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vals[id]
}

func (s *MemoryState) SetValue(id string, v int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vals[id] = v
}

// MemoryInventory tracks owned counts per item handle.
type MemoryInventory struct {
	mu     sync.Mutex
	counts map[string]int
}

func NewMemoryInventory() *MemoryInventory {
	return &MemoryInventory{counts: make(map[string]int)}
}

func (inv *MemoryInventory) OwnedCount(ref string) int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.counts[ref]
}

func (inv *MemoryInventory) Add(ref string, qty int) {
	if qty <= 0 {
		return
	}
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.counts[ref] += qty
}

// Remove takes qty of an item, refusing when not enough is owned.
func (inv *MemoryInventory) Remove(ref string, qty int) bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if inv.counts[ref] < qty {
		return false
	}
	inv.counts[ref] -= qty
	if inv.counts[ref] == 0 {
		delete(inv.counts, ref)
	}
	return true
}

// StaticCatalog maps numeric item ids onto item handles.
type StaticCatalog map[int]string

func (c StaticCatalog) Item(id int) (string, bool) {
	ref, ok := c[id]
	return ref, ok
}

// DefaultCatalog covers the items referenced by the bundled dialogs.
func DefaultCatalog() StaticCatalog {
	return StaticCatalog{
		1: "coin",
		2: "lantern",
		3: "brass_key",
		4: "ember_charm",
	}
}
