package syncqueue

import (
	"strings"
	"sync"
)

// MemoryStore is an in-memory Store for tests.
// It is safe for concurrent use.
type MemoryStore struct {
	mu    sync.Mutex
	items []Item
	next  int64
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{next: 1}
}

func (m *MemoryStore) Upsert(item Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].DedupKey == item.DedupKey {
			m.items[i].Kind = item.Kind
			m.items[i].Payload = item.Payload
			return nil
		}
	}
	item.Position = m.next
	m.next++
	m.items = append(m.items, item)
	return nil
}

func (m *MemoryStore) List() ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Item, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *MemoryStore) Delete(position int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].Position == position {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *MemoryStore) RemoveByPrefix(prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.items[:0]
	for _, item := range m.items {
		if !strings.HasPrefix(item.DedupKey, prefix) {
			kept = append(kept, item)
		}
	}
	m.items = kept
	return nil
}

func (m *MemoryStore) Count() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items), nil
}
