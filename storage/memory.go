package storage

import (
	"sync"

	"github.com/emirpasic/gods/lists/arraylist"

	"github.com/sp0x/solrctl/store"
)

// MemorySink keeps documents in memory. It is safe for concurrent use.
type MemorySink struct {
	mu   sync.Mutex
	list *arraylist.List
}

func NewMemorySink() *MemorySink {
	return &MemorySink{list: arraylist.New()}
}

func (m *MemorySink) Append(doc store.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.list.Add(doc)
	return nil
}

func (m *MemorySink) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list.Size()
}

// Documents returns the appended documents in order.
func (m *MemorySink) Documents() []store.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]store.Document, 0, m.list.Size())
	it := m.list.Iterator()
	for it.Next() {
		out = append(out, it.Value().(store.Document))
	}
	return out
}

func (m *MemorySink) Close() error {
	return nil
}
