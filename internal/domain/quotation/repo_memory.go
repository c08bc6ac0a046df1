package quotation

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepo keeps finalized quotations in memory. It backs deployments
// without a database and doubles as the test repository.
type MemoryRepo struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*Quotation
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{items: make(map[uuid.UUID]*Quotation)}
}

func (m *MemoryRepo) Save(_ context.Context, q *Quotation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *q
	m.items[q.ID] = &cp
	return nil
}

func (m *MemoryRepo) GetByID(_ context.Context, id uuid.UUID) (*Quotation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *q
	return &cp, nil
}

func (m *MemoryRepo) List(_ context.Context, limit, offset int) ([]*Quotation, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]*Quotation, 0, len(m.items))
	for _, q := range m.items {
		all = append(all, q)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return all[offset:end], total, nil
}
