package notes

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo for development and tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	items map[string]*Note
}

// NewMemoryRepo returns an empty in-memory repository.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{items: make(map[string]*Note)}
}

func (r *MemoryRepo) Create(_ context.Context, n *Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *n
	r.items[n.ID] = &clone
	return nil
}

func (r *MemoryRepo) ListByCase(_ context.Context, caseID string) ([]*Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Note
	for _, n := range r.items {
		if n.CaseID == caseID {
			clone := *n
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}
