package cases

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo for development and tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	items map[string]*Case
}

// NewMemoryRepo returns an empty in-memory repository.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{items: make(map[string]*Case)}
}

func (r *MemoryRepo) Create(_ context.Context, c *Case) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *c
	r.items[c.ID] = &clone
	return nil
}

func (r *MemoryRepo) GetByID(_ context.Context, id string) (*Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *MemoryRepo) List(_ context.Context, createdBy string) ([]*Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Case
	for _, c := range r.items {
		if createdBy == "" || c.CreatedBy == createdBy {
			clone := *c
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) Update(_ context.Context, c *Case) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[c.ID]; !ok {
		return ErrNotFound
	}
	clone := *c
	r.items[c.ID] = &clone
	return nil
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

func (r *MemoryRepo) Exists(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.items[id]
	return ok, nil
}
