package evidence

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo for development and tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	items map[string]*Evidence
}

// NewMemoryRepo returns an empty in-memory repository.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{items: make(map[string]*Evidence)}
}

func (r *MemoryRepo) Create(_ context.Context, ev *Evidence) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *ev
	r.items[ev.ID] = &clone
	return nil
}

func (r *MemoryRepo) GetByID(_ context.Context, id string) (*Evidence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ev, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *ev
	return &clone, nil
}

func (r *MemoryRepo) ListByCase(_ context.Context, caseID string) ([]*Evidence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Evidence
	for _, ev := range r.items {
		if ev.CaseID == caseID {
			clone := *ev
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

func (r *MemoryRepo) UpdateAnalysis(_ context.Context, id string, analysis json.RawMessage, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.items[id]
	if !ok {
		return ErrNotFound
	}
	ev.Analysis = append(json.RawMessage(nil), analysis...)
	ev.AnalysisStatus = status
	return nil
}
