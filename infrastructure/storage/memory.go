package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/u759/AllanAI-sub001/domain/match"
)

// MemoryRepository implements match.Repository with an in-memory document
// map. Reads and writes exchange deep copies, so the processing task is the
// only holder of a mutable match while it runs.
type MemoryRepository struct {
	mu      sync.RWMutex
	matches map[string]*match.Match
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{matches: make(map[string]*match.Match)}
}

// Get returns a copy of the stored match.
func (r *MemoryRepository) Get(ctx context.Context, id string) (*match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.matches[id]
	if !ok {
		return nil, match.ErrNotFound
	}
	return m.Clone(), nil
}

// Save stores a copy of the match, replacing any existing document.
func (r *MemoryRepository) Save(ctx context.Context, m *match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches[m.ID] = m.Clone()
	return nil
}

// List returns all matches, newest first.
func (r *MemoryRepository) List(ctx context.Context) ([]*match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*match.Match, 0, len(r.matches))
	for _, m := range r.matches {
		out = append(out, m.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Delete removes the match document.
func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.matches[id]; !ok {
		return match.ErrNotFound
	}
	delete(r.matches, id)
	return nil
}

// Ensure MemoryRepository implements match.Repository
var _ match.Repository = (*MemoryRepository)(nil)
