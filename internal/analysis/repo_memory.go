package analysis

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo, used in dev mode and
// tests.
type MemoryRepo struct {
	mu      sync.RWMutex
	byID    map[string]Result
	byOwner map[string][]string // ownerID -> analysis IDs in insert order
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:    make(map[string]Result),
		byOwner: make(map[string][]string),
	}
}

// Create stores an analysis snapshot for an owner.
func (r *MemoryRepo) Create(ctx context.Context, ownerID string, res Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[res.ID] = res
	r.byOwner[ownerID] = append(r.byOwner[ownerID], res.ID)
	return nil
}

// GetByID returns an analysis snapshot.
func (r *MemoryRepo) GetByID(ctx context.Context, analysisID string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.byID[analysisID]
	if !ok {
		return Result{}, ErrNotFound
	}
	return res, nil
}

// ListByOwner returns analyses for an owner, newest first, honoring
// limit/offset.
func (r *MemoryRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	ids := r.byOwner[ownerID]
	results := make([]Result, 0, len(ids))
	for _, id := range ids {
		if res, ok := r.byID[id]; ok {
			results = append(results, res)
		}
	}
	r.mu.RUnlock()

	sort.Slice(results, func(i, j int) bool {
		return results[i].AnalyzedAt.After(results[j].AnalyzedAt)
	})

	if len(results) == 0 || offset >= len(results) {
		return []Result{}, nil
	}

	end := len(results)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	return results[offset:end], nil
}

var _ Repo = (*MemoryRepo)(nil)
