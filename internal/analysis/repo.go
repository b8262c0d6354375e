package analysis

import "context"

// Repo defines persistence operations for analysis snapshots.
type Repo interface {
	Create(ctx context.Context, ownerID string, res Result) error
	GetByID(ctx context.Context, analysisID string) (Result, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Result, error)
}
