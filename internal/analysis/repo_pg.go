package analysis

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres. The full snapshot is stored as JSONB
// with a few columns lifted out for indexing and list views.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new analysis snapshot.
func (r *PGRepo) Create(ctx context.Context, ownerID string, res Result) error {
	const query = `
INSERT INTO analyses (
    id,
    document_id,
    owner_id,
    document_type,
    confidence,
    compliance_status,
    compliance_score,
    result,
    duration_ms,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal analysis %s: %w", res.ID, err)
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		res.ID,
		res.DocumentID,
		ownerID,
		string(res.Classification.Type),
		res.Classification.Confidence,
		string(res.Compliance.Status),
		res.Compliance.Score,
		payload,
		res.DurationMS,
		res.AnalyzedAt,
	)
	return err
}

// GetByID returns an analysis snapshot.
func (r *PGRepo) GetByID(ctx context.Context, analysisID string) (Result, error) {
	const query = `
SELECT result
FROM analyses
WHERE id = $1
LIMIT 1`
	var payload []byte
	err := r.DB.QueryRowContext(ctx, query, analysisID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Result{}, ErrNotFound
		}
		return Result{}, err
	}
	var res Result
	if err := json.Unmarshal(payload, &res); err != nil {
		return Result{}, fmt.Errorf("unmarshal analysis %s: %w", analysisID, err)
	}
	return res, nil
}

// ListByOwner lists analyses ordered newest-first.
func (r *PGRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT result
FROM analyses
WHERE owner_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var res Result
		if err := json.Unmarshal(payload, &res); err != nil {
			return nil, fmt.Errorf("unmarshal analysis row: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
