package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/johnrue/summit-advisory-vercel-sub002/internal/domain"
)

// BulkOperationRepository stores completed bulk operation records for
// operational history. Records are written once, after aggregation.
type BulkOperationRepository interface {
	Create(ctx context.Context, operation *domain.BulkOperation) error
}

type bulkOperationRepository struct {
	pool *pgxpool.Pool
}

// NewBulkOperationRepository builds the repository.
func NewBulkOperationRepository(pool *pgxpool.Pool) BulkOperationRepository {
	return &bulkOperationRepository{pool: pool}
}

func (r *bulkOperationRepository) Create(ctx context.Context, operation *domain.BulkOperation) error {
	results, err := json.Marshal(operation.Results)
	if err != nil {
		return err
	}
	parameters, err := json.Marshal(operation.Parameters)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO bulk_operations (id, operation_type, shift_ids, parameters, executed_by, executed_at, status, results)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err = r.pool.Exec(ctx, query,
		operation.ID,
		operation.OperationType,
		operation.ShiftIDs,
		parameters,
		operation.ExecutedBy,
		operation.ExecutedAt,
		operation.Status,
		results,
	)
	return err
}
