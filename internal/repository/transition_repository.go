package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/johnrue/summit-advisory-vercel-sub002/internal/domain"
)

// TransitionRepository is the append-only audit sink for status changes.
type TransitionRepository interface {
	Record(ctx context.Context, transition *domain.Transition) error
	ListByShift(ctx context.Context, shiftID string, limit, offset int) ([]domain.Transition, error)
}

type transitionRepository struct {
	pool *pgxpool.Pool
}

// NewTransitionRepository builds the repository.
func NewTransitionRepository(pool *pgxpool.Pool) TransitionRepository {
	return &transitionRepository{pool: pool}
}

func (r *transitionRepository) Record(ctx context.Context, transition *domain.Transition) error {
	const query = `
        INSERT INTO shift_transitions (id, shift_id, previous_status, new_status, method, reason, actor_id, bulk_operation_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		transition.ID,
		transition.ShiftID,
		transition.PreviousStatus,
		transition.NewStatus,
		transition.Method,
		transition.Reason,
		transition.ActorID,
		transition.BulkOperationID,
	).Scan(&transition.CreatedAt)
}

func (r *transitionRepository) ListByShift(ctx context.Context, shiftID string, limit, offset int) ([]domain.Transition, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, shift_id, previous_status, new_status, method, reason, actor_id, bulk_operation_id, created_at
        FROM shift_transitions WHERE shift_id=$1 ORDER BY created_at ASC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, shiftID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Transition
	for rows.Next() {
		var transition domain.Transition
		if err := rows.Scan(
			&transition.ID,
			&transition.ShiftID,
			&transition.PreviousStatus,
			&transition.NewStatus,
			&transition.Method,
			&transition.Reason,
			&transition.ActorID,
			&transition.BulkOperationID,
			&transition.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, transition)
	}
	return result, rows.Err()
}
