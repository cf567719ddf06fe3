package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/johnrue/summit-advisory-vercel-sub002/internal/domain"
)

// GuardRepository looks up guards for assignment validation.
type GuardRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Guard, error)
}

type guardRepository struct {
	pool *pgxpool.Pool
}

// NewGuardRepository builds the repository.
func NewGuardRepository(pool *pgxpool.Pool) GuardRepository {
	return &guardRepository{pool: pool}
}

func (r *guardRepository) GetByID(ctx context.Context, id string) (*domain.Guard, error) {
	const query = `SELECT id, full_name, email, active, created_at FROM guards WHERE id=$1`
	var guard domain.Guard
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&guard.ID,
		&guard.FullName,
		&guard.Email,
		&guard.Active,
		&guard.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &guard, nil
}
