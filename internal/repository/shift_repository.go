package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/johnrue/summit-advisory-vercel-sub002/internal/domain"
)

// ErrStatusConflict is returned when a guarded status update matched no row
// because the shift's status changed underneath the caller.
var ErrStatusConflict = errors.New("shift status changed concurrently")

// ShiftFilter captures board and listing query parameters.
type ShiftFilter struct {
	Statuses    []domain.ShiftStatus
	GuardID     *string
	ClientID    *string
	Priority    *int
	StartFrom   *time.Time
	StartTo     *time.Time
	Limit       int
	Offset      int
}

// ShiftRepository encapsulates shift persistence. Status, priority and
// assignment writes are field-scoped; the engine never rewrites whole rows
// it does not own.
type ShiftRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Shift, error)
	ListWithFilter(ctx context.Context, filter ShiftFilter) ([]domain.Shift, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.ShiftStatus) error
	UpdatePriority(ctx context.Context, id string, priority int) error
	UpdateAssignment(ctx context.Context, id string, guardID string) error
	CloneFromTemplate(ctx context.Context, templateID string) (*domain.Shift, error)
}

type shiftRepository struct {
	pool *pgxpool.Pool
}

// NewShiftRepository instantiates the repository.
func NewShiftRepository(pool *pgxpool.Pool) ShiftRepository {
	return &shiftRepository{pool: pool}
}

const shiftColumns = `id, client_id, location_id, guard_id, status, priority, start_time, end_time, created_at, updated_at`

func (r *shiftRepository) GetByID(ctx context.Context, id string) (*domain.Shift, error) {
	query := fmt.Sprintf(`SELECT %s FROM shifts WHERE id=$1`, shiftColumns)
	var shift domain.Shift
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&shift.ID,
		&shift.ClientID,
		&shift.LocationID,
		&shift.GuardID,
		&shift.Status,
		&shift.Priority,
		&shift.StartTime,
		&shift.EndTime,
		&shift.CreatedAt,
		&shift.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepository) ListWithFilter(ctx context.Context, filter ShiftFilter) ([]domain.Shift, error) {
	base := fmt.Sprintf(`SELECT %s FROM shifts`, shiftColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.GuardID != nil {
		args = append(args, *filter.GuardID)
		clauses = append(clauses, fmt.Sprintf("guard_id=$%d", len(args)))
	}
	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		clauses = append(clauses, fmt.Sprintf("client_id=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if filter.StartFrom != nil {
		args = append(args, *filter.StartFrom)
		clauses = append(clauses, fmt.Sprintf("start_time >= $%d", len(args)))
	}
	if filter.StartTo != nil {
		args = append(args, *filter.StartTo)
		clauses = append(clauses, fmt.Sprintf("start_time <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY start_time ASC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanShifts(rows)
}

// UpdateStatus performs a guarded status write. The WHERE clause on the
// previous status turns a lost concurrent race into ErrStatusConflict
// instead of a silent overwrite.
func (r *shiftRepository) UpdateStatus(ctx context.Context, id string, from, to domain.ShiftStatus) error {
	const query = `UPDATE shifts SET status=$1, updated_at=NOW() WHERE id=$2 AND status=$3`
	cmd, err := r.pool.Exec(ctx, query, to, id, from)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrStatusConflict
	}
	return nil
}

func (r *shiftRepository) UpdatePriority(ctx context.Context, id string, priority int) error {
	const query = `UPDATE shifts SET priority=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, priority, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *shiftRepository) UpdateAssignment(ctx context.Context, id string, guardID string) error {
	const query = `UPDATE shifts SET guard_id=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, guardID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// CloneFromTemplate copies a template row into a fresh unassigned shift.
func (r *shiftRepository) CloneFromTemplate(ctx context.Context, templateID string) (*domain.Shift, error) {
	const query = `
        INSERT INTO shifts (client_id, location_id, status, priority, start_time, end_time)
        SELECT client_id, location_id, 'unassigned', priority, start_time, end_time
        FROM shift_templates WHERE id=$1
        RETURNING ` + shiftColumns
	var shift domain.Shift
	if err := r.pool.QueryRow(ctx, query, templateID).Scan(
		&shift.ID,
		&shift.ClientID,
		&shift.LocationID,
		&shift.GuardID,
		&shift.Status,
		&shift.Priority,
		&shift.StartTime,
		&shift.EndTime,
		&shift.CreatedAt,
		&shift.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &shift, nil
}

func scanShifts(rows pgx.Rows) ([]domain.Shift, error) {
	var result []domain.Shift
	for rows.Next() {
		var shift domain.Shift
		if err := rows.Scan(
			&shift.ID,
			&shift.ClientID,
			&shift.LocationID,
			&shift.GuardID,
			&shift.Status,
			&shift.Priority,
			&shift.StartTime,
			&shift.EndTime,
			&shift.CreatedAt,
			&shift.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, shift)
	}
	return result, rows.Err()
}
