package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/johnrue/summit-advisory-vercel-sub002/internal/domain"
)

// AlertRepository reads and resolves urgency alerts. Alert creation belongs
// to the alerting subsystem; the engine never raises alerts.
type AlertRepository interface {
	ListOpenByShiftAndType(ctx context.Context, shiftID string, alertType domain.ShiftStatus) ([]domain.UrgencyAlert, error)
	ListOpenByShiftIDs(ctx context.Context, shiftIDs []string) ([]domain.UrgencyAlert, error)
	Resolve(ctx context.Context, alertID, resolvedBy, reason string) error
}

type alertRepository struct {
	pool *pgxpool.Pool
}

// NewAlertRepository builds the repository.
func NewAlertRepository(pool *pgxpool.Pool) AlertRepository {
	return &alertRepository{pool: pool}
}

const alertColumns = `id, shift_id, alert_type, priority, resolved, resolved_by, resolved_reason, created_at, resolved_at`

func (r *alertRepository) ListOpenByShiftAndType(ctx context.Context, shiftID string, alertType domain.ShiftStatus) ([]domain.UrgencyAlert, error) {
	query := fmt.Sprintf(`SELECT %s FROM urgency_alerts WHERE shift_id=$1 AND alert_type=$2 AND resolved=FALSE`, alertColumns)
	rows, err := r.pool.Query(ctx, query, shiftID, alertType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAlerts(rows)
}

func (r *alertRepository) ListOpenByShiftIDs(ctx context.Context, shiftIDs []string) ([]domain.UrgencyAlert, error) {
	if len(shiftIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(shiftIDs))
	args := make([]any, len(shiftIDs))
	for i, id := range shiftIDs {
		args[i] = id
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf(`SELECT %s FROM urgency_alerts WHERE shift_id IN (%s) AND resolved=FALSE`,
		alertColumns, strings.Join(placeholders, ","))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAlerts(rows)
}

func (r *alertRepository) Resolve(ctx context.Context, alertID, resolvedBy, reason string) error {
	const query = `
        UPDATE urgency_alerts
        SET resolved=TRUE, resolved_by=$1, resolved_reason=$2, resolved_at=NOW()
        WHERE id=$3 AND resolved=FALSE`
	cmd, err := r.pool.Exec(ctx, query, resolvedBy, reason, alertID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanAlerts(rows pgx.Rows) ([]domain.UrgencyAlert, error) {
	var result []domain.UrgencyAlert
	for rows.Next() {
		var alert domain.UrgencyAlert
		if err := rows.Scan(
			&alert.ID,
			&alert.ShiftID,
			&alert.AlertType,
			&alert.Priority,
			&alert.Resolved,
			&alert.ResolvedBy,
			&alert.ResolvedReason,
			&alert.CreatedAt,
			&alert.ResolvedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, alert)
	}
	return result, rows.Err()
}
