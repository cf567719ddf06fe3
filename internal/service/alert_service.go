package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/johnrue/summit-advisory-vercel-sub002/internal/domain"
	"github.com/johnrue/summit-advisory-vercel-sub002/internal/repository"
)

// AlertResolver auto-resolves urgency alerts made irrelevant by a status
// change. Implementations are best-effort: failures must never surface to
// the transition that triggered them.
type AlertResolver interface {
	ResolveRelated(ctx context.Context, shiftID string, previousStatus, newStatus domain.ShiftStatus) int
}

// AlertService coordinates urgency alert resolution.
type AlertService struct {
	alerts repository.AlertRepository
	logger *zap.Logger
}

// NewAlertService creates the service.
func NewAlertService(alerts repository.AlertRepository, logger *zap.Logger) *AlertService {
	return &AlertService{alerts: alerts, logger: logger}
}

// ResolveRelated resolves open alerts bound to the status the shift just
// left and returns how many were resolved. An alert raised for a status is
// irrelevant once the shift is no longer in that status.
func (s *AlertService) ResolveRelated(ctx context.Context, shiftID string, previousStatus, newStatus domain.ShiftStatus) int {
	open, err := s.alerts.ListOpenByShiftAndType(ctx, shiftID, previousStatus)
	if err != nil {
		s.logger.Warn("failed to query open alerts",
			zap.String("shift_id", shiftID),
			zap.String("previous_status", string(previousStatus)),
			zap.Error(err))
		return 0
	}

	reason := fmt.Sprintf("Auto-resolved due to status change to %s", newStatus)
	resolved := 0
	for _, alert := range open {
		if err := s.alerts.Resolve(ctx, alert.ID, domain.SystemActor, reason); err != nil {
			s.logger.Warn("failed to resolve alert",
				zap.String("alert_id", alert.ID),
				zap.String("shift_id", shiftID),
				zap.Error(err))
			continue
		}
		resolved++
	}
	if resolved > 0 {
		s.logger.Info("auto-resolved urgency alerts",
			zap.String("shift_id", shiftID),
			zap.Int("count", resolved),
			zap.String("new_status", string(newStatus)))
	}
	return resolved
}
