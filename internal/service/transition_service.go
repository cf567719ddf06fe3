package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/johnrue/summit-advisory-vercel-sub002/internal/domain"
	"github.com/johnrue/summit-advisory-vercel-sub002/internal/events"
	"github.com/johnrue/summit-advisory-vercel-sub002/internal/observability"
	"github.com/johnrue/summit-advisory-vercel-sub002/internal/repository"
	"github.com/johnrue/summit-advisory-vercel-sub002/internal/workflow"
	apperrors "github.com/johnrue/summit-advisory-vercel-sub002/pkg/util"
)

// TransitionOptions carries optional transition metadata.
type TransitionOptions struct {
	Reason          *string
	Method          domain.TransitionMethod
	BulkOperationID *string
}

// TransitionRunner executes one shift's status change.
type TransitionRunner interface {
	ExecuteTransition(ctx context.Context, shiftID string, newStatus domain.ShiftStatus, actorID string, opts TransitionOptions) (string, error)
}

// TransitionService performs single-shift status changes as an ordered
// pipeline: load, validate, persist, resolve alerts, audit. The status
// write is the durability boundary; everything after it is best-effort or
// independently reported.
type TransitionService struct {
	shifts      repository.ShiftRepository
	transitions repository.TransitionRepository
	alerts      AlertResolver
	validator   *workflow.Validator
	dispatcher  events.Dispatcher
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// TransitionDependencies bundles collaborators for the service.
type TransitionDependencies struct {
	ShiftRepo      repository.ShiftRepository
	TransitionRepo repository.TransitionRepository
	AlertResolver  AlertResolver
	Validator      *workflow.Validator
	Dispatcher     events.Dispatcher
	Metrics        *observability.Metrics
	Logger         *zap.Logger
}

// NewTransitionService constructs the service.
func NewTransitionService(deps TransitionDependencies) *TransitionService {
	return &TransitionService{
		shifts:      deps.ShiftRepo,
		transitions: deps.TransitionRepo,
		alerts:      deps.AlertResolver,
		validator:   deps.Validator,
		dispatcher:  deps.Dispatcher,
		metrics:     deps.Metrics,
		logger:      deps.Logger,
	}
}

// ExecuteTransition moves one shift to newStatus and returns the transition
// audit id.
func (s *TransitionService) ExecuteTransition(ctx context.Context, shiftID string, newStatus domain.ShiftStatus, actorID string, opts TransitionOptions) (string, error) {
	if opts.Method == "" {
		opts.Method = domain.MethodManual
	}

	shift, err := s.shifts.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewShiftNotFound(shiftID)
		}
		return "", apperrors.NewDatabaseError(err)
	}

	previousStatus := shift.Status
	if err := s.validator.Validate(previousStatus, newStatus); err != nil {
		return "", err
	}
	if opts.Method == domain.MethodManual && s.validator.RequiresReason(newStatus) {
		if opts.Reason == nil || strings.TrimSpace(*opts.Reason) == "" {
			return "", apperrors.NewInvalidRequest(
				fmt.Sprintf("reason is required when moving a shift to %s", newStatus),
				map[string]any{"new_status": newStatus})
		}
	}

	if err := s.shifts.UpdateStatus(ctx, shiftID, previousStatus, newStatus); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return "", apperrors.NewDomainError(apperrors.CodeInvalidTransition,
				"shift status changed concurrently, retry with the current status",
				http.StatusConflict,
				map[string]any{"shift_id": shiftID, "attempted": newStatus})
		}
		return "", apperrors.NewDatabaseError(err)
	}

	// Status is durable from here on. Alert resolution never rolls it back.
	resolved := s.alerts.ResolveRelated(ctx, shiftID, previousStatus, newStatus)

	transition := &domain.Transition{
		ID:              uuid.NewString(),
		ShiftID:         shiftID,
		PreviousStatus:  previousStatus,
		NewStatus:       newStatus,
		Method:          opts.Method,
		Reason:          opts.Reason,
		ActorID:         actorID,
		BulkOperationID: opts.BulkOperationID,
	}
	if err := s.transitions.Record(ctx, transition); err != nil {
		return "", apperrors.NewDatabaseError(err)
	}

	s.metrics.RecordTransition(string(previousStatus), string(newStatus))
	s.logger.Info("shift transitioned",
		zap.String("shift_id", shiftID),
		zap.String("from", string(previousStatus)),
		zap.String("to", string(newStatus)),
		zap.String("method", string(opts.Method)),
		zap.Int("alerts_resolved", resolved))

	s.publishEvent(ctx, events.Event{
		Type:    events.EventShiftStatusChanged,
		ShiftID: shiftID,
		ActorID: actorID,
		Payload: events.ShiftStatusChangedPayload{
			PreviousStatus: previousStatus,
			NewStatus:      newStatus,
			Method:         opts.Method,
			TransitionID:   transition.ID,
			Reason:         opts.Reason,
		},
	})

	return transition.ID, nil
}

// ListTransitions returns the audit trail for a shift, oldest first.
func (s *TransitionService) ListTransitions(ctx context.Context, shiftID string, limit, offset int) ([]domain.Transition, error) {
	if _, err := s.shifts.GetByID(ctx, shiftID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewShiftNotFound(shiftID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	transitions, err := s.transitions.ListByShift(ctx, shiftID, limit, offset)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return transitions, nil
}

func (s *TransitionService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
