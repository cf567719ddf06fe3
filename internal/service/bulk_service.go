package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

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

// Notifier delivers an operational message about a shift. Delivery
// internals belong to the notification subsystem.
type Notifier interface {
	Notify(ctx context.Context, shiftID, message, actorID string) error
}

// ShiftCloner creates a new shift from a stored template.
type ShiftCloner interface {
	CloneFromTemplate(ctx context.Context, templateID string) (*domain.Shift, error)
}

// BulkRequest is the engine-level bulk action input.
type BulkRequest struct {
	Action     domain.BulkActionType
	ShiftIDs   []string
	Parameters map[string]any
	Reason     *string
}

// BulkService orchestrates one action across up to MaxBulkShifts shifts
// with partial-failure semantics: items are processed in input order, a
// failed item never stops the rest, and the batch record preserves one
// result per input id in the same order.
type BulkService struct {
	runner     TransitionRunner
	shifts     repository.ShiftRepository
	guards     repository.GuardRepository
	operations repository.BulkOperationRepository
	notifier   Notifier
	cloner     ShiftCloner
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// BulkDependencies bundles collaborators for the orchestrator.
type BulkDependencies struct {
	Runner        TransitionRunner
	ShiftRepo     repository.ShiftRepository
	GuardRepo     repository.GuardRepository
	OperationRepo repository.BulkOperationRepository
	Notifier      Notifier
	Cloner        ShiftCloner
	Dispatcher    events.Dispatcher
	Metrics       *observability.Metrics
	Logger        *zap.Logger
}

// NewBulkService constructs the orchestrator.
func NewBulkService(deps BulkDependencies) *BulkService {
	return &BulkService{
		runner:     deps.Runner,
		shifts:     deps.ShiftRepo,
		guards:     deps.GuardRepo,
		operations: deps.OperationRepo,
		notifier:   deps.Notifier,
		cloner:     deps.Cloner,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
	}
}

// ExecuteBulkAction validates and runs one bulk request on behalf of
// actorID. Structural failures reject the whole request with no side
// effects; parameter failures come back as a fully-failed batch so the
// response shape stays uniform.
func (s *BulkService) ExecuteBulkAction(ctx context.Context, actorID string, req BulkRequest) (*domain.BulkOperation, domain.BulkSummary, error) {
	if req.Action == "" || len(req.ShiftIDs) == 0 {
		return nil, domain.BulkSummary{}, apperrors.NewInvalidRequest("action and shiftIds are required", nil)
	}
	if len(req.ShiftIDs) > domain.MaxBulkShifts {
		return nil, domain.BulkSummary{}, apperrors.NewTooManyShifts(len(req.ShiftIDs), domain.MaxBulkShifts)
	}
	if !req.Action.IsValid() {
		return nil, domain.BulkSummary{}, apperrors.NewInvalidAction(string(req.Action))
	}

	operation := &domain.BulkOperation{
		ID:            uuid.NewString(),
		OperationType: req.Action,
		ShiftIDs:      req.ShiftIDs,
		Parameters:    req.Parameters,
		ExecutedBy:    actorID,
		ExecutedAt:    time.Now(),
	}

	params, paramErr := validateBulkParameters(req.Action, req.Parameters)
	if paramErr != "" {
		operation.Results = failAllItems(req.ShiftIDs, paramErr)
	} else {
		operation.Results = s.runItems(ctx, actorID, operation, params, req)
	}

	summary := summarize(operation.Results)
	if summary.FailureCount == 0 {
		operation.Status = domain.BulkStatusCompleted
	} else {
		operation.Status = domain.BulkStatusFailed
	}

	if err := s.operations.Create(ctx, operation); err != nil {
		s.logger.Warn("failed to persist bulk operation record",
			zap.String("operation_id", operation.ID), zap.Error(err))
	}

	s.metrics.RecordBulkOperation(string(operation.OperationType), string(operation.Status))
	s.logger.Info("bulk operation finished",
		zap.String("operation_id", operation.ID),
		zap.String("action", string(operation.OperationType)),
		zap.String("status", string(operation.Status)),
		zap.Int("success", summary.SuccessCount),
		zap.Int("failure", summary.FailureCount))

	s.publishEvent(ctx, events.Event{
		Type:    events.EventBulkOperationDone,
		ActorID: actorID,
		Payload: events.BulkOperationDonePayload{
			OperationID:   operation.ID,
			OperationType: operation.OperationType,
			Status:        operation.Status,
			SuccessCount:  summary.SuccessCount,
			FailureCount:  summary.FailureCount,
		},
	})

	return operation, summary, nil
}

// bulkParams carries the action-specific parameters after validation.
type bulkParams struct {
	guardID    string
	newStatus  domain.ShiftStatus
	priority   int
	message    string
	templateID string
}

// validateBulkParameters checks the shared parameters object once before
// fan-out. The returned message is empty when validation passes.
func validateBulkParameters(action domain.BulkActionType, parameters map[string]any) (bulkParams, string) {
	var params bulkParams
	switch action {
	case domain.BulkActionAssign:
		guardID, _ := parameters["guardId"].(string)
		if strings.TrimSpace(guardID) == "" {
			return params, "guardId is required for assignment action"
		}
		params.guardID = guardID
	case domain.BulkActionStatusChange:
		raw, _ := parameters["newStatus"].(string)
		if raw == "" {
			return params, "newStatus is required for status change action"
		}
		status := domain.ShiftStatus(raw)
		if !status.IsValid() {
			return params, fmt.Sprintf("Invalid newStatus. Must be one of: %s", statusList())
		}
		params.newStatus = status
	case domain.BulkActionPriorityUpdate:
		priority, ok := integerParam(parameters["priority"])
		if !ok || priority < domain.PriorityMin || priority > domain.PriorityMax {
			return params, "priority must be an integer between 1 and 5"
		}
		params.priority = priority
	case domain.BulkActionNotification:
		message, _ := parameters["message"].(string)
		if strings.TrimSpace(message) == "" {
			return params, "message is required for notification action"
		}
		if utf8.RuneCountInString(message) > 500 {
			return params, "message must be 500 characters or less"
		}
		params.message = message
	case domain.BulkActionClone:
		templateID, _ := parameters["templateId"].(string)
		if strings.TrimSpace(templateID) == "" {
			return params, "templateId is required for clone action"
		}
		params.templateID = templateID
	}
	return params, ""
}

// runItems fans the action out over every shift id in input order. A
// failure on one item never short-circuits the rest.
func (s *BulkService) runItems(ctx context.Context, actorID string, operation *domain.BulkOperation, params bulkParams, req BulkRequest) []domain.BulkItemResult {
	if operation.OperationType == domain.BulkActionAssign {
		// One guard serves the whole batch; a bad guard fails every item
		// uniformly without touching any shift.
		if message := s.checkGuard(ctx, params.guardID); message != "" {
			return failAllItems(operation.ShiftIDs, message)
		}
	}

	results := make([]domain.BulkItemResult, 0, len(operation.ShiftIDs))
	for _, shiftID := range operation.ShiftIDs {
		value, err := s.runItem(ctx, actorID, operation, params, req, shiftID)
		if err != nil {
			results = append(results, domain.BulkItemResult{
				ShiftID: shiftID,
				Success: false,
				Error:   itemError(err),
			})
			continue
		}
		results = append(results, domain.BulkItemResult{
			ShiftID: shiftID,
			Success: true,
			Value:   value,
		})
	}
	return results
}

func (s *BulkService) runItem(ctx context.Context, actorID string, operation *domain.BulkOperation, params bulkParams, req BulkRequest, shiftID string) (map[string]any, error) {
	opts := TransitionOptions{
		Reason:          req.Reason,
		Method:          domain.MethodBulk,
		BulkOperationID: &operation.ID,
	}

	switch operation.OperationType {
	case domain.BulkActionStatusChange:
		transitionID, err := s.runner.ExecuteTransition(ctx, shiftID, params.newStatus, actorID, opts)
		if err != nil {
			return nil, err
		}
		return map[string]any{"transition_id": transitionID}, nil

	case domain.BulkActionAssign:
		// Check the status edge before touching guard_id so a failed item
		// leaves the shift untouched.
		shift, err := s.shifts.GetByID(ctx, shiftID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewShiftNotFound(shiftID)
			}
			return nil, apperrors.NewDatabaseError(err)
		}
		if !workflow.IsAllowed(shift.Status, domain.ShiftStatusAssigned) {
			return nil, apperrors.NewInvalidTransition(string(shift.Status), string(domain.ShiftStatusAssigned))
		}
		if err := s.shifts.UpdateAssignment(ctx, shiftID, params.guardID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewShiftNotFound(shiftID)
			}
			return nil, apperrors.NewDatabaseError(err)
		}
		transitionID, err := s.runner.ExecuteTransition(ctx, shiftID, domain.ShiftStatusAssigned, actorID, opts)
		if err != nil {
			return nil, err
		}
		s.publishEvent(ctx, events.Event{
			Type:    events.EventShiftAssigned,
			ShiftID: shiftID,
			ActorID: actorID,
			Payload: events.ShiftAssignedPayload{GuardID: params.guardID},
		})
		return map[string]any{"guard_id": params.guardID, "transition_id": transitionID}, nil

	case domain.BulkActionPriorityUpdate:
		if err := s.shifts.UpdatePriority(ctx, shiftID, params.priority); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewShiftNotFound(shiftID)
			}
			return nil, apperrors.NewDatabaseError(err)
		}
		s.publishEvent(ctx, events.Event{
			Type:    events.EventShiftPriorityChanged,
			ShiftID: shiftID,
			ActorID: actorID,
			Payload: events.ShiftPriorityChangedPayload{Priority: params.priority},
		})
		return map[string]any{"priority": params.priority}, nil

	case domain.BulkActionNotification:
		if err := s.notifier.Notify(ctx, shiftID, params.message, actorID); err != nil {
			return nil, err
		}
		return map[string]any{"delivered": true}, nil

	case domain.BulkActionClone:
		clone, err := s.cloner.CloneFromTemplate(ctx, params.templateID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewInvalidParameters(fmt.Sprintf("template %s not found", params.templateID))
			}
			return nil, apperrors.NewDatabaseError(err)
		}
		s.publishEvent(ctx, events.Event{
			Type:    events.EventShiftCloned,
			ShiftID: clone.ID,
			ActorID: actorID,
			Payload: events.ShiftClonedPayload{TemplateID: params.templateID, NewShiftID: clone.ID},
		})
		return map[string]any{"new_shift_id": clone.ID}, nil
	}

	return nil, apperrors.NewInvalidAction(string(operation.OperationType))
}

func (s *BulkService) checkGuard(ctx context.Context, guardID string) string {
	guard, err := s.guards.GetByID(ctx, guardID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Sprintf("guard %s not found", guardID)
		}
		return "failed to verify guard"
	}
	if !guard.Active {
		return fmt.Sprintf("guard %s is inactive", guardID)
	}
	return ""
}

func (s *BulkService) publishEvent(ctx context.Context, event events.Event) {
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

func failAllItems(shiftIDs []string, message string) []domain.BulkItemResult {
	results := make([]domain.BulkItemResult, 0, len(shiftIDs))
	for _, shiftID := range shiftIDs {
		results = append(results, domain.BulkItemResult{
			ShiftID: shiftID,
			Success: false,
			Error:   message,
		})
	}
	return results
}

func summarize(results []domain.BulkItemResult) domain.BulkSummary {
	summary := domain.BulkSummary{TotalShifts: len(results)}
	for _, result := range results {
		if result.Success {
			summary.SuccessCount++
		} else {
			summary.FailureCount++
		}
	}
	summary.SuccessRate = roundPercent(summary.SuccessCount, summary.TotalShifts)
	return summary
}

// roundPercent returns numerator/denominator as a percentage rounded to two
// decimal places, and 0 for an empty denominator.
func roundPercent(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return math.Round(float64(numerator)/float64(denominator)*100*100) / 100
}

func itemError(err error) string {
	return apperrors.ToDomainError(err).Message
}

// integerParam accepts JSON numbers only when they carry an integral value.
func integerParam(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	}
	return 0, false
}

func statusList() string {
	statuses := domain.AllStatuses()
	parts := make([]string, len(statuses))
	for i, status := range statuses {
		parts[i] = string(status)
	}
	return strings.Join(parts, ", ")
}
