package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/johnrue/summit-advisory-vercel-sub002/internal/domain"
	"github.com/johnrue/summit-advisory-vercel-sub002/internal/events"
	"github.com/johnrue/summit-advisory-vercel-sub002/internal/repository"
)

// stubShiftRepo keeps shifts in a map and records write calls. Function
// fields override individual methods when a test needs failure injection.
type stubShiftRepo struct {
	shifts           map[string]*domain.Shift
	statusUpdates    []statusUpdate
	priorityUpdates  map[string]int
	assignments      map[string]string
	updateStatus     func(ctx context.Context, id string, from, to domain.ShiftStatus) error
	listWithFilter   func(ctx context.Context, filter repository.ShiftFilter) ([]domain.Shift, error)
	cloneFromTmpl    func(ctx context.Context, templateID string) (*domain.Shift, error)
	updateAssignment func(ctx context.Context, id, guardID string) error
}

type statusUpdate struct {
	id       string
	from, to domain.ShiftStatus
}

func newStubShiftRepo(shifts ...*domain.Shift) *stubShiftRepo {
	repo := &stubShiftRepo{
		shifts:          make(map[string]*domain.Shift),
		priorityUpdates: make(map[string]int),
		assignments:     make(map[string]string),
	}
	for _, shift := range shifts {
		repo.shifts[shift.ID] = shift
	}
	return repo
}

func (s *stubShiftRepo) GetByID(ctx context.Context, id string) (*domain.Shift, error) {
	shift, ok := s.shifts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *shift
	return &copied, nil
}

func (s *stubShiftRepo) ListWithFilter(ctx context.Context, filter repository.ShiftFilter) ([]domain.Shift, error) {
	if s.listWithFilter != nil {
		return s.listWithFilter(ctx, filter)
	}
	out := make([]domain.Shift, 0, len(s.shifts))
	for _, shift := range s.shifts {
		out = append(out, *shift)
	}
	return out, nil
}

func (s *stubShiftRepo) UpdateStatus(ctx context.Context, id string, from, to domain.ShiftStatus) error {
	if s.updateStatus != nil {
		return s.updateStatus(ctx, id, from, to)
	}
	shift, ok := s.shifts[id]
	if !ok {
		return repository.ErrStatusConflict
	}
	if shift.Status != from {
		return repository.ErrStatusConflict
	}
	shift.Status = to
	s.statusUpdates = append(s.statusUpdates, statusUpdate{id: id, from: from, to: to})
	return nil
}

func (s *stubShiftRepo) UpdatePriority(ctx context.Context, id string, priority int) error {
	if _, ok := s.shifts[id]; !ok {
		return pgx.ErrNoRows
	}
	s.priorityUpdates[id] = priority
	return nil
}

func (s *stubShiftRepo) UpdateAssignment(ctx context.Context, id, guardID string) error {
	if s.updateAssignment != nil {
		return s.updateAssignment(ctx, id, guardID)
	}
	if _, ok := s.shifts[id]; !ok {
		return pgx.ErrNoRows
	}
	s.assignments[id] = guardID
	return nil
}

func (s *stubShiftRepo) CloneFromTemplate(ctx context.Context, templateID string) (*domain.Shift, error) {
	if s.cloneFromTmpl != nil {
		return s.cloneFromTmpl(ctx, templateID)
	}
	return nil, pgx.ErrNoRows
}

type stubTransitionRepo struct {
	recorded []*domain.Transition
	record   func(ctx context.Context, transition *domain.Transition) error
	listed   []domain.Transition
}

func (s *stubTransitionRepo) Record(ctx context.Context, transition *domain.Transition) error {
	if s.record != nil {
		return s.record(ctx, transition)
	}
	s.recorded = append(s.recorded, transition)
	return nil
}

func (s *stubTransitionRepo) ListByShift(ctx context.Context, shiftID string, limit, offset int) ([]domain.Transition, error) {
	return s.listed, nil
}

type stubAlertRepo struct {
	open     []domain.UrgencyAlert
	resolved []string
	listErr  error
	resolve  func(ctx context.Context, alertID, resolvedBy, reason string) error
}

func (s *stubAlertRepo) ListOpenByShiftAndType(ctx context.Context, shiftID string, alertType domain.ShiftStatus) ([]domain.UrgencyAlert, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]domain.UrgencyAlert, 0, len(s.open))
	for _, alert := range s.open {
		if alert.ShiftID == shiftID && alert.AlertType == alertType && !alert.Resolved {
			out = append(out, alert)
		}
	}
	return out, nil
}

func (s *stubAlertRepo) ListOpenByShiftIDs(ctx context.Context, shiftIDs []string) ([]domain.UrgencyAlert, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	wanted := make(map[string]bool, len(shiftIDs))
	for _, id := range shiftIDs {
		wanted[id] = true
	}
	out := make([]domain.UrgencyAlert, 0, len(s.open))
	for _, alert := range s.open {
		if wanted[alert.ShiftID] && !alert.Resolved {
			out = append(out, alert)
		}
	}
	return out, nil
}

func (s *stubAlertRepo) Resolve(ctx context.Context, alertID, resolvedBy, reason string) error {
	if s.resolve != nil {
		return s.resolve(ctx, alertID, resolvedBy, reason)
	}
	s.resolved = append(s.resolved, alertID)
	return nil
}

type stubAlertResolver struct {
	calls []string
	count int
}

func (s *stubAlertResolver) ResolveRelated(ctx context.Context, shiftID string, previousStatus, newStatus domain.ShiftStatus) int {
	s.calls = append(s.calls, shiftID)
	return s.count
}

type stubGuardRepo struct {
	guards map[string]*domain.Guard
	err    error
}

func (s *stubGuardRepo) GetByID(ctx context.Context, id string) (*domain.Guard, error) {
	if s.err != nil {
		return nil, s.err
	}
	guard, ok := s.guards[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return guard, nil
}

type stubOperationRepo struct {
	created *domain.BulkOperation
	err     error
}

func (s *stubOperationRepo) Create(ctx context.Context, operation *domain.BulkOperation) error {
	if s.err != nil {
		return s.err
	}
	s.created = operation
	return nil
}

type stubNotifier struct {
	messages map[string]string
	err      error
}

func (s *stubNotifier) Notify(ctx context.Context, shiftID, message, actorID string) error {
	if s.err != nil {
		return s.err
	}
	if s.messages == nil {
		s.messages = make(map[string]string)
	}
	s.messages[shiftID] = message
	return nil
}

type stubCloner struct {
	clone func(ctx context.Context, templateID string) (*domain.Shift, error)
}

func (s *stubCloner) CloneFromTemplate(ctx context.Context, templateID string) (*domain.Shift, error) {
	if s.clone != nil {
		return s.clone(ctx, templateID)
	}
	return nil, pgx.ErrNoRows
}

type stubRunner struct {
	calls []runnerCall
	run   func(ctx context.Context, shiftID string, newStatus domain.ShiftStatus, actorID string, opts TransitionOptions) (string, error)
}

type runnerCall struct {
	shiftID   string
	newStatus domain.ShiftStatus
	opts      TransitionOptions
}

func (s *stubRunner) ExecuteTransition(ctx context.Context, shiftID string, newStatus domain.ShiftStatus, actorID string, opts TransitionOptions) (string, error) {
	s.calls = append(s.calls, runnerCall{shiftID: shiftID, newStatus: newStatus, opts: opts})
	if s.run != nil {
		return s.run(ctx, shiftID, newStatus, actorID, opts)
	}
	return "transition-" + shiftID, nil
}

type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}
