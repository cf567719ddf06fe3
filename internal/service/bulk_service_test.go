package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/johnrue/summit-advisory-vercel-sub002/internal/domain"
	"github.com/johnrue/summit-advisory-vercel-sub002/internal/observability"
	apperrors "github.com/johnrue/summit-advisory-vercel-sub002/pkg/util"
)

type bulkFixture struct {
	svc        *BulkService
	shifts     *stubShiftRepo
	guards     *stubGuardRepo
	operations *stubOperationRepo
	notifier   *stubNotifier
	cloner     *stubCloner
	runner     *stubRunner
	dispatcher *recordingDispatcher
}

func newBulkFixture(shifts ...*domain.Shift) *bulkFixture {
	f := &bulkFixture{
		shifts:     newStubShiftRepo(shifts...),
		guards:     &stubGuardRepo{guards: map[string]*domain.Guard{}},
		operations: &stubOperationRepo{},
		notifier:   &stubNotifier{},
		cloner:     &stubCloner{},
		runner:     &stubRunner{},
		dispatcher: &recordingDispatcher{},
	}
	f.svc = NewBulkService(BulkDependencies{
		Runner:        f.runner,
		ShiftRepo:     f.shifts,
		GuardRepo:     f.guards,
		OperationRepo: f.operations,
		Notifier:      f.notifier,
		Cloner:        f.cloner,
		Dispatcher:    f.dispatcher,
		Metrics:       observability.NewMetrics(),
		Logger:        zap.NewNop(),
	})
	return f
}

func shiftIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("shift-%d", i+1)
	}
	return ids
}

func TestBulkRejectsMissingActionAndIDs(t *testing.T) {
	f := newBulkFixture()

	_, _, err := f.svc.ExecuteBulkAction(context.Background(), "actor-1", BulkRequest{})
	assertDomainCode(t, err, apperrors.CodeInvalidRequest, http.StatusBadRequest)

	_, _, err = f.svc.ExecuteBulkAction(context.Background(), "actor-1", BulkRequest{Action: domain.BulkActionAssign})
	assertDomainCode(t, err, apperrors.CodeInvalidRequest, http.StatusBadRequest)

	if f.operations.created != nil {
		t.Fatal("structural rejection must not persist an operation record")
	}
}

func TestBulkRejectsOversizedBatch(t *testing.T) {
	f := newBulkFixture()

	_, _, err := f.svc.ExecuteBulkAction(context.Background(), "actor-1", BulkRequest{
		Action:   domain.BulkActionNotification,
		ShiftIDs: shiftIDs(51),
	})
	assertDomainCode(t, err, apperrors.CodeTooManyShifts, http.StatusBadRequest)

	var domainErr *apperrors.DomainError
	errors.As(err, &domainErr)
	if domainErr.Details["shift_count"] != 51 || domainErr.Details["max"] != 50 {
		t.Fatalf("unexpected details: %v", domainErr.Details)
	}
	if len(f.runner.calls) != 0 || f.operations.created != nil {
		t.Fatal("oversized batch must reject before any item work")
	}
}

func TestBulkRejectsUnknownAction(t *testing.T) {
	f := newBulkFixture()

	_, _, err := f.svc.ExecuteBulkAction(context.Background(), "actor-1", BulkRequest{
		Action:   "escalate",
		ShiftIDs: []string{"shift-1"},
	})
	assertDomainCode(t, err, apperrors.CodeInvalidAction, http.StatusBadRequest)
}

func TestBulkParameterFailureFailsAllItemsUniformly(t *testing.T) {
	cases := []struct {
		name       string
		action     domain.BulkActionType
		parameters map[string]any
		message    string
	}{
		{"assign missing guard", domain.BulkActionAssign, nil, "guardId is required for assignment action"},
		{"status missing", domain.BulkActionStatusChange, nil, "newStatus is required for status change action"},
		{"status unknown", domain.BulkActionStatusChange, map[string]any{"newStatus": "cancelled"},
			"Invalid newStatus. Must be one of: unassigned, assigned, confirmed, in_progress, completed, issue_logged, archived"},
		{"priority missing", domain.BulkActionPriorityUpdate, nil, "priority must be an integer between 1 and 5"},
		{"priority out of range", domain.BulkActionPriorityUpdate, map[string]any{"priority": float64(6)}, "priority must be an integer between 1 and 5"},
		{"priority fractional", domain.BulkActionPriorityUpdate, map[string]any{"priority": 2.5}, "priority must be an integer between 1 and 5"},
		{"notification missing", domain.BulkActionNotification, map[string]any{"message": "   "}, "message is required for notification action"},
		{"notification too long", domain.BulkActionNotification, map[string]any{"message": string(make([]byte, 501))}, "message must be 500 characters or less"},
		{"clone missing template", domain.BulkActionClone, nil, "templateId is required for clone action"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newBulkFixture()
			ids := []string{"shift-1", "shift-2", "shift-3"}

			operation, summary, err := f.svc.ExecuteBulkAction(context.Background(), "actor-1", BulkRequest{
				Action:     tc.action,
				ShiftIDs:   ids,
				Parameters: tc.parameters,
			})
			if err != nil {
				t.Fatalf("parameter failures must come back success-shaped, got %v", err)
			}
			if operation.Status != domain.BulkStatusFailed {
				t.Fatalf("operation status = %s, want failed", operation.Status)
			}
			if summary.SuccessCount != 0 || summary.FailureCount != 3 || summary.SuccessRate != 0 {
				t.Fatalf("summary = %+v", summary)
			}
			for i, result := range operation.Results {
				if result.ShiftID != ids[i] || result.Success || result.Error != tc.message {
					t.Fatalf("result %d = %+v, want error %q", i, result, tc.message)
				}
			}
			if len(f.runner.calls) != 0 {
				t.Fatal("parameter failure must not touch any shift")
			}
		})
	}
}

func TestBulkAssignUnknownGuardFailsBatchWithoutWrites(t *testing.T) {
	f := newBulkFixture(
		&domain.Shift{ID: "shift-1", Status: domain.ShiftStatusUnassigned},
		&domain.Shift{ID: "shift-2", Status: domain.ShiftStatusUnassigned},
	)

	operation, summary, err := f.svc.ExecuteBulkAction(context.Background(), "actor-1", BulkRequest{
		Action:     domain.BulkActionAssign,
		ShiftIDs:   []string{"shift-1", "shift-2"},
		Parameters: map[string]any{"guardId": "g-404"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.FailureCount != 2 {
		t.Fatalf("summary = %+v", summary)
	}
	for _, result := range operation.Results {
		if result.Error != "guard g-404 not found" {
			t.Fatalf("result error = %q", result.Error)
		}
	}
	if len(f.shifts.assignments) != 0 {
		t.Fatal("no assignment may be written when the guard is unknown")
	}
}

func TestBulkAssignInactiveGuard(t *testing.T) {
	f := newBulkFixture(&domain.Shift{ID: "shift-1", Status: domain.ShiftStatusUnassigned})
	f.guards.guards["g-1"] = &domain.Guard{ID: "g-1", Active: false}

	operation, _, err := f.svc.ExecuteBulkAction(context.Background(), "actor-1", BulkRequest{
		Action:     domain.BulkActionAssign,
		ShiftIDs:   []string{"shift-1"},
		Parameters: map[string]any{"guardId": "g-1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if operation.Results[0].Error != "guard g-1 is inactive" {
		t.Fatalf("result error = %q", operation.Results[0].Error)
	}
}

func TestBulkAssignHappyPath(t *testing.T) {
	f := newBulkFixture(
		&domain.Shift{ID: "shift-1", Status: domain.ShiftStatusUnassigned},
		&domain.Shift{ID: "shift-2", Status: domain.ShiftStatusUnassigned},
	)
	f.guards.guards["g-1"] = &domain.Guard{ID: "g-1", Active: true}

	operation, summary, err := f.svc.ExecuteBulkAction(context.Background(), "actor-1", BulkRequest{
		Action:     domain.BulkActionAssign,
		ShiftIDs:   []string{"shift-1", "shift-2"},
		Parameters: map[string]any{"guardId": "g-1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if operation.Status != domain.BulkStatusCompleted || summary.SuccessRate != 100 {
		t.Fatalf("operation %s, summary %+v", operation.Status, summary)
	}
	if f.shifts.assignments["shift-1"] != "g-1" || f.shifts.assignments["shift-2"] != "g-1" {
		t.Fatalf("assignments = %v", f.shifts.assignments)
	}
	for _, call := range f.runner.calls {
		if call.newStatus != domain.ShiftStatusAssigned || call.opts.Method != domain.MethodBulk {
			t.Fatalf("runner call = %+v", call)
		}
		if call.opts.BulkOperationID == nil || *call.opts.BulkOperationID != operation.ID {
			t.Fatal("runner call missing bulk operation id")
		}
	}
}

func TestBulkAssignNonAssignableShiftLeavesItUntouched(t *testing.T) {
	f := newBulkFixture(
		&domain.Shift{ID: "shift-1", Status: domain.ShiftStatusConfirmed},
		&domain.Shift{ID: "shift-2", Status: domain.ShiftStatusUnassigned},
	)
	f.guards.guards["g-1"] = &domain.Guard{ID: "g-1", Active: true}

	operation, summary, err := f.svc.ExecuteBulkAction(context.Background(), "actor-1", BulkRequest{
		Action:     domain.BulkActionAssign,
		ShiftIDs:   []string{"shift-1", "shift-2"},
		Parameters: map[string]any{"guardId": "g-1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.SuccessCount != 1 || summary.FailureCount != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if operation.Results[0].Success || operation.Results[0].Error != "transition from confirmed to assigned is not allowed" {
		t.Fatalf("non-assignable item = %+v", operation.Results[0])
	}
	// A failed item never writes guard_id.
	if _, wrote := f.shifts.assignments["shift-1"]; wrote {
		t.Fatal("failed assign item must not write an assignment")
	}
	if f.shifts.assignments["shift-2"] != "g-1" {
		t.Fatalf("assignments = %v", f.shifts.assignments)
	}
}

func TestBulkStatusChangePartialFailure(t *testing.T) {
	f := newBulkFixture()
	f.runner.run = func(ctx context.Context, shiftID string, newStatus domain.ShiftStatus, actorID string, opts TransitionOptions) (string, error) {
		if shiftID == "shift-2" {
			return "", apperrors.NewInvalidTransition("completed", "confirmed")
		}
		return "transition-" + shiftID, nil
	}

	operation, summary, err := f.svc.ExecuteBulkAction(context.Background(), "actor-1", BulkRequest{
		Action:     domain.BulkActionStatusChange,
		ShiftIDs:   []string{"shift-1", "shift-2", "shift-3"},
		Parameters: map[string]any{"newStatus": "confirmed"},
	})
	if err != nil {
		t.Fatalf("partial failure must not surface as an error: %v", err)
	}
	if operation.Status != domain.BulkStatusFailed {
		t.Fatalf("operation status = %s, want failed", operation.Status)
	}
	if summary.TotalShifts != 3 || summary.SuccessCount != 2 || summary.FailureCount != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.SuccessRate != 66.67 {
		t.Fatalf("success rate = %v, want 66.67", summary.SuccessRate)
	}
	// One result per input id, in input order, with the failure in place.
	wantIDs := []string{"shift-1", "shift-2", "shift-3"}
	for i, result := range operation.Results {
		if result.ShiftID != wantIDs[i] {
			t.Fatalf("result order broken: %v", operation.Results)
		}
	}
	if operation.Results[1].Success || operation.Results[1].Error != "transition from completed to confirmed is not allowed" {
		t.Fatalf("failed item = %+v", operation.Results[1])
	}
	if !operation.Results[2].Success {
		t.Fatal("failure on one item must not stop the rest")
	}
	if len(f.runner.calls) != 3 {
		t.Fatalf("runner called %d times, want 3", len(f.runner.calls))
	}
}

func TestBulkPriorityUpdate(t *testing.T) {
	f := newBulkFixture(
		&domain.Shift{ID: "shift-1", Status: domain.ShiftStatusAssigned, Priority: 3},
		&domain.Shift{ID: "shift-2", Status: domain.ShiftStatusAssigned, Priority: 3},
	)

	operation, summary, err := f.svc.ExecuteBulkAction(context.Background(), "actor-1", BulkRequest{
		Action:     domain.BulkActionPriorityUpdate,
		ShiftIDs:   []string{"shift-1", "shift-2"},
		Parameters: map[string]any{"priority": float64(5)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.SuccessCount != 2 {
		t.Fatalf("summary = %+v", summary)
	}
	if f.shifts.priorityUpdates["shift-1"] != 5 || f.shifts.priorityUpdates["shift-2"] != 5 {
		t.Fatalf("priority writes = %v", f.shifts.priorityUpdates)
	}
	if operation.Results[0].Value["priority"] != 5 {
		t.Fatalf("result value = %v", operation.Results[0].Value)
	}
}

func TestBulkPriorityUpdateMissingShift(t *testing.T) {
	f := newBulkFixture(&domain.Shift{ID: "shift-1", Status: domain.ShiftStatusAssigned})

	operation, summary, err := f.svc.ExecuteBulkAction(context.Background(), "actor-1", BulkRequest{
		Action:     domain.BulkActionPriorityUpdate,
		ShiftIDs:   []string{"shift-1", "shift-404"},
		Parameters: map[string]any{"priority": 2},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.SuccessCount != 1 || summary.FailureCount != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if operation.Results[1].Error != "shift not found" {
		t.Fatalf("missing-shift error = %q", operation.Results[1].Error)
	}
}

func TestBulkNotification(t *testing.T) {
	f := newBulkFixture()

	operation, _, err := f.svc.ExecuteBulkAction(context.Background(), "actor-1", BulkRequest{
		Action:     domain.BulkActionNotification,
		ShiftIDs:   []string{"shift-1", "shift-2"},
		Parameters: map[string]any{"message": "coverage change tonight"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.notifier.messages["shift-1"] != "coverage change tonight" || f.notifier.messages["shift-2"] != "coverage change tonight" {
		t.Fatalf("notifier messages = %v", f.notifier.messages)
	}
	if operation.Results[0].Value["delivered"] != true {
		t.Fatalf("result value = %v", operation.Results[0].Value)
	}
}

func TestBulkNotificationCountsCharactersNotBytes(t *testing.T) {
	f := newBulkFixture()

	// 500 two-byte characters: 1000 bytes, but within the character cap.
	_, summary, err := f.svc.ExecuteBulkAction(context.Background(), "actor-1", BulkRequest{
		Action:     domain.BulkActionNotification,
		ShiftIDs:   []string{"shift-1"},
		Parameters: map[string]any{"message": strings.Repeat("é", 500)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.SuccessCount != 1 {
		t.Fatalf("500-character multi-byte message rejected: %+v", summary)
	}

	operation, _, err := f.svc.ExecuteBulkAction(context.Background(), "actor-1", BulkRequest{
		Action:     domain.BulkActionNotification,
		ShiftIDs:   []string{"shift-1"},
		Parameters: map[string]any{"message": strings.Repeat("é", 501)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if operation.Results[0].Success || operation.Results[0].Error != "message must be 500 characters or less" {
		t.Fatalf("501-character message result = %+v", operation.Results[0])
	}
}

func TestBulkClone(t *testing.T) {
	f := newBulkFixture()
	created := 0
	f.cloner.clone = func(ctx context.Context, templateID string) (*domain.Shift, error) {
		created++
		return &domain.Shift{ID: fmt.Sprintf("new-shift-%d", created), Status: domain.ShiftStatusUnassigned}, nil
	}

	operation, summary, err := f.svc.ExecuteBulkAction(context.Background(), "actor-1", BulkRequest{
		Action:     domain.BulkActionClone,
		ShiftIDs:   []string{"shift-1", "shift-2"},
		Parameters: map[string]any{"templateId": "tmpl-1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.SuccessCount != 2 || created != 2 {
		t.Fatalf("summary = %+v, created = %d", summary, created)
	}
	if operation.Results[0].Value["new_shift_id"] != "new-shift-1" {
		t.Fatalf("result value = %v", operation.Results[0].Value)
	}
}

func TestBulkPersistsOperationRecord(t *testing.T) {
	f := newBulkFixture()

	operation, _, err := f.svc.ExecuteBulkAction(context.Background(), "actor-7", BulkRequest{
		Action:     domain.BulkActionNotification,
		ShiftIDs:   []string{"shift-1"},
		Parameters: map[string]any{"message": "hello"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.operations.created == nil || f.operations.created.ID != operation.ID {
		t.Fatal("operation record not persisted")
	}
	if f.operations.created.ExecutedBy != "actor-7" {
		t.Fatalf("executed by = %s", f.operations.created.ExecutedBy)
	}
}

func TestBulkRecordPersistFailureDoesNotFailBatch(t *testing.T) {
	f := newBulkFixture()
	f.operations.err = errors.New("insert failed")

	operation, summary, err := f.svc.ExecuteBulkAction(context.Background(), "actor-1", BulkRequest{
		Action:     domain.BulkActionNotification,
		ShiftIDs:   []string{"shift-1"},
		Parameters: map[string]any{"message": "hello"},
	})
	if err != nil {
		t.Fatalf("record persistence failure must not fail the batch: %v", err)
	}
	if operation.Status != domain.BulkStatusCompleted || summary.SuccessCount != 1 {
		t.Fatalf("operation %s, summary %+v", operation.Status, summary)
	}
}

func TestBulkAcceptsExactlyFiftyShifts(t *testing.T) {
	f := newBulkFixture()

	_, summary, err := f.svc.ExecuteBulkAction(context.Background(), "actor-1", BulkRequest{
		Action:     domain.BulkActionNotification,
		ShiftIDs:   shiftIDs(50),
		Parameters: map[string]any{"message": "shift briefing at 18:00"},
	})
	if err != nil {
		t.Fatalf("batch of 50 must be accepted: %v", err)
	}
	if summary.TotalShifts != 50 || summary.SuccessCount != 50 {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestRoundPercent(t *testing.T) {
	cases := []struct {
		num, den int
		want     float64
	}{
		{0, 0, 0},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{3, 3, 100},
		{1, 8, 12.5},
	}
	for _, tc := range cases {
		if got := roundPercent(tc.num, tc.den); got != tc.want {
			t.Errorf("roundPercent(%d, %d) = %v, want %v", tc.num, tc.den, got, tc.want)
		}
	}
}
