package domain

import "time"

// BulkActionType enumerates the supported bulk actions.
type BulkActionType string

const (
	BulkActionAssign         BulkActionType = "assign"
	BulkActionStatusChange   BulkActionType = "status_change"
	BulkActionPriorityUpdate BulkActionType = "priority_update"
	BulkActionNotification   BulkActionType = "notification"
	BulkActionClone          BulkActionType = "clone"
)

// IsValid reports whether a is a known bulk action.
func (a BulkActionType) IsValid() bool {
	switch a {
	case BulkActionAssign, BulkActionStatusChange, BulkActionPriorityUpdate,
		BulkActionNotification, BulkActionClone:
		return true
	}
	return false
}

// MaxBulkShifts caps how many shifts one bulk request may target.
const MaxBulkShifts = 50

// BulkOperationStatus is the batch-level outcome, computed after all items
// have been processed.
type BulkOperationStatus string

const (
	BulkStatusCompleted BulkOperationStatus = "completed"
	BulkStatusFailed    BulkOperationStatus = "failed"
)

// BulkItemResult is the tagged per-item outcome. Exactly one of Value or
// Error is meaningful depending on Success.
type BulkItemResult struct {
	ShiftID string         `json:"shift_id"`
	Success bool           `json:"success"`
	Value   map[string]any `json:"value,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// BulkOperation records one bulk request and its per-item outcomes. The
// results list always matches ShiftIDs in length and order. The record is
// assembled fully before being returned and never mutated afterwards.
type BulkOperation struct {
	ID            string
	OperationType BulkActionType
	ShiftIDs      []string
	Parameters    map[string]any
	ExecutedBy    string
	ExecutedAt    time.Time
	Status        BulkOperationStatus
	Results       []BulkItemResult
}

// BulkSummary aggregates item outcomes for the response payload.
type BulkSummary struct {
	TotalShifts  int     `json:"total_shifts"`
	SuccessCount int     `json:"success_count"`
	FailureCount int     `json:"failure_count"`
	SuccessRate  float64 `json:"success_rate"`
}
