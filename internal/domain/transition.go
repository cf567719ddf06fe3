package domain

import "time"

// TransitionMethod records how a transition was initiated.
type TransitionMethod string

const (
	MethodManual TransitionMethod = "manual"
	MethodBulk   TransitionMethod = "bulk"
)

// Transition is an immutable audit trail entry for one status change.
// Entries are created once per successful single-item change and never
// mutated or deleted.
type Transition struct {
	ID              string
	ShiftID         string
	PreviousStatus  ShiftStatus
	NewStatus       ShiftStatus
	Method          TransitionMethod
	Reason          *string
	ActorID         string
	BulkOperationID *string
	CreatedAt       time.Time
}
