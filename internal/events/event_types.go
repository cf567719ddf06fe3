package events

import (
	"time"

	"github.com/johnrue/summit-advisory-vercel-sub002/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventShiftStatusChanged   EventType = "shift_status_changed"
	EventShiftAssigned        EventType = "shift_assigned"
	EventShiftPriorityChanged EventType = "shift_priority_changed"
	EventShiftCloned          EventType = "shift_cloned"
	EventBulkOperationDone    EventType = "bulk_operation_completed"
	EventShiftNotification    EventType = "shift_notification"
)

// Event represents a domain event emitted by the workflow services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ShiftID   string      `json:"shift_id,omitempty"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ShiftStatusChangedPayload payload.
type ShiftStatusChangedPayload struct {
	PreviousStatus domain.ShiftStatus      `json:"previous_status"`
	NewStatus      domain.ShiftStatus      `json:"new_status"`
	Method         domain.TransitionMethod `json:"method"`
	TransitionID   string                  `json:"transition_id"`
	Reason         *string                 `json:"reason,omitempty"`
}

// ShiftAssignedPayload payload.
type ShiftAssignedPayload struct {
	GuardID string `json:"guard_id"`
}

// ShiftPriorityChangedPayload payload.
type ShiftPriorityChangedPayload struct {
	Priority int `json:"priority"`
}

// ShiftClonedPayload payload.
type ShiftClonedPayload struct {
	TemplateID string `json:"template_id"`
	NewShiftID string `json:"new_shift_id"`
}

// BulkOperationDonePayload payload.
type BulkOperationDonePayload struct {
	OperationID   string                     `json:"operation_id"`
	OperationType domain.BulkActionType      `json:"operation_type"`
	Status        domain.BulkOperationStatus `json:"status"`
	SuccessCount  int                        `json:"success_count"`
	FailureCount  int                        `json:"failure_count"`
}

// ShiftNotificationPayload payload.
type ShiftNotificationPayload struct {
	Message string `json:"message"`
}
