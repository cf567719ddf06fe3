package dto

import (
	"time"

	"github.com/johnrue/summit-advisory-vercel-sub002/internal/domain"
)

// TransitionRequest is the single-move payload.
type TransitionRequest struct {
	NewStatus string  `json:"newStatus" validate:"required"`
	Reason    *string `json:"reason"`
}

// TransitionResponse wraps the created transition id.
type TransitionResponse struct {
	Transition TransitionRef `json:"transition"`
}

// TransitionRef identifies an audit record.
type TransitionRef struct {
	TransitionID string `json:"transitionId"`
}

// ShiftResponse is the engine's view of a shift.
type ShiftResponse struct {
	ID         string             `json:"id"`
	ClientID   string             `json:"client_id"`
	LocationID string             `json:"location_id"`
	GuardID    *string            `json:"guard_id"`
	Status     domain.ShiftStatus `json:"status"`
	Priority   int                `json:"priority"`
	StartTime  time.Time          `json:"start_time"`
	EndTime    time.Time          `json:"end_time"`
	OpenAlerts int                `json:"open_alerts"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// TransitionAuditResponse is one audit trail entry.
type TransitionAuditResponse struct {
	ID              string                  `json:"id"`
	ShiftID         string                  `json:"shift_id"`
	PreviousStatus  domain.ShiftStatus      `json:"previous_status"`
	NewStatus       domain.ShiftStatus      `json:"new_status"`
	Method          domain.TransitionMethod `json:"method"`
	Reason          *string                 `json:"reason,omitempty"`
	ActorID         string                  `json:"actor_id"`
	BulkOperationID *string                 `json:"bulk_operation_id,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
}

// FromShift maps a domain shift to its response form.
func FromShift(shift *domain.Shift) ShiftResponse {
	open := 0
	for _, alert := range shift.Alerts {
		if !alert.Resolved {
			open++
		}
	}
	return ShiftResponse{
		ID:         shift.ID,
		ClientID:   shift.ClientID,
		LocationID: shift.LocationID,
		GuardID:    shift.GuardID,
		Status:     shift.Status,
		Priority:   shift.Priority,
		StartTime:  shift.StartTime,
		EndTime:    shift.EndTime,
		OpenAlerts: open,
		CreatedAt:  shift.CreatedAt,
		UpdatedAt:  shift.UpdatedAt,
	}
}

// FromTransition maps a domain transition to its response form.
func FromTransition(transition *domain.Transition) TransitionAuditResponse {
	return TransitionAuditResponse{
		ID:              transition.ID,
		ShiftID:         transition.ShiftID,
		PreviousStatus:  transition.PreviousStatus,
		NewStatus:       transition.NewStatus,
		Method:          transition.Method,
		Reason:          transition.Reason,
		ActorID:         transition.ActorID,
		BulkOperationID: transition.BulkOperationID,
		CreatedAt:       transition.CreatedAt,
	}
}
