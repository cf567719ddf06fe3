package domain

import "time"

// ShiftStatus enumerates lifecycle states for shifts. Order matters: the
// first six statuses minus issue_logged form the canonical forward path.
type ShiftStatus string

const (
	ShiftStatusUnassigned  ShiftStatus = "unassigned"
	ShiftStatusAssigned    ShiftStatus = "assigned"
	ShiftStatusConfirmed   ShiftStatus = "confirmed"
	ShiftStatusInProgress  ShiftStatus = "in_progress"
	ShiftStatusCompleted   ShiftStatus = "completed"
	ShiftStatusIssueLogged ShiftStatus = "issue_logged"
	ShiftStatusArchived    ShiftStatus = "archived"
)

// AllStatuses lists the seven workflow statuses in canonical order.
func AllStatuses() []ShiftStatus {
	return []ShiftStatus{
		ShiftStatusUnassigned,
		ShiftStatusAssigned,
		ShiftStatusConfirmed,
		ShiftStatusInProgress,
		ShiftStatusCompleted,
		ShiftStatusIssueLogged,
		ShiftStatusArchived,
	}
}

// IsValid reports whether s is one of the seven workflow statuses.
func (s ShiftStatus) IsValid() bool {
	switch s {
	case ShiftStatusUnassigned, ShiftStatusAssigned, ShiftStatusConfirmed,
		ShiftStatusInProgress, ShiftStatusCompleted, ShiftStatusIssueLogged,
		ShiftStatusArchived:
		return true
	}
	return false
}

// Priority bounds for shifts.
const (
	PriorityMin = 1
	PriorityMax = 5
)

// Shift is the schedulable unit of guard work. The workflow engine owns
// status and priority; the remaining fields belong to collaborating
// subsystems (assignment, client/location data).
type Shift struct {
	ID         string
	ClientID   string
	LocationID string
	GuardID    *string
	Status     ShiftStatus
	Priority   int
	StartTime  time.Time
	EndTime    time.Time
	Alerts     []UrgencyAlert
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasOpenAlert reports whether the shift carries at least one unresolved
// urgency alert.
func (s *Shift) HasOpenAlert() bool {
	for _, alert := range s.Alerts {
		if !alert.Resolved {
			return true
		}
	}
	return false
}
