package domain

import "time"

// UrgencyAlert flags a shift that needs attention in its current status.
// Alerts are raised by the alerting subsystem; the workflow engine only
// resolves them when the shift leaves the status they are bound to.
type UrgencyAlert struct {
	ID             string
	ShiftID        string
	AlertType      ShiftStatus
	Priority       int
	Resolved       bool
	ResolvedBy     *string
	ResolvedReason *string
	CreatedAt      time.Time
	ResolvedAt     *time.Time
}
