// Package workflow holds the static shift status graph and the transition
// validator. Nothing here touches storage; the graph is configuration.
package workflow

import (
	"github.com/johnrue/summit-advisory-vercel-sub002/internal/domain"
	apperrors "github.com/johnrue/summit-advisory-vercel-sub002/pkg/util"
)

// statusGraph maps each status to the statuses reachable directly from it.
// Forward edges follow the canonical path; issue_logged is the recovery
// side path. Same-state moves and backward jumps are absent on purpose.
var statusGraph = map[domain.ShiftStatus][]domain.ShiftStatus{
	domain.ShiftStatusUnassigned:  {domain.ShiftStatusAssigned, domain.ShiftStatusIssueLogged},
	domain.ShiftStatusAssigned:    {domain.ShiftStatusConfirmed, domain.ShiftStatusIssueLogged},
	domain.ShiftStatusConfirmed:   {domain.ShiftStatusInProgress, domain.ShiftStatusIssueLogged},
	domain.ShiftStatusInProgress:  {domain.ShiftStatusCompleted, domain.ShiftStatusIssueLogged},
	domain.ShiftStatusCompleted:   {domain.ShiftStatusArchived},
	domain.ShiftStatusIssueLogged: {domain.ShiftStatusAssigned, domain.ShiftStatusArchived},
	domain.ShiftStatusArchived:    {},
}

// IsAllowed reports whether from -> to is a legal edge.
func IsAllowed(from, to domain.ShiftStatus) bool {
	for _, candidate := range statusGraph[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// AllowedFrom returns the statuses reachable directly from the given status.
func AllowedFrom(from domain.ShiftStatus) []domain.ShiftStatus {
	edges := statusGraph[from]
	out := make([]domain.ShiftStatus, len(edges))
	copy(out, edges)
	return out
}

// Validator checks proposed transitions against the status graph and the
// board's column-level validation flags.
type Validator struct {
	columns map[domain.ShiftStatus]domain.WorkflowColumn
}

// NewValidator builds a validator over the given column configuration.
func NewValidator(columns []domain.WorkflowColumn) *Validator {
	byStatus := make(map[domain.ShiftStatus]domain.WorkflowColumn, len(columns))
	for _, column := range columns {
		byStatus[column.ID] = column
	}
	return &Validator{columns: byStatus}
}

// Validate returns an INVALID_TRANSITION failure when from -> to is not in
// the graph. The failure carries the attempted pair.
func (v *Validator) Validate(from, to domain.ShiftStatus) error {
	if !to.IsValid() {
		return apperrors.NewInvalidTransition(string(from), string(to))
	}
	if !IsAllowed(from, to) {
		return apperrors.NewInvalidTransition(string(from), string(to))
	}
	return nil
}

// RequiresReason reports whether the destination column demands an
// operator-supplied reason for the move.
func (v *Validator) RequiresReason(to domain.ShiftStatus) bool {
	column, ok := v.columns[to]
	return ok && column.RequiresValidation
}

// Column returns the configuration for one status.
func (v *Validator) Column(status domain.ShiftStatus) (domain.WorkflowColumn, bool) {
	column, ok := v.columns[status]
	return column, ok
}
