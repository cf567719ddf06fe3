package workflow

import "github.com/johnrue/summit-advisory-vercel-sub002/internal/domain"

func intPtr(v int) *int { return &v }

// DefaultColumns is the board configuration shipped with the engine.
// AllowedTransitions mirror the status graph; completed and archived demand
// a reason, unassigned warns when it piles up.
func DefaultColumns() []domain.WorkflowColumn {
	return []domain.WorkflowColumn{
		{
			ID:                 domain.ShiftStatusUnassigned,
			Title:              "Unassigned",
			AllowedTransitions: AllowedFrom(domain.ShiftStatusUnassigned),
			MaxItems:           intPtr(25),
		},
		{
			ID:                 domain.ShiftStatusAssigned,
			Title:              "Assigned",
			AllowedTransitions: AllowedFrom(domain.ShiftStatusAssigned),
		},
		{
			ID:                 domain.ShiftStatusConfirmed,
			Title:              "Confirmed",
			AllowedTransitions: AllowedFrom(domain.ShiftStatusConfirmed),
		},
		{
			ID:                 domain.ShiftStatusInProgress,
			Title:              "In Progress",
			AllowedTransitions: AllowedFrom(domain.ShiftStatusInProgress),
		},
		{
			ID:                 domain.ShiftStatusCompleted,
			Title:              "Completed",
			AllowedTransitions: AllowedFrom(domain.ShiftStatusCompleted),
			RequiresValidation: true,
		},
		{
			ID:                 domain.ShiftStatusIssueLogged,
			Title:              "Issue Logged",
			AllowedTransitions: AllowedFrom(domain.ShiftStatusIssueLogged),
			MaxItems:           intPtr(10),
		},
		{
			ID:                 domain.ShiftStatusArchived,
			Title:              "Archived",
			AllowedTransitions: AllowedFrom(domain.ShiftStatusArchived),
			RequiresValidation: true,
		},
	}
}
