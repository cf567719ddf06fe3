package domain

// WorkflowColumn is the static configuration for one status value on the
// operations board. Columns are loaded once per board render and never
// mutated by the engine.
type WorkflowColumn struct {
	ID                 ShiftStatus
	Title              string
	AllowedTransitions []ShiftStatus
	RequiresValidation bool
	MaxItems           *int
}

// OverCapacity reports whether count exceeds the column's soft capacity
// threshold. Columns without a threshold never warn.
func (c WorkflowColumn) OverCapacity(count int) bool {
	return c.MaxItems != nil && count > *c.MaxItems
}
