package dto

import (
	"time"

	"github.com/johnrue/summit-advisory-vercel-sub002/internal/domain"
)

// BulkActionRequest is the bulk payload. The 50-item cap and action
// semantics are enforced by the orchestrator so their dedicated failure
// codes survive; here only field presence is structural.
type BulkActionRequest struct {
	Action     string         `json:"action" validate:"required"`
	ShiftIDs   []string       `json:"shiftIds" validate:"required,min=1"`
	Parameters map[string]any `json:"parameters"`
	Reason     *string        `json:"reason"`
}

// BulkOperationResponse is the persisted operation record.
type BulkOperationResponse struct {
	ID            string                     `json:"id"`
	OperationType domain.BulkActionType      `json:"operation_type"`
	ShiftIDs      []string                   `json:"shift_ids"`
	ExecutedBy    string                     `json:"executed_by"`
	ExecutedAt    time.Time                  `json:"executed_at"`
	Status        domain.BulkOperationStatus `json:"status"`
	Results       []domain.BulkItemResult    `json:"results"`
}

// BulkResponse pairs the operation with its summary.
type BulkResponse struct {
	Operation BulkOperationResponse `json:"operation"`
	Summary   domain.BulkSummary    `json:"summary"`
}

// FromBulkOperation maps a domain operation to its response form.
func FromBulkOperation(operation *domain.BulkOperation, summary domain.BulkSummary) BulkResponse {
	return BulkResponse{
		Operation: BulkOperationResponse{
			ID:            operation.ID,
			OperationType: operation.OperationType,
			ShiftIDs:      operation.ShiftIDs,
			ExecutedBy:    operation.ExecutedBy,
			ExecutedAt:    operation.ExecutedAt,
			Status:        operation.Status,
			Results:       operation.Results,
		},
		Summary: summary,
	}
}
