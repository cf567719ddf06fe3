package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/johnrue/summit-advisory-vercel-sub002/internal/api/dto"
	"github.com/johnrue/summit-advisory-vercel-sub002/internal/api/validators"
	"github.com/johnrue/summit-advisory-vercel-sub002/internal/auth"
	"github.com/johnrue/summit-advisory-vercel-sub002/internal/domain"
	"github.com/johnrue/summit-advisory-vercel-sub002/internal/service"
	apperrors "github.com/johnrue/summit-advisory-vercel-sub002/pkg/util"
)

// BulkAPI is the slice of the bulk orchestrator the handler uses.
type BulkAPI interface {
	ExecuteBulkAction(ctx context.Context, actorID string, req service.BulkRequest) (*domain.BulkOperation, domain.BulkSummary, error)
}

// BulkHandler serves the bulk action endpoint.
type BulkHandler struct {
	bulk BulkAPI
}

// NewBulkHandler constructs the handler.
func NewBulkHandler(bulk BulkAPI) *BulkHandler {
	return &BulkHandler{bulk: bulk}
}

// Execute POST /api/v1/shifts/bulk.
func (h *BulkHandler) Execute(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.BulkActionRequest
	if err := validators.ParseBody(c, &req); err != nil {
		return err
	}

	operation, summary, err := h.bulk.ExecuteBulkAction(c.UserContext(), actor.ID, service.BulkRequest{
		Action:     domain.BulkActionType(req.Action),
		ShiftIDs:   req.ShiftIDs,
		Parameters: req.Parameters,
		Reason:     req.Reason,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromBulkOperation(operation, summary)})
}
