package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/johnrue/summit-advisory-vercel-sub002/internal/auth"
	"github.com/johnrue/summit-advisory-vercel-sub002/internal/service"
	apperrors "github.com/johnrue/summit-advisory-vercel-sub002/pkg/util"
)

// BoardAPI loads the board snapshot.
type BoardAPI interface {
	LoadBoard(ctx context.Context) (*service.BoardSnapshot, error)
}

// BoardHandler serves the workflow board snapshot.
type BoardHandler struct {
	board BoardAPI
}

// NewBoardHandler constructs the handler.
func NewBoardHandler(board BoardAPI) *BoardHandler {
	return &BoardHandler{board: board}
}

// Get GET /api/v1/board.
func (h *BoardHandler) Get(c *fiber.Ctx) error {
	if _, ok := auth.ActorFromContext(c); !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	snapshot, err := h.board.LoadBoard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": snapshot})
}
