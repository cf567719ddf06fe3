package handlers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/johnrue/summit-advisory-vercel-sub002/internal/api/dto"
	"github.com/johnrue/summit-advisory-vercel-sub002/internal/api/validators"
	"github.com/johnrue/summit-advisory-vercel-sub002/internal/auth"
	"github.com/johnrue/summit-advisory-vercel-sub002/internal/domain"
	"github.com/johnrue/summit-advisory-vercel-sub002/internal/repository"
	"github.com/johnrue/summit-advisory-vercel-sub002/internal/service"
	apperrors "github.com/johnrue/summit-advisory-vercel-sub002/pkg/util"
)

// TransitionAPI is the slice of the transition service the handler uses.
type TransitionAPI interface {
	ExecuteTransition(ctx context.Context, shiftID string, newStatus domain.ShiftStatus, actorID string, opts service.TransitionOptions) (string, error)
	ListTransitions(ctx context.Context, shiftID string, limit, offset int) ([]domain.Transition, error)
}

// ShiftLister lists shifts for the dashboard.
type ShiftLister interface {
	ListShifts(ctx context.Context, filter repository.ShiftFilter) ([]domain.Shift, error)
}

// ShiftsHandler serves single-shift workflow endpoints.
type ShiftsHandler struct {
	transitions TransitionAPI
	shifts      ShiftLister
}

// NewShiftsHandler constructs the handler.
func NewShiftsHandler(transitions TransitionAPI, shifts ShiftLister) *ShiftsHandler {
	return &ShiftsHandler{transitions: transitions, shifts: shifts}
}

// Transition POST /api/v1/shifts/:id/transition.
func (h *ShiftsHandler) Transition(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.TransitionRequest
	if err := validators.ParseBody(c, &req); err != nil {
		return err
	}

	transitionID, err := h.transitions.ExecuteTransition(
		c.UserContext(),
		c.Params("id"),
		domain.ShiftStatus(req.NewStatus),
		actor.ID,
		service.TransitionOptions{Reason: req.Reason, Method: domain.MethodManual},
	)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TransitionResponse{
		Transition: dto.TransitionRef{TransitionID: transitionID},
	}})
}

// ListTransitions GET /api/v1/shifts/:id/transitions.
func (h *ShiftsHandler) ListTransitions(c *fiber.Ctx) error {
	if _, ok := auth.ActorFromContext(c); !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	limit := parseIntQuery(c.Query("limit"), 100)
	offset := parseIntQuery(c.Query("offset"), 0)
	transitions, err := h.transitions.ListTransitions(c.UserContext(), c.Params("id"), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.TransitionAuditResponse, 0, len(transitions))
	for i := range transitions {
		items = append(items, dto.FromTransition(&transitions[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// List GET /api/v1/shifts.
func (h *ShiftsHandler) List(c *fiber.Ctx) error {
	if _, ok := auth.ActorFromContext(c); !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter := parseShiftQuery(c)
	shifts, err := h.shifts.ListShifts(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.ShiftResponse, 0, len(shifts))
	for i := range shifts {
		items = append(items, dto.FromShift(&shifts[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseShiftQuery(c *fiber.Ctx) repository.ShiftFilter {
	filter := repository.ShiftFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.ShiftStatus(strings.TrimSpace(part)))
		}
	}
	if guardID := c.Query("guard_id"); guardID != "" {
		filter.GuardID = &guardID
	}
	if clientID := c.Query("client_id"); clientID != "" {
		filter.ClientID = &clientID
	}
	if from := parseTimeQuery(c.Query("start_from")); from != nil {
		filter.StartFrom = from
	}
	if to := parseTimeQuery(c.Query("start_to")); to != nil {
		filter.StartTo = to
	}
	page := parseIntQuery(c.Query("page"), 1)
	pageSize := parseIntQuery(c.Query("page_size"), 50)
	if page < 1 {
		page = 1
	}
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseTimeQuery(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseIntQuery(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}
