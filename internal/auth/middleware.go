package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/johnrue/summit-advisory-vercel-sub002/internal/domain"
	apperrors "github.com/johnrue/summit-advisory-vercel-sub002/pkg/util"
)

const actorKey = "auth_actor"

// Actor is the resolved caller identity. Identity resolution happens in the
// token issuer; the engine only trusts the claims it can verify.
type Actor struct {
	ID   string
	Role domain.ActorRole
}

// Middleware validates bearer tokens and attaches the actor to the request.
type Middleware struct {
	tokens *TokenManager
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager) *Middleware {
	return &Middleware{tokens: tokens}
}

// Handle enforces authentication for protected routes. It runs before any
// request validation: an unidentified caller never reaches the engine.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}
	if claims.ActorID == "" {
		return apperrors.NewUnauthorized("token carries no actor")
	}

	c.Locals(actorKey, &Actor{ID: claims.ActorID, Role: claims.Role})
	return c.Next()
}

// RequireRole gates a route to the given roles.
func RequireRole(roles ...domain.ActorRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		for _, role := range roles {
			if actor.Role == role {
				return c.Next()
			}
		}
		return apperrors.NewForbidden("insufficient role")
	}
}

// ActorFromContext retrieves the authenticated actor.
func ActorFromContext(c *fiber.Ctx) (*Actor, bool) {
	val := c.Locals(actorKey)
	if val == nil {
		return nil, false
	}
	actor, ok := val.(*Actor)
	return actor, ok
}
