package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/package-service/internal/events"
	apperrors "github.com/spec-kit/package-service/pkg/util/errorutil"
)

const actorKey = "auth_actor"

// OperatorMiddleware identifies the operator behind a request. Requests without
// credentials act as the system actor; malformed or invalid credentials are rejected.
type OperatorMiddleware struct {
	tokens *TokenManager
}

// NewOperatorMiddleware constructs middleware.
func NewOperatorMiddleware(tokens *TokenManager) *OperatorMiddleware {
	return &OperatorMiddleware{tokens: tokens}
}

// Handle resolves the actor and stores it on the request.
func (m *OperatorMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		c.Locals(actorKey, events.SystemActor)
		return c.Next()
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	c.Locals(actorKey, claims.Actor())
	return c.Next()
}

// ActorFromContext retrieves the identified operator, defaulting to the system actor.
func ActorFromContext(c *fiber.Ctx) events.Actor {
	if actor, ok := c.Locals(actorKey).(events.Actor); ok {
		return actor
	}
	return events.SystemActor
}
