package auth

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/package-service/internal/events"
	apperrors "github.com/spec-kit/package-service/pkg/util/errorutil"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	token, expiresAt, err := tm.GenerateToken("op-1", "Ana")
	require.NoError(t, err)
	assert.False(t, expiresAt.IsZero())

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, events.Actor{OperatorID: "op-1", Name: "Ana"}, claims.Actor())

	_, err = NewTokenManager("other", 5).ParseToken(token)
	assert.Error(t, err)
}

func newTestApp(tm *TokenManager) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	app.Use(NewOperatorMiddleware(tm).Handle)
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.JSON(ActorFromContext(c))
	})
	return app
}

func TestOperatorMiddleware(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	token, _, err := tm.GenerateToken("op-9", "Luis")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		actor  events.Actor
	}{
		{name: "anonymous acts as system", status: fiber.StatusOK, actor: events.SystemActor},
		{name: "bearer token", header: "Bearer " + token, status: fiber.StatusOK, actor: events.Actor{OperatorID: "op-9", Name: "Luis"}},
		{name: "wrong scheme", header: "Basic abc", status: fiber.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-jwt", status: fiber.StatusUnauthorized},
	}
	app := newTestApp(tm)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.status != fiber.StatusOK {
				return
			}
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			var got events.Actor
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, tt.actor, got)
		})
	}
}
