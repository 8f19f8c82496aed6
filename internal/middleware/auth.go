package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"issueradar/internal/apierr"
	"issueradar/internal/models"
)

// userIDKey is the fiber.Ctx locals key carrying the authenticated user id.
const userIDKey = "userID"

// SessionStore resolves bearer tokens to session records. Sessions are
// written by the external login flow; this middleware only reads them.
type SessionStore interface {
	FindByToken(ctx context.Context, token string) (models.Session, bool, error)
}

// Auth authenticates requests via "Authorization: Bearer <token>". Missing,
// unknown, or expired tokens yield 401 before any handler runs.
func Auth(sessions SessionStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return apierr.Unauthorized()
		}

		session, ok, err := sessions.FindByToken(c.UserContext(), token)
		if err != nil {
			return apierr.Internal(err)
		}
		if !ok || (!session.ExpiresAt.IsZero() && session.ExpiresAt.Before(time.Now())) {
			return apierr.Unauthorized()
		}

		c.Locals(userIDKey, session.UserID)
		return c.Next()
	}
}

// UserID returns the authenticated user id set by Auth, or "" when the
// request is unauthenticated.
func UserID(c *fiber.Ctx) string {
	if id, ok := c.Locals(userIDKey).(string); ok {
		return id
	}
	return ""
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
