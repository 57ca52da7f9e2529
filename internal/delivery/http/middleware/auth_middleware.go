package middleware

import (
	"context"
	"errors"

	"job-portal/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	TokenCookie = "token"

	CtxUserIDKey  = "user_id"
	CtxTokenIDKey = "token_id"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (jwt.Session, error)
}

type AuthMiddleware struct {
	auth Authenticator
}

func NewAuthMiddleware(auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// Middleware admits requests carrying a valid session cookie and stores the
// caller's id in the request locals.
func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token := c.Cookies(TokenCookie)
		if token == "" {
			return NewAppError(fiber.StatusUnauthorized, "User is not authenticated", nil, nil)
		}

		sess, err := m.auth.Authenticate(c.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, jwt.ErrTokenMissing):
				return NewAppError(fiber.StatusUnauthorized, "User is not authenticated", nil, err)
			case errors.Is(err, jwt.ErrTokenExpired):
				return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
			default:
				return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
			}
		}

		c.Locals(CtxUserIDKey, sess.UserID)
		c.Locals(CtxTokenIDKey, sess.TokenID)

		return c.Next()
	}
}

// UserID returns the authenticated caller set by AuthMiddleware.
func UserID(c fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(CtxUserIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
