package middleware

import (
	"errors"
	"strings"

	"jobboard/internal/domain/user"
	"jobboard/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
)

const CtxUserKey = "user"

// AuthMiddleware validates the bearer token and resolves the current user.
// Role and verification come from the user record, never from the token.
type AuthMiddleware struct {
	jwt   jwt.Service
	users user.Repository
}

func NewAuthMiddleware(jwtSvc jwt.Service, users user.Repository) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc, users: users}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerTokenFromHeader(c.Get("Authorization"))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "No token, authorization denied", nil, nil)
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, "Token is not valid", nil, err)
		}

		u, err := m.users.GetByID(c.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				return NewAppError(fiber.StatusUnauthorized, "Token is not valid", nil, err)
			}
			return err
		}

		c.Locals(CtxUserKey, u)
		return c.Next()
	}
}

// RequireRoles admits only the listed roles. It must run after Middleware.
func RequireRoles(roles ...user.Role) fiber.Handler {
	return func(c fiber.Ctx) error {
		u, ok := CurrentUser(c)
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "No token, authorization denied", nil, nil)
		}
		if !u.HasRole(roles...) {
			return NewAppError(fiber.StatusForbidden, "Access denied", nil, nil)
		}
		return c.Next()
	}
}

// RequireVerified rejects accounts whose email is not verified.
func RequireVerified() fiber.Handler {
	return func(c fiber.Ctx) error {
		u, ok := CurrentUser(c)
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "No token, authorization denied", nil, nil)
		}
		if !u.IsVerified {
			return NewAppError(fiber.StatusForbidden, "Please verify your email first", map[string]string{"reason": "email_not_verified"}, nil)
		}
		return c.Next()
	}
}

func CurrentUser(c fiber.Ctx) (user.User, bool) {
	u, ok := c.Locals(CtxUserKey).(user.User)
	return u, ok
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
