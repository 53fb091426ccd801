package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"counselhub/internal/auth"
	"counselhub/internal/db"
)

// AuthMiddleware handles JWT authentication for students and admins.
type AuthMiddleware struct {
	tokens *auth.TokenManager
	db     *db.DB
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(tokens *auth.TokenManager, database *db.DB) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, db: database}
}

// extractToken pulls the access token from the httpOnly cookie, falling back
// to a bearer Authorization header for non-browser clients.
func extractToken(c fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}
	header := c.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// RequireAuth ensures the request carries a valid student token.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	token := extractToken(c)
	if token == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}

	claims, err := m.tokens.Verify(token)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid authentication credentials")
	}
	if claims.Role != "" {
		// Admin tokens are not valid on student endpoints.
		return fiber.NewError(fiber.StatusUnauthorized, "invalid authentication credentials")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid authentication credentials")
	}

	user, err := m.db.GetUserByID(c.Context(), userID)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid authentication credentials")
	}
	if user.IsBlocked {
		return fiber.NewError(fiber.StatusForbidden, "your account has been blocked")
	}

	c.Locals("user", user)
	return c.Next()
}

// RequireAdmin ensures the request carries a valid admin token holding one of
// the given roles. Super admins pass every role check.
func (m *AuthMiddleware) RequireAdmin(roles ...string) fiber.Handler {
	return func(c fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
		}

		claims, err := m.tokens.Verify(token)
		if err != nil || claims.Role == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authentication credentials")
		}

		adminID, err := uuid.Parse(claims.UserID)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authentication credentials")
		}

		admin, err := m.db.GetAdminByID(c.Context(), adminID)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authentication credentials")
		}
		if !admin.IsActive {
			return fiber.NewError(fiber.StatusForbidden, "admin account is disabled")
		}
		if len(roles) > 0 && !admin.HasRole(roles...) {
			return fiber.NewError(fiber.StatusForbidden, "insufficient role")
		}

		c.Locals("admin", admin)
		return c.Next()
	}
}
