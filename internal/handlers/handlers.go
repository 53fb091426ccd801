// Package handlers implements the JSON API surface.
package handlers

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"counselhub/internal/config"
	"counselhub/internal/db"
	"counselhub/internal/models"
)

// recordAudit writes an audit entry for an admin action that already
// succeeded. A failed write must not fail the request, but it cannot go
// unnoticed either, so it is logged for the compliance trail.
func recordAudit(c fiber.Ctx, database *db.DB, entry *models.AuditLog) {
	if err := database.CreateAuditLog(c.Context(), entry); err != nil {
		slog.Error("failed to write audit log",
			"action", entry.Action,
			"resource_type", entry.ResourceType,
			"admin_user_id", entry.AdminUserID,
			"error", err)
	}
}

// queryInt parses an integer query parameter, falling back on the default for
// missing or malformed values.
func queryInt(c fiber.Ctx, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// jsonSuccess returns a 200 response with data wrapped in the standard envelope.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonError returns an error response with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}

// setAuthCookie attaches the access token as an httpOnly cookie.
func setAuthCookie(c fiber.Ctx, cfg *config.Config, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    token,
		HTTPOnly: true,
		Secure:   !cfg.IsDev(),
		SameSite: "Lax",
		MaxAge:   cfg.JWTExpiryMinutes * 60,
	})
}

// clearAuthCookie expires the access token cookie immediately.
func clearAuthCookie(c fiber.Ctx, cfg *config.Config) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		HTTPOnly: true,
		Secure:   !cfg.IsDev(),
		SameSite: "Lax",
		Expires:  time.Now().Add(-time.Hour),
	})
}
