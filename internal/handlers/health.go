package handlers

import (
	"github.com/gofiber/fiber/v3"

	"counselhub/internal/db"
)

// HealthHandler answers liveness probes.
type HealthHandler struct {
	db *db.DB
}

// NewHealthHandler creates a new health check handler.
func NewHealthHandler(database *db.DB) *HealthHandler {
	return &HealthHandler{db: database}
}

// Check pings the database and reports service health.
func (h *HealthHandler) Check(c fiber.Ctx) error {
	if err := h.db.Pool.Ping(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "unhealthy",
			"database": "unreachable",
		})
	}
	return c.JSON(fiber.Map{
		"status":   "healthy",
		"database": "ok",
	})
}
