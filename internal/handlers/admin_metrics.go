package handlers

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"counselhub/internal/db"
	"counselhub/internal/models"
)

// activeSessionWindow bounds how long an unsaved session counts as active.
const activeSessionWindow = 30 * time.Minute

// AdminMetricsHandler serves the live dashboard snapshot.
type AdminMetricsHandler struct {
	db *db.DB
}

// NewAdminMetricsHandler creates a new metrics handler.
func NewAdminMetricsHandler(database *db.DB) *AdminMetricsHandler {
	return &AdminMetricsHandler{db: database}
}

// Current returns the platform activity snapshot for today.
func (h *AdminMetricsHandler) Current(c fiber.Ctx) error {
	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	resp := models.CurrentMetricsResponse{SystemHealth: "healthy"}

	var err error
	if resp.ActiveSessionsCount, err = h.db.GetActiveSessionCount(c.Context(), activeSessionWindow); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to load metrics")
	}
	if resp.SessionsByCategory, err = h.db.GetSessionCountsByCategory(c.Context(), dayStart, now); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to load metrics")
	}
	if resp.SessionsByMode, err = h.db.GetSessionCountsByMode(c.Context(), dayStart, now); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to load metrics")
	}
	if resp.CrisisSessionsCount, err = h.db.GetCrisisSessionCount(c.Context(), dayStart, now); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to load metrics")
	}

	return jsonSuccess(c, resp)
}
