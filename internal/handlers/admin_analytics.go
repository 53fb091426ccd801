package handlers

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"counselhub/internal/db"
)

// maxAnalyticsRange caps how wide a report range a single request may ask for.
const maxAnalyticsRange = 365 * 24 * time.Hour

// AdminAnalyticsHandler serves date-ranged usage reports.
type AdminAnalyticsHandler struct {
	db *db.DB
}

// NewAdminAnalyticsHandler creates a new analytics handler.
func NewAdminAnalyticsHandler(database *db.DB) *AdminAnalyticsHandler {
	return &AdminAnalyticsHandler{db: database}
}

// Sessions aggregates completed sessions over a date range. Dates are
// inclusive; omitted bounds default to the last 30 days.
func (h *AdminAnalyticsHandler) Sessions(c fiber.Ctx) error {
	now := time.Now().UTC()
	start := now.AddDate(0, 0, -30)
	end := now

	if v := c.Query("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "start_date must be YYYY-MM-DD")
		}
		start = t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "end_date must be YYYY-MM-DD")
		}
		end = t.Add(24*time.Hour - time.Second)
	}

	if end.Before(start) {
		return jsonError(c, fiber.StatusBadRequest, "end_date must not be before start_date")
	}
	if end.Sub(start) > maxAnalyticsRange {
		return jsonError(c, fiber.StatusBadRequest, "date range must not exceed 365 days")
	}

	resp, err := h.db.SessionAnalytics(c.Context(), start, end)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to load analytics")
	}
	return jsonSuccess(c, resp)
}
