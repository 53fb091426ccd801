package handlers

import (
	"github.com/gofiber/fiber/v3"

	"counselhub/internal/db"
	"counselhub/internal/models"
)

// AdminAuditHandler serves the audit trail to super admins.
type AdminAuditHandler struct {
	db *db.DB
}

// NewAdminAuditHandler creates a new audit log handler.
func NewAdminAuditHandler(database *db.DB) *AdminAuditHandler {
	return &AdminAuditHandler{db: database}
}

// List returns the most recent audit entries.
func (h *AdminAuditHandler) List(c fiber.Ctx) error {
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)
	if limit < 1 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := h.db.GetAuditLogs(c.Context(), limit, offset)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to load audit log")
	}
	if entries == nil {
		entries = []models.AuditLog{}
	}

	return jsonSuccess(c, fiber.Map{
		"entries": entries,
		"limit":   limit,
		"offset":  offset,
	})
}
