package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"counselhub/internal/db"
	"counselhub/internal/models"
)

// AdminUserHandler handles student account management for admins.
type AdminUserHandler struct {
	db *db.DB
}

// NewAdminUserHandler creates a new admin user management handler.
func NewAdminUserHandler(database *db.DB) *AdminUserHandler {
	return &AdminUserHandler{db: database}
}

// List returns every student account.
func (h *AdminUserHandler) List(c fiber.Ctx) error {
	users, err := h.db.GetAllUsers(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to load users")
	}
	if users == nil {
		users = []models.User{}
	}
	return jsonSuccess(c, fiber.Map{
		"users": users,
		"total": len(users),
	})
}

type setBlockedRequest struct {
	Blocked bool `json:"blocked"`
}

// SetBlocked blocks or unblocks a student account.
func (h *AdminUserHandler) SetBlocked(c fiber.Ctx) error {
	admin := c.Locals("admin").(*models.Admin)

	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid user id")
	}

	var req setBlockedRequest
	if err := c.Bind().Body(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.db.SetUserBlocked(c.Context(), userID, req.Blocked); err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return jsonError(c, fiber.StatusNotFound, "user not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update user")
	}

	recordAudit(c, h.db, &models.AuditLog{
		AdminUserID:  admin.ID,
		Action:       models.AuditUpdate,
		ResourceType: "user",
		ResourceID:   &userID,
		Details:      map[string]any{"blocked": req.Blocked},
		IPAddress:    c.IP(),
	})

	return jsonSuccess(c, fiber.Map{"message": "user updated"})
}
