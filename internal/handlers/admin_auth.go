package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"counselhub/internal/auth"
	"counselhub/internal/config"
	"counselhub/internal/db"
	"counselhub/internal/models"
)

// AdminAuthHandler handles admin dashboard login and logout.
type AdminAuthHandler struct {
	db     *db.DB
	tokens *auth.TokenManager
	cfg    *config.Config
}

// NewAdminAuthHandler creates a new admin auth handler.
func NewAdminAuthHandler(database *db.DB, tokens *auth.TokenManager, cfg *config.Config) *AdminAuthHandler {
	return &AdminAuthHandler{db: database, tokens: tokens, cfg: cfg}
}

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates an admin and sets the access token cookie.
func (h *AdminAuthHandler) Login(c fiber.Ctx) error {
	var req adminLoginRequest
	if err := c.Bind().Body(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return jsonError(c, fiber.StatusBadRequest, "email and password are required")
	}

	admin, err := h.db.GetAdminByEmail(c.Context(), req.Email)
	if err != nil {
		if errors.Is(err, db.ErrAdminNotFound) {
			return jsonError(c, fiber.StatusUnauthorized, "invalid email or password")
		}
		return jsonError(c, fiber.StatusInternalServerError, "login failed")
	}

	if !admin.IsActive {
		return jsonError(c, fiber.StatusForbidden, "admin account is disabled")
	}

	if !auth.VerifyPassword(req.Password, admin.PasswordHash) {
		return jsonError(c, fiber.StatusUnauthorized, "invalid email or password")
	}

	token, err := h.tokens.Issue(admin.ID, admin.Email, admin.Role)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "login failed")
	}

	setAuthCookie(c, h.cfg, token)
	if err := h.db.TouchAdminLogin(c.Context(), admin.ID); err != nil {
		slog.Warn("failed to record admin login time", "admin_user_id", admin.ID, "error", err)
	}
	recordAudit(c, h.db, &models.AuditLog{
		AdminUserID:  admin.ID,
		Action:       models.AuditLogin,
		ResourceType: "admin_session",
		IPAddress:    c.IP(),
	})

	return jsonSuccess(c, fiber.Map{
		"access_token": token,
		"token_type":   "bearer",
		"admin":        admin,
	})
}

// Logout clears the admin's authentication cookie.
func (h *AdminAuthHandler) Logout(c fiber.Ctx) error {
	if admin, ok := c.Locals("admin").(*models.Admin); ok {
		recordAudit(c, h.db, &models.AuditLog{
			AdminUserID:  admin.ID,
			Action:       models.AuditLogout,
			ResourceType: "admin_session",
			IPAddress:    c.IP(),
		})
	}
	clearAuthCookie(c, h.cfg)
	return jsonSuccess(c, fiber.Map{"message": "successfully logged out"})
}

// Me returns the authenticated admin's identity.
func (h *AdminAuthHandler) Me(c fiber.Ctx) error {
	admin, ok := c.Locals("admin").(*models.Admin)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "not authenticated")
	}
	return jsonSuccess(c, admin)
}
