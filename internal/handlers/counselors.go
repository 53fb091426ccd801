package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"counselhub/internal/db"
	"counselhub/internal/models"
	"counselhub/internal/validation"
)

// CounselorHandler serves the counselor category catalog to students and its
// management endpoints to admins.
type CounselorHandler struct {
	db *db.DB
}

// NewCounselorHandler creates a new counselor category handler.
func NewCounselorHandler(database *db.DB) *CounselorHandler {
	return &CounselorHandler{db: database}
}

// ListEnabled returns the enabled categories for the student dashboard.
func (h *CounselorHandler) ListEnabled(c fiber.Ctx) error {
	categories, err := h.db.GetEnabledCategories(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to load counselor categories")
	}
	if categories == nil {
		categories = []models.CounselorCategory{}
	}
	return jsonSuccess(c, models.CategoriesResponse{
		Categories: categories,
		Total:      len(categories),
	})
}

// ListAll returns every category, enabled or not, for the admin dashboard.
func (h *CounselorHandler) ListAll(c fiber.Ctx) error {
	categories, err := h.db.GetAllCategories(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to load counselor categories")
	}
	if categories == nil {
		categories = []models.CounselorCategory{}
	}
	return jsonSuccess(c, models.CategoriesResponse{
		Categories: categories,
		Total:      len(categories),
	})
}

type categoryRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	IconName     string `json:"icon_name"`
	SystemPrompt string `json:"system_prompt"`
	Enabled      *bool  `json:"enabled"`
}

// Create adds a new counselor category.
func (h *CounselorHandler) Create(c fiber.Ctx) error {
	admin := c.Locals("admin").(*models.Admin)

	var req categoryRequest
	if err := c.Bind().Body(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !validation.ValidateCategoryName(req.Name) {
		return jsonError(c, fiber.StatusBadRequest, "category name must be 1-100 characters with no surrounding whitespace")
	}

	category := &models.CounselorCategory{
		Name:         req.Name,
		Description:  req.Description,
		IconName:     req.IconName,
		SystemPrompt: req.SystemPrompt,
		Enabled:      req.Enabled == nil || *req.Enabled,
	}
	if err := h.db.CreateCategory(c.Context(), category); err != nil {
		if errors.Is(err, db.ErrDuplicateCategory) {
			return jsonError(c, fiber.StatusConflict, "a category with this name already exists")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create category")
	}

	recordAudit(c, h.db, &models.AuditLog{
		AdminUserID:  admin.ID,
		Action:       models.AuditCreate,
		ResourceType: "counselor_category",
		ResourceID:   &category.ID,
		Details:      map[string]any{"name": category.Name},
		IPAddress:    c.IP(),
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "ok",
		"data":   category,
	})
}

// Update modifies a counselor category's editable fields.
func (h *CounselorHandler) Update(c fiber.Ctx) error {
	admin := c.Locals("admin").(*models.Admin)

	categoryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid category id")
	}

	var req categoryRequest
	if err := c.Bind().Body(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	category := &models.CounselorCategory{
		ID:           categoryID,
		Description:  req.Description,
		IconName:     req.IconName,
		SystemPrompt: req.SystemPrompt,
		Enabled:      req.Enabled == nil || *req.Enabled,
	}
	if err := h.db.UpdateCategory(c.Context(), category); err != nil {
		if errors.Is(err, db.ErrCategoryNotFound) {
			return jsonError(c, fiber.StatusNotFound, "category not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update category")
	}

	recordAudit(c, h.db, &models.AuditLog{
		AdminUserID:  admin.ID,
		Action:       models.AuditUpdate,
		ResourceType: "counselor_category",
		ResourceID:   &categoryID,
		IPAddress:    c.IP(),
	})

	return jsonSuccess(c, fiber.Map{"message": "category updated"})
}

type setEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

// SetEnabled toggles a category's visibility on the student dashboard.
func (h *CounselorHandler) SetEnabled(c fiber.Ctx) error {
	admin := c.Locals("admin").(*models.Admin)

	categoryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid category id")
	}

	var req setEnabledRequest
	if err := c.Bind().Body(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.db.SetCategoryEnabled(c.Context(), categoryID, req.Enabled); err != nil {
		if errors.Is(err, db.ErrCategoryNotFound) {
			return jsonError(c, fiber.StatusNotFound, "category not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update category")
	}

	recordAudit(c, h.db, &models.AuditLog{
		AdminUserID:  admin.ID,
		Action:       models.AuditUpdate,
		ResourceType: "counselor_category",
		ResourceID:   &categoryID,
		Details:      map[string]any{"enabled": req.Enabled},
		IPAddress:    c.IP(),
	})

	return jsonSuccess(c, fiber.Map{"message": "category updated"})
}
