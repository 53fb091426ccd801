package db

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"counselhub/internal/models"
)

func TestCreateCategoryDuplicate(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	createTestCategory(t, database, "Health")

	dup := &models.CounselorCategory{Name: "Health", Enabled: true}
	err := database.CreateCategory(context.Background(), dup)
	if !errors.Is(err, ErrDuplicateCategory) {
		t.Errorf("CreateCategory() error = %v, want ErrDuplicateCategory", err)
	}
}

func TestUpdateCategory(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	category := createTestCategory(t, database, "Career")

	category.Description = "Updated description"
	category.IconName = "briefcase"
	category.SystemPrompt = "You are a career counselor."
	if err := database.UpdateCategory(ctx, category); err != nil {
		t.Fatalf("UpdateCategory() error = %v", err)
	}

	fetched, err := database.GetCategoryByName(ctx, "Career")
	if err != nil {
		t.Fatalf("GetCategoryByName() error = %v", err)
	}
	if fetched.Description != "Updated description" {
		t.Errorf("got description %q, want updated", fetched.Description)
	}
	if fetched.SystemPrompt != "You are a career counselor." {
		t.Errorf("got system prompt %q, want updated", fetched.SystemPrompt)
	}
}

func TestUpdateCategoryNotFound(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	missing := &models.CounselorCategory{ID: uuid.New(), Description: "x"}
	err := database.UpdateCategory(context.Background(), missing)
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("UpdateCategory() error = %v, want ErrCategoryNotFound", err)
	}
}

func TestSetCategoryEnabled(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	category := createTestCategory(t, database, "Social")

	if err := database.SetCategoryEnabled(ctx, category.ID, false); err != nil {
		t.Fatalf("SetCategoryEnabled() error = %v", err)
	}

	enabled, err := database.GetEnabledCategories(ctx)
	if err != nil {
		t.Fatalf("GetEnabledCategories() error = %v", err)
	}
	for _, c := range enabled {
		if c.ID == category.ID {
			t.Error("disabled category should not be listed as enabled")
		}
	}

	all, err := database.GetAllCategories(ctx)
	if err != nil {
		t.Fatalf("GetAllCategories() error = %v", err)
	}
	found := false
	for _, c := range all {
		if c.ID == category.ID && !c.Enabled {
			found = true
		}
	}
	if !found {
		t.Error("disabled category should still appear in the full list")
	}
}

func TestAuditLogRoundTrip(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	var adminID uuid.UUID
	err := database.Pool.QueryRow(ctx, `
		INSERT INTO admin_users (email, password_hash, role)
		VALUES ('audit@example.edu', 'x', 'SUPER_ADMIN')
		RETURNING id
	`).Scan(&adminID)
	if err != nil {
		t.Fatalf("failed to insert admin: %v", err)
	}

	entry := &models.AuditLog{
		AdminUserID:  adminID,
		Action:       models.AuditUpdate,
		ResourceType: "user",
		Details:      map[string]any{"blocked": true},
		IPAddress:    "10.0.0.1",
	}
	if err := database.CreateAuditLog(ctx, entry); err != nil {
		t.Fatalf("CreateAuditLog() error = %v", err)
	}
	if entry.ID == uuid.Nil {
		t.Error("expected audit entry ID to be set")
	}

	entries, err := database.GetAuditLogs(ctx, 10, 0)
	if err != nil {
		t.Fatalf("GetAuditLogs() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Action != models.AuditUpdate {
		t.Errorf("got action %q, want UPDATE", entries[0].Action)
	}
	if entries[0].IPAddress != "10.0.0.1" {
		t.Errorf("got IP %q, want 10.0.0.1", entries[0].IPAddress)
	}
}

func TestCreateAuditLogUnknownAdmin(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	// The admin_users foreign key must reject entries for admins that do not
	// exist, and the error must reach the caller so it can be logged.
	entry := &models.AuditLog{
		AdminUserID:  uuid.New(),
		Action:       models.AuditUpdate,
		ResourceType: "user",
		IPAddress:    "10.0.0.1",
	}
	if err := database.CreateAuditLog(context.Background(), entry); err == nil {
		t.Error("expected CreateAuditLog() to fail for an unknown admin")
	}
}

func TestGetAdminByEmail(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	_, err := database.GetAdminByEmail(ctx, "missing@example.edu")
	if !errors.Is(err, ErrAdminNotFound) {
		t.Errorf("GetAdminByEmail() error = %v, want ErrAdminNotFound", err)
	}

	var adminID uuid.UUID
	err = database.Pool.QueryRow(ctx, `
		INSERT INTO admin_users (email, password_hash, role)
		VALUES ('monitor@example.edu', 'x', 'SYSTEM_MONITOR')
		RETURNING id
	`).Scan(&adminID)
	if err != nil {
		t.Fatalf("failed to insert admin: %v", err)
	}

	admin, err := database.GetAdminByEmail(ctx, "monitor@example.edu")
	if err != nil {
		t.Fatalf("GetAdminByEmail() error = %v", err)
	}
	if admin.Role != models.RoleSystemMonitor {
		t.Errorf("got role %q, want SYSTEM_MONITOR", admin.Role)
	}
	if admin.LastLoginAt != nil {
		t.Error("new admin should have no last login")
	}

	if err := database.TouchAdminLogin(ctx, admin.ID); err != nil {
		t.Fatalf("TouchAdminLogin() error = %v", err)
	}
	admin, _ = database.GetAdminByID(ctx, admin.ID)
	if admin.LastLoginAt == nil {
		t.Error("expected last login to be recorded")
	}
}
