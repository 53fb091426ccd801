package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a student account authenticated with username and password.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"` // Domain-style login e.g. `\COLLEGE\jdoe`
	PasswordHash string    `json:"-"`
	IsBlocked    bool      `json:"is_blocked"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Admin role constants
const (
	RoleSuperAdmin     = "SUPER_ADMIN"
	RoleSystemMonitor  = "SYSTEM_MONITOR"
	RoleContentManager = "CONTENT_MANAGER"
)

// Admin represents a staff account for the admin dashboard.
type Admin struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"` // SUPER_ADMIN, SYSTEM_MONITOR, CONTENT_MANAGER
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLoginAt  *time.Time `json:"last_login_at"`
}

// IsSuperAdmin returns true if the admin holds the top role.
func (a *Admin) IsSuperAdmin() bool {
	return a.Role == RoleSuperAdmin
}

// HasRole returns true if the admin holds any of the given roles.
// Super admins pass every role check.
func (a *Admin) HasRole(roles ...string) bool {
	if a.Role == RoleSuperAdmin {
		return true
	}
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}
