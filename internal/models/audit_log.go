package models

import (
	"time"

	"github.com/google/uuid"
)

// Audit action constants
const (
	AuditCreate = "CREATE"
	AuditUpdate = "UPDATE"
	AuditDelete = "DELETE"
	AuditLogin  = "LOGIN"
	AuditLogout = "LOGOUT"
)

// AuditLog records one admin action against a resource.
type AuditLog struct {
	ID           uuid.UUID      `json:"id"`
	AdminUserID  uuid.UUID      `json:"admin_user_id"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   *uuid.UUID     `json:"resource_id"`
	Details      map[string]any `json:"details"`
	IPAddress    string         `json:"ip_address,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
}
