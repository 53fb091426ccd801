package models

import (
	"time"

	"github.com/google/uuid"
)

// CounselorCategory describes one counselor specialty shown on the dashboard.
type CounselorCategory struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	IconName     string    `json:"icon_name"`
	SystemPrompt string    `json:"-"` // AI configuration, never exposed to students
	Enabled      bool      `json:"enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
