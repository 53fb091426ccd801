package models

import (
	"time"

	"github.com/google/uuid"
)

// LoginResponse is returned on a successful login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user"`
}

// CategoriesResponse lists enabled counselor categories for the dashboard.
type CategoriesResponse struct {
	Categories []CounselorCategory `json:"categories"`
	Total      int                 `json:"total"`
}

// CreateSessionResponse is returned when a session is opened.
type CreateSessionResponse struct {
	SessionID uuid.UUID `json:"session_id"`
	RoomName  string    `json:"room_name"`
	StartedAt time.Time `json:"started_at"`
}

// SaveSessionResponse is returned after persisting session end data.
type SaveSessionResponse struct {
	Success        bool      `json:"success"`
	SessionID      uuid.UUID `json:"session_id"`
	CrisisDetected bool      `json:"crisis_detected"`
	Message        string    `json:"message"`
}

// SessionPreview is one row in the session history list.
type SessionPreview struct {
	SessionID         uuid.UUID `json:"session_id"`
	CounselorCategory string    `json:"counselor_category"`
	CounselorIcon     string    `json:"counselor_icon"`
	Mode              string    `json:"mode"`
	StartedAt         string    `json:"started_at"` // ISO 8601
	DurationSeconds   int       `json:"duration_seconds"`
	TranscriptPreview string    `json:"transcript_preview"`
	CrisisDetected    bool      `json:"crisis_detected"`
}

// SessionsListResponse is the paginated session history payload.
type SessionsListResponse struct {
	Sessions   []SessionPreview `json:"sessions"`
	TotalCount int              `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
}

// SessionDetail carries the full transcript for the history detail view.
type SessionDetail struct {
	SessionID         uuid.UUID           `json:"session_id"`
	CounselorCategory string              `json:"counselor_category"`
	CounselorIcon     string              `json:"counselor_icon"`
	Mode              string              `json:"mode"`
	StartedAt         string              `json:"started_at"`
	EndedAt           *string             `json:"ended_at"`
	DurationSeconds   *int                `json:"duration_seconds"`
	Transcript        []TranscriptMessage `json:"transcript"`
	CrisisDetected    bool                `json:"crisis_detected"`
}

// SessionStatsResponse summarizes a student's session history.
type SessionStatsResponse struct {
	TotalSessions   int     `json:"total_sessions"`
	TotalHours      float64 `json:"total_hours"`
	TopCategory     string  `json:"top_category,omitempty"`
	TopCategoryIcon string  `json:"top_category_icon,omitempty"`
	LastSessionDate string  `json:"last_session_date,omitempty"`
}

// CurrentMetricsResponse is the admin dashboard snapshot.
type CurrentMetricsResponse struct {
	ActiveSessionsCount int            `json:"active_sessions_count"`
	SessionsByCategory  map[string]int `json:"sessions_by_category"`
	SessionsByMode      map[string]int `json:"sessions_by_mode"`
	CrisisSessionsCount int            `json:"crisis_sessions_count"`
	SystemHealth        string         `json:"system_health"`
}

// SessionAnalyticsResponse is the date-ranged usage report.
type SessionAnalyticsResponse struct {
	TotalSessions         int                `json:"total_sessions"`
	AvgDurationSeconds    float64            `json:"avg_duration_seconds"`
	SessionsByCategory    map[string]int     `json:"sessions_by_category"`
	SessionsByMode        map[string]int     `json:"sessions_by_mode"`
	PeakUsageHours        map[int]int        `json:"peak_usage_hours"`
	DailyTrend            map[string]int     `json:"daily_trend"`
	AvgDurationByCategory map[string]float64 `json:"avg_duration_by_category"`
	CrisisSessions        int                `json:"crisis_sessions"`
}
