package models

import (
	"time"

	"github.com/google/uuid"
)

// Session mode constants
const (
	ModeVoice = "voice"
	ModeVideo = "video"
)

// Transcript speaker constants
const (
	SpeakerUser = "user"
	SpeakerBot  = "bot"
)

// TranscriptMessage is a single utterance in a session transcript.
// Entries are immutable once recorded; a transcript is an append-only
// sequence for the lifetime of the session.
type TranscriptMessage struct {
	Timestamp string `json:"timestamp"` // ISO 8601
	Speaker   string `json:"speaker"`   // "user" or "bot"
	Text      string `json:"text"`
}

// Session represents one voice or video counseling session.
type Session struct {
	ID                uuid.UUID           `json:"id"`
	UserID            uuid.UUID           `json:"user_id"`
	CounselorCategory string              `json:"counselor_category"`
	Mode              string              `json:"mode"` // voice or video
	RoomName          string              `json:"room_name"`
	Transcript        []TranscriptMessage `json:"transcript,omitempty"`
	DurationSeconds   *int                `json:"duration_seconds"`
	CrisisDetected    bool                `json:"crisis_detected"`
	CrisisScannedAt   *time.Time          `json:"crisis_scanned_at,omitempty"`
	StartedAt         time.Time           `json:"started_at"`
	EndedAt           *time.Time          `json:"ended_at"`
	DeletedAt         *time.Time          `json:"-"`
}

// Ended returns true once the session has been saved with an end timestamp.
func (s *Session) Ended() bool {
	return s.EndedAt != nil
}
