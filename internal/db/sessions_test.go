package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"counselhub/internal/models"
)

func createTestSession(t *testing.T, database *DB, userID uuid.UUID, category string) *models.Session {
	t.Helper()
	session := &models.Session{
		UserID:            userID,
		CounselorCategory: category,
		Mode:              models.ModeVoice,
		RoomName:          "session-" + uuid.NewString(),
	}
	if err := database.CreateSession(context.Background(), session); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	return session
}

func TestCreateAndGetSession(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, database, `\COLLEGE\sess`)
	createTestCategory(t, database, "Health")

	session := createTestSession(t, database, user.ID, "Health")

	fetched, err := database.GetSessionByID(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSessionByID() error = %v", err)
	}
	if fetched.UserID != user.ID {
		t.Errorf("got user %v, want %v", fetched.UserID, user.ID)
	}
	if fetched.Ended() {
		t.Error("new session should not be ended")
	}
	if fetched.CrisisDetected {
		t.Error("new session should not be flagged")
	}
}

func TestGetSessionByIDNotFound(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := database.GetSessionByID(context.Background(), uuid.New())
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("GetSessionByID() error = %v, want ErrSessionNotFound", err)
	}
}

func TestSaveSessionEnd(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, database, `\COLLEGE\save`)
	createTestCategory(t, database, "Career")
	session := createTestSession(t, database, user.ID, "Career")

	transcript := []models.TranscriptMessage{
		{Timestamp: "2026-08-25T10:00:00Z", Speaker: models.SpeakerUser, Text: "Hello"},
		{Timestamp: "2026-08-25T10:00:05Z", Speaker: models.SpeakerBot, Text: "Hi, how can I help?"},
	}
	if err := database.SaveSessionEnd(ctx, session.ID, transcript, 300, false); err != nil {
		t.Fatalf("SaveSessionEnd() error = %v", err)
	}

	fetched, err := database.GetSessionByID(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSessionByID() error = %v", err)
	}
	if !fetched.Ended() {
		t.Error("session should be ended after save")
	}
	if fetched.DurationSeconds == nil || *fetched.DurationSeconds != 300 {
		t.Errorf("got duration %v, want 300", fetched.DurationSeconds)
	}
	if len(fetched.Transcript) != 2 {
		t.Errorf("got %d transcript messages, want 2", len(fetched.Transcript))
	}
	if fetched.CrisisScannedAt == nil {
		t.Error("save should record the crisis scan timestamp")
	}

	// Second save must be rejected
	err = database.SaveSessionEnd(ctx, session.ID, transcript, 400, false)
	if !errors.Is(err, ErrSessionEnded) {
		t.Errorf("second SaveSessionEnd() error = %v, want ErrSessionEnded", err)
	}

	// Missing session is reported distinctly
	err = database.SaveSessionEnd(ctx, uuid.New(), transcript, 100, false)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("SaveSessionEnd() error = %v, want ErrSessionNotFound", err)
	}
}

func TestSoftDeleteSession(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, database, `\COLLEGE\del`)
	other := createTestUser(t, database, `\COLLEGE\other`)
	createTestCategory(t, database, "Social")
	session := createTestSession(t, database, user.ID, "Social")

	// Another user cannot delete it
	err := database.SoftDeleteSession(ctx, session.ID, other.ID)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("SoftDeleteSession() by wrong user error = %v, want ErrSessionNotFound", err)
	}

	if err := database.SoftDeleteSession(ctx, session.ID, user.ID); err != nil {
		t.Fatalf("SoftDeleteSession() error = %v", err)
	}

	// Soft-deleted sessions are not found
	_, err = database.GetSessionByID(ctx, session.ID)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("GetSessionByID() after delete error = %v, want ErrSessionNotFound", err)
	}
}

func TestGetUserSessionsPagination(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, database, `\COLLEGE\pager`)
	createTestCategory(t, database, "Academic")
	createTestCategory(t, database, "Health")

	for i := 0; i < 3; i++ {
		s := createTestSession(t, database, user.ID, "Academic")
		database.SaveSessionEnd(ctx, s.ID, []models.TranscriptMessage{
			{Timestamp: "2026-08-25T10:00:00Z", Speaker: models.SpeakerUser, Text: "Hi"},
		}, 60, false)
	}
	voiceOnly := createTestSession(t, database, user.ID, "Health")
	database.SaveSessionEnd(ctx, voiceOnly.ID, nil, 30, false)

	sessions, total, err := database.GetUserSessions(ctx, user.ID, SessionFilter{}, 1, 2)
	if err != nil {
		t.Fatalf("GetUserSessions() error = %v", err)
	}
	if total != 4 {
		t.Errorf("got total %d, want 4", total)
	}
	if len(sessions) != 2 {
		t.Errorf("got %d sessions on page, want 2", len(sessions))
	}

	// Category filter
	sessions, total, err = database.GetUserSessions(ctx, user.ID, SessionFilter{Category: "Health"}, 1, 10)
	if err != nil {
		t.Fatalf("GetUserSessions() with filter error = %v", err)
	}
	if total != 1 || len(sessions) != 1 {
		t.Errorf("got total %d len %d, want 1 and 1", total, len(sessions))
	}
	if sessions[0].CounselorCategory != "Health" {
		t.Errorf("got category %q, want Health", sessions[0].CounselorCategory)
	}
}

func TestMarkSessionScannedOnlyWidens(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, database, `\COLLEGE\scan`)
	createTestCategory(t, database, "General")
	session := createTestSession(t, database, user.ID, "General")

	transcript := []models.TranscriptMessage{
		{Timestamp: "2026-08-25T10:00:00Z", Speaker: models.SpeakerUser, Text: "Hi"},
	}
	if err := database.SaveSessionEnd(ctx, session.ID, transcript, 60, true); err != nil {
		t.Fatalf("SaveSessionEnd() error = %v", err)
	}

	// A clear rescan never clears a raised flag
	if err := database.MarkSessionScanned(ctx, session.ID, false); err != nil {
		t.Fatalf("MarkSessionScanned() error = %v", err)
	}
	fetched, _ := database.GetSessionByID(ctx, session.ID)
	if !fetched.CrisisDetected {
		t.Error("rescan must not clear the crisis flag")
	}
}

func TestGetSessionsNeedingCrisisScan(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, database, `\COLLEGE\sweep`)
	createTestCategory(t, database, "General")

	session := createTestSession(t, database, user.ID, "General")
	transcript := []models.TranscriptMessage{
		{Timestamp: "2026-08-25T10:00:00Z", Speaker: models.SpeakerUser, Text: "Hi"},
	}
	if err := database.SaveSessionEnd(ctx, session.ID, transcript, 60, false); err != nil {
		t.Fatalf("SaveSessionEnd() error = %v", err)
	}

	// The save path records the scan, so nothing should be pending
	pending, err := database.GetSessionsNeedingCrisisScan(ctx, 10)
	if err != nil {
		t.Fatalf("GetSessionsNeedingCrisisScan() error = %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("got %d pending sessions, want 0", len(pending))
	}

	// Simulate a row written before the detector shipped
	if _, err := database.Pool.Exec(ctx,
		"UPDATE sessions SET crisis_scanned_at = NULL WHERE id = $1", session.ID); err != nil {
		t.Fatalf("failed to reset scan timestamp: %v", err)
	}

	pending, err = database.GetSessionsNeedingCrisisScan(ctx, 10)
	if err != nil {
		t.Fatalf("GetSessionsNeedingCrisisScan() error = %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("got %d pending sessions, want 1", len(pending))
	}
	if pending[0].ID != session.ID {
		t.Errorf("got session %v, want %v", pending[0].ID, session.ID)
	}
}

func TestGetUserSessionStats(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, database, `\COLLEGE\stats`)
	createTestCategory(t, database, "Career")
	createTestCategory(t, database, "Health")

	for i := 0; i < 2; i++ {
		s := createTestSession(t, database, user.ID, "Career")
		database.SaveSessionEnd(ctx, s.ID, nil, 1800, false)
	}
	s := createTestSession(t, database, user.ID, "Health")
	database.SaveSessionEnd(ctx, s.ID, nil, 900, false)

	// Unended sessions are excluded
	createTestSession(t, database, user.ID, "Health")

	stats, err := database.GetUserSessionStats(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserSessionStats() error = %v", err)
	}
	if stats.TotalSessions != 3 {
		t.Errorf("got %d total sessions, want 3", stats.TotalSessions)
	}
	if want := 4500.0 / 3600.0; stats.TotalHours != want {
		t.Errorf("got %f total hours, want %f", stats.TotalHours, want)
	}
	if stats.TopCategory != "Career" {
		t.Errorf("got top category %q, want Career", stats.TopCategory)
	}
	if stats.LastSessionDate == "" {
		t.Error("expected last session date to be set")
	}
}

func TestSessionAnalytics(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, database, `\COLLEGE\analytics`)
	createTestCategory(t, database, "Health")

	s1 := createTestSession(t, database, user.ID, "Health")
	database.SaveSessionEnd(ctx, s1.ID, nil, 600, true)
	s2 := createTestSession(t, database, user.ID, "Health")
	database.SaveSessionEnd(ctx, s2.ID, nil, 1200, false)

	// Window around now so the sessions created above always fall inside it.
	now := time.Now().UTC()
	start := now.Add(-24 * time.Hour)
	end := now.Add(24 * time.Hour)

	resp, err := database.SessionAnalytics(ctx, start, end)
	if err != nil {
		t.Fatalf("SessionAnalytics() error = %v", err)
	}
	if resp.TotalSessions != 2 {
		t.Errorf("got %d total sessions, want 2", resp.TotalSessions)
	}
	if resp.AvgDurationSeconds != 900 {
		t.Errorf("got avg duration %f, want 900", resp.AvgDurationSeconds)
	}
	if resp.SessionsByCategory["Health"] != 2 {
		t.Errorf("got %d Health sessions, want 2", resp.SessionsByCategory["Health"])
	}
	if resp.CrisisSessions != 1 {
		t.Errorf("got %d crisis sessions, want 1", resp.CrisisSessions)
	}
}
