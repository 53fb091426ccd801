package handlers

import (
	"errors"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"counselhub/internal/crisis"
	"counselhub/internal/db"
	"counselhub/internal/email"
	"counselhub/internal/metrics"
	"counselhub/internal/models"
	"counselhub/internal/validation"
)

const transcriptPreviewLen = 100

// SessionHandler handles the counseling session lifecycle and history.
type SessionHandler struct {
	db       *db.DB
	notifier *email.Notifier
}

// NewSessionHandler creates a new session handler. The notifier may be nil
// when email is not configured.
func NewSessionHandler(database *db.DB, notifier *email.Notifier) *SessionHandler {
	return &SessionHandler{db: database, notifier: notifier}
}

type createSessionRequest struct {
	CounselorCategory string `json:"counselor_category"`
	Mode              string `json:"mode"`
}

// Create opens a new counseling session and allocates its room name.
func (h *SessionHandler) Create(c fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var req createSessionRequest
	if err := c.Bind().Body(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !validation.ValidateMode(req.Mode) {
		return jsonError(c, fiber.StatusBadRequest, "mode must be voice or video")
	}

	category, err := h.db.GetCategoryByName(c.Context(), req.CounselorCategory)
	if err != nil {
		if errors.Is(err, db.ErrCategoryNotFound) {
			return jsonError(c, fiber.StatusBadRequest, "unknown counselor category")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	if !category.Enabled {
		return jsonError(c, fiber.StatusBadRequest, "counselor category is not available")
	}

	session := &models.Session{
		UserID:            user.ID,
		CounselorCategory: category.Name,
		Mode:              req.Mode,
		RoomName:          "session-" + uuid.NewString(),
	}
	if err := h.db.CreateSession(c.Context(), session); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to create session")
	}

	return jsonSuccess(c, models.CreateSessionResponse{
		SessionID: session.ID,
		RoomName:  session.RoomName,
		StartedAt: session.StartedAt,
	})
}

type saveSessionRequest struct {
	Transcript      []models.TranscriptMessage `json:"transcript"`
	DurationSeconds int                        `json:"duration_seconds"`
	CrisisDetected  bool                       `json:"crisis_detected"`
}

// Save persists the transcript and end metadata for a session. The transcript
// is always rescanned server side; a client crisis flag can only widen the
// result, never clear it.
func (h *SessionHandler) Save(c fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid session id")
	}

	var req saveSessionRequest
	if err := c.Bind().Body(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.DurationSeconds < 0 {
		return jsonError(c, fiber.StatusBadRequest, "duration_seconds must not be negative")
	}
	for _, msg := range req.Transcript {
		if !validation.ValidateSpeaker(msg.Speaker) {
			return jsonError(c, fiber.StatusBadRequest, "transcript speaker must be user or bot")
		}
	}

	session, err := h.db.GetSessionByID(c.Context(), sessionID)
	if err != nil {
		if errors.Is(err, db.ErrSessionNotFound) {
			return jsonError(c, fiber.StatusNotFound, "session not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to save session")
	}
	if session.UserID != user.ID {
		return jsonError(c, fiber.StatusForbidden, "not authorized to modify this session")
	}
	if session.Ended() {
		return jsonError(c, fiber.StatusConflict, "session has already been saved")
	}

	result := crisis.ClassifyTranscript(req.Transcript)
	detected := result.Detected || req.CrisisDetected
	metrics.RecordCrisisScan(result.Detected)

	if err := h.db.SaveSessionEnd(c.Context(), sessionID, req.Transcript, req.DurationSeconds, detected); err != nil {
		switch {
		case errors.Is(err, db.ErrSessionNotFound):
			return jsonError(c, fiber.StatusNotFound, "session not found")
		case errors.Is(err, db.ErrSessionEnded):
			return jsonError(c, fiber.StatusConflict, "session has already been saved")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to save session")
	}

	if detected {
		slog.Warn("crisis language detected in session",
			"session_id", sessionID,
			"keywords", result.MatchedKeywords)
		if h.notifier != nil {
			go h.notifier.NotifyCrisisDetected(session, result.MatchedKeywords)
		}
	}

	return jsonSuccess(c, models.SaveSessionResponse{
		Success:        true,
		SessionID:      sessionID,
		CrisisDetected: detected,
		Message:        result.Message,
	})
}

// List returns one page of the student's session history.
func (h *SessionHandler) List(c fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := db.SessionFilter{
		Category: c.Query("category"),
		Mode:     c.Query("mode"),
	}
	if filter.Mode != "" && !validation.ValidateMode(filter.Mode) {
		return jsonError(c, fiber.StatusBadRequest, "mode must be voice or video")
	}
	if v := c.Query("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "start_date must be YYYY-MM-DD")
		}
		filter.StartDate = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "end_date must be YYYY-MM-DD")
		}
		end := t.Add(24*time.Hour - time.Second)
		filter.EndDate = &end
	}

	sessions, total, err := h.db.GetUserSessions(c.Context(), user.ID, filter, page, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to load sessions")
	}

	previews := make([]models.SessionPreview, 0, len(sessions))
	for _, s := range sessions {
		duration := 0
		if s.DurationSeconds != nil {
			duration = *s.DurationSeconds
		}
		previews = append(previews, models.SessionPreview{
			SessionID:         s.ID,
			CounselorCategory: s.CounselorCategory,
			CounselorIcon:     s.CategoryIcon,
			Mode:              s.Mode,
			StartedAt:         s.StartedAt.UTC().Format(time.RFC3339),
			DurationSeconds:   duration,
			TranscriptPreview: transcriptPreview(s.Transcript),
			CrisisDetected:    s.CrisisDetected,
		})
	}

	return jsonSuccess(c, models.SessionsListResponse{
		Sessions:   previews,
		TotalCount: total,
		Page:       page,
		Limit:      limit,
	})
}

// Stats summarizes the student's completed sessions.
func (h *SessionHandler) Stats(c fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	stats, err := h.db.GetUserSessionStats(c.Context(), user.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to load session stats")
	}
	return jsonSuccess(c, stats)
}

// Detail returns the full transcript for one of the student's sessions.
func (h *SessionHandler) Detail(c fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid session id")
	}

	session, err := h.db.GetSessionWithIcon(c.Context(), sessionID)
	if err != nil {
		if errors.Is(err, db.ErrSessionNotFound) {
			return jsonError(c, fiber.StatusNotFound, "session not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to load session")
	}
	if session.UserID != user.ID {
		return jsonError(c, fiber.StatusForbidden, "not authorized to view this session")
	}

	detail := models.SessionDetail{
		SessionID:         session.ID,
		CounselorCategory: session.CounselorCategory,
		CounselorIcon:     session.CategoryIcon,
		Mode:              session.Mode,
		StartedAt:         session.StartedAt.UTC().Format(time.RFC3339),
		DurationSeconds:   session.DurationSeconds,
		Transcript:        session.Transcript,
		CrisisDetected:    session.CrisisDetected,
	}
	if session.EndedAt != nil {
		ended := session.EndedAt.UTC().Format(time.RFC3339)
		detail.EndedAt = &ended
	}
	if detail.Transcript == nil {
		detail.Transcript = []models.TranscriptMessage{}
	}

	return jsonSuccess(c, detail)
}

// Delete soft-deletes one of the student's sessions.
func (h *SessionHandler) Delete(c fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid session id")
	}

	if err := h.db.SoftDeleteSession(c.Context(), sessionID, user.ID); err != nil {
		if errors.Is(err, db.ErrSessionNotFound) {
			return jsonError(c, fiber.StatusNotFound, "session not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete session")
	}

	return jsonSuccess(c, fiber.Map{"message": "session deleted"})
}

// transcriptPreview returns the first transcript message truncated for the
// history list.
func transcriptPreview(transcript []models.TranscriptMessage) string {
	if len(transcript) == 0 {
		return ""
	}
	text := transcript[0].Text
	if len(text) > transcriptPreviewLen {
		// Back off to a rune boundary so the cut never splits a multi-byte
		// character.
		cut := transcriptPreviewLen
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		return text[:cut] + "..."
	}
	return text
}
