package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"counselhub/internal/models"
)

// CreateSession inserts a new session record at session start.
func (d *DB) CreateSession(ctx context.Context, s *models.Session) error {
	query := `
		INSERT INTO sessions (user_id, counselor_category, mode, room_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, started_at
	`

	err := d.Pool.QueryRow(ctx, query, s.UserID, s.CounselorCategory, s.Mode, s.RoomName).
		Scan(&s.ID, &s.StartedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateRoomName
	}
	return err
}

// GetSessionByID retrieves a session by ID. Soft-deleted sessions are not found.
func (d *DB) GetSessionByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	query := `
		SELECT id, user_id, counselor_category, mode, room_name, transcript,
		       duration_seconds, crisis_detected, crisis_scanned_at, started_at, ended_at
		FROM sessions
		WHERE id = $1 AND deleted_at IS NULL
	`

	var s models.Session
	err := d.Pool.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.UserID,
		&s.CounselorCategory,
		&s.Mode,
		&s.RoomName,
		&s.Transcript,
		&s.DurationSeconds,
		&s.CrisisDetected,
		&s.CrisisScannedAt,
		&s.StartedAt,
		&s.EndedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	return &s, nil
}

// SaveSessionEnd persists the transcript and end metadata for a session.
// Fails with ErrSessionEnded if the session was already saved.
func (d *DB) SaveSessionEnd(ctx context.Context, id uuid.UUID, transcript []models.TranscriptMessage, durationSeconds int, crisisDetected bool) error {
	query := `
		UPDATE sessions
		SET transcript = $1, duration_seconds = $2, crisis_detected = $3,
		    crisis_scanned_at = NOW(), ended_at = NOW()
		WHERE id = $4 AND ended_at IS NULL AND deleted_at IS NULL
	`

	tag, err := d.Pool.Exec(ctx, query, transcript, durationSeconds, crisisDetected, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Distinguish missing from already-ended for the handler's status code.
		if _, getErr := d.GetSessionByID(ctx, id); getErr != nil {
			return getErr
		}
		return ErrSessionEnded
	}
	return nil
}

// SoftDeleteSession marks a session deleted without dropping the row.
func (d *DB) SoftDeleteSession(ctx context.Context, id, userID uuid.UUID) error {
	query := `
		UPDATE sessions SET deleted_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`
	tag, err := d.Pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// SessionFilter narrows a session history query.
type SessionFilter struct {
	Category  string
	Mode      string
	StartDate *time.Time
	EndDate   *time.Time
}

// SessionWithIcon is a session row joined with its category icon.
type SessionWithIcon struct {
	models.Session
	CategoryIcon string
}

// GetUserSessions returns one page of a student's ended sessions plus the
// total match count for pagination.
func (d *DB) GetUserSessions(ctx context.Context, userID uuid.UUID, filter SessionFilter, page, limit int) ([]SessionWithIcon, int, error) {
	where := `
		s.user_id = $1 AND s.deleted_at IS NULL
		AND ($2 = '' OR s.counselor_category = $2)
		AND ($3 = '' OR s.mode = $3)
		AND ($4::timestamptz IS NULL OR s.started_at >= $4)
		AND ($5::timestamptz IS NULL OR s.started_at <= $5)
	`
	args := []any{userID, filter.Category, filter.Mode, filter.StartDate, filter.EndDate}

	var total int
	countQuery := `SELECT COUNT(*) FROM sessions s WHERE ` + where
	if err := d.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT s.id, s.user_id, s.counselor_category, s.mode, s.room_name, s.transcript,
		       s.duration_seconds, s.crisis_detected, s.crisis_scanned_at, s.started_at, s.ended_at,
		       COALESCE(c.icon_name, '')
		FROM sessions s
		LEFT JOIN counselor_categories c ON s.counselor_category = c.name
		WHERE ` + where + `
		ORDER BY s.started_at DESC
		LIMIT $6 OFFSET $7
	`
	args = append(args, limit, (page-1)*limit)

	rows, err := d.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var sessions []SessionWithIcon
	for rows.Next() {
		var s SessionWithIcon
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.CounselorCategory, &s.Mode, &s.RoomName, &s.Transcript,
			&s.DurationSeconds, &s.CrisisDetected, &s.CrisisScannedAt, &s.StartedAt, &s.EndedAt,
			&s.CategoryIcon,
		); err != nil {
			return nil, 0, err
		}
		sessions = append(sessions, s)
	}

	return sessions, total, rows.Err()
}

// GetSessionWithIcon retrieves a single session joined with its category icon.
func (d *DB) GetSessionWithIcon(ctx context.Context, id uuid.UUID) (*SessionWithIcon, error) {
	query := `
		SELECT s.id, s.user_id, s.counselor_category, s.mode, s.room_name, s.transcript,
		       s.duration_seconds, s.crisis_detected, s.crisis_scanned_at, s.started_at, s.ended_at,
		       COALESCE(c.icon_name, '')
		FROM sessions s
		LEFT JOIN counselor_categories c ON s.counselor_category = c.name
		WHERE s.id = $1 AND s.deleted_at IS NULL
	`

	var s SessionWithIcon
	err := d.Pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.UserID, &s.CounselorCategory, &s.Mode, &s.RoomName, &s.Transcript,
		&s.DurationSeconds, &s.CrisisDetected, &s.CrisisScannedAt, &s.StartedAt, &s.EndedAt,
		&s.CategoryIcon,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	return &s, nil
}

// GetUserSessionStats aggregates a student's completed sessions.
func (d *DB) GetUserSessionStats(ctx context.Context, userID uuid.UUID) (*models.SessionStatsResponse, error) {
	stats := &models.SessionStatsResponse{}

	query := `
		SELECT COUNT(*), COALESCE(SUM(duration_seconds), 0)
		FROM sessions
		WHERE user_id = $1 AND ended_at IS NOT NULL AND deleted_at IS NULL
	`
	var totalSeconds int64
	if err := d.Pool.QueryRow(ctx, query, userID).Scan(&stats.TotalSessions, &totalSeconds); err != nil {
		return nil, err
	}
	stats.TotalHours = float64(totalSeconds) / 3600.0

	if stats.TotalSessions == 0 {
		return stats, nil
	}

	topQuery := `
		SELECT s.counselor_category, COALESCE(c.icon_name, '')
		FROM sessions s
		LEFT JOIN counselor_categories c ON s.counselor_category = c.name
		WHERE s.user_id = $1 AND s.ended_at IS NOT NULL AND s.deleted_at IS NULL
		GROUP BY s.counselor_category, c.icon_name
		ORDER BY COUNT(*) DESC, s.counselor_category ASC
		LIMIT 1
	`
	if err := d.Pool.QueryRow(ctx, topQuery, userID).Scan(&stats.TopCategory, &stats.TopCategoryIcon); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	var lastStarted time.Time
	lastQuery := `
		SELECT MAX(started_at) FROM sessions
		WHERE user_id = $1 AND ended_at IS NOT NULL AND deleted_at IS NULL
	`
	if err := d.Pool.QueryRow(ctx, lastQuery, userID).Scan(&lastStarted); err == nil {
		stats.LastSessionDate = lastStarted.UTC().Format(time.RFC3339)
	}

	return stats, nil
}
