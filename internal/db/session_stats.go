package db

import (
	"context"
	"time"

	"github.com/google/uuid"

	"counselhub/internal/models"
)

// GetActiveSessionCount counts sessions started within the window that have
// not ended yet. Abandoned browser tabs eventually age out of the window.
func (d *DB) GetActiveSessionCount(ctx context.Context, window time.Duration) (int, error) {
	query := `
		SELECT COUNT(*) FROM sessions
		WHERE started_at >= $1 AND ended_at IS NULL AND deleted_at IS NULL
	`
	var count int
	err := d.Pool.QueryRow(ctx, query, time.Now().Add(-window)).Scan(&count)
	return count, err
}

// GetSessionCountsByCategory returns completed-session counts per category.
func (d *DB) GetSessionCountsByCategory(ctx context.Context, start, end time.Time) (map[string]int, error) {
	query := `
		SELECT counselor_category, COUNT(*)
		FROM sessions
		WHERE started_at >= $1 AND started_at <= $2 AND ended_at IS NOT NULL AND deleted_at IS NULL
		GROUP BY counselor_category
	`
	return d.queryCountMap(ctx, query, start, end)
}

// GetSessionCountsByMode returns completed-session counts per mode.
func (d *DB) GetSessionCountsByMode(ctx context.Context, start, end time.Time) (map[string]int, error) {
	query := `
		SELECT mode, COUNT(*)
		FROM sessions
		WHERE started_at >= $1 AND started_at <= $2 AND ended_at IS NOT NULL AND deleted_at IS NULL
		GROUP BY mode
	`
	return d.queryCountMap(ctx, query, start, end)
}

func (d *DB) queryCountMap(ctx context.Context, query string, args ...any) (map[string]int, error) {
	rows, err := d.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		counts[key] = count
	}
	return counts, rows.Err()
}

// GetCrisisSessionCount counts sessions flagged for crisis language.
func (d *DB) GetCrisisSessionCount(ctx context.Context, start, end time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM sessions
		WHERE started_at >= $1 AND started_at <= $2 AND crisis_detected = true AND deleted_at IS NULL
	`
	var count int
	err := d.Pool.QueryRow(ctx, query, start, end).Scan(&count)
	return count, err
}

// GetTotalSessionCount counts all non-deleted sessions.
func (d *DB) GetTotalSessionCount(ctx context.Context) (int, error) {
	var count int
	err := d.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM sessions WHERE deleted_at IS NULL`).Scan(&count)
	return count, err
}

// SessionAnalytics aggregates completed sessions for a date range.
func (d *DB) SessionAnalytics(ctx context.Context, start, end time.Time) (*models.SessionAnalyticsResponse, error) {
	resp := &models.SessionAnalyticsResponse{
		PeakUsageHours:        make(map[int]int),
		DailyTrend:            make(map[string]int),
		AvgDurationByCategory: make(map[string]float64),
	}

	base := `started_at >= $1 AND started_at <= $2 AND ended_at IS NOT NULL AND deleted_at IS NULL`

	totalsQuery := `
		SELECT COUNT(*), COALESCE(AVG(duration_seconds), 0)
		FROM sessions WHERE ` + base
	if err := d.Pool.QueryRow(ctx, totalsQuery, start, end).Scan(&resp.TotalSessions, &resp.AvgDurationSeconds); err != nil {
		return nil, err
	}

	var err error
	if resp.SessionsByCategory, err = d.GetSessionCountsByCategory(ctx, start, end); err != nil {
		return nil, err
	}
	if resp.SessionsByMode, err = d.GetSessionCountsByMode(ctx, start, end); err != nil {
		return nil, err
	}
	if resp.CrisisSessions, err = d.GetCrisisSessionCount(ctx, start, end); err != nil {
		return nil, err
	}

	hoursQuery := `
		SELECT EXTRACT(HOUR FROM started_at)::int, COUNT(*)
		FROM sessions WHERE ` + base + `
		GROUP BY 1
	`
	rows, err := d.Pool.Query(ctx, hoursQuery, start, end)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var hour, count int
		if err := rows.Scan(&hour, &count); err != nil {
			rows.Close()
			return nil, err
		}
		resp.PeakUsageHours[hour] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	trendQuery := `
		SELECT TO_CHAR(started_at, 'YYYY-MM-DD'), COUNT(*)
		FROM sessions WHERE ` + base + `
		GROUP BY 1 ORDER BY 1
	`
	if resp.DailyTrend, err = d.queryCountMap(ctx, trendQuery, start, end); err != nil {
		return nil, err
	}

	avgQuery := `
		SELECT counselor_category, AVG(duration_seconds)
		FROM sessions WHERE ` + base + ` AND duration_seconds IS NOT NULL
		GROUP BY counselor_category
	`
	avgRows, err := d.Pool.Query(ctx, avgQuery, start, end)
	if err != nil {
		return nil, err
	}
	defer avgRows.Close()
	for avgRows.Next() {
		var category string
		var avg float64
		if err := avgRows.Scan(&category, &avg); err != nil {
			return nil, err
		}
		resp.AvgDurationByCategory[category] = avg
	}

	return resp, avgRows.Err()
}

// GetSessionsNeedingCrisisScan returns ended sessions with a transcript that
// have never been scanned. The save path scans synchronously, so this catches
// rows saved before the detector shipped or by older clients.
func (d *DB) GetSessionsNeedingCrisisScan(ctx context.Context, limit int) ([]models.Session, error) {
	query := `
		SELECT id, user_id, counselor_category, mode, room_name, transcript,
		       duration_seconds, crisis_detected, crisis_scanned_at, started_at, ended_at
		FROM sessions
		WHERE ended_at IS NOT NULL AND transcript IS NOT NULL
		  AND crisis_scanned_at IS NULL AND deleted_at IS NULL
		ORDER BY ended_at ASC
		LIMIT $1
	`

	rows, err := d.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var s models.Session
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.CounselorCategory, &s.Mode, &s.RoomName, &s.Transcript,
			&s.DurationSeconds, &s.CrisisDetected, &s.CrisisScannedAt, &s.StartedAt, &s.EndedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

// MarkSessionScanned records a crisis scan result. The detected flag only
// ever widens: a rescan never clears a previously raised flag.
func (d *DB) MarkSessionScanned(ctx context.Context, id uuid.UUID, detected bool) error {
	query := `
		UPDATE sessions
		SET crisis_detected = crisis_detected OR $1, crisis_scanned_at = NOW()
		WHERE id = $2
	`
	_, err := d.Pool.Exec(ctx, query, detected, id)
	return err
}
