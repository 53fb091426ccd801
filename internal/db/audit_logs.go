package db

import (
	"context"

	"counselhub/internal/models"
)

// CreateAuditLog records one admin action.
func (d *DB) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	query := `
		INSERT INTO audit_log (admin_user_id, action, resource_type, resource_id, details, ip_address)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		RETURNING id, timestamp
	`

	return d.Pool.QueryRow(ctx, query,
		entry.AdminUserID,
		entry.Action,
		entry.ResourceType,
		entry.ResourceID,
		entry.Details,
		entry.IPAddress,
	).Scan(&entry.ID, &entry.Timestamp)
}

// GetAuditLogs returns the most recent audit entries.
func (d *DB) GetAuditLogs(ctx context.Context, limit, offset int) ([]models.AuditLog, error) {
	query := `
		SELECT id, admin_user_id, action, resource_type, resource_id, details, COALESCE(ip_address, ''), timestamp
		FROM audit_log
		ORDER BY timestamp DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := d.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.AuditLog
	for rows.Next() {
		var e models.AuditLog
		if err := rows.Scan(&e.ID, &e.AdminUserID, &e.Action, &e.ResourceType, &e.ResourceID, &e.Details, &e.IPAddress, &e.Timestamp); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
