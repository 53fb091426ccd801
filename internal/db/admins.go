package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"counselhub/internal/models"
)

// GetAdminByEmail retrieves an admin account by email.
func (d *DB) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	query := `
		SELECT id, email, password_hash, role, is_active, created_at, updated_at, last_login_at
		FROM admin_users WHERE email = $1
	`

	var admin models.Admin
	err := d.Pool.QueryRow(ctx, query, email).Scan(
		&admin.ID,
		&admin.Email,
		&admin.PasswordHash,
		&admin.Role,
		&admin.IsActive,
		&admin.CreatedAt,
		&admin.UpdatedAt,
		&admin.LastLoginAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}

	return &admin, nil
}

// GetAdminByID retrieves an admin account by UUID.
func (d *DB) GetAdminByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	query := `
		SELECT id, email, password_hash, role, is_active, created_at, updated_at, last_login_at
		FROM admin_users WHERE id = $1
	`

	var admin models.Admin
	err := d.Pool.QueryRow(ctx, query, id).Scan(
		&admin.ID,
		&admin.Email,
		&admin.PasswordHash,
		&admin.Role,
		&admin.IsActive,
		&admin.CreatedAt,
		&admin.UpdatedAt,
		&admin.LastLoginAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}

	return &admin, nil
}

// TouchAdminLogin records a successful admin login.
func (d *DB) TouchAdminLogin(ctx context.Context, adminID uuid.UUID) error {
	query := `UPDATE admin_users SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1`
	_, err := d.Pool.Exec(ctx, query, adminID)
	return err
}
