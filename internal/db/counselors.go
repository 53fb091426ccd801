package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"counselhub/internal/models"
)

// GetEnabledCategories returns all enabled counselor categories, sorted by name.
func (d *DB) GetEnabledCategories(ctx context.Context) ([]models.CounselorCategory, error) {
	query := `
		SELECT id, name, description, icon_name, COALESCE(system_prompt, ''), enabled, created_at, updated_at
		FROM counselor_categories
		WHERE enabled = true
		ORDER BY name ASC
	`
	return d.queryCategories(ctx, query)
}

// GetAllCategories returns every counselor category, enabled or not.
func (d *DB) GetAllCategories(ctx context.Context) ([]models.CounselorCategory, error) {
	query := `
		SELECT id, name, description, icon_name, COALESCE(system_prompt, ''), enabled, created_at, updated_at
		FROM counselor_categories
		ORDER BY name ASC
	`
	return d.queryCategories(ctx, query)
}

func (d *DB) queryCategories(ctx context.Context, query string) ([]models.CounselorCategory, error) {
	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.CounselorCategory
	for rows.Next() {
		var c models.CounselorCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.IconName, &c.SystemPrompt, &c.Enabled, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// GetCategoryByName retrieves a counselor category by its unique name.
func (d *DB) GetCategoryByName(ctx context.Context, name string) (*models.CounselorCategory, error) {
	query := `
		SELECT id, name, description, icon_name, COALESCE(system_prompt, ''), enabled, created_at, updated_at
		FROM counselor_categories WHERE name = $1
	`

	var c models.CounselorCategory
	err := d.Pool.QueryRow(ctx, query, name).Scan(
		&c.ID, &c.Name, &c.Description, &c.IconName, &c.SystemPrompt, &c.Enabled, &c.CreatedAt, &c.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// CreateCategory inserts a new counselor category.
func (d *DB) CreateCategory(ctx context.Context, c *models.CounselorCategory) error {
	query := `
		INSERT INTO counselor_categories (name, description, icon_name, system_prompt, enabled)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
		RETURNING id, created_at, updated_at
	`

	err := d.Pool.QueryRow(ctx, query, c.Name, c.Description, c.IconName, c.SystemPrompt, c.Enabled).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateCategory
	}
	return err
}

// UpdateCategory updates a counselor category's editable fields.
func (d *DB) UpdateCategory(ctx context.Context, c *models.CounselorCategory) error {
	query := `
		UPDATE counselor_categories
		SET description = $1, icon_name = $2, system_prompt = NULLIF($3, ''), enabled = $4, updated_at = NOW()
		WHERE id = $5
	`

	tag, err := d.Pool.Exec(ctx, query, c.Description, c.IconName, c.SystemPrompt, c.Enabled, c.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// SetCategoryEnabled toggles a category's visibility on the dashboard.
func (d *DB) SetCategoryEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	query := `UPDATE counselor_categories SET enabled = $1, updated_at = NOW() WHERE id = $2`
	tag, err := d.Pool.Exec(ctx, query, enabled, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
