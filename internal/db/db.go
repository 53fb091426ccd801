package db

import (
	"context"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	"counselhub/migrations"
)

// DB wraps a pgxpool connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// New creates a new database connection pool.
func New(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// RunMigrations runs all embedded SQL migrations.
func (d *DB) RunMigrations(connString string) error {
	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, connString)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// Close closes the connection pool.
func (d *DB) Close() {
	d.Pool.Close()
}

// SeedCounselorCategories inserts the default counselor categories.
// Skips categories that already exist.
func (d *DB) SeedCounselorCategories(ctx context.Context) error {
	categories := []struct {
		name        string
		description string
		icon        string
	}{
		{"Health", "Physical and mental wellbeing support", "heart"},
		{"Career", "Career planning and job search guidance", "briefcase"},
		{"Academic", "Study skills and coursework support", "book"},
		{"Financial Aid", "Scholarships, loans, and budgeting help", "dollar-sign"},
		{"Social", "Relationships and campus life", "users"},
		{"Personal Development", "Goal setting and personal growth", "trending-up"},
		{"General", "Anything else on your mind", "message-circle"},
	}

	query := `
		INSERT INTO counselor_categories (name, description, icon_name, enabled)
		VALUES ($1, $2, $3, true)
		ON CONFLICT (name) DO NOTHING
	`

	for _, cat := range categories {
		if _, err := d.Pool.Exec(ctx, query, cat.name, cat.description, cat.icon); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", cat.name, err)
		}
	}

	return nil
}
