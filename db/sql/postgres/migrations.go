package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// ApplyMigrations executes the statements in order. Statements use
// IF NOT EXISTS guards so the runner is idempotent across restarts.
func ApplyMigrations(ctx context.Context, db *sql.DB, statements ...string) error {
	if db == nil {
		return fmt.Errorf("postgres: db is nil")
	}
	for _, stmt := range statements {
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: migrate: %w", err)
		}
	}
	return nil
}
