package sqlstore

import (
	"context"
	"fmt"
)

func schemaFor(dialect Dialect) string {
	timestamp := "TIMESTAMP"
	if dialect == DialectPostgres {
		timestamp = "TIMESTAMPTZ"
	}

	return fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS tasks (
		id          VARCHAR(36) PRIMARY KEY,
		title       VARCHAR(200) NOT NULL,
		description VARCHAR(2000),
		is_complete BOOLEAN NOT NULL DEFAULT FALSE,
		position    INTEGER NOT NULL UNIQUE,
		deadline    %[1]s,
		created_at  %[1]s NOT NULL,
		updated_at  %[1]s NOT NULL
	)`, timestamp)
}

// Migrate creates the tasks table if it does not exist
func (r *TaskRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaFor(r.dialect)); err != nil {
		return fmt.Errorf("failed to create tasks table: %w", err)
	}
	return nil
}
