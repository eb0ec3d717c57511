package migration

import (
	"context"
	"fmt"

	"edgestats/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range Statements() {
		if _, err := db.ExecContext(ctx, stmt.SQL); err != nil {
			return errors.Wrap(errors.DatabaseError(fmt.Sprintf("migration %s failed", stmt.Name), err), "failed to migrate edge store")
		}
	}
	return nil
}

// Statement is one named, idempotent DDL step
type Statement struct {
	Name string
	SQL  string
}

// Statements lists the schema steps in execution order
func Statements() []Statement {
	return []Statement{
		{
			Name: "create_kg_edges",
			SQL: `
				CREATE TABLE IF NOT EXISTS kg_edges (
					answer_id   TEXT NOT NULL,
					edge_id     TEXT NOT NULL,
					position    INTEGER NOT NULL DEFAULT 0,
					source_id   TEXT NOT NULL DEFAULT '',
					target_id   TEXT NOT NULL DEFAULT '',
					edge_type   TEXT NOT NULL DEFAULT '',
					attributes  JSONB NOT NULL DEFAULT '{}'::jsonb,
					created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					PRIMARY KEY (answer_id, edge_id)
				)`,
		},
		{
			Name: "index_kg_edges_answer",
			SQL:  `CREATE INDEX IF NOT EXISTS idx_kg_edges_answer_position ON kg_edges (answer_id, position)`,
		},
	}
}
