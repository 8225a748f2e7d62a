package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_organizational_units",
		SQL: `CREATE TABLE IF NOT EXISTS organizational_units (
  id     TEXT    PRIMARY KEY,
  code   TEXT    NOT NULL UNIQUE,
  name   TEXT    NOT NULL,
  active BOOLEAN NOT NULL DEFAULT TRUE
);`,
	},
	{
		Name: "create_sequence_document_number",
		SQL:  `CREATE SEQUENCE IF NOT EXISTS document_number_seq;`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id                TEXT        PRIMARY KEY,
  number            TEXT        NOT NULL UNIQUE,
  title             TEXT        NOT NULL,
  category          TEXT        NOT NULL,
  submitter_name    TEXT        NOT NULL,
  submitter_phone   TEXT        NOT NULL DEFAULT '',
  submitter_address TEXT        NOT NULL DEFAULT '',
  excerpt           TEXT        NOT NULL DEFAULT '',
  attachment_ref    TEXT        NOT NULL DEFAULT '',
  status            TEXT        NOT NULL,
  unit_id           TEXT        REFERENCES organizational_units (id),
  priority          TEXT        NOT NULL DEFAULT '',
  deadline          TIMESTAMPTZ,
  current_step_id   TEXT,
  opened            BOOLEAN     NOT NULL DEFAULT FALSE,
  version           BIGINT      NOT NULL DEFAULT 0,
  created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
  CHECK (status IN ('new', 'classifying', 'assigned', 'processing', 'replied', 'completed'))
);`,
	},
	{
		Name: "create_table_workflow_steps",
		SQL: `CREATE TABLE IF NOT EXISTS workflow_steps (
  id           TEXT        PRIMARY KEY,
  document_id  TEXT        NOT NULL REFERENCES documents (id),
  from_unit_id TEXT        REFERENCES organizational_units (id),
  to_unit_id   TEXT        NOT NULL REFERENCES organizational_units (id),
  state        TEXT        NOT NULL,
  priority     TEXT        NOT NULL,
  assigned_at  TIMESTAMPTZ NOT NULL,
  accepted_at  TIMESTAMPTZ,
  completed_at TIMESTAMPTZ,
  deadline     TIMESTAMPTZ NOT NULL,
  notes        TEXT        NOT NULL DEFAULT '',
  reply        TEXT,
  result       TEXT,
  assigned_by  TEXT        NOT NULL DEFAULT '',
  seq          INTEGER     NOT NULL,
  CHECK (seq > 0),
  CHECK (state IN ('unaccepted', 'in_progress', 'transferred', 'completed')),
  CHECK (priority IN ('urgent', 'normal', 'low'))
);`,
	},
	{
		Name: "create_unique_index_workflow_steps_active",
		SQL: `CREATE UNIQUE INDEX IF NOT EXISTS uq_workflow_steps_active ON workflow_steps (document_id)
  WHERE state IN ('unaccepted', 'in_progress');`,
	},
	{
		Name: "create_unique_index_workflow_steps_seq",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS uq_workflow_steps_seq ON workflow_steps (document_id, seq);`,
	},
	{
		Name: "create_index_workflow_steps_to_unit",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_workflow_steps_to_unit ON workflow_steps (to_unit_id);`,
	},
	{
		Name: "create_index_documents_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents (created_at);`,
	},
	{
		Name: "create_index_documents_status_deadline",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_status_deadline ON documents (status, deadline);`,
	},
}

// EnsureMigrated creates the schema unless the workflow_steps table already exists.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger *slog.Logger, dbHost string) error {
	start := time.Now()
	log := logger.With(slog.String("component", "database"), slog.String("db_host", dbHost))

	log.InfoContext(ctx, "db_migration_check", slog.String("status", "starting"))

	var exists bool
	err := db.QueryRowContext(ctx, "SELECT to_regclass('public.workflow_steps') IS NOT NULL").Scan(&exists)
	if err != nil {
		log.ErrorContext(ctx, "db_migration_failed",
			slog.String("status", "error"),
			slog.String("error_message", fmt.Sprintf("failed to check sentinel table: %v", err)),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.InfoContext(ctx, "db_migration_skip",
			slog.String("status", "success"),
			slog.String("reason", "schema already exists, skipping migration"),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.InfoContext(ctx, "db_migration_start", slog.String("status", "in_progress"))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.ErrorContext(ctx, "db_migration_failed",
				slog.String("status", "error"),
				slog.String("migration_step", step.Name),
				slog.String("error_message", err.Error()),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
				slog.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.InfoContext(ctx, "db_migration_step",
			slog.String("status", "success"),
			slog.String("migration_step", step.Name),
			slog.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.InfoContext(ctx, "db_migration_success",
		slog.String("status", "success"),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}
