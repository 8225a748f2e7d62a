package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"caseflow/internal/repository"
)

// TransitionPostgres commits workflow transitions in a single database transaction.
type TransitionPostgres struct {
	db *sql.DB
}

// NewTransitionPostgres creates a new TransitionPostgres repository.
func NewTransitionPostgres(db *sql.DB) *TransitionPostgres {
	return &TransitionPostgres{db: db}
}

var _ repository.TransitionRepository = (*TransitionPostgres)(nil)

// Apply updates the step, inserts the new step and writes the document projection.
// The document row is updated last under its expected version; the partial unique index
// uq_workflow_steps_active rejects a second open step for the same document.
func (r *TransitionPostgres) Apply(ctx context.Context, t repository.Transition) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transition: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if t.StepID != "" {
		s := stepSet(t.Step)
		if len(s.parts) > 0 {
			q := `UPDATE workflow_steps SET ` + s.String() +
				` WHERE id = ` + s.args.add(t.StepID) + ` AND state = ` + s.args.add(t.ExpectState)
			res, err := tx.ExecContext(ctx, q, s.args...)
			if err != nil {
				return translate(err)
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return fmt.Errorf("%w: step %s is no longer %s", repository.ErrConflict, t.StepID, t.ExpectState)
			}
		}
	}

	if t.NewStep != nil {
		if _, err := tx.ExecContext(ctx, insertStep, insertStepArgs(t.NewStep)...); err != nil {
			return translate(err)
		}
	}

	d := documentSet(t.Document)
	q := `UPDATE documents SET ` + d.String() +
		` WHERE id = ` + d.args.add(t.DocumentID) + ` AND version = ` + d.args.add(t.ExpectVersion)
	res, err := tx.ExecContext(ctx, q, d.args...)
	if err != nil {
		return translate(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: document %s changed since version %d", repository.ErrConflict, t.DocumentID, t.ExpectVersion)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transition: %w", err)
	}
	return nil
}
