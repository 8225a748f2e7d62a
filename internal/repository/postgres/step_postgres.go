package postgres

import (
	"context"
	"database/sql"

	"caseflow/internal/model"
	"caseflow/internal/repository"
)

// StepPostgres is a PostgreSQL implementation of repository.StepRepository.
type StepPostgres struct {
	db *sql.DB
}

// NewStepPostgres creates a new StepPostgres repository.
func NewStepPostgres(db *sql.DB) *StepPostgres {
	return &StepPostgres{db: db}
}

var _ repository.StepRepository = (*StepPostgres)(nil)

const stepSelect = `id, document_id, from_unit_id, to_unit_id, state, priority, assigned_at, accepted_at,
		completed_at, deadline, notes, reply, result, assigned_by, seq`

func scanStep(row scanner) (*model.WorkflowStep, error) {
	var (
		s         model.WorkflowStep
		fromUnit  sql.NullString
		accepted  sql.NullTime
		completed sql.NullTime
		reply     sql.NullString
		result    sql.NullString
	)
	if err := row.Scan(
		&s.ID,
		&s.DocumentID,
		&fromUnit,
		&s.ToUnitID,
		&s.State,
		&s.Priority,
		&s.AssignedAt,
		&accepted,
		&completed,
		&s.Deadline,
		&s.Notes,
		&reply,
		&result,
		&s.AssignedBy,
		&s.Seq,
	); err != nil {
		return nil, err
	}
	s.FromUnitID = fromUnit.String
	s.AcceptedAt = timePtr(accepted)
	s.CompletedAt = timePtr(completed)
	s.Reply = stringPtr(reply)
	s.Result = stringPtr(result)
	return &s, nil
}

const insertStep = `
		INSERT INTO workflow_steps (id, document_id, from_unit_id, to_unit_id, state, priority,
			assigned_at, accepted_at, completed_at, deadline, notes, reply, result, assigned_by, seq)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

func insertStepArgs(s *model.WorkflowStep) []any {
	return []any{
		s.ID,
		s.DocumentID,
		nullString(s.FromUnitID),
		s.ToUnitID,
		s.State,
		s.Priority,
		s.AssignedAt,
		nullTime(s.AcceptedAt),
		nullTime(s.CompletedAt),
		s.Deadline,
		s.Notes,
		s.Reply,
		s.Result,
		s.AssignedBy,
		s.Seq,
	}
}

// Create inserts a new step row and returns the stored record.
func (r *StepPostgres) Create(ctx context.Context, step *model.WorkflowStep) (*model.WorkflowStep, error) {
	out, err := scanStep(r.db.QueryRowContext(ctx, insertStep+` RETURNING `+stepSelect, insertStepArgs(step)...))
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// FindByID fetches a single step by its ID.
func (r *StepPostgres) FindByID(ctx context.Context, id string) (*model.WorkflowStep, error) {
	q := `SELECT ` + stepSelect + ` FROM workflow_steps WHERE id = $1`
	s, err := scanStep(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, translate(err)
	}
	return s, nil
}

// List returns the steps matching the query, oldest assignment first unless sorted otherwise.
func (r *StepPostgres) List(ctx context.Context, q repository.Query) ([]model.WorkflowStep, error) {
	var a args
	where, err := stepColumns.where(q.Filter, &a)
	if err != nil {
		return nil, err
	}
	order, err := stepColumns.orderBy(q.Sort, repository.Sort{Field: repository.StepFieldAssignedAt})
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+stepSelect+` FROM workflow_steps`+where+order+limitOffset(q, &a), a...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.WorkflowStep, 0)
	for rows.Next() {
		s, err := scanStep(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update applies a partial update to a step.
func (r *StepPostgres) Update(ctx context.Context, id string, patch repository.StepPatch) (*model.WorkflowStep, error) {
	s := stepSet(patch)
	if len(s.parts) == 0 {
		return r.FindByID(ctx, id)
	}
	q := `UPDATE workflow_steps SET ` + s.String() + ` WHERE id = ` + s.args.add(id) + ` RETURNING ` + stepSelect
	out, err := scanStep(r.db.QueryRowContext(ctx, q, s.args...))
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func stepSet(p repository.StepPatch) *setList {
	s := &setList{}
	if p.State != nil {
		s.set("state", *p.State)
	}
	if p.AcceptedAt != nil {
		s.set("accepted_at", *p.AcceptedAt)
	}
	if p.CompletedAt != nil {
		s.set("completed_at", *p.CompletedAt)
	}
	if p.Reply != nil {
		s.set("reply", *p.Reply)
	}
	if p.Result != nil {
		s.set("result", *p.Result)
	}
	if p.Notes != nil {
		s.set("notes", *p.Notes)
	}
	return s
}
