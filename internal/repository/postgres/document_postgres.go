package postgres

import (
	"context"
	"database/sql"

	"caseflow/internal/model"
	"caseflow/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentSelect = `id, number, title, category, submitter_name, submitter_phone, submitter_address,
		excerpt, attachment_ref, status, unit_id, priority, deadline, current_step_id, opened, version,
		created_at, updated_at`

func scanDocument(row scanner) (*model.Document, error) {
	var (
		d        model.Document
		unitID   sql.NullString
		stepID   sql.NullString
		deadline sql.NullTime
	)
	if err := row.Scan(
		&d.ID,
		&d.Number,
		&d.Title,
		&d.Category,
		&d.SubmitterName,
		&d.SubmitterPhone,
		&d.SubmitterAddress,
		&d.Excerpt,
		&d.AttachmentRef,
		&d.Status,
		&unitID,
		&d.Priority,
		&deadline,
		&stepID,
		&d.Opened,
		&d.Version,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	d.UnitID = unitID.String
	d.CurrentStepID = stepID.String
	d.Deadline = timePtr(deadline)
	return &d, nil
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (id, number, title, category, submitter_name, submitter_phone,
			submitter_address, excerpt, attachment_ref, status, opened, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + documentSelect
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.Number,
		doc.Title,
		doc.Category,
		doc.SubmitterName,
		doc.SubmitterPhone,
		doc.SubmitterAddress,
		doc.Excerpt,
		doc.AttachmentRef,
		doc.Status,
		doc.Opened,
		doc.Version,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	out, err := scanDocument(row)
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	q := `SELECT ` + documentSelect + ` FROM documents WHERE id = $1`
	d, err := scanDocument(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, translate(err)
	}
	return d, nil
}

// List returns documents matching the query using LIMIT/OFFSET pagination and a total count.
func (r *DocumentPostgres) List(ctx context.Context, q repository.Query) (*repository.PageResult[model.Document], error) {
	var a args
	where, err := documentColumns.where(q.Filter, &a)
	if err != nil {
		return nil, err
	}

	// Count total rows
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`+where, a...).Scan(&total); err != nil {
		return nil, err
	}

	order, err := documentColumns.orderBy(q.Sort, repository.Sort{Field: repository.DocFieldCreatedAt, Desc: true})
	if err != nil {
		return nil, err
	}
	listQuery := `SELECT ` + documentSelect + ` FROM documents` + where + order + limitOffset(q, &a)

	rows, err := r.db.QueryContext(ctx, listQuery, a...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{
		Items: items,
		Total: total,
	}, nil
}

// Update applies a partial update and bumps the document version.
func (r *DocumentPostgres) Update(ctx context.Context, id string, patch repository.DocumentPatch) (*model.Document, error) {
	s := documentSet(patch)
	q := `UPDATE documents SET ` + s.String() + ` WHERE id = ` + s.args.add(id) + ` RETURNING ` + documentSelect
	d, err := scanDocument(r.db.QueryRowContext(ctx, q, s.args...))
	if err != nil {
		return nil, translate(err)
	}
	return d, nil
}

// NextNumber draws from the document number sequence.
func (r *DocumentPostgres) NextNumber(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT nextval('document_number_seq')`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func documentSet(p repository.DocumentPatch) *setList {
	s := &setList{}
	if p.Status != nil {
		s.set("status", *p.Status)
	}
	if p.UnitID != nil {
		s.set("unit_id", nullString(*p.UnitID))
	}
	if p.Priority != nil {
		s.set("priority", *p.Priority)
	}
	if p.Deadline != nil {
		s.set("deadline", *p.Deadline)
	}
	if p.CurrentStepID != nil {
		s.set("current_step_id", nullString(*p.CurrentStepID))
	}
	if p.Opened != nil {
		s.set("opened", *p.Opened)
	}
	if p.AttachmentRef != nil {
		s.set("attachment_ref", *p.AttachmentRef)
	}
	s.set("updated_at", p.UpdatedAt)
	s.raw("version = version + 1")
	return s
}
