package repository

import (
	"context"
	"time"

	"caseflow/internal/model"
)

// DocumentRepository defines data access for complaint documents.
// Strictly persistence: no business logic here.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored document.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// List returns a page of documents matching the query and the total number of matches.
	List(ctx context.Context, q Query) (*PageResult[model.Document], error)

	// Update applies a partial update, bumps the version and returns the stored document.
	Update(ctx context.Context, id string, patch DocumentPatch) (*model.Document, error)

	// NextNumber returns the next value of the document number sequence.
	NextNumber(ctx context.Context) (int64, error)
}

// DocumentPatch lists the document fields a write may change. Nil fields are left untouched.
type DocumentPatch struct {
	Status        *model.Status
	UnitID        *string
	Priority      *model.Priority
	Deadline      *time.Time
	CurrentStepID *string
	Opened        *bool
	AttachmentRef *string
	UpdatedAt     time.Time
}

// StepRepository defines data access for workflow steps.
type StepRepository interface {
	// Create inserts a new step.
	Create(ctx context.Context, step *model.WorkflowStep) (*model.WorkflowStep, error)

	// FindByID returns a step by its ID, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.WorkflowStep, error)

	// List returns the steps matching the query.
	List(ctx context.Context, q Query) ([]model.WorkflowStep, error)

	// Update applies a partial update and returns the stored step.
	Update(ctx context.Context, id string, patch StepPatch) (*model.WorkflowStep, error)
}

// StepPatch lists the step fields a write may change. Nil fields are left untouched.
type StepPatch struct {
	State       *model.StepState
	AcceptedAt  *time.Time
	CompletedAt *time.Time
	Reply       *string
	Result      *string
	Notes       *string
}

// Transition is one atomic workflow write: an optional update of an existing step, an
// optional new step, and the document projection, all guarded by the document version.
type Transition struct {
	DocumentID    string
	ExpectVersion int64
	Document      DocumentPatch

	// StepID, when set, names the step updated with StepPatch; the write fails with
	// ErrConflict unless the step is still in ExpectState.
	StepID      string
	ExpectState model.StepState
	Step        StepPatch

	NewStep *model.WorkflowStep
}

// TransitionRepository commits workflow transitions.
type TransitionRepository interface {
	// Apply commits t atomically. It returns ErrConflict when the document version or the
	// expected step state no longer match, or when the new step would break the
	// single-active-step constraint; nothing is written in that case.
	Apply(ctx context.Context, t Transition) error
}

// UnitRepository is the read-only organizational unit directory.
type UnitRepository interface {
	// ListActive returns active units ordered by code.
	ListActive(ctx context.Context) ([]model.OrganizationalUnit, error)

	// FindByID returns a unit by its ID, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.OrganizationalUnit, error)
}
