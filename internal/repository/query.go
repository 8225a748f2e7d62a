package repository

import "errors"

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when an optimistic version check or the single-active-step
	// constraint rejects a write.
	ErrConflict = errors.New("conflict")
	// ErrUnknownField is returned for filter or sort fields the adapter does not expose.
	ErrUnknownField = errors.New("unknown field")
)

// Op is a filter predicate operator.
type Op string

const (
	OpEq        Op = "eq"
	OpIContains Op = "icontains"
	OpGTE       Op = "gte"
	OpLTE       Op = "lte"
	OpLT        Op = "lt"
	OpIn        Op = "in"
)

// Condition is a single predicate on a named field.
// For OpIn, Value must be a []string.
type Condition struct {
	Field string
	Op    Op
	Value any
}

// Filter combines conditions: every condition in All must hold, and when Any is not
// empty at least one of its conditions must hold as well.
type Filter struct {
	All []Condition
	Any []Condition
}

// Empty reports whether the filter has no conditions.
func (f Filter) Empty() bool {
	return len(f.All) == 0 && len(f.Any) == 0
}

// Where appends a condition to All.
func (f Filter) Where(field string, op Op, value any) Filter {
	f.All = append(append([]Condition(nil), f.All...), Condition{Field: field, Op: op, Value: value})
	return f
}

// Sort orders results by a named field.
type Sort struct {
	Field string
	Desc  bool
}

// Query holds filter, sort and limit/offset pagination parameters.
// A zero Limit means no limit.
type Query struct {
	Filter Filter
	Sort   []Sort
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}

// Document fields usable in filters and sorts.
const (
	DocFieldID             = "id"
	DocFieldNumber         = "number"
	DocFieldCategory       = "category"
	DocFieldSubmitterName  = "submitter_name"
	DocFieldSubmitterPhone = "submitter_phone"
	DocFieldStatus         = "status"
	DocFieldUnitID         = "unit_id"
	DocFieldPriority       = "priority"
	DocFieldDeadline       = "deadline"
	DocFieldCreatedAt      = "created_at"
	DocFieldUpdatedAt      = "updated_at"
)

// Workflow step fields usable in filters and sorts.
const (
	StepFieldID          = "id"
	StepFieldDocumentID  = "document_id"
	StepFieldFromUnitID  = "from_unit_id"
	StepFieldToUnitID    = "to_unit_id"
	StepFieldSeq         = "seq"
	StepFieldState       = "state"
	StepFieldPriority    = "priority"
	StepFieldAssignedAt  = "assigned_at"
	StepFieldCompletedAt = "completed_at"
	StepFieldDeadline    = "deadline"
)
