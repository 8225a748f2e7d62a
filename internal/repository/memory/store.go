// Package memory is an in-process implementation of the repository interfaces.
// It backs STORE_BACKEND=memory and the service tests.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"caseflow/internal/model"
	"caseflow/internal/repository"
)

// Store holds documents, steps and units behind a single mutex so that a
// Transition is applied atomically.
type Store struct {
	mu       sync.RWMutex
	docs     map[string]model.Document
	steps    map[string]model.WorkflowStep
	units    map[string]model.OrganizationalUnit
	sequence int64
}

// NewStore returns an empty store seeded with the given units.
func NewStore(units ...model.OrganizationalUnit) *Store {
	s := &Store{
		docs:  make(map[string]model.Document),
		steps: make(map[string]model.WorkflowStep),
		units: make(map[string]model.OrganizationalUnit),
	}
	for _, u := range units {
		s.units[u.ID] = u
	}
	return s
}

// PutUnit inserts or replaces a directory unit.
func (s *Store) PutUnit(u model.OrganizationalUnit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.units[u.ID] = u
}

// Documents returns the document repository view of the store.
func (s *Store) Documents() *DocumentRepository { return &DocumentRepository{s: s} }

// Steps returns the step repository view of the store.
func (s *Store) Steps() *StepRepository { return &StepRepository{s: s} }

// Transitions returns the transition repository view of the store.
func (s *Store) Transitions() *TransitionRepository { return &TransitionRepository{s: s} }

// Units returns the unit directory view of the store.
func (s *Store) Units() *UnitRepository { return &UnitRepository{s: s} }

// DocumentRepository implements repository.DocumentRepository.
type DocumentRepository struct{ s *Store }

// StepRepository implements repository.StepRepository.
type StepRepository struct{ s *Store }

// TransitionRepository implements repository.TransitionRepository.
type TransitionRepository struct{ s *Store }

// UnitRepository implements repository.UnitRepository.
type UnitRepository struct{ s *Store }

var (
	_ repository.DocumentRepository   = (*DocumentRepository)(nil)
	_ repository.StepRepository       = (*StepRepository)(nil)
	_ repository.TransitionRepository = (*TransitionRepository)(nil)
	_ repository.UnitRepository       = (*UnitRepository)(nil)
)

func (r *DocumentRepository) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.docs[doc.ID]; ok {
		return nil, fmt.Errorf("%w: document %s exists", repository.ErrConflict, doc.ID)
	}
	d := *doc
	r.s.docs[d.ID] = d
	return &d, nil
}

func (r *DocumentRepository) FindByID(ctx context.Context, id string) (*model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (r *DocumentRepository) List(ctx context.Context, q repository.Query) (*repository.PageResult[model.Document], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := make([]model.Document, 0)
	for _, d := range r.s.docs {
		ok, err := matches(q.Filter, documentField(d))
		if err != nil {
			return nil, err
		}
		if ok {
			items = append(items, d)
		}
	}
	sorts := q.Sort
	if len(sorts) == 0 {
		sorts = []repository.Sort{{Field: repository.DocFieldCreatedAt, Desc: true}}
	}
	if err := sortBy(items, sorts, documentField, func(d model.Document) string { return d.ID }); err != nil {
		return nil, err
	}
	total := len(items)
	return &repository.PageResult[model.Document]{Items: page(items, q.Limit, q.Offset), Total: total}, nil
}

func (r *DocumentRepository) Update(ctx context.Context, id string, patch repository.DocumentPatch) (*model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	applyDocument(&d, patch)
	r.s.docs[id] = d
	return &d, nil
}

func (r *DocumentRepository) NextNumber(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sequence++
	return r.s.sequence, nil
}

func (r *StepRepository) Create(ctx context.Context, step *model.WorkflowStep) (*model.WorkflowStep, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.insertStep(step); err != nil {
		return nil, err
	}
	out := *step
	return &out, nil
}

func (r *StepRepository) FindByID(ctx context.Context, id string) (*model.WorkflowStep, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	st, ok := r.s.steps[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &st, nil
}

func (r *StepRepository) List(ctx context.Context, q repository.Query) ([]model.WorkflowStep, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := make([]model.WorkflowStep, 0)
	for _, st := range r.s.steps {
		ok, err := matches(q.Filter, stepField(st))
		if err != nil {
			return nil, err
		}
		if ok {
			items = append(items, st)
		}
	}
	sorts := q.Sort
	if len(sorts) == 0 {
		sorts = []repository.Sort{{Field: repository.StepFieldAssignedAt}}
	}
	if err := sortBy(items, sorts, stepField, func(st model.WorkflowStep) string { return st.ID }); err != nil {
		return nil, err
	}
	return page(items, q.Limit, q.Offset), nil
}

func (r *StepRepository) Update(ctx context.Context, id string, patch repository.StepPatch) (*model.WorkflowStep, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.steps[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	applyStep(&st, patch)
	r.s.steps[id] = st
	return &st, nil
}

// Apply validates every precondition before writing anything, so a rejected
// transition leaves the store untouched.
func (r *TransitionRepository) Apply(ctx context.Context, t repository.Transition) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.docs[t.DocumentID]
	if !ok {
		return repository.ErrNotFound
	}
	if d.Version != t.ExpectVersion {
		return fmt.Errorf("%w: document %s changed since version %d", repository.ErrConflict, t.DocumentID, t.ExpectVersion)
	}

	var updated *model.WorkflowStep
	if t.StepID != "" {
		st, ok := r.s.steps[t.StepID]
		if !ok {
			return repository.ErrNotFound
		}
		if st.State != t.ExpectState {
			return fmt.Errorf("%w: step %s is no longer %s", repository.ErrConflict, t.StepID, t.ExpectState)
		}
		applyStep(&st, t.Step)
		updated = &st
	}

	if t.NewStep != nil {
		if _, ok := r.s.steps[t.NewStep.ID]; ok {
			return fmt.Errorf("%w: step %s exists", repository.ErrConflict, t.NewStep.ID)
		}
		for _, st := range r.s.steps {
			if st.DocumentID == t.NewStep.DocumentID && st.Seq == t.NewStep.Seq {
				return fmt.Errorf("%w: document %s already has step #%d", repository.ErrConflict, st.DocumentID, st.Seq)
			}
		}
		if t.NewStep.State.Open() {
			for _, st := range r.s.steps {
				if st.DocumentID != t.NewStep.DocumentID || !st.State.Open() {
					continue
				}
				if updated != nil && st.ID == updated.ID && !updated.State.Open() {
					continue
				}
				return fmt.Errorf("%w: document %s already has active step %s", repository.ErrConflict, st.DocumentID, st.ID)
			}
		}
	}

	if updated != nil {
		r.s.steps[updated.ID] = *updated
	}
	if t.NewStep != nil {
		r.s.steps[t.NewStep.ID] = *t.NewStep
	}
	applyDocument(&d, t.Document)
	r.s.docs[d.ID] = d
	return nil
}

func (r *UnitRepository) ListActive(ctx context.Context) ([]model.OrganizationalUnit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	units := make([]model.OrganizationalUnit, 0, len(r.s.units))
	for _, u := range r.s.units {
		if u.Active {
			units = append(units, u)
		}
	}
	sort.Slice(units, func(i, j int) bool { return units[i].Code < units[j].Code })
	return units, nil
}

func (r *UnitRepository) FindByID(ctx context.Context, id string) (*model.OrganizationalUnit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.units[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

// insertStep enforces the single-active-step and unique sequence constraints. Callers hold s.mu.
func (s *Store) insertStep(step *model.WorkflowStep) error {
	if _, ok := s.steps[step.ID]; ok {
		return fmt.Errorf("%w: step %s exists", repository.ErrConflict, step.ID)
	}
	for _, st := range s.steps {
		if st.DocumentID == step.DocumentID && st.Seq == step.Seq {
			return fmt.Errorf("%w: document %s already has step #%d", repository.ErrConflict, st.DocumentID, st.Seq)
		}
	}
	if step.State.Open() {
		for _, st := range s.steps {
			if st.DocumentID == step.DocumentID && st.State.Open() {
				return fmt.Errorf("%w: document %s already has active step %s", repository.ErrConflict, st.DocumentID, st.ID)
			}
		}
	}
	s.steps[step.ID] = *step
	return nil
}

func applyDocument(d *model.Document, p repository.DocumentPatch) {
	if p.Status != nil {
		d.Status = *p.Status
	}
	if p.UnitID != nil {
		d.UnitID = *p.UnitID
	}
	if p.Priority != nil {
		d.Priority = *p.Priority
	}
	if p.Deadline != nil {
		t := *p.Deadline
		d.Deadline = &t
	}
	if p.CurrentStepID != nil {
		d.CurrentStepID = *p.CurrentStepID
	}
	if p.Opened != nil {
		d.Opened = *p.Opened
	}
	if p.AttachmentRef != nil {
		d.AttachmentRef = *p.AttachmentRef
	}
	d.UpdatedAt = p.UpdatedAt
	d.Version++
}

func applyStep(st *model.WorkflowStep, p repository.StepPatch) {
	if p.State != nil {
		st.State = *p.State
	}
	if p.AcceptedAt != nil {
		t := *p.AcceptedAt
		st.AcceptedAt = &t
	}
	if p.CompletedAt != nil {
		t := *p.CompletedAt
		st.CompletedAt = &t
	}
	if p.Reply != nil {
		v := *p.Reply
		st.Reply = &v
	}
	if p.Result != nil {
		v := *p.Result
		st.Result = &v
	}
	if p.Notes != nil {
		st.Notes = *p.Notes
	}
}

// field resolves a named field of an entity. The bool is false for unknown fields.
type field func(name string) (any, bool)

func documentField(d model.Document) field {
	return func(name string) (any, bool) {
		switch name {
		case repository.DocFieldID:
			return d.ID, true
		case repository.DocFieldNumber:
			return d.Number, true
		case repository.DocFieldCategory:
			return string(d.Category), true
		case repository.DocFieldSubmitterName:
			return d.SubmitterName, true
		case repository.DocFieldSubmitterPhone:
			return d.SubmitterPhone, true
		case repository.DocFieldStatus:
			return string(d.Status), true
		case repository.DocFieldUnitID:
			return d.UnitID, true
		case repository.DocFieldPriority:
			return string(d.Priority), true
		case repository.DocFieldDeadline:
			if d.Deadline == nil {
				return nil, true
			}
			return *d.Deadline, true
		case repository.DocFieldCreatedAt:
			return d.CreatedAt, true
		case repository.DocFieldUpdatedAt:
			return d.UpdatedAt, true
		}
		return nil, false
	}
}

func stepField(st model.WorkflowStep) field {
	return func(name string) (any, bool) {
		switch name {
		case repository.StepFieldID:
			return st.ID, true
		case repository.StepFieldDocumentID:
			return st.DocumentID, true
		case repository.StepFieldFromUnitID:
			return st.FromUnitID, true
		case repository.StepFieldToUnitID:
			return st.ToUnitID, true
		case repository.StepFieldSeq:
			return st.Seq, true
		case repository.StepFieldState:
			return string(st.State), true
		case repository.StepFieldPriority:
			return string(st.Priority), true
		case repository.StepFieldAssignedAt:
			return st.AssignedAt, true
		case repository.StepFieldCompletedAt:
			if st.CompletedAt == nil {
				return nil, true
			}
			return *st.CompletedAt, true
		case repository.StepFieldDeadline:
			return st.Deadline, true
		}
		return nil, false
	}
}

func matches(f repository.Filter, get field) (bool, error) {
	for _, c := range f.All {
		ok, err := eval(c, get)
		if err != nil || !ok {
			return false, err
		}
	}
	if len(f.Any) == 0 {
		return true, nil
	}
	for _, c := range f.Any {
		ok, err := eval(c, get)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func eval(c repository.Condition, get field) (bool, error) {
	v, ok := get(c.Field)
	if !ok {
		return false, fmt.Errorf("%w: %s", repository.ErrUnknownField, c.Field)
	}
	switch c.Op {
	case repository.OpEq:
		if t, ok := v.(time.Time); ok {
			want, ok := c.Value.(time.Time)
			return ok && t.Equal(want), nil
		}
		return v != nil && fmt.Sprint(v) == fmt.Sprint(c.Value), nil
	case repository.OpIContains:
		s, _ := v.(string)
		needle, _ := c.Value.(string)
		return strings.Contains(strings.ToLower(s), strings.ToLower(needle)), nil
	case repository.OpGTE, repository.OpLTE, repository.OpLT:
		t, ok := v.(time.Time)
		bound, ok2 := c.Value.(time.Time)
		if !ok || !ok2 {
			return false, nil
		}
		switch c.Op {
		case repository.OpGTE:
			return !t.Before(bound), nil
		case repository.OpLTE:
			return !t.After(bound), nil
		default:
			return t.Before(bound), nil
		}
	case repository.OpIn:
		values, _ := c.Value.([]string)
		s := fmt.Sprint(v)
		for _, want := range values {
			if v != nil && s == want {
				return true, nil
			}
		}
		return false, nil
	}
	return false, fmt.Errorf("unsupported operator %q", c.Op)
}

func sortBy[T any](items []T, sorts []repository.Sort, fields func(T) field, id func(T) string) error {
	for _, s := range sorts {
		if len(items) == 0 {
			break
		}
		if _, ok := fields(items[0])(s.Field); !ok {
			return fmt.Errorf("%w: %s", repository.ErrUnknownField, s.Field)
		}
	}
	last := sorts[len(sorts)-1].Desc
	sort.SliceStable(items, func(i, j int) bool {
		a, b := fields(items[i]), fields(items[j])
		for _, s := range sorts {
			av, _ := a(s.Field)
			bv, _ := b(s.Field)
			c := compare(av, bv)
			if c == 0 {
				continue
			}
			if s.Desc {
				return c > 0
			}
			return c < 0
		}
		if last {
			return id(items[i]) > id(items[j])
		}
		return id(items[i]) < id(items[j])
	})
	return nil
}

// compare orders nil before any value.
func compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if at, ok := a.(time.Time); ok {
		bt, _ := b.(time.Time)
		return at.Compare(bt)
	}
	if ai, ok := a.(int); ok {
		bi, _ := b.(int)
		return cmp.Compare(ai, bi)
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
