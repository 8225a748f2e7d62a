package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"caseflow/internal/clock"
	"caseflow/internal/deadline"
	"caseflow/internal/metrics"
	"caseflow/internal/model"
	"caseflow/internal/repository"
	"caseflow/internal/repository/memory"
	repoMocks "caseflow/internal/repository/mocks"
)

var day0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

const day = 24 * time.Hour

// fixture wires every service over one in-memory store and a manual clock.
type fixture struct {
	store    *memory.Store
	clock    *clock.Manual
	intake   IntakeService
	routing  RoutingService
	tracking TrackingService
	reports  ReportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore(
		model.OrganizationalUnit{ID: "unit-x", Code: "X", Name: "Phòng Tiếp dân", Active: true},
		model.OrganizationalUnit{ID: "unit-y", Code: "Y", Name: "Thanh tra huyện", Active: true},
		model.OrganizationalUnit{ID: "unit-z", Code: "Z", Name: "Đơn vị giải thể", Active: false},
	)
	clk := clock.NewManual(day0)
	m, err := metrics.NewWorkflow(prometheus.NewRegistry())
	require.NoError(t, err)

	d := Deps{
		Documents:   store.Documents(),
		Steps:       store.Steps(),
		Transitions: store.Transitions(),
		Units:       store.Units(),
		Clock:       clk,
		Policy:      deadline.DefaultPolicy(),
		Metrics:     m,
	}
	return &fixture{
		store:    store,
		clock:    clk,
		intake:   NewIntakeService(d),
		routing:  NewRoutingService(d),
		tracking: NewTrackingService(d),
		reports:  NewReportService(d),
	}
}

// classified submits a document and opens it so it is ready for assignment.
func (f *fixture) classified(t *testing.T, name, phone string) *model.Document {
	t.Helper()
	ctx := context.Background()
	doc, err := f.intake.Submit(ctx, SubmitInput{Title: "Khiếu nại", SubmitterName: name, SubmitterPhone: phone})
	require.NoError(t, err)
	doc, err = f.routing.Open(ctx, doc.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusClassifying, doc.Status)
	return doc
}

func (f *fixture) document(t *testing.T, id string) *model.Document {
	t.Helper()
	doc, err := f.intake.Get(context.Background(), id)
	require.NoError(t, err)
	return doc
}

func TestSubmit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("numbers are sequential per year", func(t *testing.T) {
		a, err := f.intake.Submit(ctx, SubmitInput{Title: "a", SubmitterName: "Trần B"})
		require.NoError(t, err)
		b, err := f.intake.Submit(ctx, SubmitInput{Title: "b", SubmitterName: "Trần C", Category: model.CategoryPetition})
		require.NoError(t, err)

		assert.Equal(t, "DT-2024-000001", a.Number)
		assert.Equal(t, "DT-2024-000002", b.Number)
		assert.Equal(t, model.StatusNew, a.Status)
		assert.Equal(t, model.CategoryComplaint, a.Category)
		assert.Equal(t, model.CategoryPetition, b.Category)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := f.intake.Submit(ctx, SubmitInput{SubmitterName: "x"})
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = f.intake.Submit(ctx, SubmitInput{Title: "x"})
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = f.intake.Submit(ctx, SubmitInput{Title: "x", SubmitterName: "y", Category: "gossip"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestList_QueueFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	fresh, err := f.intake.Submit(ctx, SubmitInput{Title: "t", SubmitterName: "A"})
	require.NoError(t, err)
	doc := f.classified(t, "B", "")
	_, err = f.routing.Assign(ctx, AssignInput{DocumentID: doc.ID, UnitID: "unit-x"})
	require.NoError(t, err)

	res, err := f.intake.List(ctx, QueueQuery{Status: model.StatusNew})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, fresh.ID, res.Items[0].ID)

	res, err = f.intake.List(ctx, QueueQuery{UnitID: "unit-x"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, doc.ID, res.Items[0].ID)

	res, err = f.intake.List(ctx, QueueQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)

	_, err = f.intake.List(ctx, QueueQuery{Status: "archived"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGet_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.intake.Get(context.Background(), "missing")

	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, KindDocumentNotFound, se.Kind)
	assert.Equal(t, "missing", se.DocumentID)
}

func TestStorageUnavailable(t *testing.T) {
	docs := new(repoMocks.MockDocumentRepository)
	docs.On("FindByID", mock.Anything, "d1").Return(nil, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	svc := NewIntakeService(Deps{Documents: docs})
	_, err := svc.Get(context.Background(), "d1")

	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.Equal(t, KindStorageUnavailable, KindOf(err))
	docs.AssertExpectations(t)
}

func TestStorageTimeout(t *testing.T) {
	docs := new(repoMocks.MockDocumentRepository)
	docs.On("FindByID", mock.Anything, "d1").
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.DeadlineExceeded)

	svc := NewIntakeService(Deps{Documents: docs, StorageTimeout: 10 * time.Millisecond})
	_, err := svc.Get(context.Background(), "d1")

	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMutate_RetriesVersionConflicts(t *testing.T) {
	docs := new(repoMocks.MockDocumentRepository)
	steps := new(repoMocks.MockStepRepository)
	units := new(repoMocks.MockUnitRepository)
	transitions := new(repoMocks.MockTransitionRepository)

	doc := model.Document{ID: "d1", Status: model.StatusClassifying, Opened: true, Version: 2}
	docs.On("FindByID", mock.Anything, "d1").Return(func() *model.Document { d := doc; return &d }(), nil)
	units.On("FindByID", mock.Anything, "unit-x").Return(&model.OrganizationalUnit{ID: "unit-x", Active: true}, nil)
	steps.On("List", mock.Anything, mock.Anything).Return([]model.WorkflowStep{}, nil)
	transitions.On("Apply", mock.Anything, mock.Anything).
		Return(fmt.Errorf("%w: document d1 changed since version 2", repository.ErrConflict))

	svc := NewRoutingService(Deps{Documents: docs, Steps: steps, Units: units, Transitions: transitions})
	_, err := svc.Assign(context.Background(), AssignInput{DocumentID: "d1", UnitID: "unit-x"})

	assert.ErrorIs(t, err, ErrConflict)
	transitions.AssertNumberOfCalls(t, "Apply", maxAttempts)
}

func TestAssign_CompletedDocumentStopsEarly(t *testing.T) {
	docs := new(repoMocks.MockDocumentRepository)
	steps := new(repoMocks.MockStepRepository)
	units := new(repoMocks.MockUnitRepository)
	transitions := new(repoMocks.MockTransitionRepository)

	docs.On("FindByID", mock.Anything, "d1").
		Return(&model.Document{ID: "d1", Status: model.StatusCompleted, Opened: true, Version: 5}, nil)
	units.On("FindByID", mock.Anything, "unit-x").Return(&model.OrganizationalUnit{ID: "unit-x", Active: true}, nil)

	svc := NewRoutingService(Deps{Documents: docs, Steps: steps, Units: units, Transitions: transitions})
	_, err := svc.Assign(context.Background(), AssignInput{DocumentID: "d1", UnitID: "unit-x"})

	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, KindInvalidTransition, se.Kind)
	assert.Equal(t, model.StatusCompleted, se.From)
	assert.Equal(t, "d1", se.DocumentID)
	steps.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	transitions.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything)
}

func TestError_Message(t *testing.T) {
	err := &Error{Kind: KindInvalidTransition, DocumentID: "d1", From: model.StatusNew, Action: "accept"}
	assert.Equal(t, `InvalidTransition: cannot accept from status "new" document=d1`, err.Error())
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.False(t, errors.Is(err, ErrConflict))
}
