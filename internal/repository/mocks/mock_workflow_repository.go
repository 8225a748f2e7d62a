package mocks

import (
	"context"

	"caseflow/internal/model"
	"caseflow/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockStepRepository struct {
	mock.Mock
}

func (m *MockStepRepository) Create(ctx context.Context, step *model.WorkflowStep) (*model.WorkflowStep, error) {
	args := m.Called(ctx, step)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WorkflowStep), args.Error(1)
}

func (m *MockStepRepository) FindByID(ctx context.Context, id string) (*model.WorkflowStep, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WorkflowStep), args.Error(1)
}

func (m *MockStepRepository) List(ctx context.Context, q repository.Query) ([]model.WorkflowStep, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WorkflowStep), args.Error(1)
}

func (m *MockStepRepository) Update(ctx context.Context, id string, patch repository.StepPatch) (*model.WorkflowStep, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WorkflowStep), args.Error(1)
}

type MockTransitionRepository struct {
	mock.Mock
}

func (m *MockTransitionRepository) Apply(ctx context.Context, t repository.Transition) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

type MockUnitRepository struct {
	mock.Mock
}

func (m *MockUnitRepository) ListActive(ctx context.Context) ([]model.OrganizationalUnit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrganizationalUnit), args.Error(1)
}

func (m *MockUnitRepository) FindByID(ctx context.Context, id string) (*model.OrganizationalUnit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrganizationalUnit), args.Error(1)
}
