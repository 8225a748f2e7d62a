package mocks

import (
	"context"
	"io"

	"caseflow/internal/model"
	"caseflow/internal/report"
	"caseflow/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockIntakeService struct {
	mock.Mock
}

func (m *MockIntakeService) Submit(ctx context.Context, in service.SubmitInput) (*model.Document, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockIntakeService) Get(ctx context.Context, id string) (*model.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockIntakeService) List(ctx context.Context, q service.QueueQuery) (*service.DocumentListResult, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

func (m *MockIntakeService) Attach(ctx context.Context, documentID string, r io.Reader, originalFilename, contentType string, size int64) (*model.Document, error) {
	args := m.Called(ctx, documentID, r, originalFilename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockIntakeService) AttachmentURL(ctx context.Context, documentID string) (string, error) {
	args := m.Called(ctx, documentID)
	return args.String(0), args.Error(1)
}

type MockRoutingService struct {
	mock.Mock
}

func (m *MockRoutingService) step(args mock.Arguments) (*model.WorkflowStep, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WorkflowStep), args.Error(1)
}

func (m *MockRoutingService) Open(ctx context.Context, documentID string) (*model.Document, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockRoutingService) Assign(ctx context.Context, in service.AssignInput) (*model.WorkflowStep, error) {
	return m.step(m.Called(ctx, in))
}

func (m *MockRoutingService) Accept(ctx context.Context, stepID string) (*model.WorkflowStep, error) {
	return m.step(m.Called(ctx, stepID))
}

func (m *MockRoutingService) Reply(ctx context.Context, stepID, content string) (*model.WorkflowStep, error) {
	return m.step(m.Called(ctx, stepID, content))
}

func (m *MockRoutingService) Transfer(ctx context.Context, in service.TransferInput) (*model.WorkflowStep, error) {
	return m.step(m.Called(ctx, in))
}

func (m *MockRoutingService) Complete(ctx context.Context, stepID, summary string) (*model.WorkflowStep, error) {
	return m.step(m.Called(ctx, stepID, summary))
}

type MockTrackingService struct {
	mock.Mock
}

func (m *MockTrackingService) Search(ctx context.Context, c service.SearchCriteria) ([]model.Document, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockTrackingService) Timeline(ctx context.Context, documentID string) ([]model.TimelineEntry, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TimelineEntry), args.Error(1)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Summary(ctx context.Context, f service.ReportFilter) (*report.Summary, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Summary), args.Error(1)
}

func (m *MockReportService) Organizations(ctx context.Context, f service.ReportFilter) ([]report.OrganizationRow, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.OrganizationRow), args.Error(1)
}

func (m *MockReportService) Monthly(ctx context.Context, f service.ReportFilter) ([]report.MonthRow, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.MonthRow), args.Error(1)
}

func (m *MockReportService) Overdue(ctx context.Context, f service.ReportFilter) ([]report.OverdueRow, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.OverdueRow), args.Error(1)
}

func (m *MockReportService) Detail(ctx context.Context, f service.ReportFilter) ([]report.DetailRow, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.DetailRow), args.Error(1)
}

func (m *MockReportService) Dashboard(ctx context.Context) (*report.Dashboard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Dashboard), args.Error(1)
}

func (m *MockReportService) Export(ctx context.Context, t report.Type, f service.ReportFilter, w io.Writer) error {
	args := m.Called(ctx, t, f, w)
	if fn, ok := args.Get(0).(func(io.Writer) error); ok {
		return fn(w)
	}
	return args.Error(0)
}

type MockDirectoryService struct {
	mock.Mock
}

func (m *MockDirectoryService) Units(ctx context.Context) ([]model.OrganizationalUnit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrganizationalUnit), args.Error(1)
}
