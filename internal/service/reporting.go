package service

import (
	"context"
	"io"
	"time"

	"caseflow/internal/model"
	"caseflow/internal/report"
	"caseflow/internal/repository"
)

// ReportFilter narrows the snapshot a report is computed over.
type ReportFilter struct {
	From     *time.Time
	To       *time.Time
	Category model.Category
	Status   model.Status
	UnitID   string
}

func (f ReportFilter) documentScoped() bool {
	return f.From != nil || f.To != nil || f.Category != "" || f.Status != ""
}

// ReportService computes reports from a consistent read of documents and steps.
type ReportService interface {
	Summary(ctx context.Context, f ReportFilter) (*report.Summary, error)
	Organizations(ctx context.Context, f ReportFilter) ([]report.OrganizationRow, error)
	Monthly(ctx context.Context, f ReportFilter) ([]report.MonthRow, error)
	Overdue(ctx context.Context, f ReportFilter) ([]report.OverdueRow, error)
	Detail(ctx context.Context, f ReportFilter) ([]report.DetailRow, error)
	Dashboard(ctx context.Context) (*report.Dashboard, error)

	// Export renders the named report as an XLSX workbook into w.
	Export(ctx context.Context, t report.Type, f ReportFilter, w io.Writer) error
}

type reportService struct {
	*core
}

// NewReportService constructs a new ReportService.
func NewReportService(d Deps) ReportService {
	return &reportService{core: newCore(d)}
}

// snapshot loads every document and step matching f plus the unit directory.
func (s *reportService) snapshot(ctx context.Context, f ReportFilter) (report.Input, error) {
	in := report.Input{Now: s.Clock.Now(), Location: s.Location}

	df := repository.Filter{}
	if f.From != nil {
		df = df.Where(repository.DocFieldCreatedAt, repository.OpGTE, *f.From)
	}
	if f.To != nil {
		df = df.Where(repository.DocFieldCreatedAt, repository.OpLTE, *f.To)
	}
	if f.Category != "" {
		if !f.Category.Valid() {
			return in, invalidInput("unknown category %q", f.Category)
		}
		df = df.Where(repository.DocFieldCategory, repository.OpEq, string(f.Category))
	}
	df, err := s.statusFilter(df, f.Status)
	if err != nil {
		return in, err
	}

	sctx, cancel := s.storageCtx(ctx)
	defer cancel()

	docs, err := s.Documents.List(sctx, repository.Query{Filter: df})
	if err != nil {
		return in, classify(err, "", "")
	}
	in.Documents = docs.Items

	sf := repository.Filter{}
	if f.UnitID != "" {
		sf = sf.Where(repository.StepFieldToUnitID, repository.OpEq, f.UnitID)
	}
	if f.documentScoped() {
		ids := make([]string, 0, len(in.Documents))
		for _, d := range in.Documents {
			ids = append(ids, d.ID)
		}
		sf = sf.Where(repository.StepFieldDocumentID, repository.OpIn, ids)
	}
	steps, err := s.Steps.List(sctx, repository.Query{Filter: sf})
	if err != nil {
		return in, classify(err, "", "")
	}
	in.Steps = steps

	units, err := s.Units.ListActive(sctx)
	if err != nil {
		return in, classify(err, "", "")
	}
	in.Units = units
	return in, nil
}

func (s *reportService) Summary(ctx context.Context, f ReportFilter) (*report.Summary, error) {
	in, err := s.snapshot(ctx, f)
	if err != nil {
		return nil, err
	}
	s.Metrics.Report(string(report.TypeSummary))
	out := report.ComputeSummary(in)
	return &out, nil
}

func (s *reportService) Organizations(ctx context.Context, f ReportFilter) ([]report.OrganizationRow, error) {
	in, err := s.snapshot(ctx, f)
	if err != nil {
		return nil, err
	}
	s.Metrics.Report(string(report.TypeOrganizations))
	return report.ComputeOrganizations(in), nil
}

func (s *reportService) Monthly(ctx context.Context, f ReportFilter) ([]report.MonthRow, error) {
	in, err := s.snapshot(ctx, f)
	if err != nil {
		return nil, err
	}
	s.Metrics.Report(string(report.TypeMonthly))
	return report.ComputeMonthly(in), nil
}

func (s *reportService) Overdue(ctx context.Context, f ReportFilter) ([]report.OverdueRow, error) {
	in, err := s.snapshot(ctx, f)
	if err != nil {
		return nil, err
	}
	s.Metrics.Report(string(report.TypeOverdue))
	return report.ComputeOverdue(in), nil
}

func (s *reportService) Detail(ctx context.Context, f ReportFilter) ([]report.DetailRow, error) {
	in, err := s.snapshot(ctx, f)
	if err != nil {
		return nil, err
	}
	s.Metrics.Report(string(report.TypeDetail))
	return report.ComputeDetail(in), nil
}

func (s *reportService) Dashboard(ctx context.Context) (*report.Dashboard, error) {
	in, err := s.snapshot(ctx, ReportFilter{})
	if err != nil {
		return nil, err
	}
	out := report.ComputeDashboard(in)
	return &out, nil
}

func (s *reportService) Export(ctx context.Context, t report.Type, f ReportFilter, w io.Writer) error {
	if !t.Valid() {
		return invalidInput("unknown report type %q", t)
	}
	in, err := s.snapshot(ctx, f)
	if err != nil {
		return err
	}
	s.Metrics.Report(string(t))

	var table report.Table
	switch t {
	case report.TypeSummary:
		table = report.SummaryTable(report.ComputeSummary(in), s.Location)
	case report.TypeOrganizations:
		table = report.OrganizationsTable(report.ComputeOrganizations(in))
	case report.TypeMonthly:
		table = report.MonthlyTable(report.ComputeMonthly(in))
	case report.TypeOverdue:
		table = report.OverdueTable(report.ComputeOverdue(in), s.Location)
	case report.TypeDetail:
		table = report.DetailTable(report.ComputeDetail(in), s.Location)
	}
	return report.WriteXLSX(w, table)
}
