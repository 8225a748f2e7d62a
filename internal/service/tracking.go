package service

import (
	"context"
	"strings"
	"time"

	"caseflow/internal/model"
	"caseflow/internal/repository"
)

// SearchCriteria are the citizen-facing lookup fields. Name, Phone and Number match as
// case-insensitive substrings OR-ed together; the date range and status narrow the result.
type SearchCriteria struct {
	Name   string       `query:"name"`
	Phone  string       `query:"phone"`
	Number string       `query:"number"`
	From   *time.Time   `query:"-"`
	To     *time.Time   `query:"-"`
	Status model.Status `query:"status"`
	Limit  int          `query:"limit"`
	Offset int          `query:"offset"`
}

func (c SearchCriteria) normalized() SearchCriteria {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Number = strings.TrimSpace(c.Number)
	return c
}

// Empty reports whether no criterion is set.
func (c SearchCriteria) Empty() bool {
	n := c.normalized()
	return n.Name == "" && n.Phone == "" && n.Number == "" && n.From == nil && n.To == nil && n.Status == ""
}

// TrackingService answers citizen lookups and reconstructs document history.
type TrackingService interface {
	// Search returns matching documents, newest first. No criteria at all is an EmptyQuery error.
	Search(ctx context.Context, c SearchCriteria) ([]model.Document, error)

	// Timeline returns the audit trail of a document: a received entry followed by its steps.
	Timeline(ctx context.Context, documentID string) ([]model.TimelineEntry, error)
}

type trackingService struct {
	*core
}

// NewTrackingService constructs a new TrackingService.
func NewTrackingService(d Deps) TrackingService {
	return &trackingService{core: newCore(d)}
}

func (s *trackingService) Search(ctx context.Context, c SearchCriteria) ([]model.Document, error) {
	if c.Empty() {
		return nil, ErrEmptyQuery
	}
	c = c.normalized()

	f := repository.Filter{}
	for _, m := range []struct{ field, value string }{
		{repository.DocFieldSubmitterName, c.Name},
		{repository.DocFieldSubmitterPhone, c.Phone},
		{repository.DocFieldNumber, c.Number},
	} {
		if m.value != "" {
			f.Any = append(f.Any, repository.Condition{Field: m.field, Op: repository.OpIContains, Value: m.value})
		}
	}
	if c.From != nil {
		f = f.Where(repository.DocFieldCreatedAt, repository.OpGTE, *c.From)
	}
	if c.To != nil {
		f = f.Where(repository.DocFieldCreatedAt, repository.OpLTE, *c.To)
	}
	f, err := s.statusFilter(f, c.Status)
	if err != nil {
		return nil, err
	}

	limit := c.Limit
	if limit <= 0 {
		limit = s.SearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	offset := c.Offset
	if offset < 0 {
		offset = 0
	}

	sctx, cancel := s.storageCtx(ctx)
	defer cancel()
	res, err := s.Documents.List(sctx, repository.Query{
		Filter: f,
		Sort:   []repository.Sort{{Field: repository.DocFieldCreatedAt, Desc: true}},
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, classify(err, "", "")
	}
	s.Metrics.Search()

	for i := range res.Items {
		s.decorate(&res.Items[i])
	}
	return res.Items, nil
}

// statusFilter adds a status condition. The derived overdue status becomes "open status and
// deadline passed".
func (c *core) statusFilter(f repository.Filter, status model.Status) (repository.Filter, error) {
	switch {
	case status == "":
		return f, nil
	case !status.Valid():
		return f, invalidInput("unknown status %q", status)
	case status == model.StatusOverdue:
		return f.
			Where(repository.DocFieldStatus, repository.OpIn, []string{
				string(model.StatusAssigned), string(model.StatusProcessing), string(model.StatusReplied),
			}).
			Where(repository.DocFieldDeadline, repository.OpLT, c.Clock.Now()), nil
	default:
		return f.Where(repository.DocFieldStatus, repository.OpEq, string(status)), nil
	}
}

func (s *trackingService) Timeline(ctx context.Context, documentID string) ([]model.TimelineEntry, error) {
	if documentID == "" {
		return nil, invalidInput("document id is required")
	}
	doc, err := s.loadDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	steps, err := s.documentSteps(ctx, documentID)
	if err != nil {
		return nil, err
	}
	names, err := s.unitNames(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]model.TimelineEntry, 0, len(steps)+2)
	entries = append(entries, model.TimelineEntry{Kind: model.TimelineReceived, At: doc.CreatedAt})
	for _, st := range steps {
		kind := model.TimelineAssigned
		if st.FromUnitID != "" {
			kind = model.TimelineTransferred
		}
		entries = append(entries, model.TimelineEntry{
			Kind:     kind,
			At:       st.AssignedAt,
			StepID:   st.ID,
			State:    st.State,
			UnitID:   st.ToUnitID,
			UnitName: names[st.ToUnitID],
			Notes:    st.Notes,
			Reply:    st.Reply,
			Result:   st.Result,
		})
		if st.State == model.StepCompleted && st.CompletedAt != nil {
			entries = append(entries, model.TimelineEntry{
				Kind:     model.TimelineCompleted,
				At:       *st.CompletedAt,
				StepID:   st.ID,
				State:    st.State,
				UnitID:   st.ToUnitID,
				UnitName: names[st.ToUnitID],
				Result:   st.Result,
			})
		}
	}
	return entries, nil
}

func (c *core) documentSteps(ctx context.Context, documentID string) ([]model.WorkflowStep, error) {
	sctx, cancel := c.storageCtx(ctx)
	defer cancel()
	steps, err := c.Steps.List(sctx, repository.Query{
		Filter: repository.Filter{}.Where(repository.StepFieldDocumentID, repository.OpEq, documentID),
		Sort:   []repository.Sort{{Field: repository.StepFieldSeq}},
	})
	if err != nil {
		return nil, classify(err, documentID, "")
	}
	return steps, nil
}

func (c *core) unitNames(ctx context.Context) (map[string]string, error) {
	units, err := c.activeUnits(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(units))
	for _, u := range units {
		names[u.ID] = u.Name
	}
	return names, nil
}

func (c *core) activeUnits(ctx context.Context) ([]model.OrganizationalUnit, error) {
	sctx, cancel := c.storageCtx(ctx)
	defer cancel()
	units, err := c.Units.ListActive(sctx)
	if err != nil {
		return nil, classify(err, "", "")
	}
	return units, nil
}
