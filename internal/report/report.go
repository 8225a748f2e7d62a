// Package report computes read-side aggregates over a snapshot of documents and
// workflow steps. Every function is pure: the same Input always yields the same output.
package report

import (
	"math"
	"sort"
	"time"

	"caseflow/internal/deadline"
	"caseflow/internal/lifecycle"
	"caseflow/internal/model"
)

// Type names a report.
type Type string

const (
	TypeSummary       Type = "summary"
	TypeOrganizations Type = "organizations"
	TypeMonthly       Type = "monthly"
	TypeOverdue       Type = "overdue"
	TypeDetail        Type = "detail"
)

// Valid reports whether t is a known report type.
func (t Type) Valid() bool {
	switch t {
	case TypeSummary, TypeOrganizations, TypeMonthly, TypeOverdue, TypeDetail:
		return true
	}
	return false
}

// Unassigned labels rows without a responsible unit.
const Unassigned = "Chưa phân công"

const day = 24 * time.Hour

// Input is the snapshot a report is computed over.
type Input struct {
	Documents []model.Document
	Steps     []model.WorkflowStep
	// Units is the organizational directory, used for names and for listing
	// units that received nothing.
	Units []model.OrganizationalUnit
	Now   time.Time
	// Location decides month boundaries; nil means UTC.
	Location *time.Location
}

func (in Input) loc() *time.Location {
	if in.Location == nil {
		return time.UTC
	}
	return in.Location
}

type unitIndex map[string]model.OrganizationalUnit

func (in Input) units() unitIndex {
	idx := make(unitIndex, len(in.Units))
	for _, u := range in.Units {
		idx[u.ID] = u
	}
	return idx
}

func (idx unitIndex) name(id string) string {
	if id == "" {
		return Unassigned
	}
	if u, ok := idx[id]; ok {
		return u.Name
	}
	return id
}

func (idx unitIndex) code(id string) string {
	if u, ok := idx[id]; ok {
		return u.Code
	}
	return "-"
}

// stepOverdue is the overdue predicate shared by every report: an open step past its deadline.
func stepOverdue(s model.WorkflowStep, now time.Time) bool {
	return s.State.Open() && deadline.IsOverdue(s.Deadline, now)
}

// processingDays is the whole-day length of a processed step, rounded up.
func processingDays(from, to time.Time) int {
	return int(math.Ceil(to.Sub(from).Hours() / 24))
}

// rate returns part/total as a rounded percentage, 0 when total is 0.
func rate(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}

// Summary holds the headline KPIs plus one row per document.
type Summary struct {
	TotalDocuments        int                  `json:"total_documents"`
	ByStatus              map[model.Status]int `json:"by_status"`
	ProcessingSteps       int                  `json:"processing_steps"`
	CompletedSteps        int                  `json:"completed_steps"`
	OverdueSteps          int                  `json:"overdue_steps"`
	AverageProcessingDays int                  `json:"average_processing_days"`
	Rows                  []SummaryRow         `json:"rows"`
}

type SummaryRow struct {
	DocumentID    string         `json:"document_id"`
	Number        string         `json:"number"`
	Title         string         `json:"title"`
	SubmitterName string         `json:"submitter_name"`
	Address       string         `json:"address"`
	Category      model.Category `json:"category"`
	Status        model.Status   `json:"status"`
	UnitName      string         `json:"unit_name"`
	CreatedAt     time.Time      `json:"created_at"`
	Deadline      *time.Time     `json:"deadline,omitempty"`
}

// ComputeSummary counts documents by persisted status, open steps past their deadline,
// and the mean processing time of completed steps (acceptance to completion).
func ComputeSummary(in Input) Summary {
	units := in.units()
	s := Summary{
		TotalDocuments: len(in.Documents),
		ByStatus:       make(map[model.Status]int),
		Rows:           make([]SummaryRow, 0, len(in.Documents)),
	}
	for _, d := range in.Documents {
		s.ByStatus[d.Status]++
	}

	var totalDays, processed int
	for _, st := range in.Steps {
		switch st.State {
		case model.StepInProgress:
			s.ProcessingSteps++
		case model.StepCompleted:
			s.CompletedSteps++
			if st.AcceptedAt != nil && st.CompletedAt != nil {
				totalDays += processingDays(*st.AcceptedAt, *st.CompletedAt)
				processed++
			}
		}
		if stepOverdue(st, in.Now) {
			s.OverdueSteps++
		}
	}
	if processed > 0 {
		s.AverageProcessingDays = int(math.Round(float64(totalDays) / float64(processed)))
	}

	for _, d := range newestDocuments(in.Documents) {
		s.Rows = append(s.Rows, SummaryRow{
			DocumentID:    d.ID,
			Number:        d.Number,
			Title:         d.Title,
			SubmitterName: d.SubmitterName,
			Address:       d.SubmitterAddress,
			Category:      d.Category,
			Status:        lifecycle.Effective(d, in.Now),
			UnitName:      units.name(d.UnitID),
			CreatedAt:     d.CreatedAt,
			Deadline:      d.Deadline,
		})
	}
	return s
}

// OrganizationRow aggregates the steps received by one unit.
type OrganizationRow struct {
	UnitID         string `json:"unit_id"`
	Code           string `json:"code"`
	Name           string `json:"name"`
	Received       int    `json:"received"`
	InProgress     int    `json:"in_progress"`
	Completed      int    `json:"completed"`
	Overdue        int    `json:"overdue"`
	CompletionRate int    `json:"completion_rate"`
}

// ComputeOrganizations groups steps by receiving unit in order of first encounter, then
// appends every active directory unit that received nothing.
func ComputeOrganizations(in Input) []OrganizationRow {
	units := in.units()
	rows := make([]OrganizationRow, 0)
	pos := make(map[string]int)

	for _, st := range in.Steps {
		i, ok := pos[st.ToUnitID]
		if !ok {
			i = len(rows)
			pos[st.ToUnitID] = i
			rows = append(rows, OrganizationRow{
				UnitID: st.ToUnitID,
				Code:   units.code(st.ToUnitID),
				Name:   units.name(st.ToUnitID),
			})
		}
		r := &rows[i]
		r.Received++
		switch st.State {
		case model.StepCompleted:
			r.Completed++
		case model.StepInProgress:
			r.InProgress++
		}
		if stepOverdue(st, in.Now) {
			r.Overdue++
		}
	}

	for _, u := range in.Units {
		if _, ok := pos[u.ID]; ok || !u.Active {
			continue
		}
		pos[u.ID] = len(rows)
		rows = append(rows, OrganizationRow{UnitID: u.ID, Code: u.Code, Name: u.Name})
	}

	for i := range rows {
		rows[i].CompletionRate = rate(rows[i].Completed, rows[i].Received)
	}
	return rows
}

// MonthRow is one bucket of the monthly performance report.
type MonthRow struct {
	Month          string    `json:"month"`
	Start          time.Time `json:"start"`
	Received       int       `json:"received"`
	Completed      int       `json:"completed"`
	Overdue        int       `json:"overdue"`
	CompletionRate int       `json:"completion_rate"`
}

// ComputeMonthly buckets the trailing twelve months ending at the month of Now, newest
// first. Documents count by creation month, steps by assignment month.
func ComputeMonthly(in Input) []MonthRow {
	loc := in.loc()
	now := in.Now.In(loc)
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)

	rows := make([]MonthRow, 12)
	index := make(map[[2]int]int, 12)
	for i := 0; i < 12; i++ {
		start := current.AddDate(0, -i, 0)
		rows[i] = MonthRow{Month: start.Format("01/2006"), Start: start}
		index[[2]int{start.Year(), int(start.Month())}] = i
	}
	bucket := func(t time.Time) (int, bool) {
		t = t.In(loc)
		i, ok := index[[2]int{t.Year(), int(t.Month())}]
		return i, ok
	}

	for _, d := range in.Documents {
		if i, ok := bucket(d.CreatedAt); ok {
			rows[i].Received++
		}
	}
	for _, st := range in.Steps {
		i, ok := bucket(st.AssignedAt)
		if !ok {
			continue
		}
		if st.State == model.StepCompleted {
			rows[i].Completed++
		}
		if stepOverdue(st, in.Now) {
			rows[i].Overdue++
		}
	}
	for i := range rows {
		rows[i].CompletionRate = rate(rows[i].Completed, rows[i].Received)
	}
	return rows
}

// OverdueRow is one open step past its deadline.
type OverdueRow struct {
	DocumentID    string          `json:"document_id"`
	Number        string          `json:"number"`
	Title         string          `json:"title"`
	SubmitterName string          `json:"submitter_name"`
	StepID        string          `json:"step_id"`
	UnitName      string          `json:"unit_name"`
	State         model.StepState `json:"state"`
	AssignedAt    time.Time       `json:"assigned_at"`
	Deadline      time.Time       `json:"deadline"`
	OverdueDays   int             `json:"overdue_days"`
}

// ComputeOverdue lists open overdue steps, most recently assigned first.
func ComputeOverdue(in Input) []OverdueRow {
	units := in.units()
	docs := make(map[string]model.Document, len(in.Documents))
	for _, d := range in.Documents {
		docs[d.ID] = d
	}

	rows := make([]OverdueRow, 0)
	for _, st := range in.Steps {
		if !stepOverdue(st, in.Now) {
			continue
		}
		d := docs[st.DocumentID]
		rows = append(rows, OverdueRow{
			DocumentID:    st.DocumentID,
			Number:        orDash(d.Number),
			Title:         orDash(d.Title),
			SubmitterName: orDash(d.SubmitterName),
			StepID:        st.ID,
			UnitName:      units.name(st.ToUnitID),
			State:         st.State,
			AssignedAt:    st.AssignedAt,
			Deadline:      st.Deadline,
			OverdueDays:   deadline.OverdueDays(st.Deadline, in.Now),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].AssignedAt.Equal(rows[j].AssignedAt) {
			return rows[i].AssignedAt.After(rows[j].AssignedAt)
		}
		return rows[i].StepID > rows[j].StepID
	})
	return rows
}

// DetailRow is one (document, step) pair; documents without steps get a single row.
type DetailRow struct {
	DocumentID     string     `json:"document_id"`
	Number         string     `json:"number"`
	Title          string     `json:"title"`
	SubmitterName  string     `json:"submitter_name"`
	Address        string     `json:"address"`
	StepID         string     `json:"step_id,omitempty"`
	UnitName       string     `json:"unit_name"`
	State          string     `json:"state"`
	AcceptedAt     *time.Time `json:"accepted_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	ProcessingDays *int       `json:"processing_days,omitempty"`
}

// ComputeDetail lists documents newest first, each followed by its steps in assignment order.
func ComputeDetail(in Input) []DetailRow {
	units := in.units()
	byDoc := make(map[string][]model.WorkflowStep)
	for _, st := range in.Steps {
		byDoc[st.DocumentID] = append(byDoc[st.DocumentID], st)
	}

	rows := make([]DetailRow, 0, len(in.Documents))
	for _, d := range newestDocuments(in.Documents) {
		steps := byDoc[d.ID]
		if len(steps) == 0 {
			rows = append(rows, DetailRow{
				DocumentID:    d.ID,
				Number:        d.Number,
				Title:         d.Title,
				SubmitterName: d.SubmitterName,
				Address:       d.SubmitterAddress,
				UnitName:      Unassigned,
				State:         string(lifecycle.Effective(d, in.Now)),
			})
			continue
		}
		sort.SliceStable(steps, func(i, j int) bool {
			if steps[i].Seq != steps[j].Seq {
				return steps[i].Seq < steps[j].Seq
			}
			return steps[i].AssignedAt.Before(steps[j].AssignedAt)
		})
		for _, st := range steps {
			r := DetailRow{
				DocumentID:    d.ID,
				Number:        d.Number,
				Title:         d.Title,
				SubmitterName: d.SubmitterName,
				Address:       d.SubmitterAddress,
				StepID:        st.ID,
				UnitName:      units.name(st.ToUnitID),
				State:         string(st.State),
				AcceptedAt:    st.AcceptedAt,
				CompletedAt:   st.CompletedAt,
			}
			if st.AcceptedAt != nil && st.CompletedAt != nil {
				n := processingDays(*st.AcceptedAt, *st.CompletedAt)
				r.ProcessingDays = &n
			}
			rows = append(rows, r)
		}
	}
	return rows
}

// Dashboard is the landing-page overview.
type Dashboard struct {
	TotalDocuments int              `json:"total_documents"`
	Unaccepted     int              `json:"unaccepted"`
	InProgress     int              `json:"in_progress"`
	Completed      int              `json:"completed"`
	Overdue        int              `json:"overdue"`
	Recent         []model.Document `json:"recent"`
}

// RecentLimit is the number of documents shown on the dashboard.
const RecentLimit = 5

// ComputeDashboard counts steps by state and picks the most recent documents.
func ComputeDashboard(in Input) Dashboard {
	d := Dashboard{TotalDocuments: len(in.Documents)}
	for _, st := range in.Steps {
		switch st.State {
		case model.StepUnaccepted:
			d.Unaccepted++
		case model.StepInProgress:
			d.InProgress++
		case model.StepCompleted:
			d.Completed++
		}
		if stepOverdue(st, in.Now) {
			d.Overdue++
		}
	}
	recent := newestDocuments(in.Documents)
	if len(recent) > RecentLimit {
		recent = recent[:RecentLimit]
	}
	for i := range recent {
		recent[i].Overdue = lifecycle.IsOverdue(recent[i], in.Now)
	}
	d.Recent = recent
	return d
}

// newestDocuments returns a copy of docs ordered by creation time, newest first.
func newestDocuments(docs []model.Document) []model.Document {
	out := append([]model.Document(nil), docs...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
