package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caseflow/internal/model"
	"caseflow/internal/report"
)

// Scenario: a normal-priority document left open one day past its 30-day window.
func TestOverdueReport_OneDayLate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc := f.classified(t, "A", "")

	step, err := f.routing.Assign(ctx, AssignInput{DocumentID: doc.ID, UnitID: "unit-x", Priority: model.PriorityNormal})
	require.NoError(t, err)
	assert.Equal(t, day0.AddDate(0, 0, 30), step.Deadline)

	f.clock.Advance(31 * day)

	rows, err := f.reports.Overdue(ctx, ReportFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, doc.ID, rows[0].DocumentID)
	assert.Equal(t, step.ID, rows[0].StepID)
	assert.Equal(t, 1, rows[0].OverdueDays)
	assert.Equal(t, "Phòng Tiếp dân", rows[0].UnitName)

	summary, err := f.reports.Summary(ctx, ReportFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.OverdueSteps)
}

// Scenario: organizations with nothing received report a 0% completion rate.
func TestOrganizationsReport_NoDocuments(t *testing.T) {
	f := newFixture(t)

	rows, err := f.reports.Organizations(context.Background(), ReportFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2, "active units only")
	for _, r := range rows {
		assert.Zero(t, r.Received)
		assert.Zero(t, r.CompletionRate)
	}
}

func TestReports_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	complaint := f.classified(t, "A", "")
	_, err := f.routing.Assign(ctx, AssignInput{DocumentID: complaint.ID, UnitID: "unit-x"})
	require.NoError(t, err)

	petition, err := f.intake.Submit(ctx, SubmitInput{Title: "t", SubmitterName: "B", Category: model.CategoryPetition})
	require.NoError(t, err)
	_, err = f.routing.Open(ctx, petition.ID)
	require.NoError(t, err)
	_, err = f.routing.Assign(ctx, AssignInput{DocumentID: petition.ID, UnitID: "unit-y"})
	require.NoError(t, err)

	t.Run("category", func(t *testing.T) {
		s, err := f.reports.Summary(ctx, ReportFilter{Category: model.CategoryPetition})
		require.NoError(t, err)
		assert.Equal(t, 1, s.TotalDocuments)
	})

	t.Run("unit", func(t *testing.T) {
		rows, err := f.reports.Detail(ctx, ReportFilter{UnitID: "unit-y"})
		require.NoError(t, err)
		var stepRows int
		for _, r := range rows {
			if r.StepID != "" {
				stepRows++
				assert.Equal(t, "Thanh tra huyện", r.UnitName)
			}
		}
		assert.Equal(t, 1, stepRows)
	})

	t.Run("invalid category", func(t *testing.T) {
		_, err := f.reports.Summary(ctx, ReportFilter{Category: "rumor"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("dashboard", func(t *testing.T) {
		d, err := f.reports.Dashboard(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, d.TotalDocuments)
		assert.Equal(t, 2, d.Unaccepted)
	})

	t.Run("monthly", func(t *testing.T) {
		rows, err := f.reports.Monthly(ctx, ReportFilter{})
		require.NoError(t, err)
		require.Len(t, rows, 12)
		assert.Equal(t, 2, rows[0].Received)
	})
}

func TestExport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc := f.classified(t, "A", "")
	_, err := f.routing.Assign(ctx, AssignInput{DocumentID: doc.ID, UnitID: "unit-x"})
	require.NoError(t, err)

	for _, typ := range []report.Type{report.TypeSummary, report.TypeOrganizations, report.TypeMonthly, report.TypeOverdue, report.TypeDetail} {
		t.Run(string(typ), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, f.reports.Export(ctx, typ, ReportFilter{}, &buf))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")), "xlsx is a zip container")
		})
	}

	t.Run("unknown type", func(t *testing.T) {
		var buf bytes.Buffer
		err := f.reports.Export(ctx, "everything", ReportFilter{}, &buf)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Zero(t, buf.Len())
	})
}
