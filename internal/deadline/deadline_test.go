package deadline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caseflow/internal/model"
)

func TestPolicy_Compute(t *testing.T) {
	p := DefaultPolicy()
	t0 := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		priority model.Priority
		want     time.Time
		wantErr  bool
	}{
		{name: "urgent", priority: model.PriorityUrgent, want: t0.AddDate(0, 0, 15)},
		{name: "normal", priority: model.PriorityNormal, want: t0.AddDate(0, 0, 30)},
		{name: "low", priority: model.PriorityLow, want: t0.AddDate(0, 0, 60)},
		{name: "unknown priority", priority: "critical", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Compute(t0, tt.priority)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPriority)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeadlineRoundTrip(t *testing.T) {
	p := DefaultPolicy()
	t0 := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	for _, pr := range []model.Priority{model.PriorityUrgent, model.PriorityNormal, model.PriorityLow} {
		d, err := p.Compute(t0, pr)
		require.NoError(t, err)
		sla, err := p.SLA(pr)
		require.NoError(t, err)

		assert.False(t, IsOverdue(d, t0), "fresh deadline must not be overdue for %s", pr)
		assert.True(t, IsOverdue(d, t0.AddDate(0, 0, sla+1)), "one day past SLA must be overdue for %s", pr)
	}
}

func TestIsOverdue_Boundary(t *testing.T) {
	d := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	assert.False(t, IsOverdue(d, d))
	assert.True(t, IsOverdue(d, d.Add(time.Nanosecond)))
}

func TestOverdueDays(t *testing.T) {
	d := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, OverdueDays(d, d.Add(-48*time.Hour)))
	assert.Equal(t, 0, OverdueDays(d, d.Add(23*time.Hour)))
	assert.Equal(t, 1, OverdueDays(d, d.Add(24*time.Hour)))
	assert.Equal(t, 1, OverdueDays(d, d.Add(47*time.Hour)))
	assert.Equal(t, 3, OverdueDays(d, d.AddDate(0, 0, 3)))
}

func TestLoadPolicy(t *testing.T) {
	dir := t.TempDir()

	t.Run("partial override keeps base values", func(t *testing.T) {
		path := filepath.Join(dir, "sla.yaml")
		require.NoError(t, os.WriteFile(path, []byte("sla_days:\n  urgent: 7\n"), 0o600))

		p, err := LoadPolicy(path, DefaultPolicy())
		require.NoError(t, err)
		assert.Equal(t, Policy{UrgentDays: 7, NormalDays: 30, LowDays: 60}, p)
	})

	t.Run("non-positive window rejected", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("sla_days:\n  low: 0\n"), 0o600))

		_, err := LoadPolicy(path, DefaultPolicy())
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadPolicy(filepath.Join(dir, "missing.yaml"), DefaultPolicy())
		assert.Error(t, err)
	})
}
