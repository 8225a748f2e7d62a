// Package metrics holds the workflow-level Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for transition attempts.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

// Workflow counts transition attempts and search/report calls.
type Workflow struct {
	transitions *prometheus.CounterVec
	searches    prometheus.Counter
	reports     *prometheus.CounterVec
}

// NewWorkflow registers the workflow collectors on reg.
func NewWorkflow(reg prometheus.Registerer) (*Workflow, error) {
	w := &Workflow{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caseflow_transitions_total",
				Help: "Workflow transition attempts by action and outcome.",
			},
			[]string{"action", "outcome"},
		),
		searches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "caseflow_searches_total",
			Help: "Document searches executed.",
		}),
		reports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caseflow_reports_total",
				Help: "Reports generated by type.",
			},
			[]string{"type"},
		),
	}
	for _, c := range []prometheus.Collector{w.transitions, w.searches, w.reports} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Transition records one transition attempt. Safe on a nil receiver.
func (w *Workflow) Transition(action, outcome string) {
	if w == nil {
		return
	}
	w.transitions.WithLabelValues(action, outcome).Inc()
}

// Search records one search. Safe on a nil receiver.
func (w *Workflow) Search() {
	if w == nil {
		return
	}
	w.searches.Inc()
}

// Report records one generated report. Safe on a nil receiver.
func (w *Workflow) Report(kind string) {
	if w == nil {
		return
	}
	w.reports.WithLabelValues(kind).Inc()
}
