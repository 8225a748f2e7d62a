package model

import "time"

// Priority is the SLA tier assigned to a document.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// StepState is the custody state of a single workflow step.
type StepState string

const (
	StepUnaccepted  StepState = "unaccepted"
	StepInProgress  StepState = "in_progress"
	StepTransferred StepState = "transferred"
	StepCompleted   StepState = "completed"
)

// Open reports whether a step in this state can still be acted upon.
func (s StepState) Open() bool {
	return s == StepUnaccepted || s == StepInProgress
}

// WorkflowStep binds a Document to the unit responsible for it.
// Steps are append-only: they are mutated by accept/reply/transfer/complete but never deleted.
type WorkflowStep struct {
	ID          string     `json:"id"`
	DocumentID  string     `json:"document_id"`
	FromUnitID  string     `json:"from_unit_id,omitempty"`
	ToUnitID    string     `json:"to_unit_id"`
	Seq         int        `json:"seq"` // 1-based creation order within the document
	State       StepState  `json:"state"`
	Priority    Priority   `json:"priority"`
	AssignedAt  time.Time  `json:"assigned_at"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Deadline    time.Time  `json:"deadline"`
	Notes       string     `json:"notes"`
	Reply       *string    `json:"reply,omitempty"`
	Result      *string    `json:"result,omitempty"`
	AssignedBy  string     `json:"assigned_by,omitempty"`
}

// Current reports whether s is the document's active step.
func (s WorkflowStep) Current() bool {
	return s.CompletedAt == nil && s.State != StepTransferred && s.State != StepCompleted
}

// TimelineKind labels a timeline entry.
type TimelineKind string

const (
	TimelineReceived    TimelineKind = "received"
	TimelineAssigned    TimelineKind = "assigned"
	TimelineTransferred TimelineKind = "transferred"
	TimelineCompleted   TimelineKind = "completed"
)

// TimelineEntry is one line of a document's reconstructed audit trail.
type TimelineEntry struct {
	Kind     TimelineKind `json:"kind"`
	At       time.Time    `json:"at"`
	StepID   string       `json:"step_id,omitempty"`
	State    StepState    `json:"state,omitempty"`
	UnitID   string       `json:"unit_id,omitempty"`
	UnitName string       `json:"unit_name,omitempty"`
	Notes    string       `json:"notes,omitempty"`
	Reply    *string      `json:"reply,omitempty"`
	Result   *string      `json:"result,omitempty"`
}
