package model

import "time"

// Status is the lifecycle status of a complaint document.
type Status string

const (
	StatusNew         Status = "new"
	StatusClassifying Status = "classifying"
	StatusAssigned    Status = "assigned"
	StatusProcessing  Status = "processing"
	StatusReplied     Status = "replied"
	StatusCompleted   Status = "completed"
	// StatusOverdue is derived on read and never persisted.
	StatusOverdue Status = "overdue"
)

// Valid reports whether s is one of the known statuses, including the derived overdue flag.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusClassifying, StatusAssigned, StatusProcessing,
		StatusReplied, StatusCompleted, StatusOverdue:
		return true
	}
	return false
}

// Category classifies what the citizen submitted.
type Category string

const (
	CategoryComplaint    Category = "complaint"
	CategoryDenunciation Category = "denunciation"
	CategoryPetition     Category = "petition"
	CategoryFeedback     Category = "feedback"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryComplaint, CategoryDenunciation, CategoryPetition, CategoryFeedback:
		return true
	}
	return false
}

// Document is a citizen-submitted complaint/denunciation.
// This is a pure domain model with no database-specific dependencies or tags.
//
// Status is never set directly by callers: it is the projection of the current
// workflow step, written in the same atomic update as the step itself.
type Document struct {
	ID               string     `json:"id"`
	Number           string     `json:"number"`
	Title            string     `json:"title"`
	Category         Category   `json:"category"`
	SubmitterName    string     `json:"submitter_name"`
	SubmitterPhone   string     `json:"submitter_phone"`
	SubmitterAddress string     `json:"submitter_address"`
	Excerpt          string     `json:"excerpt"`
	AttachmentRef    string     `json:"attachment_ref,omitempty"`
	Status           Status     `json:"status"`
	UnitID           string     `json:"unit_id,omitempty"`
	Priority         Priority   `json:"priority,omitempty"`
	Deadline         *time.Time `json:"deadline,omitempty"`
	CurrentStepID    string     `json:"current_step_id,omitempty"`
	Opened           bool       `json:"opened"`
	Version          int64      `json:"version"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Overdue is computed on read from Deadline and the injected clock.
	Overdue bool `json:"overdue"`
}

// OrganizationalUnit is a routing target owned by the external directory.
type OrganizationalUnit struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}
