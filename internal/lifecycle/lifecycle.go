// Package lifecycle governs the legal statuses of a complaint document.
//
// The persisted document status is a projection of its latest workflow step (see Project);
// Next validates a requested action against the current status before anything is written.
package lifecycle

import (
	"fmt"
	"time"

	"caseflow/internal/deadline"
	"caseflow/internal/model"
)

// Action is an officer action that may move a document between statuses.
type Action string

const (
	ActionOpen     Action = "open"
	ActionAssign   Action = "assign"
	ActionAccept   Action = "accept"
	ActionReply    Action = "reply"
	ActionTransfer Action = "transfer"
	ActionComplete Action = "complete"
)

// TransitionError reports an action that is illegal from the current status.
type TransitionError struct {
	From   model.Status
	Action Action
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s a document in status %q", e.Action, e.From)
}

var transitions = map[Action]map[model.Status]model.Status{
	ActionAssign: {
		model.StatusClassifying: model.StatusAssigned,
	},
	ActionAccept: {
		model.StatusAssigned: model.StatusProcessing,
	},
	ActionReply: {
		model.StatusProcessing: model.StatusReplied,
		model.StatusReplied:    model.StatusReplied,
	},
	ActionTransfer: {
		model.StatusAssigned:   model.StatusAssigned,
		model.StatusProcessing: model.StatusAssigned,
		model.StatusReplied:    model.StatusAssigned,
	},
	ActionComplete: {
		model.StatusProcessing: model.StatusCompleted,
		model.StatusReplied:    model.StatusCompleted,
	},
}

// Next returns the status reached by applying a to a document in status from.
// Opening is idempotent: it only moves new documents and leaves every other status as is.
func Next(from model.Status, a Action) (model.Status, error) {
	if a == ActionOpen {
		if from == model.StatusNew {
			return model.StatusClassifying, nil
		}
		return from, nil
	}
	to, ok := transitions[a][from]
	if !ok {
		return from, &TransitionError{From: from, Action: a}
	}
	return to, nil
}

// IsTerminal reports whether no further transitions are possible.
func IsTerminal(s model.Status) bool {
	return s == model.StatusCompleted
}

// Project computes the document status from its latest workflow step.
// Before any step exists the status is new, or classifying once an officer opened it.
func Project(opened bool, latest *model.WorkflowStep) model.Status {
	if latest == nil {
		if opened {
			return model.StatusClassifying
		}
		return model.StatusNew
	}
	switch latest.State {
	case model.StepInProgress:
		if latest.Reply != nil {
			return model.StatusReplied
		}
		return model.StatusProcessing
	case model.StepCompleted:
		return model.StatusCompleted
	default:
		return model.StatusAssigned
	}
}

// OverdueApplies reports whether the derived overdue flag can apply to s.
func OverdueApplies(s model.Status) bool {
	return s == model.StatusAssigned || s == model.StatusProcessing || s == model.StatusReplied
}

// Effective returns the status shown to readers: overdue replaces assigned, processing
// and replied once the processing deadline has passed.
func Effective(doc model.Document, now time.Time) model.Status {
	if IsOverdue(doc, now) {
		return model.StatusOverdue
	}
	return doc.Status
}

// IsOverdue reports whether doc is past its processing deadline in a non-terminal status.
func IsOverdue(doc model.Document, now time.Time) bool {
	return OverdueApplies(doc.Status) && doc.Deadline != nil && deadline.IsOverdue(*doc.Deadline, now)
}
