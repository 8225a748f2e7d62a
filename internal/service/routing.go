package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"caseflow/internal/lifecycle"
	"caseflow/internal/model"
	"caseflow/internal/notify"
	"caseflow/internal/repository"
)

// AssignInput is the request to hand a classified document to its first unit.
type AssignInput struct {
	DocumentID string         `json:"-"`
	UnitID     string         `json:"unit_id"`
	Priority   model.Priority `json:"priority"`
	Notes      string         `json:"notes"`
}

// TransferInput moves custody of a document from the unit holding stepID to TargetUnitID.
// An empty Priority keeps the priority of the step being transferred.
type TransferInput struct {
	StepID       string         `json:"-"`
	TargetUnitID string         `json:"target_unit_id"`
	Priority     model.Priority `json:"priority,omitempty"`
	Notes        string         `json:"notes"`
}

// RoutingService drives documents through the lifecycle by creating and advancing
// workflow steps. Every mutating call is serialized per document and committed as a
// single atomic write; retrying a call with the same step id is safe.
type RoutingService interface {
	// Open marks a document as seen by an officer (new -> classifying). Idempotent.
	Open(ctx context.Context, documentID string) (*model.Document, error)

	// Assign creates the first workflow step. Fails with DuplicateActiveAssignment when the
	// document already has a current step.
	Assign(ctx context.Context, in AssignInput) (*model.WorkflowStep, error)

	// Accept moves an unaccepted step to in_progress.
	Accept(ctx context.Context, stepID string) (*model.WorkflowStep, error)

	// Reply records reply content on an in_progress step.
	Reply(ctx context.Context, stepID, content string) (*model.WorkflowStep, error)

	// Transfer closes the step as transferred and returns the new step for the target unit.
	Transfer(ctx context.Context, in TransferInput) (*model.WorkflowStep, error)

	// Complete closes an in_progress step with a result summary and completes the document.
	Complete(ctx context.Context, stepID, summary string) (*model.WorkflowStep, error)
}

type routingService struct {
	*core
}

// NewRoutingService constructs a new RoutingService.
func NewRoutingService(d Deps) RoutingService {
	return &routingService{core: newCore(d)}
}

func (s *routingService) Open(ctx context.Context, documentID string) (*model.Document, error) {
	if documentID == "" {
		return nil, invalidInput("document id is required")
	}
	return mutate(ctx, s.core, lifecycle.ActionOpen, documentID, "", func(ctx context.Context) (*model.Document, error) {
		doc, err := s.loadDocument(ctx, documentID)
		if err != nil {
			return nil, err
		}
		next, _ := lifecycle.Next(doc.Status, lifecycle.ActionOpen)
		if doc.Opened && next == doc.Status {
			return s.decorate(doc), nil
		}

		opened := true
		now := s.Clock.Now()
		patch := repository.DocumentPatch{Opened: &opened, UpdatedAt: now}
		if next != doc.Status {
			patch.Status = &next
		}
		if err := s.apply(ctx, repository.Transition{DocumentID: doc.ID, ExpectVersion: doc.Version, Document: patch}); err != nil {
			return nil, err
		}
		doc.Opened = true
		doc.Status = next
		doc.UpdatedAt = now
		doc.Version++
		return s.decorate(doc), nil
	})
}

func (s *routingService) Assign(ctx context.Context, in AssignInput) (*model.WorkflowStep, error) {
	if in.DocumentID == "" {
		return nil, invalidInput("document id is required")
	}
	if in.Priority == "" {
		in.Priority = model.PriorityNormal
	}
	if _, err := s.Policy.SLA(in.Priority); err != nil {
		return nil, &Error{Kind: KindInvalidPriority, DocumentID: in.DocumentID, Err: err}
	}
	unit, err := s.activeUnit(ctx, in.UnitID)
	if err != nil {
		return nil, withDocument(err, in.DocumentID)
	}

	var receipt *notify.Message
	step, err := mutate(ctx, s.core, lifecycle.ActionAssign, in.DocumentID, "", func(ctx context.Context) (*model.WorkflowStep, error) {
		doc, err := s.loadDocument(ctx, in.DocumentID)
		if err != nil {
			return nil, err
		}
		if lifecycle.IsTerminal(doc.Status) {
			return nil, &Error{Kind: KindInvalidTransition, DocumentID: doc.ID, From: doc.Status, Action: lifecycle.ActionAssign,
				Err: errTerminal}
		}
		if current, err := s.currentStep(ctx, doc); err != nil {
			return nil, err
		} else if current != nil {
			return nil, &Error{Kind: KindDuplicateActiveAssignment, DocumentID: doc.ID, StepID: current.ID}
		}
		if _, err := lifecycle.Next(doc.Status, lifecycle.ActionAssign); err != nil {
			return nil, classify(err, doc.ID, "")
		}

		now := s.Clock.Now()
		due, err := s.Policy.Compute(now, in.Priority)
		if err != nil {
			return nil, classify(err, doc.ID, "")
		}
		step := &model.WorkflowStep{
			ID:         uuid.NewString(),
			DocumentID: doc.ID,
			ToUnitID:   unit.ID,
			Seq:        1,
			State:      model.StepUnaccepted,
			Priority:   in.Priority,
			AssignedAt: now,
			Deadline:   due,
			Notes:      in.Notes,
			AssignedBy: ActorFrom(ctx),
		}
		status := lifecycle.Project(doc.Opened, step)
		err = s.apply(ctx, repository.Transition{
			DocumentID:    doc.ID,
			ExpectVersion: doc.Version,
			NewStep:       step,
			Document: repository.DocumentPatch{
				Status:        &status,
				UnitID:        &step.ToUnitID,
				Priority:      &step.Priority,
				Deadline:      &step.Deadline,
				CurrentStepID: &step.ID,
				UpdatedAt:     now,
			},
		})
		if err != nil {
			return nil, err
		}
		if doc.SubmitterPhone != "" {
			msg := notify.Receipt(doc.ID, doc.Number, doc.SubmitterPhone, now)
			receipt = &msg
		}
		return step, nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.InfoContext(ctx, "document assigned",
		slog.String("document_id", step.DocumentID),
		slog.String("step_id", step.ID),
		slog.String("unit_id", step.ToUnitID),
		slog.String("priority", string(step.Priority)),
	)
	if receipt != nil {
		s.Notifier.Dispatch(*receipt)
	}
	return step, nil
}

func (s *routingService) Accept(ctx context.Context, stepID string) (*model.WorkflowStep, error) {
	return s.onStep(ctx, lifecycle.ActionAccept, stepID, func(ctx context.Context, doc *model.Document, step *model.WorkflowStep) (*model.WorkflowStep, error) {
		if step.State == model.StepInProgress {
			return step, nil
		}
		if step.State != model.StepUnaccepted {
			return nil, stepTransitionError(doc, step, lifecycle.ActionAccept)
		}

		now := s.Clock.Now()
		next := *step
		next.State = model.StepInProgress
		next.AcceptedAt = &now
		return s.commitStep(ctx, doc, step, &next, lifecycle.ActionAccept, repository.StepPatch{State: &next.State, AcceptedAt: &now})
	})
}

func (s *routingService) Reply(ctx context.Context, stepID, content string) (*model.WorkflowStep, error) {
	if strings.TrimSpace(content) == "" {
		return nil, &Error{Kind: KindInvalidInput, StepID: stepID, Err: errEmpty("reply content")}
	}
	return s.onStep(ctx, lifecycle.ActionReply, stepID, func(ctx context.Context, doc *model.Document, step *model.WorkflowStep) (*model.WorkflowStep, error) {
		if step.State != model.StepInProgress {
			return nil, stepTransitionError(doc, step, lifecycle.ActionReply)
		}
		if step.Reply != nil && *step.Reply == content {
			return step, nil
		}

		next := *step
		next.Reply = &content
		return s.commitStep(ctx, doc, step, &next, lifecycle.ActionReply, repository.StepPatch{Reply: &content})
	})
}

func (s *routingService) Complete(ctx context.Context, stepID, summary string) (*model.WorkflowStep, error) {
	if strings.TrimSpace(summary) == "" {
		return nil, &Error{Kind: KindInvalidInput, StepID: stepID, Err: errEmpty("result summary")}
	}
	var done *notify.Message
	step, err := s.onStep(ctx, lifecycle.ActionComplete, stepID, func(ctx context.Context, doc *model.Document, step *model.WorkflowStep) (*model.WorkflowStep, error) {
		if step.State == model.StepCompleted {
			return step, nil
		}
		if step.State != model.StepInProgress {
			return nil, stepTransitionError(doc, step, lifecycle.ActionComplete)
		}

		now := s.Clock.Now()
		next := *step
		next.State = model.StepCompleted
		next.CompletedAt = &now
		next.Result = &summary
		out, err := s.commitStep(ctx, doc, step, &next, lifecycle.ActionComplete,
			repository.StepPatch{State: &next.State, CompletedAt: &now, Result: &summary})
		if err == nil && doc.SubmitterPhone != "" {
			msg := notify.Completed(doc.ID, doc.Number, doc.SubmitterPhone, summary, now)
			done = &msg
		}
		return out, err
	})
	if err != nil {
		return nil, err
	}
	if done != nil {
		s.Notifier.Dispatch(*done)
	}
	return step, nil
}

func (s *routingService) Transfer(ctx context.Context, in TransferInput) (*model.WorkflowStep, error) {
	if in.Priority != "" {
		if _, err := s.Policy.SLA(in.Priority); err != nil {
			return nil, &Error{Kind: KindInvalidPriority, StepID: in.StepID, Err: err}
		}
	}
	if in.TargetUnitID == "" {
		return nil, &Error{Kind: KindInvalidInput, StepID: in.StepID, Err: errEmpty("target unit id")}
	}

	var moved *notify.Message
	out, err := s.onStep(ctx, lifecycle.ActionTransfer, in.StepID, func(ctx context.Context, doc *model.Document, step *model.WorkflowStep) (*model.WorkflowStep, error) {
		if step.State == model.StepTransferred {
			successor, err := s.successor(ctx, step)
			if err != nil {
				return nil, err
			}
			if successor != nil && successor.ToUnitID == in.TargetUnitID {
				return successor, nil
			}
			return nil, stepTransitionError(doc, step, lifecycle.ActionTransfer)
		}
		if !step.State.Open() {
			return nil, stepTransitionError(doc, step, lifecycle.ActionTransfer)
		}
		// Only a new step needs an active target; replays above return the committed successor.
		target, err := s.activeUnit(ctx, in.TargetUnitID)
		if err != nil {
			return nil, withDocument(err, doc.ID)
		}
		if step.ToUnitID == target.ID {
			return nil, &Error{Kind: KindInvalidInput, DocumentID: doc.ID, StepID: step.ID, UnitID: target.ID,
				Err: errSameUnit}
		}
		if _, err := lifecycle.Next(doc.Status, lifecycle.ActionTransfer); err != nil {
			return nil, classify(err, doc.ID, step.ID)
		}

		priority := step.Priority
		if in.Priority != "" {
			priority = in.Priority
		}
		now := s.Clock.Now()
		due, err := s.Policy.Compute(now, priority)
		if err != nil {
			return nil, classify(err, doc.ID, step.ID)
		}
		successor := &model.WorkflowStep{
			ID:         uuid.NewString(),
			DocumentID: doc.ID,
			FromUnitID: step.ToUnitID,
			ToUnitID:   target.ID,
			Seq:        step.Seq + 1,
			State:      model.StepUnaccepted,
			Priority:   priority,
			AssignedAt: now,
			Deadline:   due,
			Notes:      in.Notes,
			AssignedBy: ActorFrom(ctx),
		}
		transferred := model.StepTransferred
		status := lifecycle.Project(doc.Opened, successor)
		err = s.apply(ctx, repository.Transition{
			DocumentID:    doc.ID,
			ExpectVersion: doc.Version,
			StepID:        step.ID,
			ExpectState:   step.State,
			Step:          repository.StepPatch{State: &transferred},
			NewStep:       successor,
			Document: repository.DocumentPatch{
				Status:        &status,
				UnitID:        &successor.ToUnitID,
				Priority:      &successor.Priority,
				Deadline:      &successor.Deadline,
				CurrentStepID: &successor.ID,
				UpdatedAt:     now,
			},
		})
		if err != nil {
			return nil, err
		}
		if doc.SubmitterPhone != "" {
			msg := notify.Assigned(doc.ID, doc.Number, doc.SubmitterPhone, target.Name, now)
			moved = &msg
		}
		return successor, nil
	})
	if err != nil {
		return nil, err
	}
	s.Logger.InfoContext(ctx, "document transferred",
		slog.String("document_id", out.DocumentID),
		slog.String("from_unit_id", out.FromUnitID),
		slog.String("to_unit_id", out.ToUnitID),
	)
	if moved != nil {
		s.Notifier.Dispatch(*moved)
	}
	return out, nil
}

// onStep resolves the owning document of stepID and runs fn under that document's lock
// with freshly loaded copies of both.
func (s *routingService) onStep(ctx context.Context, action lifecycle.Action, stepID string,
	fn func(ctx context.Context, doc *model.Document, step *model.WorkflowStep) (*model.WorkflowStep, error)) (*model.WorkflowStep, error) {
	if stepID == "" {
		return nil, invalidInput("step id is required")
	}
	owner, err := s.loadStep(ctx, stepID)
	if err != nil {
		return nil, err
	}
	return mutate(ctx, s.core, action, owner.DocumentID, stepID, func(ctx context.Context) (*model.WorkflowStep, error) {
		step, err := s.loadStep(ctx, stepID)
		if err != nil {
			return nil, err
		}
		doc, err := s.loadDocument(ctx, step.DocumentID)
		if err != nil {
			return nil, err
		}
		return fn(ctx, doc, step)
	})
}

// commitStep writes an in-place step change together with the projected document status.
func (s *routingService) commitStep(ctx context.Context, doc *model.Document, prev, next *model.WorkflowStep,
	action lifecycle.Action, patch repository.StepPatch) (*model.WorkflowStep, error) {
	if _, err := lifecycle.Next(doc.Status, action); err != nil {
		return nil, classify(err, doc.ID, prev.ID)
	}
	status := lifecycle.Project(doc.Opened, next)
	err := s.apply(ctx, repository.Transition{
		DocumentID:    doc.ID,
		ExpectVersion: doc.Version,
		StepID:        prev.ID,
		ExpectState:   prev.State,
		Step:          patch,
		Document:      repository.DocumentPatch{Status: &status, UpdatedAt: s.Clock.Now()},
	})
	if err != nil {
		return nil, err
	}
	return next, nil
}

// currentStep returns the document's open step, or nil.
func (s *routingService) currentStep(ctx context.Context, doc *model.Document) (*model.WorkflowStep, error) {
	sctx, cancel := s.storageCtx(ctx)
	defer cancel()
	steps, err := s.Steps.List(sctx, repository.Query{
		Filter: repository.Filter{}.
			Where(repository.StepFieldDocumentID, repository.OpEq, doc.ID).
			Where(repository.StepFieldState, repository.OpIn, []string{string(model.StepUnaccepted), string(model.StepInProgress)}),
		Limit: 1,
	})
	if err != nil {
		return nil, classify(err, doc.ID, "")
	}
	if len(steps) == 0 {
		return nil, nil
	}
	return &steps[0], nil
}

// successor returns the step created when step was transferred: the next one in the
// document's sequence.
func (s *routingService) successor(ctx context.Context, step *model.WorkflowStep) (*model.WorkflowStep, error) {
	sctx, cancel := s.storageCtx(ctx)
	defer cancel()
	steps, err := s.Steps.List(sctx, repository.Query{
		Filter: repository.Filter{}.
			Where(repository.StepFieldDocumentID, repository.OpEq, step.DocumentID).
			Where(repository.StepFieldSeq, repository.OpEq, step.Seq+1),
		Limit: 1,
	})
	if err != nil {
		return nil, classify(err, step.DocumentID, step.ID)
	}
	if len(steps) == 0 {
		return nil, nil
	}
	return &steps[0], nil
}

func stepTransitionError(doc *model.Document, step *model.WorkflowStep, action lifecycle.Action) *Error {
	return &Error{
		Kind:       KindInvalidTransition,
		DocumentID: doc.ID,
		StepID:     step.ID,
		From:       doc.Status,
		Action:     action,
		Err:        errStepState(step.State),
	}
}

func withDocument(err error, documentID string) error {
	if e, ok := err.(*Error); ok && e.DocumentID == "" {
		c := *e
		c.DocumentID = documentID
		return &c
	}
	return err
}
