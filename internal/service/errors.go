package service

import (
	"errors"
	"fmt"
	"strings"

	"caseflow/internal/deadline"
	"caseflow/internal/lifecycle"
	"caseflow/internal/model"
	"caseflow/internal/repository"
)

// Kind classifies service errors. Callers branch on Kind (or errors.Is against the
// sentinels below) and never on storage errors.
type Kind string

const (
	KindInvalidTransition         Kind = "InvalidTransition"
	KindDuplicateActiveAssignment Kind = "DuplicateActiveAssignment"
	KindEmptyQuery                Kind = "EmptyQuery"
	KindStepNotFound              Kind = "StepNotFound"
	KindDocumentNotFound          Kind = "DocumentNotFound"
	KindUnitNotFound              Kind = "UnitNotFound"
	KindStorageUnavailable        Kind = "StorageUnavailable"
	KindInvalidPriority           Kind = "InvalidPriority"
	KindInvalidInput              Kind = "InvalidInput"
	KindConflict                  Kind = "Conflict"
)

// Error is the structured error returned by every service operation. It carries the
// offending ids so the caller can render a message without parsing strings.
type Error struct {
	Kind       Kind
	DocumentID string
	StepID     string
	UnitID     string
	// From and Action are set for InvalidTransition.
	From   model.Status
	Action lifecycle.Action
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Kind == KindInvalidTransition && e.Action != "" {
		fmt.Fprintf(&b, ": cannot %s from status %q", e.Action, e.From)
	}
	if e.DocumentID != "" {
		fmt.Fprintf(&b, " document=%s", e.DocumentID)
	}
	if e.StepID != "" {
		fmt.Fprintf(&b, " step=%s", e.StepID)
	}
	if e.UnitID != "" {
		fmt.Fprintf(&b, " unit=%s", e.UnitID)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrStepNotFound) works
// regardless of the ids attached.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidTransition         = &Error{Kind: KindInvalidTransition}
	ErrDuplicateActiveAssignment = &Error{Kind: KindDuplicateActiveAssignment}
	ErrEmptyQuery                = &Error{Kind: KindEmptyQuery}
	ErrStepNotFound              = &Error{Kind: KindStepNotFound}
	ErrDocumentNotFound          = &Error{Kind: KindDocumentNotFound}
	ErrUnitNotFound              = &Error{Kind: KindUnitNotFound}
	ErrStorageUnavailable        = &Error{Kind: KindStorageUnavailable}
	ErrInvalidPriority           = &Error{Kind: KindInvalidPriority}
	ErrInvalidInput              = &Error{Kind: KindInvalidInput}
	ErrConflict                  = &Error{Kind: KindConflict}
)

// KindOf returns the kind of err, or "" when err is not a service error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func invalidInput(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Err: fmt.Errorf(format, args...)}
}

// classify turns anything coming out of a repository or a domain package into an *Error.
// Already classified errors pass through untouched.
func classify(err error, documentID, stepID string) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	var te *lifecycle.TransitionError
	if errors.As(err, &te) {
		return &Error{Kind: KindInvalidTransition, DocumentID: documentID, StepID: stepID, From: te.From, Action: te.Action, Err: err}
	}
	switch {
	case errors.Is(err, deadline.ErrInvalidPriority):
		return &Error{Kind: KindInvalidPriority, DocumentID: documentID, StepID: stepID, Err: err}
	case errors.Is(err, repository.ErrConflict):
		return &Error{Kind: KindConflict, DocumentID: documentID, StepID: stepID, Err: err}
	case errors.Is(err, repository.ErrUnknownField):
		return &Error{Kind: KindInvalidInput, Err: err}
	}
	// Timeouts, driver and network failures.
	return &Error{Kind: KindStorageUnavailable, DocumentID: documentID, StepID: stepID, Err: err}
}

// notFound maps repository.ErrNotFound to the given kind and defers to classify otherwise.
func notFound(err error, kind Kind, documentID, stepID string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &Error{Kind: kind, DocumentID: documentID, StepID: stepID}
	}
	return classify(err, documentID, stepID)
}

var errSameUnit = errors.New("document is already held by the target unit")

var errTerminal = errors.New("document is completed")

func errEmpty(field string) error {
	return fmt.Errorf("%s is required", field)
}

func errStepState(state model.StepState) error {
	return fmt.Errorf("step is %s", state)
}
