package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"caseflow/internal/clock"
	"caseflow/internal/deadline"
	"caseflow/internal/lifecycle"
	"caseflow/internal/lock"
	"caseflow/internal/metrics"
	"caseflow/internal/model"
	"caseflow/internal/notify"
	"caseflow/internal/repository"
	"caseflow/internal/storage"
)

const (
	defaultStorageTimeout = 5 * time.Second
	defaultSearchLimit    = 50
	maxSearchLimit        = 200
	// maxAttempts bounds re-read/retry after an optimistic version conflict.
	maxAttempts = 3
)

// Deps wires the collaborators shared by all services. Storage, Notifier and Metrics
// are optional.
type Deps struct {
	Documents   repository.DocumentRepository
	Steps       repository.StepRepository
	Transitions repository.TransitionRepository
	Units       repository.UnitRepository

	Storage  storage.Storage
	Locker   lock.Locker
	Clock    clock.Clock
	Policy   deadline.Policy
	Notifier *notify.Dispatcher
	Metrics  *metrics.Workflow
	Logger   *slog.Logger

	StorageTimeout time.Duration
	SearchLimit    int
	Location       *time.Location
}

type core struct {
	Deps
	tracer trace.Tracer
}

func newCore(d Deps) *core {
	if d.Locker == nil {
		d.Locker = lock.NewLocal()
	}
	if d.Clock == nil {
		d.Clock = clock.System{}
	}
	if d.Policy == (deadline.Policy{}) {
		d.Policy = deadline.DefaultPolicy()
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.StorageTimeout <= 0 {
		d.StorageTimeout = defaultStorageTimeout
	}
	if d.SearchLimit <= 0 {
		d.SearchLimit = defaultSearchLimit
	}
	if d.Location == nil {
		d.Location = time.UTC
	}
	return &core{Deps: d, tracer: otel.Tracer("caseflow/service")}
}

// storageCtx bounds a single storage call.
func (c *core) storageCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.StorageTimeout)
}

func (c *core) loadDocument(ctx context.Context, id string) (*model.Document, error) {
	sctx, cancel := c.storageCtx(ctx)
	defer cancel()
	d, err := c.Documents.FindByID(sctx, id)
	if err != nil {
		return nil, notFound(err, KindDocumentNotFound, id, "")
	}
	return d, nil
}

func (c *core) loadStep(ctx context.Context, id string) (*model.WorkflowStep, error) {
	sctx, cancel := c.storageCtx(ctx)
	defer cancel()
	s, err := c.Steps.FindByID(sctx, id)
	if err != nil {
		return nil, notFound(err, KindStepNotFound, "", id)
	}
	return s, nil
}

// activeUnit returns the unit if it exists and is active.
func (c *core) activeUnit(ctx context.Context, id string) (*model.OrganizationalUnit, error) {
	if id == "" {
		return nil, invalidInput("unit id is required")
	}
	sctx, cancel := c.storageCtx(ctx)
	defer cancel()
	u, err := c.Units.FindByID(sctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &Error{Kind: KindUnitNotFound, UnitID: id}
	}
	if err != nil {
		return nil, classify(err, "", "")
	}
	if !u.Active {
		return nil, &Error{Kind: KindUnitNotFound, UnitID: id, Err: errors.New("unit is inactive")}
	}
	return u, nil
}

func (c *core) apply(ctx context.Context, t repository.Transition) error {
	sctx, cancel := c.storageCtx(ctx)
	defer cancel()
	return c.Transitions.Apply(sctx, t)
}

func (c *core) decorate(d *model.Document) *model.Document {
	if d != nil {
		d.Overdue = lifecycle.IsOverdue(*d, c.Clock.Now())
	}
	return d
}

// mutate runs fn under the per-document lock, retrying when the storage layer reports a
// version conflict. fn must re-read everything it depends on, since a retry means another
// writer got there first.
func mutate[T any](ctx context.Context, c *core, action lifecycle.Action, documentID, stepID string,
	fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	ctx, span := c.tracer.Start(ctx, "workflow."+string(action), trace.WithAttributes(
		attribute.String("document.id", documentID),
		attribute.String("step.id", stepID),
	))
	defer span.End()

	release, err := c.Locker.Acquire(ctx, documentID)
	if err != nil {
		err = &Error{Kind: KindStorageUnavailable, DocumentID: documentID, StepID: stepID, Err: err}
		c.finish(span, action, err)
		return zero, err
	}
	defer release()

	for attempt := 1; ; attempt++ {
		out, err := fn(ctx)
		if err == nil {
			c.finish(span, action, nil)
			return out, nil
		}
		if !errors.Is(err, repository.ErrConflict) || KindOf(err) != "" {
			err = classify(err, documentID, stepID)
			c.finish(span, action, err)
			return zero, err
		}
		if attempt == maxAttempts {
			err = &Error{Kind: KindConflict, DocumentID: documentID, StepID: stepID, Err: err}
			c.finish(span, action, err)
			return zero, err
		}
		c.Logger.DebugContext(ctx, "transition conflict, retrying",
			slog.String("action", string(action)),
			slog.String("document_id", documentID),
			slog.Int("attempt", attempt),
		)
	}
}

func (c *core) finish(span trace.Span, action lifecycle.Action, err error) {
	outcome := metrics.OutcomeOK
	switch KindOf(err) {
	case "":
	case KindConflict:
		outcome = metrics.OutcomeConflict
	case KindStorageUnavailable:
		outcome = metrics.OutcomeError
	default:
		outcome = metrics.OutcomeRejected
	}
	c.Metrics.Transition(string(action), outcome)

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("error.kind", string(KindOf(err))))
		if outcome == metrics.OutcomeError {
			c.Logger.Error("transition failed",
				slog.String("action", string(action)),
				slog.Any("error", err),
			)
		}
	}
}

type actorKey struct{}

// WithActor returns a context carrying the id of the officer performing the request.
func WithActor(ctx context.Context, officerID string) context.Context {
	return context.WithValue(ctx, actorKey{}, officerID)
}

// ActorFrom returns the officer id stored by WithActor, or "".
func ActorFrom(ctx context.Context) string {
	id, _ := ctx.Value(actorKey{}).(string)
	return id
}
