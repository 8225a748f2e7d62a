package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"caseflow/internal/model"
	"caseflow/internal/repository"
	"caseflow/internal/storage"
)

// ErrReaderNil is returned when an attachment upload has no body.
var ErrReaderNil = errors.New("reader is nil")

// attachmentURLExpiry bounds presigned attachment links.
const attachmentURLExpiry = 15 * time.Minute

// SubmitInput is a citizen submission as captured at the reception desk.
type SubmitInput struct {
	Title            string         `json:"title"`
	Category         model.Category `json:"category"`
	SubmitterName    string         `json:"submitter_name"`
	SubmitterPhone   string         `json:"submitter_phone"`
	SubmitterAddress string         `json:"submitter_address"`
	Excerpt          string         `json:"excerpt"`
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// QueueQuery selects a reception or processing queue.
type QueueQuery struct {
	Status model.Status
	UnitID string
	Limit  int
	Offset int
}

// IntakeService defines the use cases for receiving documents.
type IntakeService interface {
	// Submit registers a new document with a generated number in status new.
	Submit(ctx context.Context, in SubmitInput) (*model.Document, error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, id string) (*model.Document, error)

	// List returns a queue page, newest first, with a total count.
	List(ctx context.Context, q QueueQuery) (*DocumentListResult, error)

	// Attach uploads the file to object storage and records it on the document. The object
	// is removed again if the document cannot be updated.
	// - originalFilename is used only to extract the extension; the stored name is a UUID.
	Attach(ctx context.Context, documentID string, r io.Reader, originalFilename, contentType string, size int64) (*model.Document, error)

	// AttachmentURL returns a time-limited download link for the document's attachment.
	AttachmentURL(ctx context.Context, documentID string) (string, error)
}

type intakeService struct {
	*core
}

// NewIntakeService constructs a new IntakeService.
func NewIntakeService(d Deps) IntakeService {
	return &intakeService{core: newCore(d)}
}

func (s *intakeService) Submit(ctx context.Context, in SubmitInput) (*model.Document, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.SubmitterName = strings.TrimSpace(in.SubmitterName)
	in.SubmitterPhone = strings.TrimSpace(in.SubmitterPhone)
	switch {
	case in.Title == "":
		return nil, &Error{Kind: KindInvalidInput, Err: errEmpty("title")}
	case in.SubmitterName == "":
		return nil, &Error{Kind: KindInvalidInput, Err: errEmpty("submitter name")}
	case in.Category == "":
		in.Category = model.CategoryComplaint
	case !in.Category.Valid():
		return nil, invalidInput("unknown category %q", in.Category)
	}

	sctx, cancel := s.storageCtx(ctx)
	defer cancel()
	seq, err := s.Documents.NextNumber(sctx)
	if err != nil {
		return nil, classify(err, "", "")
	}

	now := s.Clock.Now()
	doc := &model.Document{
		ID:               uuid.NewString(),
		Number:           fmt.Sprintf("DT-%d-%06d", now.In(s.Location).Year(), seq),
		Title:            in.Title,
		Category:         in.Category,
		SubmitterName:    in.SubmitterName,
		SubmitterPhone:   in.SubmitterPhone,
		SubmitterAddress: strings.TrimSpace(in.SubmitterAddress),
		Excerpt:          in.Excerpt,
		Status:           model.StatusNew,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	stored, err := s.Documents.Create(sctx, doc)
	if err != nil {
		return nil, classify(err, doc.ID, "")
	}
	s.Logger.InfoContext(ctx, "document received",
		slog.String("document_id", stored.ID),
		slog.String("number", stored.Number),
		slog.String("category", string(stored.Category)),
	)
	return stored, nil
}

func (s *intakeService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, invalidInput("id is required")
	}
	doc, err := s.loadDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.decorate(doc), nil
}

func (s *intakeService) List(ctx context.Context, q QueueQuery) (*DocumentListResult, error) {
	if q.Limit <= 0 {
		q.Limit = 10
	}
	if q.Limit > maxSearchLimit {
		q.Limit = maxSearchLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	f, err := s.statusFilter(repository.Filter{}, q.Status)
	if err != nil {
		return nil, err
	}
	if q.UnitID != "" {
		f = f.Where(repository.DocFieldUnitID, repository.OpEq, q.UnitID)
	}

	sctx, cancel := s.storageCtx(ctx)
	defer cancel()
	res, err := s.Documents.List(sctx, repository.Query{
		Filter: f,
		Sort:   []repository.Sort{{Field: repository.DocFieldCreatedAt, Desc: true}},
		Limit:  q.Limit,
		Offset: q.Offset,
	})
	if err != nil {
		return nil, classify(err, "", "")
	}
	for i := range res.Items {
		s.decorate(&res.Items[i])
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *intakeService) Attach(ctx context.Context, documentID string, r io.Reader, originalFilename, contentType string, size int64) (*model.Document, error) {
	if r == nil {
		return nil, &Error{Kind: KindInvalidInput, DocumentID: documentID, Err: ErrReaderNil}
	}
	if s.Storage == nil {
		return nil, &Error{Kind: KindStorageUnavailable, DocumentID: documentID, Err: errors.New("attachment storage is not configured")}
	}
	if _, err := s.loadDocument(ctx, documentID); err != nil {
		return nil, err
	}

	release, err := s.Locker.Acquire(ctx, documentID)
	if err != nil {
		return nil, &Error{Kind: KindStorageUnavailable, DocumentID: documentID, Err: err}
	}
	defer release()

	key := path.Join("attachments", documentID, uuid.NewString()+strings.ToLower(filepath.Ext(originalFilename)))
	obj, err := s.Storage.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
			"document-id":       documentID,
		},
	})
	if err != nil {
		return nil, &Error{Kind: KindStorageUnavailable, DocumentID: documentID, Err: fmt.Errorf("upload to storage: %w", err)}
	}

	sctx, cancel := s.storageCtx(ctx)
	defer cancel()
	doc, err := s.Documents.Update(sctx, documentID, repository.DocumentPatch{AttachmentRef: &obj.Key, UpdatedAt: s.Clock.Now()})
	if err != nil {
		// Roll back the upload so no object is left without a document pointing at it.
		if delErr := s.Storage.Delete(context.WithoutCancel(ctx), obj.Key); delErr != nil {
			s.Logger.ErrorContext(ctx, "attachment rollback failed",
				slog.String("document_id", documentID),
				slog.String("key", obj.Key),
				slog.Any("error", delErr),
			)
		}
		return nil, notFound(fmt.Errorf("db save failed: %w", err), KindDocumentNotFound, documentID, "")
	}
	return s.decorate(doc), nil
}

func (s *intakeService) AttachmentURL(ctx context.Context, documentID string) (string, error) {
	doc, err := s.loadDocument(ctx, documentID)
	if err != nil {
		return "", err
	}
	if doc.AttachmentRef == "" {
		return "", &Error{Kind: KindInvalidInput, DocumentID: documentID, Err: errors.New("document has no attachment")}
	}
	if s.Storage == nil {
		return "", &Error{Kind: KindStorageUnavailable, DocumentID: documentID, Err: errors.New("attachment storage is not configured")}
	}
	url, err := s.Storage.PresignGet(ctx, doc.AttachmentRef, attachmentURLExpiry)
	if err != nil {
		return "", &Error{Kind: KindStorageUnavailable, DocumentID: documentID, Err: err}
	}
	return url, nil
}

// DirectoryService exposes the organizational unit directory.
type DirectoryService interface {
	// Units returns the active units ordered by code.
	Units(ctx context.Context) ([]model.OrganizationalUnit, error)
}

type directoryService struct {
	*core
}

// NewDirectoryService constructs a new DirectoryService.
func NewDirectoryService(d Deps) DirectoryService {
	return &directoryService{core: newCore(d)}
}

func (s *directoryService) Units(ctx context.Context) ([]model.OrganizationalUnit, error) {
	return s.activeUnits(ctx)
}
