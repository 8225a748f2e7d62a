package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"caseflow/internal/model"
	"caseflow/internal/service"
)

// documentID validates the :id path parameter.
func documentID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func pagination(c *fiber.Ctx, defLimit int) (limit, offset int, err error) {
	limit, err = strconv.Atoi(c.Query("limit", strconv.Itoa(defLimit)))
	if err != nil {
		return 0, 0, writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
	}
	offset, err = strconv.Atoi(c.Query("offset", "0"))
	if err != nil {
		return 0, 0, writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
	}
	return limit, offset, nil
}

// SubmitDocument registers a citizen submission.
//
// @Summary Receive a new document
// @Tags documents
// @Accept json
// @Produce json
// @Param body body service.SubmitInput true "submission"
// @Success 201 {object} model.Document
// @Failure 400 {object} errorPayload
// @Router /documents [post]
func SubmitDocument(svc service.IntakeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.SubmitInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		doc, err := svc.Submit(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// ListDocuments returns a reception or processing queue.
//
// @Summary List documents
// @Tags documents
// @Produce json
// @Param status query string false "status filter"
// @Param unit_id query string false "current unit"
// @Param limit query int false "page size" default(10)
// @Param offset query int false "page offset" default(0)
// @Success 200 {object} service.DocumentListResult
// @Router /documents [get]
func ListDocuments(svc service.IntakeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, err := pagination(c, 10)
		if err != nil {
			return err
		}
		res, err := svc.List(c.UserContext(), service.QueueQuery{
			Status: model.Status(c.Query("status")),
			UnitID: c.Query("unit_id"),
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetDocument returns one document with its derived overdue flag.
//
// @Summary Get a document
// @Tags documents
// @Produce json
// @Param id path string true "document id"
// @Success 200 {object} model.Document
// @Failure 404 {object} errorPayload
// @Router /documents/{id} [get]
func GetDocument(svc service.IntakeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// OpenDocument marks the document as seen by an officer.
func OpenDocument(svc service.RoutingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := svc.Open(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// AssignDocument creates the first workflow step.
//
// @Summary Assign a document to a unit
// @Tags workflow
// @Accept json
// @Produce json
// @Param id path string true "document id"
// @Param body body service.AssignInput true "assignment"
// @Success 201 {object} model.WorkflowStep
// @Failure 409 {object} errorPayload
// @Router /documents/{id}/assign [post]
func AssignDocument(svc service.RoutingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var in service.AssignInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		in.DocumentID = id
		step, err := svc.Assign(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(step)
	}
}

// DocumentTimeline returns the audit trail of a document.
//
// @Summary Document timeline
// @Tags tracking
// @Produce json
// @Param id path string true "document id"
// @Success 200 {array} model.TimelineEntry
// @Failure 404 {object} errorPayload
// @Router /documents/{id}/timeline [get]
func DocumentTimeline(svc service.TrackingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		entries, err := svc.Timeline(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": entries})
	}
}

// UploadAttachment stores the multipart field "file" as the document's attachment.
func UploadAttachment(svc service.IntakeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		doc, err := svc.Attach(c.UserContext(), id, f, fh.Filename, ct, fh.Size)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DownloadAttachment redirects to a presigned link for the attachment.
func DownloadAttachment(svc service.IntakeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		url, err := svc.AttachmentURL(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Redirect(url, fiber.StatusFound)
	}
}

// ListUnits returns the active organizational units.
func ListUnits(svc service.DirectoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		units, err := svc.Units(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": units})
	}
}
