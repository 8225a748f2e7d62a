package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"caseflow/internal/http/middleware"
	"caseflow/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	DocumentID string `json:"document_id,omitempty"`
	StepID     string `json:"step_id,omitempty"`
	UnitID     string `json:"unit_id,omitempty"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: middleware.RequestIDFrom(c),
		Error:     errorEnvelope{Code: code, Message: message},
	})
}

type kindMapping struct {
	status  int
	code    string
	message string
}

var kindStatus = map[service.Kind]kindMapping{
	service.KindInvalidTransition:         {fiber.StatusConflict, "INVALID_TRANSITION", "action not allowed in the current status"},
	service.KindDuplicateActiveAssignment: {fiber.StatusConflict, "DUPLICATE_ACTIVE_ASSIGNMENT", "document already has an active assignment"},
	service.KindConflict:                  {fiber.StatusConflict, "CONFLICT", "document was modified concurrently, retry"},
	service.KindEmptyQuery:                {fiber.StatusBadRequest, "EMPTY_QUERY", "at least one search criterion is required"},
	service.KindInvalidPriority:           {fiber.StatusBadRequest, "INVALID_PRIORITY", "unknown priority"},
	service.KindInvalidInput:              {fiber.StatusBadRequest, "INVALID_INPUT", "invalid input"},
	service.KindDocumentNotFound:          {fiber.StatusNotFound, "DOCUMENT_NOT_FOUND", "document not found"},
	service.KindStepNotFound:              {fiber.StatusNotFound, "STEP_NOT_FOUND", "workflow step not found"},
	service.KindUnitNotFound:              {fiber.StatusNotFound, "UNIT_NOT_FOUND", "organizational unit not found or inactive"},
	service.KindStorageUnavailable:        {fiber.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "storage unavailable, retry later"},
}

// writeServiceError maps a service error onto its status code and machine code. The offending
// ids are echoed back; the wrapped cause is not.
func writeServiceError(c *fiber.Ctx, err error) error {
	var se *service.Error
	if !errors.As(err, &se) {
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
	m, ok := kindStatus[se.Kind]
	if !ok {
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
	message := m.message
	if se.Kind == service.KindInvalidInput && se.Err != nil {
		message = se.Err.Error()
	}
	return c.Status(m.status).JSON(errorPayload{
		RequestID: middleware.RequestIDFrom(c),
		Error: errorEnvelope{
			Code:       m.code,
			Message:    message,
			DocumentID: se.DocumentID,
			StepID:     se.StepID,
			UnitID:     se.UnitID,
		},
	})
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		case fiber.StatusTooManyRequests:
			return writeError(c, status, "RATE_LIMITED", "too many requests")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
