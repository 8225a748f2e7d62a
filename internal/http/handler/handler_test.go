package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"caseflow/internal/model"
	"caseflow/internal/report"
	"caseflow/internal/service"
	serviceMocks "caseflow/internal/service/mocks"
)

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeError(t *testing.T, r io.Reader) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(r).Decode(&body))
	return body
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("no database", func(t *testing.T) {
		app := fiber.New()
		app.Get("/health", HealthCheck(nil))
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid transition", &service.Error{Kind: service.KindInvalidTransition, DocumentID: "d1"}, http.StatusConflict, "INVALID_TRANSITION"},
		{"duplicate assignment", &service.Error{Kind: service.KindDuplicateActiveAssignment}, http.StatusConflict, "DUPLICATE_ACTIVE_ASSIGNMENT"},
		{"conflict", &service.Error{Kind: service.KindConflict}, http.StatusConflict, "CONFLICT"},
		{"empty query", service.ErrEmptyQuery, http.StatusBadRequest, "EMPTY_QUERY"},
		{"invalid priority", &service.Error{Kind: service.KindInvalidPriority}, http.StatusBadRequest, "INVALID_PRIORITY"},
		{"document not found", &service.Error{Kind: service.KindDocumentNotFound}, http.StatusNotFound, "DOCUMENT_NOT_FOUND"},
		{"step not found", &service.Error{Kind: service.KindStepNotFound}, http.StatusNotFound, "STEP_NOT_FOUND"},
		{"unit not found", &service.Error{Kind: service.KindUnitNotFound}, http.StatusNotFound, "UNIT_NOT_FOUND"},
		{"storage unavailable", &service.Error{Kind: service.KindStorageUnavailable, Err: errors.New("dial tcp: refused")}, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE"},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return writeServiceError(c, tt.err) })

			resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body := decodeError(t, resp.Body)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.NotContains(t, body.Error.Message, "refused")
		})
	}
}

func TestListDocuments(t *testing.T) {
	mockSvc := new(serviceMocks.MockIntakeService)
	app := fiber.New()
	app.Get("/documents", ListDocuments(mockSvc))

	t.Run("success", func(t *testing.T) {
		expectedRes := &service.DocumentListResult{
			Items: []model.Document{{ID: uuid.New().String(), Number: "DT-2024-000001"}},
			Total: 1,
		}
		mockSvc.On("List", mock.Anything, service.QueueQuery{Status: model.StatusNew, Limit: 10}).Return(expectedRes, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents?status=new&limit=10&offset=0", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.DocumentListResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 1, result.Total)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/documents?limit=abc", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_LIMIT", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("invalid offset", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/documents?offset=-x", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_OFFSET", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, service.QueueQuery{Limit: 10}).
			Return(nil, &service.Error{Kind: service.KindStorageUnavailable}).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestSubmitDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockIntakeService)
	app := fiber.New()
	app.Post("/documents", SubmitDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		in := service.SubmitInput{Title: "Khiếu nại đất đai", SubmitterName: "Nguyễn Văn A", SubmitterPhone: "0901234567"}
		mockSvc.On("Submit", mock.Anything, in).
			Return(&model.Document{ID: uuid.NewString(), Number: "DT-2024-000007", Status: model.StatusNew}, nil).Once()

		body := `{"title":"Khiếu nại đất đai","submitter_name":"Nguyễn Văn A","submitter_phone":"0901234567"}`
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/documents", body))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var doc model.Document
		json.NewDecoder(resp.Body).Decode(&doc)
		assert.Equal(t, "DT-2024-000007", doc.Number)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid body", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/documents", `{"title":`))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_BODY", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("validation error", func(t *testing.T) {
		mockSvc.On("Submit", mock.Anything, service.SubmitInput{}).
			Return(nil, &service.Error{Kind: service.KindInvalidInput, Err: errors.New("title is required")}).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/documents", `{}`))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decodeError(t, resp.Body)
		assert.Equal(t, "INVALID_INPUT", body.Error.Code)
		assert.Equal(t, "title is required", body.Error.Message)
	})
}

func TestGetDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockIntakeService)
	app := fiber.New()
	app.Get("/documents/:id", GetDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		expectedDoc := &model.Document{ID: id, Status: model.StatusProcessing, Overdue: true}
		mockSvc.On("Get", mock.Anything, id).Return(expectedDoc, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.Document
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, id, result.ID)
		assert.True(t, result.Overdue)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, id).Return(nil, &service.Error{Kind: service.KindDocumentNotFound, DocumentID: id}).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		body := decodeError(t, resp.Body)
		assert.Equal(t, "DOCUMENT_NOT_FOUND", body.Error.Code)
		assert.Equal(t, id, body.Error.DocumentID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/documents/invalid-uuid", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp.Body).Error.Code)
	})
}

func TestAssignDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockRoutingService)
	app := fiber.New()
	app.Post("/documents/:id/assign", AssignDocument(mockSvc))

	id := uuid.NewString()

	t.Run("success", func(t *testing.T) {
		in := service.AssignInput{DocumentID: id, UnitID: "u1", Priority: model.PriorityUrgent, Notes: "gấp"}
		mockSvc.On("Assign", mock.Anything, in).
			Return(&model.WorkflowStep{ID: uuid.NewString(), DocumentID: id, ToUnitID: "u1", State: model.StepUnaccepted}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/documents/"+id+"/assign", `{"unit_id":"u1","priority":"urgent","notes":"gấp"}`))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var step model.WorkflowStep
		json.NewDecoder(resp.Body).Decode(&step)
		assert.Equal(t, model.StepUnaccepted, step.State)
		mockSvc.AssertExpectations(t)
	})

	t.Run("duplicate", func(t *testing.T) {
		mockSvc.On("Assign", mock.Anything, mock.Anything).
			Return(nil, &service.Error{Kind: service.KindDuplicateActiveAssignment, DocumentID: id, StepID: "s1"}).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/documents/"+id+"/assign", `{"unit_id":"u2"}`))

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		body := decodeError(t, resp.Body)
		assert.Equal(t, "DUPLICATE_ACTIVE_ASSIGNMENT", body.Error.Code)
		assert.Equal(t, "s1", body.Error.StepID)
	})
}

func TestStepActions(t *testing.T) {
	mockSvc := new(serviceMocks.MockRoutingService)
	app := fiber.New()
	app.Post("/steps/:id/accept", AcceptStep(mockSvc))
	app.Post("/steps/:id/reply", ReplyStep(mockSvc))
	app.Post("/steps/:id/transfer", TransferStep(mockSvc))
	app.Post("/steps/:id/complete", CompleteStep(mockSvc))

	id := uuid.NewString()

	t.Run("accept", func(t *testing.T) {
		mockSvc.On("Accept", mock.Anything, id).Return(&model.WorkflowStep{ID: id, State: model.StepInProgress}, nil).Once()
		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/steps/"+id+"/accept", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("reply", func(t *testing.T) {
		mockSvc.On("Reply", mock.Anything, id, "Đã xác minh").Return(&model.WorkflowStep{ID: id}, nil).Once()
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/steps/"+id+"/reply", `{"content":"Đã xác minh"}`))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("transfer", func(t *testing.T) {
		in := service.TransferInput{StepID: id, TargetUnitID: "u2", Notes: "đúng thẩm quyền"}
		mockSvc.On("Transfer", mock.Anything, in).Return(&model.WorkflowStep{ID: uuid.NewString(), FromUnitID: "u1", ToUnitID: "u2"}, nil).Once()
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/steps/"+id+"/transfer", `{"target_unit_id":"u2","notes":"đúng thẩm quyền"}`))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("complete from wrong state", func(t *testing.T) {
		mockSvc.On("Complete", mock.Anything, id, "xong").
			Return(nil, &service.Error{Kind: service.KindInvalidTransition, StepID: id, From: model.StatusAssigned}).Once()
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/steps/"+id+"/complete", `{"summary":"xong"}`))
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "INVALID_TRANSITION", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/steps/nope/accept", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("bad body", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/steps/"+id+"/reply", `{`))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_BODY", decodeError(t, resp.Body).Error.Code)
	})

	mockSvc.AssertExpectations(t)
}

func TestUploadAttachment(t *testing.T) {
	mockSvc := new(serviceMocks.MockIntakeService)
	app := fiber.New()
	app.Put("/documents/:id/attachment", UploadAttachment(mockSvc))
	id := uuid.NewString()

	t.Run("success", func(t *testing.T) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, _ := writer.CreateFormFile("file", "don.pdf")
		part.Write([]byte("%PDF-1.4"))
		writer.Close()

		mockSvc.On("Attach", mock.Anything, id, mock.Anything, "don.pdf", mock.Anything, int64(8)).
			Return(&model.Document{ID: id, AttachmentRef: "attachments/" + id + "/x.pdf"}, nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/documents/"+id+"/attachment", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("no file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/documents/"+id+"/attachment", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decodeError(t, resp.Body).Error.Code)
	})
}

func TestDownloadAttachment(t *testing.T) {
	mockSvc := new(serviceMocks.MockIntakeService)
	app := fiber.New()
	app.Get("/documents/:id/attachment", DownloadAttachment(mockSvc))
	id := uuid.NewString()

	mockSvc.On("AttachmentURL", mock.Anything, id).Return("https://files.example/signed", nil).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/"+id+"/attachment", nil))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "https://files.example/signed", resp.Header.Get("Location"))
}

func TestSearchDocuments(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	mockSvc := new(serviceMocks.MockTrackingService)
	app := fiber.New()
	app.Get("/search", SearchDocuments(mockSvc, loc))

	t.Run("dates are whole days in the app zone", func(t *testing.T) {
		mockSvc.On("Search", mock.Anything, mock.MatchedBy(func(c service.SearchCriteria) bool {
			return c.Phone == "0901" &&
				c.From != nil && c.From.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, loc)) &&
				c.To != nil && c.To.Equal(time.Date(2024, 3, 31, 23, 59, 59, 999999999, loc))
		})).Return([]model.Document{{ID: "d1"}}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/search?phone=0901&from=2024-03-01&to=2024-03-31", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("empty query", func(t *testing.T) {
		mockSvc.On("Search", mock.Anything, service.SearchCriteria{}).Return(nil, service.ErrEmptyQuery).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/search", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "EMPTY_QUERY", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("bad date", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/search?from=01/03/2024", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_DATE", decodeError(t, resp.Body).Error.Code)
	})
}

func TestReports(t *testing.T) {
	mockSvc := new(serviceMocks.MockReportService)
	app := fiber.New()
	app.Get("/reports/summary", SummaryReport(mockSvc, time.UTC))
	app.Get("/reports/organizations", OrganizationsReport(mockSvc, time.UTC))
	app.Get("/reports/:type/export", ExportReport(mockSvc, time.UTC))
	app.Get("/dashboard", Dashboard(mockSvc))

	t.Run("summary passes the filter", func(t *testing.T) {
		mockSvc.On("Summary", mock.Anything, service.ReportFilter{Category: model.CategoryComplaint, UnitID: "u1"}).
			Return(&report.Summary{TotalDocuments: 3}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/reports/summary?category=complaint&unit_id=u1", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var s report.Summary
		json.NewDecoder(resp.Body).Decode(&s)
		assert.Equal(t, 3, s.TotalDocuments)
	})

	t.Run("organizations", func(t *testing.T) {
		mockSvc.On("Organizations", mock.Anything, service.ReportFilter{}).
			Return([]report.OrganizationRow{{UnitID: "u1", Name: "Thanh tra"}}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/reports/organizations", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("export", func(t *testing.T) {
		mockSvc.On("Export", mock.Anything, report.TypeOverdue, service.ReportFilter{}, mock.Anything).
			Return(func(w io.Writer) error {
				_, err := w.Write([]byte("PK"))
				return err
			}).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/reports/overdue/export", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, xlsxContentType, resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "bao-cao-overdue-")
		b, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "PK", string(b))
	})

	t.Run("export unknown type", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/reports/everything/export", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_REPORT_TYPE", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("dashboard", func(t *testing.T) {
		mockSvc.On("Dashboard", mock.Anything).Return(&report.Dashboard{TotalDocuments: 9, Overdue: 2}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/dashboard", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	mockSvc.AssertExpectations(t)
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	RegisterRoutes(app, Services{
		Intake:    new(serviceMocks.MockIntakeService),
		Routing:   new(serviceMocks.MockRoutingService),
		Tracking:  new(serviceMocks.MockTrackingService),
		Reports:   new(serviceMocks.MockReportService),
		Directory: new(serviceMocks.MockDirectoryService),
		SearchLimiter: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "slow down")
		},
	})

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("search is rate limited", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/search?name=a", nil))

		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
		assert.Equal(t, "RATE_LIMITED", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("units", func(t *testing.T) {
		app := fiber.New()
		dir := new(serviceMocks.MockDirectoryService)
		dir.On("Units", mock.Anything).Return([]model.OrganizationalUnit{{ID: "u1", Code: "TD", Name: "Tiếp dân", Active: true}}, nil).Once()
		RegisterRoutes(app, Services{Directory: dir})

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/units", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		dir.AssertExpectations(t)
	})
}
