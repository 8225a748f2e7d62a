package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"caseflow/internal/service"
)

// Services bundles what the routes need. DB may be nil when running on the in-memory store.
type Services struct {
	DB        Pinger
	Intake    service.IntakeService
	Routing   service.RoutingService
	Tracking  service.TrackingService
	Reports   service.ReportService
	Directory service.DirectoryService

	// SearchLimiter throttles /search; nil disables it.
	SearchLimiter fiber.Handler
	Location      *time.Location
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, s Services) {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}

	app.Get("/health", HealthCheck(s.DB))
	app.Get("/healthz", LivenessProbe())

	app.Get("/units", ListUnits(s.Directory))

	docs := app.Group("/documents")
	docs.Post("/", SubmitDocument(s.Intake))
	docs.Get("/", ListDocuments(s.Intake))
	docs.Get("/:id", GetDocument(s.Intake))
	docs.Post("/:id/open", OpenDocument(s.Routing))
	docs.Post("/:id/assign", AssignDocument(s.Routing))
	docs.Get("/:id/timeline", DocumentTimeline(s.Tracking))
	docs.Put("/:id/attachment", UploadAttachment(s.Intake))
	docs.Get("/:id/attachment", DownloadAttachment(s.Intake))

	steps := app.Group("/steps")
	steps.Post("/:id/accept", AcceptStep(s.Routing))
	steps.Post("/:id/reply", ReplyStep(s.Routing))
	steps.Post("/:id/transfer", TransferStep(s.Routing))
	steps.Post("/:id/complete", CompleteStep(s.Routing))

	search := []fiber.Handler{SearchDocuments(s.Tracking, loc)}
	if s.SearchLimiter != nil {
		search = append([]fiber.Handler{s.SearchLimiter}, search...)
	}
	app.Get("/search", search...)

	reports := app.Group("/reports")
	reports.Get("/summary", SummaryReport(s.Reports, loc))
	reports.Get("/organizations", OrganizationsReport(s.Reports, loc))
	reports.Get("/monthly", MonthlyReport(s.Reports, loc))
	reports.Get("/overdue", OverdueReport(s.Reports, loc))
	reports.Get("/detail", DetailReport(s.Reports, loc))
	reports.Get("/:type/export", ExportReport(s.Reports, loc))

	app.Get("/dashboard", Dashboard(s.Reports))
}
