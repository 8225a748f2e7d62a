package handler

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"caseflow/internal/model"
	"caseflow/internal/report"
	"caseflow/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func reportFilter(c *fiber.Ctx, loc *time.Location) (service.ReportFilter, bool) {
	from, to, ok := dateRange(c, loc)
	if !ok {
		return service.ReportFilter{}, false
	}
	return service.ReportFilter{
		From:     from,
		To:       to,
		Category: model.Category(c.Query("category")),
		Status:   model.Status(c.Query("status")),
		UnitID:   c.Query("unit_id"),
	}, true
}

// reportHandler binds the shared filter parsing to one report computation.
func reportHandler(loc *time.Location, compute func(c *fiber.Ctx, f service.ReportFilter) (any, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, ok := reportFilter(c, loc)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_DATE", "dates must be YYYY-MM-DD")
		}
		out, err := compute(c, f)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(out)
	}
}

// SummaryReport returns totals by status and step state plus one row per document.
//
// @Summary Summary report
// @Tags reports
// @Produce json
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Param category query string false "category"
// @Param status query string false "status"
// @Param unit_id query string false "receiving unit"
// @Success 200 {object} report.Summary
// @Router /reports/summary [get]
func SummaryReport(svc service.ReportService, loc *time.Location) fiber.Handler {
	return reportHandler(loc, func(c *fiber.Ctx, f service.ReportFilter) (any, error) {
		return svc.Summary(c.UserContext(), f)
	})
}

// OrganizationsReport lists received/in-progress/completed/overdue per active unit.
func OrganizationsReport(svc service.ReportService, loc *time.Location) fiber.Handler {
	return reportHandler(loc, func(c *fiber.Ctx, f service.ReportFilter) (any, error) {
		rows, err := svc.Organizations(c.UserContext(), f)
		return fiber.Map{"data": rows}, err
	})
}

// MonthlyReport covers the last 12 calendar months, newest first.
func MonthlyReport(svc service.ReportService, loc *time.Location) fiber.Handler {
	return reportHandler(loc, func(c *fiber.Ctx, f service.ReportFilter) (any, error) {
		rows, err := svc.Monthly(c.UserContext(), f)
		return fiber.Map{"data": rows}, err
	})
}

func OverdueReport(svc service.ReportService, loc *time.Location) fiber.Handler {
	return reportHandler(loc, func(c *fiber.Ctx, f service.ReportFilter) (any, error) {
		rows, err := svc.Overdue(c.UserContext(), f)
		return fiber.Map{"data": rows}, err
	})
}

func DetailReport(svc service.ReportService, loc *time.Location) fiber.Handler {
	return reportHandler(loc, func(c *fiber.Ctx, f service.ReportFilter) (any, error) {
		rows, err := svc.Detail(c.UserContext(), f)
		return fiber.Map{"data": rows}, err
	})
}

// ExportReport renders /reports/:type/export as an XLSX download.
//
// @Summary Export a report as XLSX
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param type path string true "summary, organizations, monthly, overdue or detail"
// @Success 200 {file} file
// @Failure 400 {object} errorPayload
// @Router /reports/{type}/export [get]
func ExportReport(svc service.ReportService, loc *time.Location) fiber.Handler {
	return func(c *fiber.Ctx) error {
		t := report.Type(c.Params("type"))
		if !t.Valid() {
			return writeError(c, fiber.StatusBadRequest, "INVALID_REPORT_TYPE", "unknown report type")
		}
		f, ok := reportFilter(c, loc)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_DATE", "dates must be YYYY-MM-DD")
		}
		var buf bytes.Buffer
		if err := svc.Export(c.UserContext(), t, f, &buf); err != nil {
			return writeServiceError(c, err)
		}
		c.Set(fiber.HeaderContentType, xlsxContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="bao-cao-%s-%s.xlsx"`, t, time.Now().In(loc).Format("20060102")))
		return c.Send(buf.Bytes())
	}
}

// Dashboard returns the home screen counters and the most recent documents.
func Dashboard(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := svc.Dashboard(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(d)
	}
}
