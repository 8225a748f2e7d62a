package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"caseflow/internal/model"
	"caseflow/internal/service"
)

const dateLayout = "2006-01-02"

// dateRange parses the from/to query parameters as calendar dates in loc. Both ends are
// inclusive: to covers the whole day.
func dateRange(c *fiber.Ctx, loc *time.Location) (from, to *time.Time, ok bool) {
	if s := c.Query("from"); s != "" {
		t, err := time.ParseInLocation(dateLayout, s, loc)
		if err != nil {
			return nil, nil, false
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.ParseInLocation(dateLayout, s, loc)
		if err != nil {
			return nil, nil, false
		}
		end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		to = &end
	}
	return from, to, true
}

// SearchDocuments is the citizen lookup by name, phone or document number.
//
// @Summary Search documents
// @Tags tracking
// @Produce json
// @Param name query string false "submitter name (substring)"
// @Param phone query string false "submitter phone (substring)"
// @Param number query string false "document number (substring)"
// @Param from query string false "created on or after (YYYY-MM-DD)"
// @Param to query string false "created on or before (YYYY-MM-DD)"
// @Param status query string false "status, or overdue"
// @Success 200 {object} map[string]any
// @Failure 400 {object} errorPayload
// @Failure 429 {object} errorPayload
// @Router /search [get]
func SearchDocuments(svc service.TrackingService, loc *time.Location) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, err := pagination(c, 0)
		if err != nil {
			return err
		}
		from, to, ok := dateRange(c, loc)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_DATE", "dates must be YYYY-MM-DD")
		}
		docs, err := svc.Search(c.UserContext(), service.SearchCriteria{
			Name:   c.Query("name"),
			Phone:  c.Query("phone"),
			Number: c.Query("number"),
			From:   from,
			To:     to,
			Status: model.Status(c.Query("status")),
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": docs})
	}
}
