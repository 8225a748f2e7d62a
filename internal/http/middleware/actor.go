package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"caseflow/internal/service"
)

// OfficerIDHeader carries the id of the authenticated officer, set by the upstream gateway.
const OfficerIDHeader = "X-Officer-ID"

// Actor copies X-Officer-ID into the request context for the services to record.
func Actor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id := strings.TrimSpace(c.Get(OfficerIDHeader)); id != "" {
			c.SetUserContext(service.WithActor(c.UserContext(), id))
		}
		return c.Next()
	}
}
