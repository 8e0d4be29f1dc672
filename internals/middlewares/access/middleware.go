package access

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	helper "studiofit_backend/internals/helpers"
)

// Enforce rejects API requests the table does not allow for the caller.
// It expects auth.Authenticate to have run first.
func Enforce(t *Table) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d := t.Check(c.Path(), helper.GetRole(c), helper.IsAuthenticated(c))
		if d.Allowed {
			return c.Next()
		}
		if d.Reason == ReasonUnauthenticated {
			return helper.JsonError(c, fiber.StatusUnauthorized, helper.MsgNotAuthenticated)
		}
		return helper.JsonError(c, fiber.StatusForbidden, helper.MsgAccessDenied)
	}
}

// 🟢 GET /api/access/check?path=/admin/classes
func CheckHandler(t *Table) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := strings.TrimSpace(c.Query("path"))
		if path == "" || !strings.HasPrefix(path, "/") {
			return helper.FromError(c, helper.NewFieldError("path", "must start with /"))
		}
		return helper.JsonOK(c, "ok", t.Check(path, helper.GetRole(c), helper.IsAuthenticated(c)))
	}
}
