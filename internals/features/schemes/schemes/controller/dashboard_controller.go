package controller

import (
	"github.com/gofiber/fiber/v2"

	helper "schemetrack_backend/internals/helpers"
)

// GET /api/a/dashboard
func (ctrl *SchemeController) Dashboard(c *fiber.Ctx) error {
	d, err := ctrl.Svc.Dashboard(c.UserContext(), ctrl.Clock())
	if err != nil {
		return writeServiceError(c, ctrl.Log, err)
	}
	return helper.JsonOK(c, "ok", d)
}
