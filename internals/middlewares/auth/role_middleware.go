package auth

import (
	"github.com/gofiber/fiber/v2"

	helper "schemetrack_backend/internals/helpers"
)

// RoleMiddlewareWithCustomError rejects tokens whose role claim is not in allowedRoles.
func RoleMiddlewareWithCustomError(allowedRoles []string, customForbiddenMessage string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(helper.LocAdminRole).(string)
		if !ok || role == "" {
			return helper.JsonError(c, fiber.StatusForbidden, "forbidden: missing role information")
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				return c.Next()
			}
		}

		if customForbiddenMessage == "" {
			customForbiddenMessage = "forbidden: you are not authorized to access this resource"
		}
		return helper.JsonError(c, fiber.StatusForbidden, customForbiddenMessage)
	}
}

// Shortcut
func OnlyRoles(customMessage string, roles ...string) fiber.Handler {
	return RoleMiddlewareWithCustomError(roles, customMessage)
}
