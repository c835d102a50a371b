package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Locals keys written by the auth middleware.
const (
	LocAdminSub  = "admin_sub"
	LocAdminRole = "admin_role"
)

// GetActor is the authenticated admin's subject, or nil for unauthenticated calls.
func GetActor(c *fiber.Ctx) *string {
	v, ok := c.Locals(LocAdminSub).(string)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}
