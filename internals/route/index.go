// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"schemetrack_backend/internals/configs"
	"schemetrack_backend/internals/constants"
	authMiddleware "schemetrack_backend/internals/middlewares/auth"
	routeDetails "schemetrack_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, svc routeDetails.Services, ping func() error) {
	startTime = time.Now()

	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, ping)

	// ===================== ADMIN =====================
	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		authMiddleware.AdminJWT(authMiddleware.AdminJWTOpts{
			Secret:              configs.JWTSecret,
			AllowCookieFallback: true,
		}),
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("schemes"), constants.AdminRoles...),
	)

	// ===================== MOUNT ROUTES =====================
	log.Println("[INFO] Mounting Scheme routes...")
	routeDetails.SchemeAdminRoutes(admin, svc)
}
