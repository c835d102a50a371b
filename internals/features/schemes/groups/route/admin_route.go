package route

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"schemetrack_backend/internals/features/schemes/groups/controller"
	"schemetrack_backend/internals/features/schemes/groups/service"
	"schemetrack_backend/internals/helpers/dbtime"
)

func GroupAdminRoutes(admin fiber.Router, svc *service.GroupService, clock dbtime.Clock, log *zap.Logger) {
	ctrl := controller.NewGroupController(svc, clock, log)

	g := admin.Group("/groups")
	g.Post("/", ctrl.Create)
	g.Get("/", ctrl.List)
	g.Get("/by-name/:name", ctrl.DetailByName) // labels without a stored group too
	g.Get("/:id", ctrl.Detail)
	g.Patch("/:id", ctrl.Rename)
	g.Post("/:id/archive", ctrl.Archive)
	g.Post("/:id/unarchive", ctrl.Unarchive)
	g.Delete("/:id", ctrl.Delete)
}
