package details

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	exportRoute "schemetrack_backend/internals/features/schemes/exports/route"
	exportSvc "schemetrack_backend/internals/features/schemes/exports/service"
	groupRoute "schemetrack_backend/internals/features/schemes/groups/route"
	groupSvc "schemetrack_backend/internals/features/schemes/groups/service"
	schemeRoute "schemetrack_backend/internals/features/schemes/schemes/route"
	schemeSvc "schemetrack_backend/internals/features/schemes/schemes/service"
	"schemetrack_backend/internals/helpers/dbtime"
	"schemetrack_backend/internals/middlewares"
)

// Services is everything the scheme routes need, built once in main.
type Services struct {
	Schemes   *schemeSvc.SchemeService
	Groups    *groupSvc.GroupService
	Exports   *exportSvc.ExportService
	Sweeper   *schemeSvc.Sweeper
	GraceDays int
	Clock     dbtime.Clock
	Log       *zap.Logger
}

func SchemeAdminRoutes(admin fiber.Router, s Services) {
	schemeRoute.SchemeAdminRoutes(admin, s.Schemes, s.Sweeper, s.GraceDays, s.Clock, s.Log)
	groupRoute.GroupAdminRoutes(admin, s.Groups, s.Clock, s.Log)
	exportRoute.ExportAdminRoutes(admin, s.Exports, s.Clock, s.Log, middlewares.ExportRateLimiter())
}
