package route

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"schemetrack_backend/internals/features/schemes/schemes/controller"
	"schemetrack_backend/internals/features/schemes/schemes/service"
	"schemetrack_backend/internals/helpers/dbtime"
)

// SchemeAdminRoutes mounts under the authenticated admin group (/api/a).
func SchemeAdminRoutes(admin fiber.Router, svc *service.SchemeService, sweeper *service.Sweeper, graceDays int, clock dbtime.Clock, log *zap.Logger) {
	ctrl := controller.NewSchemeController(svc, clock, log)
	archiveCtrl := controller.NewArchiveController(sweeper, graceDays, clock, log)

	admin.Get("/dashboard", ctrl.Dashboard) // 📊 stats

	s := admin.Group("/schemes")
	s.Post("/archive-sweep", archiveCtrl.RunSweep) // 🗄️ manual sweep

	s.Post("/", ctrl.Create)
	s.Get("/", ctrl.List)
	s.Get("/:id", ctrl.Detail)
	s.Get("/:id/events", ctrl.Events)
	s.Patch("/:id", ctrl.Update)
	s.Delete("/:id", ctrl.Delete) // only trashed

	// payments by month number
	s.Put("/:id/payments/:month", ctrl.RecordPayment)
	s.Delete("/:id/payments/:month", ctrl.ClearPayment)
	s.Post("/:id/payments/:month/archive", ctrl.ArchivePayment)
	s.Post("/:id/payments/:month/unarchive", ctrl.UnarchivePayment)

	// lifecycle
	s.Post("/:id/close", ctrl.Close)
	s.Post("/:id/reopen", ctrl.Reopen())
	s.Post("/:id/archive", ctrl.Archive())
	s.Post("/:id/unarchive", ctrl.Unarchive())
	s.Post("/:id/trash", ctrl.Trash())
	s.Post("/:id/restore", ctrl.Restore())
}
