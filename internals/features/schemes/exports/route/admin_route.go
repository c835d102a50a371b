package route

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"schemetrack_backend/internals/features/schemes/exports/controller"
	"schemetrack_backend/internals/features/schemes/exports/service"
	"schemetrack_backend/internals/helpers/dbtime"
)

func ExportAdminRoutes(admin fiber.Router, svc *service.ExportService, clock dbtime.Clock, log *zap.Logger, mw ...fiber.Handler) {
	ctrl := controller.NewExportController(svc, clock, log)

	ex := admin.Group("/exports", mw...)
	ex.Get("/schemes.:format", ctrl.Schemes)               // csv | xlsx
	ex.Get("/schemes/:id/payments.:format", ctrl.Payments) // csv | xlsx
}
