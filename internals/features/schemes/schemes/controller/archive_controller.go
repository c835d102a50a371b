package controller

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"schemetrack_backend/internals/features/schemes/schemes/service"
	helper "schemetrack_backend/internals/helpers"
	"schemetrack_backend/internals/helpers/dbtime"
)

type ArchiveController struct {
	Sweeper   *service.Sweeper
	GraceDays int
	Clock     dbtime.Clock
	Log       *zap.Logger
}

func NewArchiveController(sw *service.Sweeper, graceDays int, clock dbtime.Clock, log *zap.Logger) *ArchiveController {
	if clock == nil {
		clock = dbtime.AppClock
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ArchiveController{Sweeper: sw, GraceDays: graceDays, Clock: clock, Log: log.Named("archive-http")}
}

// POST /api/a/schemes/archive-sweep?grace_days=30
func (ctrl *ArchiveController) RunSweep(c *fiber.Ctx) error {
	grace := c.QueryInt("grace_days", ctrl.GraceDays)
	if grace < 0 {
		return helper.JsonValidationError(c, map[string][]string{"grace_days": {"must be at least 0"}})
	}
	res, err := ctrl.Sweeper.Run(c.UserContext(), grace, ctrl.Clock())
	if err != nil {
		return writeServiceError(c, ctrl.Log, err)
	}
	return helper.JsonOK(c, "archive sweep finished", res)
}
