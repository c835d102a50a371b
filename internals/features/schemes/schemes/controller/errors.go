package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"schemetrack_backend/internals/features/schemes/schemes/service"
	helper "schemetrack_backend/internals/helpers"
)

// writeServiceError maps service errors onto the JSON error envelope.
func writeServiceError(c *fiber.Ctx, log *zap.Logger, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "scheme not found")
	case errors.Is(err, service.ErrPaymentNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())

	case errors.Is(err, service.ErrSchemeLocked),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrNotTrashed),
		errors.Is(err, service.ErrSweepInProgress):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())

	case errors.Is(err, service.ErrInvalidAmount):
		return helper.JsonValidationError(c, map[string][]string{"amount": {err.Error()}})
	case errors.Is(err, service.ErrInvalidDuration), errors.Is(err, service.ErrDurationFixed):
		return helper.JsonValidationError(c, map[string][]string{"duration_months": {err.Error()}})
	case errors.Is(err, service.ErrFutureDate), errors.Is(err, service.ErrInvalidDate):
		return helper.JsonValidationError(c, map[string][]string{"date": {err.Error()}})
	}

	log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
}
