package routes

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"schemetrack_backend/internals/configs"
)

func BaseRoutes(app *fiber.App, ping func() error) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Scheme tracker API is running 🚀")
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		storeStatus := "Connected"
		serverStatus := "OK"
		httpStatus := fiber.StatusOK

		if ping != nil {
			if err := ping(); err != nil {
				storeStatus = "Store connection error"
				serverStatus = "DOWN"
				httpStatus = fiber.StatusServiceUnavailable
			}
		}

		return c.Status(httpStatus).JSON(fiber.Map{
			"status":         serverStatus,
			"store":          storeStatus,
			"store_driver":   configs.StoreDriver,
			"server_time":    time.Now().Format(time.RFC3339),
			"uptime_seconds": int(time.Since(startTime).Seconds()),
			"environment":    os.Getenv("RAILWAY_ENVIRONMENT"),
		})
	})
}
