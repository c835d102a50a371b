// middlewares/cors.go

package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"schemetrack_backend/internals/configs"
)

// CorsMiddleware allows the dashboard origins listed in CORS_ORIGINS.
func CorsMiddleware() fiber.Handler {
	origins := make([]string, 0, 4)
	for _, o := range strings.Split(configs.CorsOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	// credentials cannot be combined with the "*" fallback
	withCredentials := len(origins) > 0
	return cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ", "),
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		ExposeHeaders:    "Content-Disposition, X-Request-ID",
		AllowCredentials: withCredentials,
	})
}
