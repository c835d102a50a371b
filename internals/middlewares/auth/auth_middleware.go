// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"schemetrack_backend/internals/configs"
	"schemetrack_backend/internals/helpers/logger"
)

type AdminJWTOpts struct {
	// Secret defaults to configs.JWTSecret
	Secret              string
	AllowCookieFallback bool
}

// AdminJWT verifies an HS256 bearer token and stores the subject and role in Locals.
func AdminJWT(opts AdminJWTOpts) fiber.Handler {
	log := logger.Named("auth")
	return func(c *fiber.Ctx) error {
		// 1) Authorization header (or cookie)
		tokenString, err := extractBearerToken(c, opts.AllowCookieFallback)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		secretKey := opts.Secret
		if secretKey == "" {
			secretKey = configs.JWTSecret
		}
		if secretKey == "" {
			log.Error("JWT_SECRET is empty")
			return fiber.NewError(fiber.StatusInternalServerError, "missing JWT secret")
		}

		// 2) Parse & verify signature; exp is checked below with skew
		claims := jwt.MapClaims{}
		parser := jwt.Parser{SkipClaimsValidation: true, ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
		if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		}); err != nil {
			log.Debug("token parse failed", zap.Error(err))
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized - token parse error")
		}

		// 3) exp
		if err := validateTokenExpiry(claims, 30*time.Second); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized - token expired")
		}

		// 4) subject
		if err := storeClaimsToLocals(c, claims); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized - "+err.Error())
		}
		return c.Next()
	}
}
