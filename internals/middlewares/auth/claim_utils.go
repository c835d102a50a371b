// internals/middlewares/auth/claims_utils.go
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	helper "schemetrack_backend/internals/helpers"
)

/* ======== Extractors ======== */

func extractBearerToken(c *fiber.Ctx, allowCookie bool) (string, error) {
	auth := strings.TrimSpace(c.Get("Authorization"))
	if auth == "" && allowCookie {
		if cookieTok := c.Cookies("access_token"); cookieTok != "" {
			auth = "Bearer " + cookieTok
		}
	}
	if auth == "" {
		return "", errors.New("unauthorized - no token provided")
	}

	// tolerate repeated spaces and any case of "Bearer"
	fields := strings.Fields(auth)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", errors.New("unauthorized - invalid token format")
	}
	tok := strings.Trim(strings.TrimSpace(fields[1]), "\"'")
	if tok == "" {
		return "", errors.New("unauthorized - empty token")
	}
	return tok, nil
}

func validateTokenExpiry(claims jwt.MapClaims, skew time.Duration) error {
	expVal, ok := claims["exp"]
	if !ok {
		return errors.New("token has no exp")
	}

	var expUnix int64
	switch t := expVal.(type) {
	case float64:
		expUnix = int64(t)
	case int64:
		expUnix = t
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return errors.New("invalid exp format")
		}
		expUnix = n
	default:
		n, err := strconv.ParseInt(fmt.Sprintf("%v", t), 10, 64)
		if err != nil {
			return errors.New("invalid exp type")
		}
		expUnix = n
	}

	expTime := time.Unix(expUnix, 0).UTC()
	if time.Now().UTC().After(expTime.Add(skew)) {
		return fmt.Errorf("token expired at %v", expTime)
	}
	return nil
}

// extractSubject reads "sub", falling back to "id".
func extractSubject(claims jwt.MapClaims) (string, error) {
	for _, key := range []string{"sub", "id"} {
		if v, ok := claims[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), nil
		}
	}
	return "", errors.New("missing subject")
}

/* ======== Store claims to Locals ======== */

func storeClaimsToLocals(c *fiber.Ctx, claims jwt.MapClaims) error {
	sub, err := extractSubject(claims)
	if err != nil {
		return err
	}
	c.Locals(helper.LocAdminSub, sub)
	if role, ok := claims["role"].(string); ok {
		c.Locals(helper.LocAdminRole, strings.ToLower(strings.TrimSpace(role)))
	}
	return nil
}
