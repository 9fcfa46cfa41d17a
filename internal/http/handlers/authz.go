package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"zanovi/internal/domain"
	applog "zanovi/internal/log"
	"zanovi/internal/services"
)

// bearerToken extracts the opaque token from the Authorization header.
// The legacy admin client sends a bare "token" header instead, so both
// spellings are accepted.
func bearerToken(c *fiber.Ctx) string {
	auth := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return strings.TrimSpace(c.Get("token"))
}

// RequireUser resolves the token to a user and stashes it in locals.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			applog.Security(c, "authz.missing_token", nil)
			return fail(c, fiber.StatusUnauthorized, "not logged in")
		}
		u, err := auth.CurrentUser(token)
		if err != nil {
			applog.Security(c, "authz.bad_token", nil)
			return fail(c, fiber.StatusUnauthorized, "not logged in")
		}
		c.Locals("user", u)
		return c.Next()
	}
}

// RequireAdmin gates destructive routes behind the admin role.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(c)
		if u == nil || u.Role != "ADMIN" {
			applog.Security(c, "authz.not_admin", nil)
			return fail(c, fiber.StatusForbidden, "admin only")
		}
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) *domain.User {
	if u, ok := c.Locals("user").(*domain.User); ok {
		return u
	}
	return nil
}
