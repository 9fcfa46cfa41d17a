package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "zanovi/internal/log"
	"zanovi/internal/services"
	"zanovi/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	email, emailOK := validate.Email(body.Email)
	if !emailOK || !validate.Password(body.Password) {
		applog.Security(c, "auth.login.fail", map[string]any{"email": body.Email, "reason": "bad_format"})
		return fail(c, fiber.StatusUnauthorized, "invalid email or password")
	}

	token, u, err := h.Auth.Login(email, body.Password)
	if err != nil {
		return failErr(c, "auth.login", err)
	}
	applog.Audit(c, "auth.login.ok", map[string]any{"user": u.ID})
	return ok(c, fiber.Map{
		"token": token,
		"user":  fiber.Map{"_id": u.ID, "email": u.Email, "name": u.Name, "role": u.Role},
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token := bearerToken(c)
	if token != "" {
		if err := h.Auth.Logout(token); err != nil {
			return failErr(c, "auth.logout", err)
		}
	}
	return ok(c, fiber.Map{"message": "logged out"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return fail(c, fiber.StatusUnauthorized, "not logged in")
	}
	return ok(c, fiber.Map{
		"user": fiber.Map{"_id": u.ID, "email": u.Email, "name": u.Name, "role": u.Role},
	})
}
