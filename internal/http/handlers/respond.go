package handlers

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "zanovi/internal/log"
	"zanovi/internal/pricing"
	"zanovi/internal/repos"
	"zanovi/internal/services"
)

// ok wraps a payload in the success envelope the admin client expects.
func ok(c *fiber.Ctx, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["success"] = true
	return c.JSON(data)
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": msg})
}

// failErr maps the error taxonomy to statuses and user-facing messages.
// Expected domain outcomes are not logged as server errors.
func failErr(c *fiber.Ctx, action string, err error) error {
	switch {
	case errors.Is(err, repos.ErrWouldGoNegative):
		applog.Info(c, action+".would_go_negative", nil)
		return fail(c, fiber.StatusConflict, "counter is already at zero")
	case errors.Is(err, services.ErrStaleSnapshot):
		applog.Info(c, action+".stale_snapshot", nil)
		return fail(c, fiber.StatusConflict, "inventory changed, refresh and retry")
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, repos.ErrNotFound),
		errors.Is(err, sql.ErrNoRows):
		return fail(c, fiber.StatusNotFound, "not found")
	case errors.Is(err, pricing.ErrInvalidPercentage):
		return fail(c, fiber.StatusBadRequest, "percentage out of range")
	case errors.Is(err, services.ErrInvalidQuantity):
		return fail(c, fiber.StatusBadRequest, "invalid quantity")
	case errors.Is(err, services.ErrInvalidStatus):
		return fail(c, fiber.StatusBadRequest, "invalid order status")
	case errors.Is(err, services.ErrBadCreds):
		applog.Security(c, action+".bad_creds", nil)
		return fail(c, fiber.StatusUnauthorized, "invalid email or password")
	default:
		applog.Error(c, action, err, nil)
		return fail(c, fiber.StatusInternalServerError, "something went wrong, please try again")
	}
}
