package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "zanovi/internal/log"
	"zanovi/internal/services"
	"zanovi/internal/validate"
)

type OrderHandler struct {
	Orders *services.OrderService
}

func (h *OrderHandler) List(c *fiber.Ctx) error {
	orders, err := h.Orders.List()
	if err != nil {
		return failErr(c, "order.list", err)
	}
	return ok(c, fiber.Map{"orders": orders})
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, valid := validate.ID(c.Params("id"))
	if !valid {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.Orders.UpdateStatus(id, body.Status); err != nil {
		return failErr(c, "order.update_status", err)
	}
	applog.Audit(c, "order.update_status", map[string]any{"order": id, "status": body.Status})
	return ok(c, fiber.Map{"message": "status updated"})
}

func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	id, valid := validate.ID(c.Params("id"))
	if !valid {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	if err := h.Orders.Delete(id); err != nil {
		return failErr(c, "order.delete", err)
	}
	applog.Audit(c, "order.delete", map[string]any{"order": id})
	return ok(c, fiber.Map{"message": "order deleted"})
}
