package handlers

import (
	"github.com/gofiber/fiber/v2"

	"zanovi/internal/domain"
	applog "zanovi/internal/log"
	"zanovi/internal/services"
	"zanovi/internal/validate"
)

// StockUnitHandler serves the per-item rows some products track next to
// their counters (consoles with serial numbers, mostly).
type StockUnitHandler struct {
	Stock *services.StockService
}

func (h *StockUnitHandler) ListForProduct(c *fiber.Ctx) error {
	id, valid := validate.ID(c.Params("id"))
	if !valid {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	units, err := h.Stock.UnitsForProduct(id)
	if err != nil {
		return failErr(c, "warehouse_products.list", err)
	}
	return ok(c, fiber.Map{"units": units})
}

type stockUnitBody struct {
	ProductID    string `json:"productId"`
	EANCode      string `json:"eanCode"`
	SerialNumber string `json:"serialNumber"`
	Condition    string `json:"condition"`
	Location     string `json:"location"`
}

func (h *StockUnitHandler) Create(c *fiber.Ctx) error {
	var body stockUnitBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	productID, valid := validate.ID(body.ProductID)
	if !valid {
		return fail(c, fiber.StatusBadRequest, "invalid product id")
	}
	id, err := h.Stock.CreateUnit(domain.StockUnit{
		ProductID:    productID,
		EANCode:      body.EANCode,
		SerialNumber: body.SerialNumber,
		Condition:    domain.Condition(body.Condition),
		Location:     domain.Location(body.Location),
	})
	if err != nil {
		return failErr(c, "warehouse_products.create", err)
	}
	applog.Audit(c, "warehouse_products.create", map[string]any{"unit": id, "product": productID})
	return ok(c, fiber.Map{"_id": id})
}

func (h *StockUnitHandler) Update(c *fiber.Ctx) error {
	id, valid := validate.ID(c.Params("id"))
	if !valid {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	var body stockUnitBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	err := h.Stock.UpdateUnit(id, body.EANCode, body.SerialNumber,
		domain.Condition(body.Condition), domain.Location(body.Location))
	if err != nil {
		return failErr(c, "warehouse_products.update", err)
	}
	applog.Audit(c, "warehouse_products.update", map[string]any{"unit": id})
	return ok(c, fiber.Map{"message": "unit updated"})
}

func (h *StockUnitHandler) Delete(c *fiber.Ctx) error {
	id, valid := validate.ID(c.Params("id"))
	if !valid {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	if err := h.Stock.DeleteUnit(id); err != nil {
		return failErr(c, "warehouse_products.delete", err)
	}
	applog.Audit(c, "warehouse_products.delete", map[string]any{"unit": id})
	return ok(c, fiber.Map{"message": "unit deleted"})
}
