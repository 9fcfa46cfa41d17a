package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"zanovi/internal/domain"
	applog "zanovi/internal/log"
	"zanovi/internal/services"
	"zanovi/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
	Stock   *services.StockService
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.Catalog.ListProducts()
	if err != nil {
		return failErr(c, "product.list", err)
	}
	return ok(c, fiber.Map{"products": products})
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, valid := validate.ID(c.Params("id"))
	if !valid {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return fail(c, fiber.StatusNotFound, "not found")
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil {
		return failErr(c, "product.detail", err)
	}
	return ok(c, fiber.Map{"product": p})
}

func (h *ProductHandler) Search(c *fiber.Ctx) error {
	products, err := h.Catalog.Search(c.Query("q"), 25)
	if err != nil {
		return failErr(c, "product.search", err)
	}
	return ok(c, fiber.Map{"products": products})
}

type productBody struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	SubCategory  string `json:"subCategory"`
	Description  string `json:"description"`
	Description2 string `json:"description2"`
	EANCode      string `json:"eanCode"`
	SerialNumber string `json:"serialNumber"`
	Bestseller   bool   `json:"bestseller"`
	Active       bool   `json:"active"`
}

func (h *ProductHandler) Add(c *fiber.Ctx) error {
	var body productBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	name, valid := validate.Name(body.Name)
	if !valid {
		return fail(c, fiber.StatusBadRequest, "invalid product name")
	}
	if body.EANCode != "" {
		if _, valid := validate.EAN(body.EANCode); !valid {
			return fail(c, fiber.StatusBadRequest, "invalid EAN code")
		}
	}
	id, err := h.Catalog.CreateProduct(domain.Product{
		Name:         name,
		Category:     body.Category,
		SubCategory:  body.SubCategory,
		Description:  body.Description,
		Description2: body.Description2,
		EANCode:      body.EANCode,
		SerialNumber: body.SerialNumber,
		Bestseller:   body.Bestseller,
		Active:       body.Active,
	})
	if err != nil {
		return failErr(c, "product.add", err)
	}
	applog.Audit(c, "product.add", map[string]any{"product": id, "name": name})
	return ok(c, fiber.Map{"_id": id})
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, valid := validate.ID(c.Params("id"))
	if !valid {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	var body productBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	name, valid := validate.Name(body.Name)
	if !valid {
		return fail(c, fiber.StatusBadRequest, "invalid product name")
	}
	err := h.Catalog.UpdateProduct(domain.Product{
		ID:           id,
		Name:         name,
		Category:     body.Category,
		SubCategory:  body.SubCategory,
		Description:  body.Description,
		Description2: body.Description2,
		EANCode:      body.EANCode,
		SerialNumber: body.SerialNumber,
		Bestseller:   body.Bestseller,
		Active:       body.Active,
	})
	if err != nil {
		return failErr(c, "product.update", err)
	}
	applog.Audit(c, "product.update", map[string]any{"product": id})
	return ok(c, fiber.Map{"message": "product updated"})
}

// UpdateEAN binds a scanned code to an existing product. This is the
// follow-up to a create_required scan outcome.
func (h *ProductHandler) UpdateEAN(c *fiber.Ctx) error {
	id, valid := validate.ID(c.Params("id"))
	if !valid {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	var body struct {
		EANCode string `json:"eanCode"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	ean, valid := validate.EAN(body.EANCode)
	if !valid {
		return fail(c, fiber.StatusBadRequest, "invalid EAN code")
	}
	if err := h.Catalog.UpdateEAN(id, ean); err != nil {
		return failErr(c, "product.update_ean", err)
	}
	applog.Audit(c, "product.update_ean", map[string]any{"product": id, "ean": ean})
	return ok(c, fiber.Map{"message": "EAN updated"})
}

// UpdateQuantity applies a single-step counter delta to one bucket.
func (h *ProductHandler) UpdateQuantity(c *fiber.Ctx) error {
	id, valid := validate.ID(c.Params("id"))
	if !valid {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	var body struct {
		Condition string `json:"condition"`
		Location  string `json:"location"`
		Delta     int    `json:"delta"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	err := h.Stock.AdjustQuantity(id, domain.Condition(body.Condition), domain.Location(body.Location), body.Delta)
	if err != nil {
		return failErr(c, "product.update_quantity", err)
	}
	applog.Audit(c, "product.update_quantity", map[string]any{
		"product": id, "condition": body.Condition, "location": body.Location, "delta": body.Delta,
	})
	return ok(c, fiber.Map{"message": "quantity updated"})
}

// WarehouseUpdate rewrites the whole stock ledger row for a product:
// all four counters, prices and attached documents.
func (h *ProductHandler) WarehouseUpdate(c *fiber.Ctx) error {
	id, valid := validate.ID(c.Params("id"))
	if !valid {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	var body struct {
		QuantityInStock domain.QtyPair   `json:"quantityInStock"`
		QuantityInStore domain.QtyPair   `json:"quantityInStore"`
		PriceNew        decimal.Decimal  `json:"priceNew"`
		PriceUsed       *decimal.Decimal `json:"priceUsed"`
		Percent         decimal.Decimal  `json:"percent"`
		Documents       []string         `json:"documents"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	rec, err := h.Stock.UpdateRecord(id, services.StockUpdate{
		QuantityInStock: body.QuantityInStock,
		QuantityInStore: body.QuantityInStore,
		PriceNew:        body.PriceNew,
		PriceUsed:       body.PriceUsed,
		Percent:         body.Percent,
		Documents:       body.Documents,
	})
	if err != nil {
		return failErr(c, "product.warehouse_update", err)
	}
	applog.Audit(c, "product.warehouse_update", map[string]any{"product": id})
	return ok(c, fiber.Map{
		"quantityInStock": domain.QtyPair{New: rec.QtyStockNew, Used: rec.QtyStockUsed},
		"quantityInStore": domain.QtyPair{New: rec.QtyStoreNew, Used: rec.QtyStoreUsed},
		"price":           domain.PricePair{New: rec.PriceNew, Used: rec.PriceUsed},
	})
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, valid := validate.ID(c.Params("id"))
	if !valid {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	if err := h.Catalog.DeleteProduct(id); err != nil {
		return failErr(c, "product.delete", err)
	}
	applog.Audit(c, "product.delete", map[string]any{"product": id})
	return ok(c, fiber.Map{"message": "product deleted"})
}
