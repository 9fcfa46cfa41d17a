package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"zanovi/internal/domain"
	applog "zanovi/internal/log"
	"zanovi/internal/services"
	"zanovi/internal/validate"
)

type BuybackHandler struct {
	Buybacks *services.BuybackService
}

func (h *BuybackHandler) List(c *fiber.Ctx) error {
	list, err := h.Buybacks.List()
	if err != nil {
		return failErr(c, "buyback.list", err)
	}
	return ok(c, fiber.Map{"buybacks": list})
}

func (h *BuybackHandler) Detail(c *fiber.Ctx) error {
	id, valid := validate.ID(c.Params("id"))
	if !valid {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	b, items, err := h.Buybacks.Get(id)
	if err != nil {
		return failErr(c, "buyback.detail", err)
	}
	return ok(c, fiber.Map{
		"buyback": b,
		"items":   items,
		"total":   services.Total(items),
	})
}

type buybackBody struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Nationality string `json:"nationality"`
	Residence   string `json:"residence"`
	DateOfBirth string `json:"dateOfBirth"`
	PhoneNumber string `json:"phoneNumber"`
	// Pointer so an omitted field falls back to the store default while
	// an explicit 0 records a genuine zero-percent offer.
	Percent *decimal.Decimal `json:"percent"`
	Items   []struct {
		ProductID string           `json:"productId"`
		Name      string           `json:"name"`
		Category  string           `json:"category"`
		Price     *decimal.Decimal `json:"price"`
	} `json:"items"`
}

func (b buybackBody) lines() []services.BuybackLine {
	lines := make([]services.BuybackLine, 0, len(b.Items))
	for _, it := range b.Items {
		lines = append(lines, services.BuybackLine{
			ProductID: it.ProductID,
			Name:      it.Name,
			Category:  it.Category,
			Price:     it.Price,
		})
	}
	return lines
}

func (h *BuybackHandler) Create(c *fiber.Ctx) error {
	var body buybackBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if len(body.Items) == 0 {
		return fail(c, fiber.StatusBadRequest, "buyback needs at least one item")
	}
	if body.DateOfBirth != "" {
		if _, valid := validate.Date(body.DateOfBirth); !valid {
			return fail(c, fiber.StatusBadRequest, "invalid date of birth")
		}
	}
	id, err := h.Buybacks.Create(domain.Buyback{
		FirstName:   body.FirstName,
		LastName:    body.LastName,
		Nationality: body.Nationality,
		Residence:   body.Residence,
		DateOfBirth: body.DateOfBirth,
		PhoneNumber: body.PhoneNumber,
	}, body.Percent, body.lines())
	if err != nil {
		return failErr(c, "buyback.create", err)
	}
	applog.Audit(c, "buyback.create", map[string]any{"buyback": id, "items": len(body.Items)})
	return ok(c, fiber.Map{"_id": id})
}

func (h *BuybackHandler) Update(c *fiber.Ctx) error {
	id, valid := validate.ID(c.Params("id"))
	if !valid {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	var body buybackBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	err := h.Buybacks.Update(domain.Buyback{
		ID:          id,
		FirstName:   body.FirstName,
		LastName:    body.LastName,
		Nationality: body.Nationality,
		Residence:   body.Residence,
		DateOfBirth: body.DateOfBirth,
		PhoneNumber: body.PhoneNumber,
	}, body.Percent, body.lines())
	if err != nil {
		return failErr(c, "buyback.update", err)
	}
	applog.Audit(c, "buyback.update", map[string]any{"buyback": id})
	return ok(c, fiber.Map{"message": "buyback updated"})
}

func (h *BuybackHandler) Delete(c *fiber.Ctx) error {
	id, valid := validate.ID(c.Params("id"))
	if !valid {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	if err := h.Buybacks.Delete(id); err != nil {
		return failErr(c, "buyback.delete", err)
	}
	applog.Audit(c, "buyback.delete", map[string]any{"buyback": id})
	return ok(c, fiber.Map{"message": "buyback deleted"})
}

// Download streams the protocol as a spreadsheet attachment.
func (h *BuybackHandler) Download(c *fiber.Ctx) error {
	id, valid := validate.ID(c.Params("id"))
	if !valid {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	data, name, err := h.Buybacks.ExportXLSX(id)
	if err != nil {
		return failErr(c, "buyback.download", err)
	}
	applog.Audit(c, "buyback.download", map[string]any{"buyback": id})
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return c.Send(data)
}

// Print renders the protocol as a printable HTML page.
func (h *BuybackHandler) Print(c *fiber.Ctx) error {
	id, valid := validate.ID(c.Params("id"))
	if !valid {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	data, err := h.Buybacks.PrintData(id)
	if err != nil {
		return failErr(c, "buyback.print", err)
	}
	return c.Render("buyback", fiber.Map{
		"B":     data.Buyback,
		"Items": data.Items,
		"Total": data.Total,
	})
}
