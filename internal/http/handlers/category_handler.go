package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "zanovi/internal/log"
	"zanovi/internal/services"
	"zanovi/internal/validate"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		return failErr(c, "category.list", err)
	}
	return ok(c, fiber.Map{"categories": cats})
}

func (h *CategoryHandler) Add(c *fiber.Ctx) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	name, valid := validate.Name(body.Name)
	if !valid {
		return fail(c, fiber.StatusBadRequest, "invalid category name")
	}
	id, err := h.Catalog.AddCategory(name)
	if err != nil {
		return failErr(c, "category.add", err)
	}
	applog.Audit(c, "category.add", map[string]any{"category": name})
	return ok(c, fiber.Map{"_id": id})
}

func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	name, valid := validate.Name(c.Params("name"))
	if !valid {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	if err := h.Catalog.DeleteCategory(name); err != nil {
		return failErr(c, "category.delete", err)
	}
	applog.Audit(c, "category.delete", map[string]any{"category": name})
	return ok(c, fiber.Map{"message": "category deleted"})
}

func (h *CategoryHandler) Subcategories(c *fiber.Ctx) error {
	name, valid := validate.Name(c.Params("name"))
	if !valid {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	subs, err := h.Catalog.Subcategories(name)
	if err != nil {
		return failErr(c, "category.subcategories", err)
	}
	return ok(c, fiber.Map{"subCategories": subs})
}

func (h *CategoryHandler) AddSubcategory(c *fiber.Ctx) error {
	name, valid := validate.Name(c.Params("name"))
	if !valid {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	subName, valid := validate.Name(body.Name)
	if !valid {
		return fail(c, fiber.StatusBadRequest, "invalid subcategory name")
	}
	id, err := h.Catalog.AddSubcategory(name, subName)
	if err != nil {
		return failErr(c, "category.add_subcategory", err)
	}
	applog.Audit(c, "category.add_subcategory", map[string]any{"category": name, "subCategory": subName})
	return ok(c, fiber.Map{"_id": id})
}

func (h *CategoryHandler) DeleteSubcategory(c *fiber.Ctx) error {
	name, valid := validate.Name(c.Params("name"))
	if !valid {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	subName, valid := validate.Name(c.Params("sub"))
	if !valid {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	if err := h.Catalog.DeleteSubcategory(name, subName); err != nil {
		return failErr(c, "category.delete_subcategory", err)
	}
	applog.Audit(c, "category.delete_subcategory", map[string]any{"category": name, "subCategory": subName})
	return ok(c, fiber.Map{"message": "subcategory deleted"})
}
