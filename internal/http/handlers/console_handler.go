package handlers

import (
	"github.com/gofiber/fiber/v2"

	"zanovi/internal/domain"
	applog "zanovi/internal/log"
	"zanovi/internal/services"
	"zanovi/internal/validate"
)

// ConsoleHandler covers the gaming corner: playable consoles and their
// reservations.
type ConsoleHandler struct {
	Reservations *services.ReservationService
}

func (h *ConsoleHandler) ListConsoles(c *fiber.Ctx) error {
	consoles, err := h.Reservations.ListConsoles()
	if err != nil {
		return failErr(c, "console.list", err)
	}
	return ok(c, fiber.Map{"consoles": consoles})
}

func (h *ConsoleHandler) AddConsole(c *fiber.Ctx) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	name, valid := validate.Name(body.Name)
	if !valid {
		return fail(c, fiber.StatusBadRequest, "invalid console name")
	}
	id, err := h.Reservations.AddConsole(name)
	if err != nil {
		return failErr(c, "console.add", err)
	}
	applog.Audit(c, "console.add", map[string]any{"console": id, "name": name})
	return ok(c, fiber.Map{"_id": id})
}

func (h *ConsoleHandler) DeleteConsole(c *fiber.Ctx) error {
	id, valid := validate.ID(c.Params("id"))
	if !valid {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	if err := h.Reservations.DeleteConsole(id); err != nil {
		return failErr(c, "console.delete", err)
	}
	applog.Audit(c, "console.delete", map[string]any{"console": id})
	return ok(c, fiber.Map{"message": "console deleted"})
}

func (h *ConsoleHandler) ListReservations(c *fiber.Ctx) error {
	rvs, err := h.Reservations.ListReservations()
	if err != nil {
		return failErr(c, "reservation.list", err)
	}
	return ok(c, fiber.Map{"reservations": rvs})
}

func (h *ConsoleHandler) CreateReservation(c *fiber.Ctx) error {
	var body struct {
		ConsoleID    string `json:"consoleId"`
		DateTime     string `json:"dateTime"`
		Duration     int    `json:"duration"`
		Persons      int    `json:"persons"`
		CustomerName string `json:"customerName"`
		PhoneNumber  string `json:"phoneNumber"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	consoleID, valid := validate.ID(body.ConsoleID)
	if !valid {
		return fail(c, fiber.StatusBadRequest, "invalid console id")
	}
	if body.PhoneNumber != "" {
		if _, valid := validate.Phone(body.PhoneNumber); !valid {
			return fail(c, fiber.StatusBadRequest, "invalid phone number")
		}
	}
	id, err := h.Reservations.CreateReservation(domain.Reservation{
		ConsoleID:     consoleID,
		DateTime:      body.DateTime,
		DurationHours: body.Duration,
		Persons:       body.Persons,
		CustomerName:  body.CustomerName,
		PhoneNumber:   body.PhoneNumber,
	})
	if err != nil {
		return failErr(c, "reservation.create", err)
	}
	applog.Audit(c, "reservation.create", map[string]any{"reservation": id, "console": consoleID})
	return ok(c, fiber.Map{"_id": id})
}

func (h *ConsoleHandler) DeleteReservation(c *fiber.Ctx) error {
	id, valid := validate.ID(c.Params("id"))
	if !valid {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	if err := h.Reservations.DeleteReservation(id); err != nil {
		return failErr(c, "reservation.delete", err)
	}
	applog.Audit(c, "reservation.delete", map[string]any{"reservation": id})
	return ok(c, fiber.Map{"message": "reservation deleted"})
}
