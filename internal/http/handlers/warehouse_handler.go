package handlers

import (
	"github.com/gofiber/fiber/v2"

	"zanovi/internal/domain"
	applog "zanovi/internal/log"
	"zanovi/internal/services"
)

type WarehouseHandler struct {
	Aggregator *services.AggregatorService
	Reconciler *services.ReconcilerService
	Stock      *services.StockService
}

// Grouped returns the category -> subcategory -> entries view the
// warehouse screens render, stamped with the snapshot generation.
// Bucket keys come out as a nested map; clients treat ordering as
// unspecified.
func (h *WarehouseHandler) Grouped(c *fiber.Ctx) error {
	snap, err := h.Aggregator.Aggregate()
	if err != nil {
		return failErr(c, "warehouse.grouped", err)
	}

	grouped := fiber.Map{}
	for _, cg := range snap.Categories {
		subs := fiber.Map{}
		for _, sg := range cg.Subcategories {
			subs[sg.Name] = sg.Entries
		}
		grouped[cg.Name] = subs
	}
	return ok(c, fiber.Map{"generation": snap.Generation, "grouped": grouped})
}

// Units expands the counters into virtual per-item entries, optionally
// limited to one location tab.
func (h *WarehouseHandler) Units(c *fiber.Ctx) error {
	snap, err := h.Aggregator.Aggregate()
	if err != nil {
		return failErr(c, "warehouse.units", err)
	}

	var units []domain.Unit
	if loc := c.Query("location"); loc != "" {
		l := domain.Location(loc)
		if !l.Valid() {
			return fail(c, fiber.StatusBadRequest, "invalid location")
		}
		units = snap.ExpandLocation(l)
	} else {
		units = snap.Expand()
	}
	return ok(c, fiber.Map{"generation": snap.Generation, "units": units})
}

// Scan resolves one scanned code against the current inventory. A
// client that renders from an older snapshot sends its generation and
// gets a conflict back instead of mutating a moved target.
func (h *WarehouseHandler) Scan(c *fiber.Ctx) error {
	var body struct {
		EANCode    string `json:"eanCode"`
		Condition  string `json:"condition"`
		Location   string `json:"location"`
		Intent     string `json:"intent"`
		Generation uint64 `json:"generation"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	cond := domain.Condition(body.Condition)
	loc := domain.Location(body.Location)
	intent := services.Intent(body.Intent)
	if !cond.Valid() || !loc.Valid() || !intent.Valid() {
		return fail(c, fiber.StatusBadRequest, "invalid scan parameters")
	}

	snap, err := h.Aggregator.Aggregate()
	if err != nil {
		return failErr(c, "warehouse.scan", err)
	}
	// Generation zero means the client did not render from a snapshot,
	// so there is nothing to be stale against.
	if body.Generation > 0 {
		snap.Generation = body.Generation
	}

	res, err := h.Reconciler.ResolveScan(body.EANCode, cond, loc, intent, snap)
	if err != nil {
		return failErr(c, "warehouse.scan", err)
	}

	applog.Audit(c, "warehouse.scan", map[string]any{
		"ean": res.Code, "intent": body.Intent, "outcome": string(res.Outcome),
	})
	payload := fiber.Map{"outcome": string(res.Outcome), "eanCode": res.Code}
	if res.Outcome == services.OutcomeMatched {
		payload["product"] = res.Product
	}
	return ok(c, payload)
}

// ScanBatch partitions a list of codes into known and unknown products
// without mutating anything.
func (h *WarehouseHandler) ScanBatch(c *fiber.Ctx) error {
	var body struct {
		EANCodes []string `json:"eanCodes"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if len(body.EANCodes) == 0 {
		return fail(c, fiber.StatusBadRequest, "no codes supplied")
	}
	res, err := h.Reconciler.ResolveBatch(body.EANCodes)
	if err != nil {
		return failErr(c, "warehouse.scan_batch", err)
	}
	existing := make([]fiber.Map, 0, len(res.Existing))
	for _, m := range res.Existing {
		existing = append(existing, fiber.Map{"eanCode": m.Code, "product": m.Product})
	}
	return ok(c, fiber.Map{"existing": existing, "missing": res.Missing})
}
