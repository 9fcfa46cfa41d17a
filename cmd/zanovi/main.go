package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"zanovi/internal/config"
	"zanovi/internal/http/handlers"
	applog "zanovi/internal/log"
	"zanovi/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Templates only back the printable buyback protocol; everything
	// else is a JSON API for the admin client.
	engine := html.New(cfg.TemplateDir, ".html")

	app := fiber.New(fiber.Config{
		Views:        engine,
		UnescapePath: true, // category names in paths carry diacritics
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if fe, isFiber := err.(*fiber.Error); isFiber {
				code = fe.Code
			}
			if code >= 500 {
				applog.Error(c, "server.error", err, nil)
			}
			return c.Status(code).JSON(fiber.Map{"success": false, "message": "Something went wrong. Please try again."})
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := c.Path()
			return p == "/healthz" || p == "/metrics"
		},
	}))

	deps := handlers.NewDeps(db, cfg.BuybackPercent)
	authSvc := deps.Auth.Auth

	api := app.Group("/api")

	// Auth (login throttled separately)
	api.Post("/auth/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"success": false, "message": "Too many attempts. Please try again later."})
		},
	}), deps.Auth.Login)
	api.Post("/auth/logout", deps.Auth.Logout)

	// Everything registered from here on needs a logged-in operator.
	api.Use(handlers.RequireUser(authSvc))
	api.Get("/auth/me", deps.Auth.Me)
	authed := api

	// Products
	authed.Get("/product/all", deps.Products.List)
	authed.Get("/product/search", deps.Products.Search)
	authed.Get("/product/:id", deps.Products.Detail)
	authed.Post("/product/add", deps.Products.Add)
	authed.Put("/product/update/:id", deps.Products.Update)
	authed.Put("/product/update-ean/:id", deps.Products.UpdateEAN)
	authed.Put("/product/update-quantity/:id", deps.Products.UpdateQuantity)
	authed.Put("/product/warehouse-update/:id", deps.Products.WarehouseUpdate)
	authed.Delete("/product/delete/:id", handlers.RequireAdmin(), deps.Products.Delete)

	// Warehouse views and scanning
	authed.Get("/warehouse/grouped", deps.Warehouse.Grouped)
	authed.Get("/warehouse/units", deps.Warehouse.Units)
	authed.Post("/warehouse/scan", deps.Warehouse.Scan)
	authed.Post("/warehouse/scan/batch", deps.Warehouse.ScanBatch)

	// Persisted per-item rows
	authed.Get("/warehouse-products/product/:id", deps.StockUnits.ListForProduct)
	authed.Post("/warehouse-products/add", deps.StockUnits.Create)
	authed.Put("/warehouse-products/update/:id", deps.StockUnits.Update)
	authed.Delete("/warehouse-products/delete/:id", deps.StockUnits.Delete)

	// Taxonomy
	authed.Get("/category/all", deps.Categories.List)
	authed.Post("/category/add", deps.Categories.Add)
	authed.Delete("/category/delete/:name", handlers.RequireAdmin(), deps.Categories.Delete)
	authed.Get("/category/:name/subcategories", deps.Categories.Subcategories)
	authed.Post("/category/:name/subcategories", deps.Categories.AddSubcategory)
	authed.Delete("/category/:name/subcategories/:sub", handlers.RequireAdmin(), deps.Categories.DeleteSubcategory)

	// Buybacks
	authed.Get("/buyback/all", deps.Buybacks.List)
	authed.Get("/buyback/:id", deps.Buybacks.Detail)
	authed.Post("/buyback/add", deps.Buybacks.Create)
	authed.Put("/buyback/update/:id", deps.Buybacks.Update)
	authed.Delete("/buyback/delete/:id", handlers.RequireAdmin(), deps.Buybacks.Delete)
	authed.Get("/buyback/:id/download", deps.Buybacks.Download)
	authed.Get("/buyback/:id/print", deps.Buybacks.Print)

	// Orders
	authed.Get("/order/all", deps.Orders.List)
	authed.Put("/order/status/:id", deps.Orders.UpdateStatus)
	authed.Delete("/order/delete/:id", handlers.RequireAdmin(), deps.Orders.Delete)

	// Gaming corner
	authed.Get("/consoles", deps.Consoles.ListConsoles)
	authed.Post("/consoles", deps.Consoles.AddConsole)
	authed.Delete("/consoles/:id", handlers.RequireAdmin(), deps.Consoles.DeleteConsole)
	authed.Get("/reservations", deps.Consoles.ListReservations)
	authed.Post("/reservations", deps.Consoles.CreateReservation)
	authed.Delete("/reservations/:id", deps.Consoles.DeleteReservation)

	// Health & metrics
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	if cfg.MetricsEnabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "not found"})
	})

	log.Fatal(app.Listen(cfg.Addr))
}
