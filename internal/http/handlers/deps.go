package handlers

import (
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"zanovi/internal/repos"
	"zanovi/internal/services"
)

// Deps wires repositories and services once and hands each handler the
// slice it needs. main builds one Deps per process.
type Deps struct {
	Gen *services.Generation

	Auth       *AuthHandler
	Products   *ProductHandler
	Warehouse  *WarehouseHandler
	StockUnits *StockUnitHandler
	Categories *CategoryHandler
	Buybacks   *BuybackHandler
	Orders     *OrderHandler
	Consoles   *ConsoleHandler
}

func NewDeps(db *sqlx.DB, buybackPercent float64) *Deps {
	gen := &services.Generation{}

	stockRepo := repos.NewStockRepo(db)
	unitRepo := repos.NewStockUnitRepo(db)
	productRepo := repos.NewProductRepo(db)
	categoryRepo := repos.NewCategoryRepo(db)
	buybackRepo := repos.NewBuybackRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	consoleRepo := repos.NewConsoleRepo(db)
	userRepo := repos.NewUserRepo(db)

	auth := &services.AuthService{Users: userRepo}
	catalog := services.NewCatalogService(categoryRepo, productRepo)
	aggregator := services.NewAggregatorService(stockRepo, categoryRepo, gen)
	reconciler := services.NewReconcilerService(stockRepo, productRepo, gen)
	stock := services.NewStockService(stockRepo, unitRepo, gen)
	buyback := services.NewBuybackService(buybackRepo, stockRepo, decimal.NewFromFloat(buybackPercent))
	orders := services.NewOrderService(orderRepo)
	reservations := services.NewReservationService(consoleRepo)

	return &Deps{
		Gen:        gen,
		Auth:       &AuthHandler{Auth: auth},
		Products:   &ProductHandler{Catalog: catalog, Stock: stock},
		Warehouse:  &WarehouseHandler{Aggregator: aggregator, Reconciler: reconciler, Stock: stock},
		StockUnits: &StockUnitHandler{Stock: stock},
		Categories: &CategoryHandler{Catalog: catalog},
		Buybacks:   &BuybackHandler{Buybacks: buyback},
		Orders:     &OrderHandler{Orders: orders},
		Consoles:   &ConsoleHandler{Reservations: reservations},
	}
}
