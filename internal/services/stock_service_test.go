package services_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"zanovi/internal/domain"
	"zanovi/internal/pricing"
	"zanovi/internal/repos"
	"zanovi/internal/services"
)

func TestUpdateRecord_DerivesUsedPrice(t *testing.T) {
	db := memdb(t)
	gen := &services.Generation{}
	svc := services.NewStockService(repos.NewStockRepo(db), repos.NewStockUnitRepo(db), gen)

	rec, err := svc.UpdateRecord("ps2-001", services.StockUpdate{
		QuantityInStock: domain.QtyPair{New: 1, Used: 2},
		PriceNew:        decimal.NewFromFloat(99.99),
		Percent:         decimal.NewFromInt(60),
	})
	if err != nil {
		t.Fatal(err)
	}
	// 99.99 * 60% = 59.994 -> 59.99
	if rec.PriceUsed.StringFixed(2) != "59.99" {
		t.Fatalf("want derived 59.99, got %s", rec.PriceUsed)
	}
	if gen.Current() == 0 {
		t.Fatal("record rewrite must bump the generation")
	}
}

func TestUpdateRecord_OverrideWinsOverPercent(t *testing.T) {
	db := memdb(t)
	svc := services.NewStockService(repos.NewStockRepo(db), repos.NewStockUnitRepo(db), &services.Generation{})

	override := decimal.NewFromFloat(42.555)
	rec, err := svc.UpdateRecord("ps2-001", services.StockUpdate{
		PriceNew:  decimal.NewFromFloat(99.99),
		PriceUsed: &override,
		Percent:   decimal.NewFromInt(60),
	})
	if err != nil {
		t.Fatal(err)
	}
	if rec.PriceUsed.StringFixed(2) != "42.56" {
		t.Fatalf("override should be kept and rounded, got %s", rec.PriceUsed)
	}
}

func TestUpdateRecord_RejectsBadInput(t *testing.T) {
	db := memdb(t)
	svc := services.NewStockService(repos.NewStockRepo(db), repos.NewStockUnitRepo(db), &services.Generation{})

	_, err := svc.UpdateRecord("ps2-001", services.StockUpdate{
		QuantityInStock: domain.QtyPair{New: -1},
		Percent:         decimal.NewFromInt(60),
	})
	if !errors.Is(err, services.ErrInvalidQuantity) {
		t.Fatalf("want ErrInvalidQuantity, got %v", err)
	}

	_, err = svc.UpdateRecord("ps2-001", services.StockUpdate{
		PriceNew: decimal.NewFromInt(10),
		Percent:  decimal.NewFromInt(130),
	})
	if !errors.Is(err, pricing.ErrInvalidPercentage) {
		t.Fatalf("want ErrInvalidPercentage, got %v", err)
	}
}

func TestAdjustQuantity_OnlySingleSteps(t *testing.T) {
	db := memdb(t)
	svc := services.NewStockService(repos.NewStockRepo(db), repos.NewStockUnitRepo(db), &services.Generation{})

	if err := svc.AdjustQuantity("ps2-001", domain.CondNew, domain.LocStock, 3); !errors.Is(err, services.ErrInvalidQuantity) {
		t.Fatalf("want ErrInvalidQuantity for delta 3, got %v", err)
	}
	if err := svc.AdjustQuantity("ps2-001", "mint", domain.LocStock, 1); !errors.Is(err, services.ErrInvalidQuantity) {
		t.Fatalf("want ErrInvalidQuantity for bad condition, got %v", err)
	}
	if err := svc.AdjustQuantity("ps2-001", domain.CondNew, domain.LocStock, 1); err != nil {
		t.Fatal(err)
	}
}
