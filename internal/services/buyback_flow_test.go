package services_test

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"zanovi/internal/domain"
	"zanovi/internal/pricing"
	"zanovi/internal/repos"
	"zanovi/internal/services"
)

func buybackdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db := memdb(t)
	extra := `
	CREATE TABLE buybacks(id TEXT PRIMARY KEY, first_name TEXT NOT NULL, last_name TEXT NOT NULL,
	  nationality TEXT NOT NULL DEFAULT '', residence TEXT NOT NULL DEFAULT '',
	  date_of_birth TEXT NOT NULL DEFAULT '', phone_number TEXT NOT NULL DEFAULT '',
	  percent TEXT NOT NULL DEFAULT '60', created_at TEXT DEFAULT CURRENT_TIMESTAMP);
	CREATE TABLE buyback_items(id TEXT PRIMARY KEY, buyback_id TEXT NOT NULL,
	  product_id TEXT NOT NULL DEFAULT '', name TEXT NOT NULL, category TEXT NOT NULL DEFAULT '',
	  reference_price TEXT NOT NULL DEFAULT '0', buyback_price TEXT NOT NULL DEFAULT '0',
	  overridden INTEGER NOT NULL DEFAULT 0);
	`
	if _, err := db.Exec(extra); err != nil {
		t.Fatal(err)
	}
	return db
}

func newBuyback(db *sqlx.DB) *services.BuybackService {
	return services.NewBuybackService(repos.NewBuybackRepo(db), repos.NewStockRepo(db), decimal.NewFromInt(60))
}

func TestBuybackCreate_DerivesFromNewPrice(t *testing.T) {
	db := buybackdb(t)
	svc := newBuyback(db)

	override := decimal.NewFromInt(50)
	id, err := svc.Create(domain.Buyback{FirstName: "Jana", LastName: "Novakova"}, nil, []services.BuybackLine{
		{ProductID: "ps2-001", Name: "PlayStation 2 Slim", Category: "Konzoly"},
		{Name: "Krabica kablov", Price: &override},
	})
	if err != nil {
		t.Fatal(err)
	}

	b, items, err := svc.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if !b.Percent.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("omitted percent should fall back to the default, got %s", b.Percent)
	}
	if len(items) != 2 {
		t.Fatalf("want 2 items, got %d", len(items))
	}

	// 129.99 * 60% = 77.994 -> 77.99
	if items[0].BuybackPrice.StringFixed(2) != "77.99" || items[0].Overridden {
		t.Fatalf("bad derived line: %+v", items[0])
	}
	if items[1].Category != "Custom" || !items[1].Overridden || items[1].BuybackPrice.StringFixed(2) != "50.00" {
		t.Fatalf("bad free-text line: %+v", items[1])
	}

	if services.Total(items).StringFixed(2) != "127.99" {
		t.Fatalf("bad total: %s", services.Total(items))
	}
}

func TestBuybackCreate_ExplicitZeroPercentKept(t *testing.T) {
	db := buybackdb(t)
	svc := newBuyback(db)

	zero := decimal.Zero
	id, err := svc.Create(domain.Buyback{FirstName: "Jana", LastName: "Novakova"}, &zero,
		[]services.BuybackLine{{ProductID: "ps2-001", Name: "PlayStation 2 Slim", Category: "Konzoly"}})
	if err != nil {
		t.Fatal(err)
	}

	b, items, err := svc.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if !b.Percent.IsZero() {
		t.Fatalf("explicit 0%% must not fall back to the default, got %s", b.Percent)
	}
	if !items[0].BuybackPrice.IsZero() || items[0].Overridden {
		t.Fatalf("zero percent should derive a zero offer: %+v", items[0])
	}
}

func TestBuybackCreate_InvalidPercentWritesNothing(t *testing.T) {
	db := buybackdb(t)
	svc := newBuyback(db)

	bad := decimal.NewFromInt(120)
	_, err := svc.Create(domain.Buyback{FirstName: "Jana", LastName: "Novakova"}, &bad,
		[]services.BuybackLine{{Name: "Hocico"}})
	if !errors.Is(err, pricing.ErrInvalidPercentage) {
		t.Fatalf("want ErrInvalidPercentage, got %v", err)
	}

	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM buybacks`); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatal("failed validation must not persist a buyback")
	}
}

func TestBuybackExport_ProducesWorkbook(t *testing.T) {
	db := buybackdb(t)
	svc := newBuyback(db)

	id, err := svc.Create(domain.Buyback{FirstName: "Jana", LastName: "Novakova"}, nil, []services.BuybackLine{
		{ProductID: "ps2-001", Name: "PlayStation 2 Slim", Category: "Konzoly"},
	})
	if err != nil {
		t.Fatal(err)
	}

	data, name, err := svc.ExportXLSX(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Fatal("empty workbook")
	}
	if name != "vykup-"+id+".xlsx" {
		t.Fatalf("unexpected filename %q", name)
	}
}
