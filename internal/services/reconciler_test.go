package services_test

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"

	"zanovi/internal/domain"
	"zanovi/internal/repos"
	"zanovi/internal/services"
)

func newReconciler(db *sqlx.DB) (*services.ReconcilerService, *services.AggregatorService, *services.Generation) {
	gen := &services.Generation{}
	stock := repos.NewStockRepo(db)
	agg := services.NewAggregatorService(stock, repos.NewCategoryRepo(db), gen)
	rec := services.NewReconcilerService(stock, repos.NewProductRepo(db), gen)
	return rec, agg, gen
}

func TestResolveScan_AddMatched(t *testing.T) {
	db := memdb(t)
	rec, agg, gen := newReconciler(db)

	snap, _ := agg.Aggregate()
	res, err := rec.ResolveScan(" 111 ", domain.CondNew, domain.LocStock, services.IntentAdd, snap)
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != services.OutcomeMatched || res.Product.ID != "ps2-001" {
		t.Fatalf("bad result: %+v", res)
	}

	r, err := repos.NewStockRepo(db).Get("ps2-001")
	if err != nil {
		t.Fatal(err)
	}
	if r.QtyStockNew != 3 {
		t.Fatalf("want counter 3, got %d", r.QtyStockNew)
	}
	if gen.Current() == snap.Generation {
		t.Fatal("mutation must bump the generation")
	}
}

func TestResolveScan_AddUnknownSignalsCreate(t *testing.T) {
	db := memdb(t)
	rec, agg, gen := newReconciler(db)

	snap, _ := agg.Aggregate()
	before := gen.Current()

	res, err := rec.ResolveScan("999", domain.CondNew, domain.LocStock, services.IntentAdd, snap)
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != services.OutcomeCreateRequired || res.Code != "999" {
		t.Fatalf("bad result: %+v", res)
	}
	// Signal only: nothing created, nothing bumped.
	if gen.Current() != before {
		t.Fatal("create_required must not bump the generation")
	}
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products WHERE ean_code='999'`); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatal("create_required must not create a product")
	}
}

func TestResolveScan_RemoveAtZero(t *testing.T) {
	db := memdb(t)
	rec, agg, _ := newReconciler(db)

	snap, _ := agg.Aggregate()
	// gbc-001 has zero new-in-stock.
	_, err := rec.ResolveScan("222", domain.CondNew, domain.LocStock, services.IntentRemove, snap)
	if !errors.Is(err, repos.ErrWouldGoNegative) {
		t.Fatalf("want ErrWouldGoNegative, got %v", err)
	}

	r, err := repos.NewStockRepo(db).Get("gbc-001")
	if err != nil {
		t.Fatal(err)
	}
	if r.QtyStockNew != 0 {
		t.Fatalf("counter must stay at zero, got %d", r.QtyStockNew)
	}
}

func TestResolveScan_StaleSnapshotRejected(t *testing.T) {
	db := memdb(t)
	rec, agg, gen := newReconciler(db)

	snap, _ := agg.Aggregate()
	gen.Bump() // another operator mutated in between

	_, err := rec.ResolveScan("111", domain.CondUsed, domain.LocStock, services.IntentRemove, snap)
	if !errors.Is(err, services.ErrStaleSnapshot) {
		t.Fatalf("want ErrStaleSnapshot, got %v", err)
	}

	r, _ := repos.NewStockRepo(db).Get("ps2-001")
	if r.QtyStockUsed != 1 {
		t.Fatalf("stale scan must not mutate, got %d", r.QtyStockUsed)
	}
}

func TestResolveScan_RemoveRetiresOldestUnit(t *testing.T) {
	db := memdb(t)
	rec, agg, _ := newReconciler(db)

	db.MustExec(`INSERT INTO stock_units(id,product_id,condition,location,created_at) VALUES
	  ('unit-old','ps2-001','used','store','2024-01-01'),
	  ('unit-new','ps2-001','used','store','2024-06-01')`)

	snap, _ := agg.Aggregate()
	if _, err := rec.ResolveScan("111", domain.CondUsed, domain.LocStore, services.IntentRemove, snap); err != nil {
		t.Fatal(err)
	}

	var ids []string
	if err := db.Select(&ids, `SELECT id FROM stock_units WHERE product_id='ps2-001'`); err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != "unit-new" {
		t.Fatalf("oldest unit should go first, left: %v", ids)
	}
}

func TestResolveBatch_Partitions(t *testing.T) {
	db := memdb(t)
	rec, _, _ := newReconciler(db)

	res, err := rec.ResolveBatch([]string{"111", " 222 ", "999", ""})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Existing) != 2 {
		t.Fatalf("want 2 existing, got %+v", res.Existing)
	}
	if res.Existing[0].Product.ID != "ps2-001" || res.Existing[1].Product.ID != "gbc-001" {
		t.Fatalf("wrong products matched: %+v", res.Existing)
	}
	if len(res.Missing) != 1 || res.Missing[0] != "999" {
		t.Fatalf("want missing [999], got %v", res.Missing)
	}
}
