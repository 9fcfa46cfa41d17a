package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"zanovi/internal/domain"
)

type StockRepo struct{ db *sqlx.DB }

func NewStockRepo(db *sqlx.DB) *StockRepo { return &StockRepo{db: db} }

// counterColumn maps a bucket to its column. Callers only ever reach
// this through validated Condition/Location values, so the returned
// name is safe to splice into SQL.
func counterColumn(cond domain.Condition, loc domain.Location) string {
	switch {
	case loc == domain.LocStock && cond == domain.CondNew:
		return "qty_stock_new"
	case loc == domain.LocStock && cond == domain.CondUsed:
		return "qty_stock_used"
	case loc == domain.LocStore && cond == domain.CondNew:
		return "qty_store_new"
	default:
		return "qty_store_used"
	}
}

func (r *StockRepo) Get(productID string) (domain.StockRecord, error) {
	var rec domain.StockRecord
	err := r.db.Get(&rec, `
	  SELECT product_id, qty_stock_new, qty_stock_used, qty_store_new, qty_store_used,
	         price_new, price_used, documents_json, COALESCE(updated_at,'') AS updated_at
	  FROM stock_records
	  WHERE product_id = ?
	`, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, ErrNotFound
	}
	return rec, err
}

// Pair couples a product with its stock record. Record is nil for
// products that have no ledger row yet (partially migrated data).
type Pair struct {
	Product domain.Product
	Record  *domain.StockRecord
}

// ListPairs loads every active product with its stock record, in
// catalog insertion order.
func (r *StockRepo) ListPairs() ([]Pair, error) {
	var products []domain.Product
	if err := r.db.Select(&products, `
	  SELECT id, name, category, sub_category, description, description2, ean_code,
	         serial_number, bestseller, active, created_at, COALESCE(updated_at,'') AS updated_at
	  FROM products
	  WHERE active = 1
	  ORDER BY rowid
	`); err != nil {
		return nil, err
	}

	var records []domain.StockRecord
	if err := r.db.Select(&records, `
	  SELECT product_id, qty_stock_new, qty_stock_used, qty_store_new, qty_store_used,
	         price_new, price_used, documents_json, COALESCE(updated_at,'') AS updated_at
	  FROM stock_records
	`); err != nil {
		return nil, err
	}
	byProduct := make(map[string]*domain.StockRecord, len(records))
	for i := range records {
		byProduct[records[i].ProductID] = &records[i]
	}

	pairs := make([]Pair, 0, len(products))
	for _, p := range products {
		pairs = append(pairs, Pair{Product: p, Record: byProduct[p.ID]})
	}
	return pairs, nil
}

// Upsert replaces the full ledger row for a product.
func (r *StockRepo) Upsert(rec domain.StockRecord) error {
	_, err := r.db.Exec(`
	  INSERT INTO stock_records
	    (product_id, qty_stock_new, qty_stock_used, qty_store_new, qty_store_used,
	     price_new, price_used, documents_json, updated_at)
	  VALUES (?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	  ON CONFLICT(product_id) DO UPDATE SET
	    qty_stock_new  = excluded.qty_stock_new,
	    qty_stock_used = excluded.qty_stock_used,
	    qty_store_new  = excluded.qty_store_new,
	    qty_store_used = excluded.qty_store_used,
	    price_new      = excluded.price_new,
	    price_used     = excluded.price_used,
	    documents_json = excluded.documents_json,
	    updated_at     = CURRENT_TIMESTAMP
	`, rec.ProductID, rec.QtyStockNew, rec.QtyStockUsed, rec.QtyStoreNew, rec.QtyStoreUsed,
		rec.PriceNew.String(), rec.PriceUsed.String(), rec.DocumentsJSON)
	return err
}

// Increment adds one to a bucket counter as a single atomic statement,
// creating the ledger row when missing.
func (r *StockRepo) Increment(productID string, cond domain.Condition, loc domain.Location) error {
	col := counterColumn(cond, loc)
	_, err := r.db.Exec(`
	  INSERT INTO stock_records(product_id, `+col+`, updated_at)
	  VALUES (?, 1, CURRENT_TIMESTAMP)
	  ON CONFLICT(product_id) DO UPDATE SET
	    `+col+` = `+col+` + 1,
	    updated_at = CURRENT_TIMESTAMP
	`, productID)
	return err
}

// Decrement subtracts one from a bucket counter, guarded so the value
// never goes below zero. The delta and precondition travel in one
// statement; the client never writes a full counter value back.
func (r *StockRepo) Decrement(productID string, cond domain.Condition, loc domain.Location) error {
	return decrementCounter(r.db, productID, cond, loc)
}

func decrementCounter(q sqlx.Ext, productID string, cond domain.Condition, loc domain.Location) error {
	col := counterColumn(cond, loc)
	res, err := q.Exec(`
	  UPDATE stock_records
	  SET `+col+` = `+col+` - 1, updated_at = CURRENT_TIMESTAMP
	  WHERE product_id = ? AND `+col+` >= 1
	`, productID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		var exists int
		if err := sqlx.Get(q, &exists, `SELECT COUNT(*) FROM stock_records WHERE product_id = ?`, productID); err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}
		return ErrWouldGoNegative
	}
	return nil
}

// DecrementRetiringUnit applies the guarded -1 and retires the oldest
// persisted unit row in the same bucket inside one transaction, so a
// failure between the two cannot leave the counter and the rows
// disagreeing. Buckets without unit rows just decrement.
func (r *StockRepo) DecrementRetiringUnit(productID string, cond domain.Condition, loc domain.Location) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := decrementCounter(tx, productID, cond, loc); err != nil {
		return err
	}
	if err := retireOldestUnit(tx, productID, cond, loc); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return tx.Commit()
}
