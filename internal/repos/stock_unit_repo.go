package repos

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"zanovi/internal/domain"
)

// StockUnitRepo manages the one-row-per-physical-item projection. Every
// create/move/delete adjusts the owning counter inside the same
// transaction so rows and counters cannot drift.
type StockUnitRepo struct{ db *sqlx.DB }

func NewStockUnitRepo(db *sqlx.DB) *StockUnitRepo { return &StockUnitRepo{db: db} }

func (r *StockUnitRepo) ListByProduct(productID string) ([]domain.StockUnit, error) {
	units := []domain.StockUnit{}
	err := r.db.Select(&units, `
	  SELECT id, product_id, ean_code, serial_number, condition, location,
	         COALESCE(created_at,'') AS created_at
	  FROM stock_units
	  WHERE product_id = ?
	  ORDER BY created_at, id
	`, productID)
	return units, err
}

// Create inserts the unit row and increments its bucket counter.
func (r *StockUnitRepo) Create(u domain.StockUnit) (string, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	tx, err := r.db.Beginx()
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  INSERT INTO stock_units(id, product_id, ean_code, serial_number, condition, location)
	  VALUES (?,?,?,?,?,?)
	`, u.ID, u.ProductID, u.EANCode, u.SerialNumber, u.Condition, u.Location); err != nil {
		return "", err
	}

	col := counterColumn(u.Condition, u.Location)
	if _, err := tx.Exec(`
	  INSERT INTO stock_records(product_id, `+col+`, updated_at)
	  VALUES (?, 1, CURRENT_TIMESTAMP)
	  ON CONFLICT(product_id) DO UPDATE SET
	    `+col+` = `+col+` + 1,
	    updated_at = CURRENT_TIMESTAMP
	`, u.ProductID); err != nil {
		return "", err
	}

	return u.ID, tx.Commit()
}

// Update rewrites scan identity and, when the bucket changed, moves one
// count from the old bucket to the new one under the >= 1 guard.
func (r *StockUnitRepo) Update(id, eanCode, serialNumber string, cond domain.Condition, loc domain.Location) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var prev domain.StockUnit
	if err := tx.Get(&prev, `
	  SELECT id, product_id, ean_code, serial_number, condition, location,
	         COALESCE(created_at,'') AS created_at
	  FROM stock_units WHERE id = ?
	`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if _, err := tx.Exec(`
	  UPDATE stock_units
	  SET ean_code = ?, serial_number = ?, condition = ?, location = ?
	  WHERE id = ?
	`, eanCode, serialNumber, cond, loc, id); err != nil {
		return err
	}

	if prev.Condition != cond || prev.Location != loc {
		oldCol := counterColumn(prev.Condition, prev.Location)
		res, err := tx.Exec(`
		  UPDATE stock_records
		  SET `+oldCol+` = `+oldCol+` - 1, updated_at = CURRENT_TIMESTAMP
		  WHERE product_id = ? AND `+oldCol+` >= 1
		`, prev.ProductID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrWouldGoNegative
		}
		newCol := counterColumn(cond, loc)
		if _, err := tx.Exec(`
		  UPDATE stock_records
		  SET `+newCol+` = `+newCol+` + 1, updated_at = CURRENT_TIMESTAMP
		  WHERE product_id = ?
		`, prev.ProductID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Delete removes the unit row and decrements its bucket counter.
func (r *StockUnitRepo) Delete(id string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var prev domain.StockUnit
	if err := tx.Get(&prev, `
	  SELECT id, product_id, ean_code, serial_number, condition, location,
	         COALESCE(created_at,'') AS created_at
	  FROM stock_units WHERE id = ?
	`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if _, err := tx.Exec(`DELETE FROM stock_units WHERE id = ?`, id); err != nil {
		return err
	}

	col := counterColumn(prev.Condition, prev.Location)
	res, err := tx.Exec(`
	  UPDATE stock_records
	  SET `+col+` = `+col+` - 1, updated_at = CURRENT_TIMESTAMP
	  WHERE product_id = ? AND `+col+` >= 1
	`, prev.ProductID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrWouldGoNegative
	}

	return tx.Commit()
}

// retireOldestUnit removes the oldest unit row in a bucket, if one
// exists. Scan-remove runs it inside the decrement transaction so the
// FIFO removal keeps rows and counters aligned; ErrNotFound means the
// bucket has no rows (counters-only stock).
func retireOldestUnit(q sqlx.Ext, productID string, cond domain.Condition, loc domain.Location) error {
	res, err := q.Exec(`
	  DELETE FROM stock_units
	  WHERE id = (
	    SELECT id FROM stock_units
	    WHERE product_id = ? AND condition = ? AND location = ?
	    ORDER BY created_at, id
	    LIMIT 1
	  )
	`, productID, cond, loc)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
