package repos

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"zanovi/internal/domain"
)

type BuybackRepo struct{ db *sqlx.DB }

func NewBuybackRepo(db *sqlx.DB) *BuybackRepo { return &BuybackRepo{db: db} }

const buybackColumns = `
  id, first_name, last_name, nationality, residence, date_of_birth,
  phone_number, percent, COALESCE(created_at,'') AS created_at`

func (r *BuybackRepo) List() ([]domain.Buyback, error) {
	out := []domain.Buyback{}
	err := r.db.Select(&out, `
	  SELECT `+buybackColumns+`
	  FROM buybacks
	  ORDER BY datetime(created_at) DESC
	`)
	return out, err
}

func (r *BuybackRepo) Get(id string) (domain.Buyback, []domain.BuybackItem, error) {
	var b domain.Buyback
	if err := r.db.Get(&b, `
	  SELECT `+buybackColumns+`
	  FROM buybacks
	  WHERE id = ?
	`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return b, nil, ErrNotFound
		}
		return b, nil, err
	}

	items := []domain.BuybackItem{}
	if err := r.db.Select(&items, `
	  SELECT id, buyback_id, product_id, name, category, reference_price, buyback_price, overridden
	  FROM buyback_items
	  WHERE buyback_id = ?
	  ORDER BY rowid
	`, id); err != nil {
		return b, nil, err
	}
	return b, items, nil
}

// Create inserts the transaction header and its line items atomically.
func (r *BuybackRepo) Create(b domain.Buyback, items []domain.BuybackItem) (string, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	tx, err := r.db.Beginx()
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  INSERT INTO buybacks(id, first_name, last_name, nationality, residence,
	                       date_of_birth, phone_number, percent)
	  VALUES (?,?,?,?,?,?,?,?)
	`, b.ID, b.FirstName, b.LastName, b.Nationality, b.Residence,
		b.DateOfBirth, b.PhoneNumber, b.Percent.String()); err != nil {
		return "", err
	}

	if err := insertBuybackItems(tx, b.ID, items); err != nil {
		return "", err
	}

	return b.ID, tx.Commit()
}

// Update rewrites the header and replaces the line items.
func (r *BuybackRepo) Update(b domain.Buyback, items []domain.BuybackItem) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
	  UPDATE buybacks
	  SET first_name = ?, last_name = ?, nationality = ?, residence = ?,
	      date_of_birth = ?, phone_number = ?, percent = ?
	  WHERE id = ?
	`, b.FirstName, b.LastName, b.Nationality, b.Residence,
		b.DateOfBirth, b.PhoneNumber, b.Percent.String(), b.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(`DELETE FROM buyback_items WHERE buyback_id = ?`, b.ID); err != nil {
		return err
	}
	if err := insertBuybackItems(tx, b.ID, items); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *BuybackRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM buybacks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func insertBuybackItems(tx *sqlx.Tx, buybackID string, items []domain.BuybackItem) error {
	for _, it := range items {
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		if _, err := tx.Exec(`
		  INSERT INTO buyback_items(id, buyback_id, product_id, name, category,
		                            reference_price, buyback_price, overridden)
		  VALUES (?,?,?,?,?,?,?,?)
		`, it.ID, buybackID, it.ProductID, it.Name, it.Category,
			it.ReferencePrice.String(), it.BuybackPrice.String(), it.Overridden); err != nil {
			return err
		}
	}
	return nil
}
