package repos

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"zanovi/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productColumns = `
  id, name, category, sub_category, description, description2, ean_code,
  serial_number, bestseller, active, created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) List() ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.Select(&out, `
	  SELECT `+productColumns+`
	  FROM products
	  WHERE active = 1
	  ORDER BY rowid
	`)
	return out, err
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `
	  SELECT `+productColumns+`
	  FROM products
	  WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	return p, err
}

// Search matches a partial name, case-insensitive.
func (r *ProductRepo) Search(query string, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 20
	}
	out := []domain.Product{}
	err := r.db.Select(&out, `
	  SELECT `+productColumns+`
	  FROM products
	  WHERE active = 1 AND LOWER(name) LIKE '%' || LOWER(?) || '%'
	  ORDER BY LOWER(name)
	  LIMIT ?
	`, query, limit)
	return out, err
}

func (r *ProductRepo) Create(p domain.Product) (string, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := r.db.Exec(`
	  INSERT INTO products(id, name, category, sub_category, description, description2,
	                       ean_code, serial_number, bestseller, active)
	  VALUES (?,?,?,?,?,?,?,?,?,1)
	`, p.ID, p.Name, p.Category, p.SubCategory, p.Description, p.Description2,
		p.EANCode, p.SerialNumber, p.Bestseller)
	return p.ID, err
}

func (r *ProductRepo) Update(p domain.Product) error {
	res, err := r.db.Exec(`
	  UPDATE products
	  SET name = ?, category = ?, sub_category = ?, description = ?, description2 = ?,
	      ean_code = ?, serial_number = ?, bestseller = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, p.Name, p.Category, p.SubCategory, p.Description, p.Description2,
		p.EANCode, p.SerialNumber, p.Bestseller, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateEAN sets the catalog-level EAN directly (used when an operator
// labels a unit and wants future scans to match the product).
func (r *ProductRepo) UpdateEAN(id, eanCode string) error {
	res, err := r.db.Exec(`
	  UPDATE products SET ean_code = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, eanCode, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a product; the stock ledger and unit rows go with it
// via foreign keys.
func (r *ProductRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
