package repos

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"zanovi/internal/domain"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) List() ([]domain.Category, error) {
	out := []domain.Category{}
	err := r.db.Select(&out, `
	  SELECT id, name, COALESCE(created_at,'') AS created_at
	  FROM categories
	  ORDER BY name
	`)
	return out, err
}

func (r *CategoryRepo) ByName(name string) (domain.Category, error) {
	var c domain.Category
	err := r.db.Get(&c, `
	  SELECT id, name, COALESCE(created_at,'') AS created_at
	  FROM categories
	  WHERE LOWER(name) = LOWER(?)
	`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return c, ErrNotFound
	}
	return c, err
}

func (r *CategoryRepo) Add(name string) (string, error) {
	id := uuid.NewString()
	_, err := r.db.Exec(`INSERT INTO categories(id,name) VALUES(?,?)`, id, name)
	return id, err
}

func (r *CategoryRepo) Delete(name string) error {
	res, err := r.db.Exec(`DELETE FROM categories WHERE LOWER(name) = LOWER(?)`, name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CategoryRepo) Subcategories(categoryName string) ([]domain.SubCategory, error) {
	out := []domain.SubCategory{}
	err := r.db.Select(&out, `
	  SELECT s.id, s.category_id, s.name
	  FROM subcategories s
	  JOIN categories c ON c.id = s.category_id
	  WHERE LOWER(c.name) = LOWER(?)
	  ORDER BY s.name
	`, categoryName)
	return out, err
}

func (r *CategoryRepo) AddSubcategory(categoryName, subName string) (string, error) {
	cat, err := r.ByName(categoryName)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	_, err = r.db.Exec(`INSERT INTO subcategories(id,category_id,name) VALUES(?,?,?)`, id, cat.ID, subName)
	return id, err
}

func (r *CategoryRepo) DeleteSubcategory(categoryName, subName string) error {
	cat, err := r.ByName(categoryName)
	if err != nil {
		return err
	}
	res, err := r.db.Exec(`
	  DELETE FROM subcategories WHERE category_id = ? AND LOWER(name) = LOWER(?)
	`, cat.ID, subName)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
