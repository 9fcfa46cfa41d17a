package repos

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"zanovi/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderColumns = `
  id, first_name, last_name, street, city, state, country, zipcode, phone,
  payment_method, payment, amount, status, COALESCE(created_at,'') AS created_at`

// List returns all orders newest-first together with every line item;
// the service groups items per order.
func (r *OrderRepo) List() ([]domain.Order, []domain.OrderItem, error) {
	orders := []domain.Order{}
	if err := r.db.Select(&orders, `
	  SELECT `+orderColumns+`
	  FROM orders
	  ORDER BY datetime(created_at) DESC, rowid DESC
	`); err != nil {
		return nil, nil, err
	}

	items := []domain.OrderItem{}
	if err := r.db.Select(&items, `
	  SELECT id, order_id, product_id, name, quantity, size
	  FROM order_items
	  ORDER BY rowid
	`); err != nil {
		return nil, nil, err
	}
	return orders, items, nil
}

// Create inserts the order and its line items atomically.
func (r *OrderRepo) Create(o domain.Order, items []domain.OrderItem) (string, error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	tx, err := r.db.Beginx()
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  INSERT INTO orders(id, first_name, last_name, street, city, state, country,
	                     zipcode, phone, payment_method, payment, amount, status)
	  VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)
	`, o.ID, o.FirstName, o.LastName, o.Street, o.City, o.State, o.Country,
		o.Zipcode, o.Phone, o.PaymentMethod, o.Payment, o.Amount.String(), o.Status); err != nil {
		return "", err
	}

	for _, it := range items {
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		if _, err := tx.Exec(`
		  INSERT INTO order_items(id, order_id, product_id, name, quantity, size)
		  VALUES (?,?,?,?,?,?)
		`, it.ID, o.ID, it.ProductID, it.Name, it.Quantity, it.Size); err != nil {
			return "", err
		}
	}

	return o.ID, tx.Commit()
}

func (r *OrderRepo) UpdateStatus(id, status string) error {
	res, err := r.db.Exec(`UPDATE orders SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *OrderRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
