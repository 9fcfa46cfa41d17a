package repos

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"zanovi/internal/domain"
)

type ConsoleRepo struct{ db *sqlx.DB }

func NewConsoleRepo(db *sqlx.DB) *ConsoleRepo { return &ConsoleRepo{db: db} }

func (r *ConsoleRepo) List() ([]domain.Console, error) {
	out := []domain.Console{}
	err := r.db.Select(&out, `
	  SELECT id, name, COALESCE(created_at,'') AS created_at
	  FROM consoles
	  ORDER BY name
	`)
	return out, err
}

func (r *ConsoleRepo) Get(id string) (domain.Console, error) {
	var c domain.Console
	err := r.db.Get(&c, `
	  SELECT id, name, COALESCE(created_at,'') AS created_at
	  FROM consoles WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return c, ErrNotFound
	}
	return c, err
}

func (r *ConsoleRepo) Add(name string) (string, error) {
	id := uuid.NewString()
	_, err := r.db.Exec(`INSERT INTO consoles(id,name) VALUES(?,?)`, id, name)
	return id, err
}

// Delete removes a console; its reservations cascade.
func (r *ConsoleRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM consoles WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ConsoleRepo) ListReservations() ([]domain.Reservation, error) {
	out := []domain.Reservation{}
	err := r.db.Select(&out, `
	  SELECT rv.id, rv.console_id, c.name AS console_name, rv.date_time,
	         rv.duration_hours, rv.persons, rv.customer_name, rv.phone_number,
	         COALESCE(rv.created_at,'') AS created_at
	  FROM reservations rv
	  JOIN consoles c ON c.id = rv.console_id
	  ORDER BY datetime(rv.date_time)
	`)
	return out, err
}

func (r *ConsoleRepo) CreateReservation(rv domain.Reservation) (string, error) {
	if rv.ID == "" {
		rv.ID = uuid.NewString()
	}
	_, err := r.db.Exec(`
	  INSERT INTO reservations(id, console_id, date_time, duration_hours, persons,
	                           customer_name, phone_number)
	  VALUES (?,?,?,?,?,?,?)
	`, rv.ID, rv.ConsoleID, rv.DateTime, rv.DurationHours, rv.Persons,
		rv.CustomerName, rv.PhoneNumber)
	return rv.ID, err
}

func (r *ConsoleRepo) DeleteReservation(id string) error {
	res, err := r.db.Exec(`DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
