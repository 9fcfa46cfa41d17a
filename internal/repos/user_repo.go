package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"zanovi/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT id,email,name,password_hash,role FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// BindToken stores an opaque bearer token for a user.
func (r *UserRepo) BindToken(token, userID string) error {
	_, err := r.DB.Exec(`INSERT INTO tokens(token,user_id,last_seen)
	                     VALUES(?,?,CURRENT_TIMESTAMP)
	                     ON CONFLICT(token) DO UPDATE SET user_id=excluded.user_id,last_seen=CURRENT_TIMESTAMP`, token, userID)
	return err
}

// TokenUser resolves a bearer token to its user, refreshing last_seen.
func (r *UserRepo) TokenUser(token string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
	  SELECT u.id,u.email,u.name,u.password_hash,u.role
	  FROM tokens t
	  JOIN users u ON u.id=t.user_id
	  WHERE t.token=?`, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	_, _ = r.DB.Exec(`UPDATE tokens SET last_seen=CURRENT_TIMESTAMP WHERE token=?`, token)
	return &u, nil
}

// RevokeToken invalidates a token at logout.
func (r *UserRepo) RevokeToken(token string) error {
	_, err := r.DB.Exec(`DELETE FROM tokens WHERE token=?`, token)
	return err
}
