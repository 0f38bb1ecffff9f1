package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/transit-ticket-market/internal/model"
	"github.com/iliyamo/transit-ticket-market/internal/status"
)

// UserRepo provides data access to the users table.
type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userCols = "id,name,email,photo_url,role,is_fraud,created_at,updated_at"

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PhotoURL, &u.Role, &u.IsFraud, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// UpsertByEmail returns the user with the given email, creating it with
// role=user when absent. First-time login is indistinguishable from
// registration to the caller. A concurrent insert losing the unique-email
// race falls back to re-reading the winner's row.
func (r *UserRepo) UpsertByEmail(ctx context.Context, email, name, photoURL string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := r.GetByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, status.ErrNotFound) {
		return model.User{}, err
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (name, email, photo_url, role, is_fraud) VALUES (?,?,?,?,0)",
		name, email, photoURL, model.RoleUser)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return r.GetByEmail(ctx, email)
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, status.ErrNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, status.ErrNotFound
	}
	return u, err
}

// List returns all users, newest first.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+userCols+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdateRole sets a user's role.
func (r *UserRepo) UpdateRole(ctx context.Context, id uint64, role string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET role=?, updated_at=NOW() WHERE id=?", role, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return status.ErrNotFound
	}
	return nil
}

// UpdateProfile sets a user's display name and photo URL.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, name, photoURL string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET name=?, photo_url=?, updated_at=NOW() WHERE id=?",
		name, photoURL, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Zero rows can also mean an identical value write; confirm existence.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// SetFraud flips a vendor's fraud flag and cascades the visibility change
// to every ticket carrying the vendor's email, in one transaction so a
// partially-hidden catalog is never observable. It returns the number of
// tickets whose is_hidden flag changed.
func (r *UserRepo) SetFraud(ctx context.Context, userID uint64, vendorEmail string, fraud bool) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"UPDATE users SET is_fraud=?, updated_at=NOW() WHERE id=?", fraud, userID)
	if err != nil {
		return 0, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish missing user from an already-set flag.
		var one int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id=?", userID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return 0, status.ErrNotFound
		}
		if err != nil {
			return 0, err
		}
	}

	res, err = tx.ExecContext(ctx,
		"UPDATE tickets SET is_hidden=?, updated_at=NOW() WHERE vendor_email=? AND is_hidden<>?",
		fraud, vendorEmail, fraud)
	if err != nil {
		return 0, err
	}
	hidden, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return hidden, nil
}
