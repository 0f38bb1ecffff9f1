package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/transit-ticket-market/internal/model"
	"github.com/iliyamo/transit-ticket-market/internal/status"
)

// TransactionRepo owns the append-only settlement ledger and the
// settlement transaction itself, the one place where Booking and Ticket
// state change together.
type TransactionRepo struct{ db *sql.DB }

func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{db: db} }

const txnCols = "id,booking_id,user_id,ticket_id,amount,payment_ref,created_at"

func scanTxn(row interface{ Scan(...any) error }) (model.Transaction, error) {
	var t model.Transaction
	err := row.Scan(&t.ID, &t.BookingID, &t.UserID, &t.TicketID, &t.Amount,
		&t.PaymentRef, &t.CreatedAt)
	return t, err
}

// Settle commits a confirmed payment as a single transaction:
//
//  1. booking accepted → paid, guarded on the current status, so a second
//     confirmation of the same booking matches zero rows and fails
//     ErrInvalidState with no side effects;
//  2. ticket quantity decremented with a quantity >= n guard, so
//     concurrent settlements of the same ticket cannot drive inventory
//     negative; the loser fails ErrInsufficientInventory;
//  3. exactly one ledger row inserted (backed by a unique index on
//     booking_id).
//
// Any failed step rolls back every other step.
func (r *TransactionRepo) Settle(ctx context.Context, b model.Booking, paymentRef string) (model.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Transaction{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"UPDATE bookings SET status=?, updated_at=NOW() WHERE id=? AND status=?",
		model.BookingPaid, b.ID, model.BookingAccepted)
	if err != nil {
		return model.Transaction{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Transaction{}, fmt.Errorf("%w: booking is not awaiting payment", status.ErrInvalidState)
	}

	res, err = tx.ExecContext(ctx,
		"UPDATE tickets SET quantity=quantity-?, updated_at=NOW() WHERE id=? AND quantity>=?",
		b.Quantity, b.TicketID, b.Quantity)
	if err != nil {
		return model.Transaction{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Transaction{}, fmt.Errorf("%w: ticket sold out before settlement", status.ErrInsufficientInventory)
	}

	ins, err := tx.ExecContext(ctx,
		"INSERT INTO transactions (booking_id, user_id, ticket_id, amount, payment_ref) VALUES (?,?,?,?,?)",
		b.ID, b.UserID, b.TicketID, b.TotalPrice, paymentRef)
	if err != nil {
		return model.Transaction{}, err
	}
	id, err := ins.LastInsertId()
	if err != nil {
		return model.Transaction{}, err
	}
	created, err := scanTxn(tx.QueryRowContext(ctx,
		"SELECT "+txnCols+" FROM transactions WHERE id=?", id))
	if err != nil {
		return model.Transaction{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Transaction{}, err
	}
	committed = true
	return created, nil
}

// ListByUser returns the user's transactions, newest first.
func (r *TransactionRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+txnCols+" FROM transactions WHERE user_id=? ORDER BY created_at DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Transaction{}
	for rows.Next() {
		t, err := scanTxn(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetByBooking returns the ledger row for a booking, if settled.
func (r *TransactionRepo) GetByBooking(ctx context.Context, bookingID uint64) (model.Transaction, error) {
	t, err := scanTxn(r.db.QueryRowContext(ctx,
		"SELECT "+txnCols+" FROM transactions WHERE booking_id=? LIMIT 1", bookingID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, status.ErrNotFound
	}
	return t, err
}
