package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/transit-ticket-market/internal/model"
	"github.com/iliyamo/transit-ticket-market/internal/status"
)

// BookingRepo provides data access to the bookings table. Creation is the
// contended path: the seat-conflict and availability checks run inside a
// transaction holding a row lock on the ticket, so two users racing for
// the same seats serialize instead of both succeeding.
type BookingRepo struct{ db *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingCols = "id,ticket_id,user_id,quantity,unit_price,total_price," +
	"selected_seats,status,created_at,updated_at"

func scanBooking(row interface{ Scan(...any) error }) (model.Booking, error) {
	var b model.Booking
	var seats []byte
	err := row.Scan(&b.ID, &b.TicketID, &b.UserID, &b.Quantity, &b.UnitPrice,
		&b.TotalPrice, &seats, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return model.Booking{}, err
	}
	b.SelectedSeats = decodeList(seats)
	return b, nil
}

// Create validates availability and inserts a pending booking as one
// transaction. The ticket row is locked first (FOR UPDATE); every check
// after that point sees a frozen ticket and a frozen set of competing
// bookings. Failures map to the workflow taxonomy:
//
//	missing ticket            → ErrNotFound
//	ticket not approved       → ErrInvalidState
//	departure already passed  → ErrInvalidState
//	quantity > remaining      → ErrInsufficientInventory
//	requested seat taken      → ErrSeatConflict (message lists the seats)
//
// On success the booking's ID, prices and timestamps are populated.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	t, err := scanTicket(tx.QueryRowContext(ctx,
		"SELECT "+ticketCols+" FROM tickets WHERE id=? FOR UPDATE", b.TicketID))
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: ticket %d", status.ErrNotFound, b.TicketID)
	}
	if err != nil {
		return err
	}
	if t.VerificationStatus != model.VerificationApproved {
		return fmt.Errorf("%w: ticket is not available for booking", status.ErrInvalidState)
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if t.DepartureDate.Before(today) {
		return fmt.Errorf("%w: departure date has passed", status.ErrInvalidState)
	}
	if t.Quantity < b.Quantity {
		return fmt.Errorf("%w: only %d left", status.ErrInsufficientInventory, t.Quantity)
	}

	if len(b.SelectedSeats) > 0 && model.SeatBasedTransport(t.TransportType) {
		taken, err := takenSeats(ctx, tx, b.TicketID)
		if err != nil {
			return err
		}
		var conflicts []string
		for _, s := range b.SelectedSeats {
			if taken[s] {
				conflicts = append(conflicts, s)
			}
		}
		if len(conflicts) > 0 {
			return fmt.Errorf("%w: seats already taken: %s",
				status.ErrSeatConflict, strings.Join(conflicts, ", "))
		}
	}

	b.UnitPrice = t.Price
	b.TotalPrice = t.Price.Mul(decimal.NewFromInt(int64(b.Quantity)))
	b.Status = model.BookingPending
	seats, err := encodeList(b.SelectedSeats)
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (ticket_id, user_id, quantity, unit_price, total_price,
		  selected_seats, status) VALUES (?,?,?,?,?,?,?)`,
		b.TicketID, b.UserID, b.Quantity, b.UnitPrice, b.TotalPrice, seats, b.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	created, err := scanBooking(tx.QueryRowContext(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE id=?", b.ID))
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	*b = created
	return nil
}

// takenSeats collects every seat claimed by a non-rejected booking of the
// ticket. Rejected bookings release their seats; pending, accepted and
// paid ones all hold them.
func takenSeats(ctx context.Context, tx *sql.Tx, ticketID uint64) (map[string]bool, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT selected_seats FROM bookings WHERE ticket_id=? AND status<>?",
		ticketID, model.BookingRejected)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	taken := map[string]bool{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		for _, s := range decodeList(raw) {
			taken[s] = true
		}
	}
	return taken, rows.Err()
}

// GetByID fetches a booking by id.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, status.ErrNotFound
	}
	return b, err
}

func (r *BookingRepo) queryBookings(ctx context.Context, q string, args ...any) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListByUser returns the user's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return r.queryBookings(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE user_id=? ORDER BY created_at DESC",
		userID)
}

// ListByVendor returns bookings against any of the vendor's tickets,
// newest first. Bookings whose ticket was deleted are not reachable this
// way, which mirrors the vendor's view: nothing left to accept or reject.
func (r *BookingRepo) ListByVendor(ctx context.Context, vendorEmail string) ([]model.Booking, error) {
	return r.queryBookings(ctx,
		`SELECT b.id,b.ticket_id,b.user_id,b.quantity,b.unit_price,b.total_price,
		        b.selected_seats,b.status,b.created_at,b.updated_at
		 FROM bookings b JOIN tickets t ON t.id=b.ticket_id
		 WHERE t.vendor_email=? ORDER BY b.created_at DESC`,
		vendorEmail)
}

// ListAll returns every booking, newest first.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.Booking, error) {
	return r.queryBookings(ctx,
		"SELECT "+bookingCols+" FROM bookings ORDER BY created_at DESC")
}

// UpdateStatusFrom transitions a booking from one status to another and
// reports whether the transition happened. The current status is part of
// the filter, making each transition a compare-and-set: a second accept,
// or an accept racing a cancel, matches zero rows instead of clobbering.
func (r *BookingRepo) UpdateStatusFrom(ctx context.Context, id uint64, from, to string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE bookings SET status=?, updated_at=NOW() WHERE id=? AND status=?",
		to, id, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeletePending removes a booking only while it is still pending. The
// status filter makes user cancellation a compare-and-delete: if a vendor
// acceptance lands first, zero rows match and the caller learns the
// booking moved on.
func (r *BookingRepo) DeletePending(ctx context.Context, id uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM bookings WHERE id=? AND status=?", id, model.BookingPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RevenueByVendor aggregates settled sales over the vendor's tickets.
func (r *BookingRepo) RevenueByVendor(ctx context.Context, vendorEmail string) (model.VendorRevenue, error) {
	var rev model.VendorRevenue
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(b.total_price),0), COALESCE(SUM(b.quantity),0), COUNT(*)
		 FROM bookings b JOIN tickets t ON t.id=b.ticket_id
		 WHERE t.vendor_email=? AND b.status=?`,
		vendorEmail, model.BookingPaid).
		Scan(&rev.TotalRevenue, &rev.TicketsSold, &rev.PaidBookings)
	return rev, err
}
