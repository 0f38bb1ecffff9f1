package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/transit-ticket-market/internal/model"
	"github.com/iliyamo/transit-ticket-market/internal/status"
)

// TicketRepo provides data access to the tickets table. The advertisement
// cap and the fraud-vendor exclusion are enforced here, in SQL, so they
// hold under concurrent requests without any in-process locking.
type TicketRepo struct{ db *sql.DB }

func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

const ticketCols = "id,title,from_location,to_location,transport_type,price,quantity," +
	"departure_date,departure_time,perks,image_url,vendor_name,vendor_email," +
	"verification_status,is_advertised,is_hidden,created_at,updated_at"

func scanTicket(row interface{ Scan(...any) error }) (model.Ticket, error) {
	var t model.Ticket
	var perks []byte
	err := row.Scan(&t.ID, &t.Title, &t.FromLocation, &t.ToLocation, &t.TransportType,
		&t.Price, &t.Quantity, &t.DepartureDate, &t.DepartureTime, &perks, &t.ImageURL,
		&t.VendorName, &t.VendorEmail, &t.VerificationStatus, &t.IsAdvertised,
		&t.IsHidden, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return model.Ticket{}, err
	}
	t.Perks = decodeList(perks)
	return t, nil
}

func (r *TicketRepo) queryTickets(ctx context.Context, q string, args ...any) ([]model.Ticket, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Ticket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Insert persists a new ticket and populates its generated ID and
// timestamps.
func (r *TicketRepo) Insert(ctx context.Context, t *model.Ticket) error {
	perks, err := encodeList(t.Perks)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tickets (title, from_location, to_location, transport_type, price,
		  quantity, departure_date, departure_time, perks, image_url, vendor_name,
		  vendor_email, verification_status, is_advertised, is_hidden)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,0,0)`,
		t.Title, t.FromLocation, t.ToLocation, t.TransportType, t.Price,
		t.Quantity, t.DepartureDate, t.DepartureTime, perks, t.ImageURL,
		t.VendorName, t.VendorEmail, t.VerificationStatus)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*t = created
	return nil
}

// GetByID fetches a ticket with no visibility filtering; owners, admins
// and cross-resource lookups all need to see hidden/pending tickets.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (model.Ticket, error) {
	t, err := scanTicket(r.db.QueryRowContext(ctx,
		"SELECT "+ticketCols+" FROM tickets WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Ticket{}, status.ErrNotFound
	}
	return t, err
}

// ListPublic returns approved, non-hidden tickets whose vendor is not
// currently fraud-flagged. The fraud set is evaluated by the subquery at
// query time rather than denormalized, so clearing a vendor's flag makes
// their catalog reappear with no backfill.
func (r *TicketRepo) ListPublic(ctx context.Context, f model.TicketFilter) ([]model.Ticket, error) {
	q := "SELECT " + ticketCols + ` FROM tickets
		WHERE verification_status=? AND is_hidden=0
		  AND vendor_email NOT IN (SELECT email FROM users WHERE is_fraud=1)`
	args := []any{model.VerificationApproved}
	if f.From != "" {
		q += " AND LOWER(from_location) LIKE ?"
		args = append(args, "%"+strings.ToLower(f.From)+"%")
	}
	if f.To != "" {
		q += " AND LOWER(to_location) LIKE ?"
		args = append(args, "%"+strings.ToLower(f.To)+"%")
	}
	if f.TransportType != "" {
		q += " AND transport_type=?"
		args = append(args, f.TransportType)
	}
	switch f.Sort {
	case model.SortPriceLow:
		q += " ORDER BY price ASC"
	case model.SortPriceHigh:
		q += " ORDER BY price DESC"
	case model.SortDate:
		q += " ORDER BY departure_date ASC"
	default:
		q += " ORDER BY created_at DESC"
	}
	return r.queryTickets(ctx, q, args...)
}

// ListByVendor returns every ticket owned by the vendor, newest first.
func (r *TicketRepo) ListByVendor(ctx context.Context, vendorEmail string) ([]model.Ticket, error) {
	return r.queryTickets(ctx,
		"SELECT "+ticketCols+" FROM tickets WHERE vendor_email=? ORDER BY created_at DESC",
		vendorEmail)
}

// ListAll returns every ticket regardless of state, newest first.
func (r *TicketRepo) ListAll(ctx context.Context) ([]model.Ticket, error) {
	return r.queryTickets(ctx,
		"SELECT "+ticketCols+" FROM tickets ORDER BY created_at DESC")
}

// ListAdvertised returns the tickets currently holding advertisement
// slots (approved by invariant, at most six).
func (r *TicketRepo) ListAdvertised(ctx context.Context) ([]model.Ticket, error) {
	return r.queryTickets(ctx,
		"SELECT "+ticketCols+` FROM tickets
		 WHERE verification_status=? AND is_advertised=1
		 ORDER BY created_at DESC LIMIT ?`,
		model.VerificationApproved, model.MaxAdvertised)
}

// ListLatest returns the n most recently created approved tickets.
func (r *TicketRepo) ListLatest(ctx context.Context, n int) ([]model.Ticket, error) {
	return r.queryTickets(ctx,
		"SELECT "+ticketCols+` FROM tickets
		 WHERE verification_status=? ORDER BY created_at DESC LIMIT ?`,
		model.VerificationApproved, n)
}

// Update applies a vendor patch. Ownership, verification and
// advertisement columns are not reachable from a patch by construction.
func (r *TicketRepo) Update(ctx context.Context, id uint64, p model.TicketPatch) error {
	sets := []string{"updated_at=NOW()"}
	args := []any{}
	add := func(col string, v any) {
		sets = append(sets, col+"=?")
		args = append(args, v)
	}
	if p.Title != nil {
		add("title", *p.Title)
	}
	if p.FromLocation != nil {
		add("from_location", *p.FromLocation)
	}
	if p.ToLocation != nil {
		add("to_location", *p.ToLocation)
	}
	if p.TransportType != nil {
		add("transport_type", *p.TransportType)
	}
	if p.Price != nil {
		add("price", *p.Price)
	}
	if p.Quantity != nil {
		add("quantity", *p.Quantity)
	}
	if p.DepartureDate != nil {
		add("departure_date", *p.DepartureDate)
	}
	if p.DepartureTime != nil {
		add("departure_time", *p.DepartureTime)
	}
	if p.Perks != nil {
		perks, err := encodeList(*p.Perks)
		if err != nil {
			return err
		}
		add("perks", perks)
	}
	if p.ImageURL != nil {
		add("image_url", *p.ImageURL)
	}
	args = append(args, id)
	_, err := r.db.ExecContext(ctx,
		"UPDATE tickets SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
	return err
}

// Delete removes a ticket permanently.
func (r *TicketRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM tickets WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return status.ErrNotFound
	}
	return nil
}

// SetVerification moves a ticket to the given verification state.
// Rejection also vacates the ticket's advertisement slot; a rejected
// ticket must never stay advertised.
func (r *TicketRepo) SetVerification(ctx context.Context, id uint64, verification string) error {
	q := "UPDATE tickets SET verification_status=?, updated_at=NOW() WHERE id=?"
	if verification == model.VerificationRejected {
		q = "UPDATE tickets SET verification_status=?, is_advertised=0, updated_at=NOW() WHERE id=?"
	}
	res, err := r.db.ExecContext(ctx, q, verification, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		err := r.db.QueryRowContext(ctx, "SELECT 1 FROM tickets WHERE id=?", id).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return status.ErrNotFound
		}
		return err
	}
	return nil
}

// SetAdvertised turns a ticket's advertisement slot on or off. Turning on
// is a single conditional UPDATE whose derived-table subquery re-counts
// occupied slots inside the statement, so two admins racing for the last
// slot cannot both win. When the update matches no row, the current ticket
// state is read back to report the precise failure.
func (r *TicketRepo) SetAdvertised(ctx context.Context, id uint64, on bool) error {
	var res sql.Result
	var err error
	if on {
		res, err = r.db.ExecContext(ctx,
			`UPDATE tickets SET is_advertised=1, updated_at=NOW()
			 WHERE id=? AND verification_status=? AND is_advertised=0
			   AND ? > (SELECT cnt FROM (
			       SELECT COUNT(*) AS cnt FROM tickets WHERE is_advertised=1) AS adv)`,
			id, model.VerificationApproved, model.MaxAdvertised)
	} else {
		res, err = r.db.ExecContext(ctx,
			`UPDATE tickets SET is_advertised=0, updated_at=NOW()
			 WHERE id=? AND verification_status=?`,
			id, model.VerificationApproved)
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	t, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if t.VerificationStatus != model.VerificationApproved {
		return status.ErrInvalidState
	}
	if on && !t.IsAdvertised {
		return status.ErrCapacityExceeded
	}
	// Already in the requested state; treat as success.
	return nil
}

// CountAdvertised returns the number of occupied advertisement slots.
func (r *TicketRepo) CountAdvertised(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tickets WHERE is_advertised=1").Scan(&n)
	return n, err
}

// CountByVendor returns how many tickets the vendor has listed.
func (r *TicketRepo) CountByVendor(ctx context.Context, vendorEmail string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tickets WHERE vendor_email=?", vendorEmail).Scan(&n)
	return n, err
}
