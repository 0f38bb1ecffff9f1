package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one row of the append-only settlement ledger.
// Exactly one transaction exists per paid booking (enforced by a
// unique index on booking_id); rows are never updated or deleted.
type Transaction struct {
	ID         uint64          `json:"id"`
	BookingID  uint64          `json:"booking_id"`
	UserID     uint64          `json:"user_id"`
	TicketID   uint64          `json:"ticket_id"`
	Amount     decimal.Decimal `json:"amount"`
	PaymentRef string          `json:"payment_ref"`
	CreatedAt  time.Time       `json:"created_at"`
}

// VendorRevenue aggregates a vendor's settled sales for the revenue
// overview endpoint.
type VendorRevenue struct {
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TicketsSold  int             `json:"tickets_sold"`
	TicketsAdded int             `json:"tickets_added"`
	PaidBookings int             `json:"paid_bookings"`
}
