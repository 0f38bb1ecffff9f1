package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Booking states. pending → accepted → paid is the success path;
// pending → rejected is terminal; a pending booking may also be
// deleted (cancelled) by its user. No other transitions exist.
const (
	BookingPending  = "pending"
	BookingAccepted = "accepted"
	BookingRejected = "rejected"
	BookingPaid     = "paid"
)

// Booking records a user's order for a quantity of a ticket. It is
// referenced by both the user and the ticket but owned by neither.
type Booking struct {
	ID            uint64          `json:"id"`
	TicketID      uint64          `json:"ticket_id"`
	UserID        uint64          `json:"user_id"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	SelectedSeats []string        `json:"selected_seats,omitempty"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// BookingDetail is a booking joined with its ticket and user for
// read endpoints. Either join target may have disappeared (hard
// deletes are allowed on tickets); absence is represented by nil,
// not an error.
type BookingDetail struct {
	Booking
	Ticket *Ticket      `json:"ticket"`
	User   *UserSummary `json:"user"`
}

// UserSummary is the credential-free projection of a user embedded
// in booking reads.
type UserSummary struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photo_url,omitempty"`
}
