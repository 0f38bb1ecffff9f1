// Package queue defines message payloads exchanged over the message broker
// and the publisher/consumer plumbing around them.
package queue

// Queue names. All queues are declared durable and messages are persistent.
const (
	BookingCreatedQueue = "booking.created"
	PaymentSettledQueue = "payment.settled"
	VendorFraudQueue    = "vendor.fraud"
)

// BookingCreatedEvent is published when a user places a booking. It gives
// downstream consumers enough to notify the vendor without querying the
// primary database.
type BookingCreatedEvent struct {
	BookingID   uint64   `json:"booking_id"`
	TicketID    uint64   `json:"ticket_id"`
	UserID      uint64   `json:"user_id"`
	VendorEmail string   `json:"vendor_email"`
	TicketTitle string   `json:"ticket_title"`
	Quantity    int      `json:"quantity"`
	Seats       []string `json:"seats,omitempty"`
	TotalPrice  string   `json:"total_price"`
	CreatedAt   string   `json:"created_at"`
}

// PaymentSettledEvent is published after a payment confirmation commits:
// booking paid, inventory decremented, ledger row written.
type PaymentSettledEvent struct {
	TransactionID uint64 `json:"transaction_id"`
	BookingID     uint64 `json:"booking_id"`
	TicketID      uint64 `json:"ticket_id"`
	UserID        uint64 `json:"user_id"`
	Amount        string `json:"amount"`
	PaymentRef    string `json:"payment_ref"`
	SettledAt     string `json:"settled_at"`
}

// VendorFraudEvent is published when an admin toggles a vendor's fraud
// flag. Marked reports the new state.
type VendorFraudEvent struct {
	VendorID      uint64 `json:"vendor_id"`
	VendorEmail   string `json:"vendor_email"`
	Marked        bool   `json:"marked"`
	TicketsHidden int64  `json:"tickets_hidden"`
	OccurredAt    string `json:"occurred_at"`
}
