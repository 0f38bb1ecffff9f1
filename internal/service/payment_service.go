package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/transit-ticket-market/internal/auth"
	"github.com/iliyamo/transit-ticket-market/internal/model"
	"github.com/iliyamo/transit-ticket-market/internal/monitoring"
	"github.com/iliyamo/transit-ticket-market/internal/payment"
	"github.com/iliyamo/transit-ticket-market/internal/queue"
	"github.com/iliyamo/transit-ticket-market/internal/status"
)

// PaymentService drives the settlement step of the workflow: creating
// payment intents for accepted bookings and, once the gateway reports
// success, committing the paid-status/inventory/ledger write as one unit.
type PaymentService struct {
	bookings BookingStore
	tickets  TicketStore
	txns     TransactionStore
	gateway  payment.Gateway
	events   EventPublisher
	currency string
}

func NewPaymentService(bookings BookingStore, tickets TicketStore, txns TransactionStore,
	gateway payment.Gateway, events EventPublisher, currency string) *PaymentService {
	return &PaymentService{
		bookings: bookings,
		tickets:  tickets,
		txns:     txns,
		gateway:  gateway,
		events:   events,
		currency: currency,
	}
}

// IntentResult is returned to the client, which completes the payment
// against the gateway using the opaque client secret.
type IntentResult struct {
	ClientSecret string          `json:"client_secret"`
	Amount       decimal.Decimal `json:"amount"`
}

// CreateIntent registers a payment attempt for the caller's accepted
// booking. Amount is totalPrice in minor units. A booking whose ticket
// departure has passed can no longer be paid for.
func (s *PaymentService) CreateIntent(ctx context.Context, claims auth.Claims, bookingID uint64) (IntentResult, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return IntentResult{}, err
	}
	if b.UserID != claims.UserID {
		return IntentResult{}, fmt.Errorf("%w: not your booking", status.ErrForbidden)
	}
	if b.Status != model.BookingAccepted {
		return IntentResult{}, fmt.Errorf("%w: booking must be accepted by the vendor before payment", status.ErrInvalidState)
	}
	t, err := s.tickets.GetByID(ctx, b.TicketID)
	if err != nil {
		return IntentResult{}, err
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if t.DepartureDate.Before(today) {
		return IntentResult{}, fmt.Errorf("%w: departure date has passed", status.ErrInvalidState)
	}

	amountMinor := b.TotalPrice.Shift(2).Round(0).IntPart()
	intent, err := s.gateway.CreateIntent(ctx, amountMinor, s.currency, map[string]string{
		"booking_id":   strconv.FormatUint(b.ID, 10),
		"user_id":      strconv.FormatUint(b.UserID, 10),
		"ticket_title": t.Title,
	})
	if err != nil {
		return IntentResult{}, err
	}
	return IntentResult{ClientSecret: intent.ClientSecret, Amount: b.TotalPrice}, nil
}

// Confirm verifies the referenced payment with the gateway and settles
// the booking. The gateway call happens strictly before any write: a
// gateway timeout or a non-succeeded status leaves the booking untouched.
// Settlement itself is atomic in the store, and its status guard makes a
// second Confirm of the same booking fail ErrInvalidState without
// touching inventory again.
func (s *PaymentService) Confirm(ctx context.Context, claims auth.Claims, bookingID uint64, paymentRef string) (model.Transaction, error) {
	if paymentRef == "" {
		return model.Transaction{}, fmt.Errorf("%w: payment reference is required", status.ErrInvalidArgument)
	}
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return model.Transaction{}, err
	}

	gwStatus, err := s.gateway.Retrieve(ctx, paymentRef)
	if err != nil {
		return model.Transaction{}, err
	}
	if gwStatus != payment.StatusSucceeded {
		return model.Transaction{}, fmt.Errorf("%w: gateway reports %q", status.ErrPaymentNotCompleted, gwStatus)
	}

	txn, err := s.txns.Settle(ctx, b, paymentRef)
	if err != nil {
		return model.Transaction{}, err
	}
	monitoring.PaymentSettled()
	_ = s.events.Publish(ctx, queue.PaymentSettledQueue, queue.PaymentSettledEvent{
		TransactionID: txn.ID,
		BookingID:     txn.BookingID,
		TicketID:      txn.TicketID,
		UserID:        txn.UserID,
		Amount:        txn.Amount.StringFixed(2),
		PaymentRef:    txn.PaymentRef,
		SettledAt:     txn.CreatedAt.UTC().Format(time.RFC3339),
	})
	return txn, nil
}

// UserTransactions returns the caller's settlement history.
func (s *PaymentService) UserTransactions(ctx context.Context, claims auth.Claims) ([]model.Transaction, error) {
	return s.txns.ListByUser(ctx, claims.UserID)
}

// VendorRevenue aggregates the calling vendor's settled sales plus how
// many tickets they have listed.
func (s *PaymentService) VendorRevenue(ctx context.Context, claims auth.Claims) (model.VendorRevenue, error) {
	rev, err := s.bookings.RevenueByVendor(ctx, claims.Email)
	if err != nil {
		return model.VendorRevenue{}, err
	}
	added, err := s.tickets.CountByVendor(ctx, claims.Email)
	if err != nil {
		return model.VendorRevenue{}, err
	}
	rev.TicketsAdded = added
	return rev, nil
}
