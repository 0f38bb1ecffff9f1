package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/transit-ticket-market/internal/model"
	"github.com/iliyamo/transit-ticket-market/internal/payment"
	"github.com/iliyamo/transit-ticket-market/internal/queue"
	"github.com/iliyamo/transit-ticket-market/internal/status"
)

func acceptedBooking() model.Booking {
	return model.Booking{
		ID:         100,
		TicketID:   42,
		UserID:     7,
		Quantity:   3,
		UnitPrice:  decimal.NewFromInt(20),
		TotalPrice: decimal.NewFromInt(60),
		Status:     model.BookingAccepted,
	}
}

func futureTicket() model.Ticket {
	tk := sampleTicket()
	tk.DepartureDate = time.Now().UTC().Add(30 * 24 * time.Hour)
	return tk
}

func TestCreateIntent_AmountInMinorUnits(t *testing.T) {
	bookings := &mockBookingStore{
		getByIDFn: func(ctx context.Context, id uint64) (model.Booking, error) { return acceptedBooking(), nil },
	}
	tickets := &mockTicketStore{
		getByIDFn: func(ctx context.Context, id uint64) (model.Ticket, error) { return futureTicket(), nil },
	}
	gw := &mockGateway{
		createIntentFn: func(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (payment.Intent, error) {
			assert.Equal(t, int64(6000), amountMinor)
			assert.Equal(t, "usd", currency)
			assert.Equal(t, "100", metadata["booking_id"])
			return payment.Intent{ID: "pi_123", ClientSecret: "pi_123_secret"}, nil
		},
	}
	svc := NewPaymentService(bookings, tickets, &mockTransactionStore{}, gw, &mockPublisher{}, "usd")

	res, err := svc.CreateIntent(context.Background(), userClaims(), 100)
	require.NoError(t, err)
	assert.Equal(t, "pi_123_secret", res.ClientSecret)
	assert.True(t, res.Amount.Equal(decimal.NewFromInt(60)))
}

func TestCreateIntent_NotOwner(t *testing.T) {
	bookings := &mockBookingStore{
		getByIDFn: func(ctx context.Context, id uint64) (model.Booking, error) {
			b := acceptedBooking()
			b.UserID = 99
			return b, nil
		},
	}
	svc := NewPaymentService(bookings, &mockTicketStore{}, &mockTransactionStore{}, &mockGateway{}, &mockPublisher{}, "usd")

	_, err := svc.CreateIntent(context.Background(), userClaims(), 100)
	assert.ErrorIs(t, err, status.ErrForbidden)
}

func TestCreateIntent_PendingBooking(t *testing.T) {
	bookings := &mockBookingStore{
		getByIDFn: func(ctx context.Context, id uint64) (model.Booking, error) {
			b := acceptedBooking()
			b.Status = model.BookingPending
			return b, nil
		},
	}
	svc := NewPaymentService(bookings, &mockTicketStore{}, &mockTransactionStore{}, &mockGateway{}, &mockPublisher{}, "usd")

	_, err := svc.CreateIntent(context.Background(), userClaims(), 100)
	assert.ErrorIs(t, err, status.ErrInvalidState)
}

func TestCreateIntent_DeparturePassed(t *testing.T) {
	bookings := &mockBookingStore{
		getByIDFn: func(ctx context.Context, id uint64) (model.Booking, error) { return acceptedBooking(), nil },
	}
	tickets := &mockTicketStore{
		getByIDFn: func(ctx context.Context, id uint64) (model.Ticket, error) {
			tk := sampleTicket()
			tk.DepartureDate = time.Now().UTC().Add(-48 * time.Hour)
			return tk, nil
		},
	}
	svc := NewPaymentService(bookings, tickets, &mockTransactionStore{}, &mockGateway{}, &mockPublisher{}, "usd")

	_, err := svc.CreateIntent(context.Background(), userClaims(), 100)
	assert.ErrorIs(t, err, status.ErrInvalidState)
}

func TestConfirm_Success(t *testing.T) {
	bookings := &mockBookingStore{
		getByIDFn: func(ctx context.Context, id uint64) (model.Booking, error) { return acceptedBooking(), nil },
	}
	gw := &mockGateway{
		retrieveFn: func(ctx context.Context, id string) (string, error) {
			assert.Equal(t, "pi_123", id)
			return payment.StatusSucceeded, nil
		},
	}
	txns := &mockTransactionStore{
		settleFn: func(ctx context.Context, b model.Booking, paymentRef string) (model.Transaction, error) {
			return model.Transaction{
				ID:         1,
				BookingID:  b.ID,
				UserID:     b.UserID,
				TicketID:   b.TicketID,
				Amount:     b.TotalPrice,
				PaymentRef: paymentRef,
				CreatedAt:  time.Now().UTC(),
			}, nil
		},
	}
	pub := &mockPublisher{}
	svc := NewPaymentService(bookings, &mockTicketStore{}, txns, gw, pub, "usd")

	txn, err := svc.Confirm(context.Background(), userClaims(), 100, "pi_123")
	require.NoError(t, err)
	assert.Equal(t, uint64(100), txn.BookingID)
	assert.True(t, txn.Amount.Equal(decimal.NewFromInt(60)))
	require.Len(t, pub.queues, 1)
	assert.Equal(t, queue.PaymentSettledQueue, pub.queues[0])
}

func TestConfirm_GatewayNotSucceeded(t *testing.T) {
	bookings := &mockBookingStore{
		getByIDFn: func(ctx context.Context, id uint64) (model.Booking, error) { return acceptedBooking(), nil },
	}
	gw := &mockGateway{
		retrieveFn: func(ctx context.Context, id string) (string, error) {
			return "requires_payment_method", nil
		},
	}
	settled := false
	txns := &mockTransactionStore{
		settleFn: func(ctx context.Context, b model.Booking, paymentRef string) (model.Transaction, error) {
			settled = true
			return model.Transaction{}, nil
		},
	}
	svc := NewPaymentService(bookings, &mockTicketStore{}, txns, gw, &mockPublisher{}, "usd")

	_, err := svc.Confirm(context.Background(), userClaims(), 100, "pi_123")
	assert.ErrorIs(t, err, status.ErrPaymentNotCompleted)
	assert.False(t, settled, "nothing may be written when the gateway has not succeeded")
}

func TestConfirm_SecondConfirmationFails(t *testing.T) {
	bookings := &mockBookingStore{
		getByIDFn: func(ctx context.Context, id uint64) (model.Booking, error) {
			b := acceptedBooking()
			b.Status = model.BookingPaid
			return b, nil
		},
	}
	gw := &mockGateway{
		retrieveFn: func(ctx context.Context, id string) (string, error) { return payment.StatusSucceeded, nil },
	}
	txns := &mockTransactionStore{
		// The status guard in the store matches zero rows the second time.
		settleFn: func(ctx context.Context, b model.Booking, paymentRef string) (model.Transaction, error) {
			return model.Transaction{}, fmt.Errorf("%w: booking is not awaiting payment", status.ErrInvalidState)
		},
	}
	pub := &mockPublisher{}
	svc := NewPaymentService(bookings, &mockTicketStore{}, txns, gw, pub, "usd")

	_, err := svc.Confirm(context.Background(), userClaims(), 100, "pi_123")
	assert.ErrorIs(t, err, status.ErrInvalidState)
	assert.Empty(t, pub.queues)
}

func TestConfirm_RequiresPaymentRef(t *testing.T) {
	svc := NewPaymentService(&mockBookingStore{}, &mockTicketStore{}, &mockTransactionStore{}, &mockGateway{}, &mockPublisher{}, "usd")

	_, err := svc.Confirm(context.Background(), userClaims(), 100, "")
	assert.ErrorIs(t, err, status.ErrInvalidArgument)
}

func TestVendorRevenue_CombinesLedgerAndListings(t *testing.T) {
	bookings := &mockBookingStore{
		revenueByVendorFn: func(ctx context.Context, vendorEmail string) (model.VendorRevenue, error) {
			assert.Equal(t, "vendor@example.com", vendorEmail)
			return model.VendorRevenue{
				TotalRevenue: decimal.NewFromInt(60),
				TicketsSold:  3,
				PaidBookings: 1,
			}, nil
		},
	}
	tickets := &mockTicketStore{
		countByVendorFn: func(ctx context.Context, vendorEmail string) (int, error) { return 5, nil },
	}
	svc := NewPaymentService(bookings, tickets, &mockTransactionStore{}, &mockGateway{}, &mockPublisher{}, "usd")

	rev, err := svc.VendorRevenue(context.Background(), vendorClaims())
	require.NoError(t, err)
	assert.True(t, rev.TotalRevenue.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, 3, rev.TicketsSold)
	assert.Equal(t, 1, rev.PaidBookings)
	assert.Equal(t, 5, rev.TicketsAdded)
}
