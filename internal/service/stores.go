// Package service implements the marketplace workflow: every operation
// takes the caller's verified claims, enforces role/ownership/state
// preconditions, and returns either a result or a sentinel error from
// internal/status. Handlers stay thin on top of it; repositories stay
// dumb below it, except for the guards that must be atomic in SQL.
package service

import (
	"context"

	"github.com/iliyamo/transit-ticket-market/internal/model"
)

// UserStore is the persistence surface the services need for users.
// *repository.UserRepo implements it; tests substitute mocks.
type UserStore interface {
	UpsertByEmail(ctx context.Context, email, name, photoURL string) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdateRole(ctx context.Context, id uint64, role string) error
	UpdateProfile(ctx context.Context, id uint64, name, photoURL string) error
	SetFraud(ctx context.Context, userID uint64, vendorEmail string, fraud bool) (int64, error)
}

// TicketStore is the persistence surface for tickets.
type TicketStore interface {
	Insert(ctx context.Context, t *model.Ticket) error
	GetByID(ctx context.Context, id uint64) (model.Ticket, error)
	ListPublic(ctx context.Context, f model.TicketFilter) ([]model.Ticket, error)
	ListByVendor(ctx context.Context, vendorEmail string) ([]model.Ticket, error)
	ListAll(ctx context.Context) ([]model.Ticket, error)
	ListAdvertised(ctx context.Context) ([]model.Ticket, error)
	ListLatest(ctx context.Context, n int) ([]model.Ticket, error)
	Update(ctx context.Context, id uint64, p model.TicketPatch) error
	Delete(ctx context.Context, id uint64) error
	SetVerification(ctx context.Context, id uint64, verification string) error
	SetAdvertised(ctx context.Context, id uint64, on bool) error
	CountAdvertised(ctx context.Context) (int, error)
	CountByVendor(ctx context.Context, vendorEmail string) (int, error)
}

// BookingStore is the persistence surface for bookings. Create carries
// the availability and seat-conflict guards inside its transaction.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id uint64) (model.Booking, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
	ListByVendor(ctx context.Context, vendorEmail string) ([]model.Booking, error)
	ListAll(ctx context.Context) ([]model.Booking, error)
	UpdateStatusFrom(ctx context.Context, id uint64, from, to string) (bool, error)
	DeletePending(ctx context.Context, id uint64) (bool, error)
	RevenueByVendor(ctx context.Context, vendorEmail string) (model.VendorRevenue, error)
}

// TransactionStore is the persistence surface for the settlement ledger.
type TransactionStore interface {
	Settle(ctx context.Context, b model.Booking, paymentRef string) (model.Transaction, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Transaction, error)
}

// EventPublisher decouples the services from the broker; queue.Publisher
// implements it and a nil-publisher no-op keeps events optional.
type EventPublisher interface {
	Publish(ctx context.Context, queueName string, event any) error
}
