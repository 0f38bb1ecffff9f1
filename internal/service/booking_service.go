package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/transit-ticket-market/internal/auth"
	"github.com/iliyamo/transit-ticket-market/internal/model"
	"github.com/iliyamo/transit-ticket-market/internal/monitoring"
	"github.com/iliyamo/transit-ticket-market/internal/queue"
	"github.com/iliyamo/transit-ticket-market/internal/status"
)

// BookingService owns the booking state machine: users create and cancel,
// vendors accept and reject, payment settlement (in PaymentService) moves
// accepted bookings to paid.
type BookingService struct {
	bookings BookingStore
	tickets  TicketStore
	users    UserStore
	events   EventPublisher
}

func NewBookingService(bookings BookingStore, tickets TicketStore, users UserStore, events EventPublisher) *BookingService {
	return &BookingService{bookings: bookings, tickets: tickets, users: users, events: events}
}

// BookingInput carries the user-supplied fields of a new booking.
type BookingInput struct {
	TicketID      uint64   `json:"ticket_id"`
	Quantity      int      `json:"quantity"`
	SelectedSeats []string `json:"selected_seats"`
}

// Create places a pending booking for the calling user. The store runs
// the availability and seat-conflict checks atomically with the insert;
// this layer validates the input shape and emits the created event.
func (s *BookingService) Create(ctx context.Context, claims auth.Claims, in BookingInput) (model.Booking, error) {
	if in.TicketID == 0 {
		monitoring.BookingCreated("invalid")
		return model.Booking{}, fmt.Errorf("%w: ticket_id is required", status.ErrInvalidArgument)
	}
	if in.Quantity <= 0 {
		monitoring.BookingCreated("invalid")
		return model.Booking{}, fmt.Errorf("%w: quantity must be positive", status.ErrInvalidArgument)
	}
	seats := dedupe(in.SelectedSeats)
	if len(in.SelectedSeats) > 0 && len(seats) != in.Quantity {
		monitoring.BookingCreated("invalid")
		return model.Booking{}, fmt.Errorf("%w: selected seats must match quantity", status.ErrInvalidArgument)
	}

	b := model.Booking{
		TicketID:      in.TicketID,
		UserID:        claims.UserID,
		Quantity:      in.Quantity,
		SelectedSeats: seats,
	}
	if err := s.bookings.Create(ctx, &b); err != nil {
		monitoring.BookingCreated(createOutcome(err))
		return model.Booking{}, err
	}
	monitoring.BookingCreated("created")

	if t, err := s.tickets.GetByID(ctx, b.TicketID); err == nil {
		_ = s.events.Publish(ctx, queue.BookingCreatedQueue, queue.BookingCreatedEvent{
			BookingID:   b.ID,
			TicketID:    b.TicketID,
			UserID:      b.UserID,
			VendorEmail: t.VendorEmail,
			TicketTitle: t.Title,
			Quantity:    b.Quantity,
			Seats:       b.SelectedSeats,
			TotalPrice:  b.TotalPrice.StringFixed(2),
			CreatedAt:   b.CreatedAt.UTC().Format(time.RFC3339),
		})
	} else {
		log.Printf("booking: created event skipped, ticket %d unreadable: %v", b.TicketID, err)
	}
	return b, nil
}

func createOutcome(err error) string {
	switch {
	case errors.Is(err, status.ErrSeatConflict):
		return "seat_conflict"
	case errors.Is(err, status.ErrInsufficientInventory):
		return "sold_out"
	case errors.Is(err, status.ErrInvalidState):
		return "unavailable"
	case errors.Is(err, status.ErrNotFound):
		return "not_found"
	}
	return "error"
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

// vendorOwned loads a booking and verifies the caller is the vendor of
// its ticket.
func (s *BookingService) vendorOwned(ctx context.Context, claims auth.Claims, bookingID uint64) (model.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return model.Booking{}, err
	}
	t, err := s.tickets.GetByID(ctx, b.TicketID)
	if err != nil {
		return model.Booking{}, err
	}
	if t.VendorEmail != claims.Email {
		return model.Booking{}, fmt.Errorf("%w: booking is not against your ticket", status.ErrForbidden)
	}
	return b, nil
}

// Accept moves a pending booking to accepted. The pending→accepted
// transition is a compare-and-set in the store, so racing decisions
// cannot both land.
func (s *BookingService) Accept(ctx context.Context, claims auth.Claims, bookingID uint64) error {
	return s.decide(ctx, claims, bookingID, model.BookingAccepted)
}

// Reject moves a pending booking to rejected, releasing its seats.
func (s *BookingService) Reject(ctx context.Context, claims auth.Claims, bookingID uint64) error {
	return s.decide(ctx, claims, bookingID, model.BookingRejected)
}

func (s *BookingService) decide(ctx context.Context, claims auth.Claims, bookingID uint64, to string) error {
	if _, err := s.vendorOwned(ctx, claims, bookingID); err != nil {
		return err
	}
	ok, err := s.bookings.UpdateStatusFrom(ctx, bookingID, model.BookingPending, to)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: booking is no longer pending", status.ErrInvalidState)
	}
	return nil
}

// Cancel deletes the caller's own booking while it is still pending. The
// delete carries the pending filter so a cancel racing an accept cannot
// remove an accepted booking.
func (s *BookingService) Cancel(ctx context.Context, claims auth.Claims, bookingID uint64) error {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if b.UserID != claims.UserID {
		return fmt.Errorf("%w: not your booking", status.ErrForbidden)
	}
	if b.Status != model.BookingPending {
		return fmt.Errorf("%w: only pending bookings can be cancelled", status.ErrInvalidState)
	}
	ok, err := s.bookings.DeletePending(ctx, bookingID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: booking is no longer pending", status.ErrInvalidState)
	}
	return nil
}

// Get returns one booking with joined ticket and user. Readable by the
// booking's user, the ticket's vendor and admins.
func (s *BookingService) Get(ctx context.Context, claims auth.Claims, bookingID uint64) (model.BookingDetail, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return model.BookingDetail{}, err
	}
	d := s.detail(ctx, b)
	allowed := claims.Role == model.RoleAdmin || b.UserID == claims.UserID ||
		(d.Ticket != nil && d.Ticket.VendorEmail == claims.Email)
	if !allowed {
		return model.BookingDetail{}, fmt.Errorf("%w: not your booking", status.ErrForbidden)
	}
	return d, nil
}

// ListForUser returns the caller's bookings with joined details.
func (s *BookingService) ListForUser(ctx context.Context, claims auth.Claims) ([]model.BookingDetail, error) {
	bs, err := s.bookings.ListByUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, bs), nil
}

// ListForVendor returns bookings against the caller's tickets.
func (s *BookingService) ListForVendor(ctx context.Context, claims auth.Claims) ([]model.BookingDetail, error) {
	bs, err := s.bookings.ListByVendor(ctx, claims.Email)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, bs), nil
}

// ListAll returns every booking for the admin overview.
func (s *BookingService) ListAll(ctx context.Context) ([]model.BookingDetail, error) {
	bs, err := s.bookings.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, bs), nil
}

// detail joins a booking with its ticket and user. Either side may have
// been deleted since the booking was made; absence yields nil, not an
// error.
func (s *BookingService) detail(ctx context.Context, b model.Booking) model.BookingDetail {
	d := model.BookingDetail{Booking: b}
	if t, err := s.tickets.GetByID(ctx, b.TicketID); err == nil {
		d.Ticket = &t
	}
	if u, err := s.users.GetByID(ctx, b.UserID); err == nil {
		d.User = &model.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, PhotoURL: u.PhotoURL}
	}
	return d
}

func (s *BookingService) details(ctx context.Context, bs []model.Booking) []model.BookingDetail {
	out := make([]model.BookingDetail, 0, len(bs))
	for _, b := range bs {
		out = append(out, s.detail(ctx, b))
	}
	return out
}
