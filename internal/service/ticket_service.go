package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/transit-ticket-market/internal/auth"
	"github.com/iliyamo/transit-ticket-market/internal/model"
	"github.com/iliyamo/transit-ticket-market/internal/monitoring"
	"github.com/iliyamo/transit-ticket-market/internal/status"
)

// TicketService owns the ticket lifecycle: vendor listing management,
// admin moderation and the advertisement slots.
type TicketService struct {
	tickets TicketStore
	users   UserStore
}

func NewTicketService(tickets TicketStore, users UserStore) *TicketService {
	return &TicketService{tickets: tickets, users: users}
}

// TicketInput carries the vendor-supplied fields of a new listing.
type TicketInput struct {
	Title         string          `json:"title"`
	FromLocation  string          `json:"from_location"`
	ToLocation    string          `json:"to_location"`
	TransportType string          `json:"transport_type"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	DepartureDate string          `json:"departure_date"` // YYYY-MM-DD
	DepartureTime string          `json:"departure_time"`
	Perks         []string        `json:"perks"`
	ImageURL      string          `json:"image_url"`
}

// Add creates a pending, unadvertised listing for the calling vendor.
// Fraud-flagged vendors are blocked from listing anything new.
func (s *TicketService) Add(ctx context.Context, claims auth.Claims, in TicketInput) (model.Ticket, error) {
	vendor, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return model.Ticket{}, err
	}
	if vendor.IsFraud {
		return model.Ticket{}, fmt.Errorf("%w: account is flagged for fraud", status.ErrForbidden)
	}

	for name, v := range map[string]string{
		"title":          in.Title,
		"from_location":  in.FromLocation,
		"to_location":    in.ToLocation,
		"transport_type": in.TransportType,
		"departure_time": in.DepartureTime,
	} {
		if strings.TrimSpace(v) == "" {
			return model.Ticket{}, fmt.Errorf("%w: %s is required", status.ErrInvalidArgument, name)
		}
	}
	if !in.Price.IsPositive() {
		return model.Ticket{}, fmt.Errorf("%w: price must be positive", status.ErrInvalidArgument)
	}
	if in.Quantity <= 0 {
		return model.Ticket{}, fmt.Errorf("%w: quantity must be positive", status.ErrInvalidArgument)
	}
	depDate, err := time.Parse("2006-01-02", in.DepartureDate)
	if err != nil {
		return model.Ticket{}, fmt.Errorf("%w: departure_date must be YYYY-MM-DD", status.ErrInvalidArgument)
	}

	t := model.Ticket{
		Title:              strings.TrimSpace(in.Title),
		FromLocation:       strings.TrimSpace(in.FromLocation),
		ToLocation:         strings.TrimSpace(in.ToLocation),
		TransportType:      strings.TrimSpace(in.TransportType),
		Price:              in.Price,
		Quantity:           in.Quantity,
		DepartureDate:      depDate,
		DepartureTime:      strings.TrimSpace(in.DepartureTime),
		Perks:              in.Perks,
		ImageURL:           in.ImageURL,
		VendorName:         vendor.Name,
		VendorEmail:        vendor.Email,
		VerificationStatus: model.VerificationPending,
	}
	if err := s.tickets.Insert(ctx, &t); err != nil {
		return model.Ticket{}, err
	}
	return t, nil
}

// ListPublic returns the user-facing catalog.
func (s *TicketService) ListPublic(ctx context.Context, f model.TicketFilter) ([]model.Ticket, error) {
	return s.tickets.ListPublic(ctx, f)
}

// Get returns a single ticket without visibility filtering.
func (s *TicketService) Get(ctx context.Context, id uint64) (model.Ticket, error) {
	return s.tickets.GetByID(ctx, id)
}

// ListVendor returns the calling vendor's own listings.
func (s *TicketService) ListVendor(ctx context.Context, claims auth.Claims) ([]model.Ticket, error) {
	return s.tickets.ListByVendor(ctx, claims.Email)
}

// ListAll returns every ticket for admin moderation views.
func (s *TicketService) ListAll(ctx context.Context) ([]model.Ticket, error) {
	return s.tickets.ListAll(ctx)
}

// ownedEditable loads a ticket and enforces the vendor edit guards shared
// by Update and Delete: caller owns it and it is not rejected.
func (s *TicketService) ownedEditable(ctx context.Context, claims auth.Claims, id uint64) (model.Ticket, error) {
	t, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return model.Ticket{}, err
	}
	if t.VendorEmail != claims.Email {
		return model.Ticket{}, fmt.Errorf("%w: not your ticket", status.ErrForbidden)
	}
	if t.VerificationStatus == model.VerificationRejected {
		return model.Ticket{}, fmt.Errorf("%w: rejected tickets cannot be modified", status.ErrInvalidState)
	}
	return t, nil
}

// Update applies a vendor patch to an owned, non-rejected ticket. The
// patch type cannot express ownership/verification/advertisement fields,
// which is how client attempts to set them are stripped.
func (s *TicketService) Update(ctx context.Context, claims auth.Claims, id uint64, p model.TicketPatch) (model.Ticket, error) {
	if _, err := s.ownedEditable(ctx, claims, id); err != nil {
		return model.Ticket{}, err
	}
	if p.Price != nil && !p.Price.IsPositive() {
		return model.Ticket{}, fmt.Errorf("%w: price must be positive", status.ErrInvalidArgument)
	}
	if p.Quantity != nil && *p.Quantity < 0 {
		return model.Ticket{}, fmt.Errorf("%w: quantity cannot be negative", status.ErrInvalidArgument)
	}
	if err := s.tickets.Update(ctx, id, p); err != nil {
		return model.Ticket{}, err
	}
	return s.tickets.GetByID(ctx, id)
}

// Delete removes an owned, non-rejected ticket permanently.
func (s *TicketService) Delete(ctx context.Context, claims auth.Claims, id uint64) error {
	if _, err := s.ownedEditable(ctx, claims, id); err != nil {
		return err
	}
	return s.tickets.Delete(ctx, id)
}

// Approve marks a ticket approved.
func (s *TicketService) Approve(ctx context.Context, id uint64) error {
	return s.tickets.SetVerification(ctx, id, model.VerificationApproved)
}

// Reject marks a ticket rejected, vacating its advertisement slot if it
// held one.
func (s *TicketService) Reject(ctx context.Context, id uint64) error {
	if err := s.tickets.SetVerification(ctx, id, model.VerificationRejected); err != nil {
		return err
	}
	s.refreshAdvertisedGauge(ctx)
	return nil
}

// ToggleAdvertise flips a ticket's advertisement slot and returns the new
// state. Only approved tickets qualify, and turning a slot on fails
// ErrCapacityExceeded once six slots are occupied (the store enforces
// the cap atomically).
func (s *TicketService) ToggleAdvertise(ctx context.Context, id uint64) (bool, error) {
	t, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if t.VerificationStatus != model.VerificationApproved {
		return false, fmt.Errorf("%w: only approved tickets can be advertised", status.ErrInvalidState)
	}
	next := !t.IsAdvertised
	if err := s.tickets.SetAdvertised(ctx, id, next); err != nil {
		return false, err
	}
	s.refreshAdvertisedGauge(ctx)
	return next, nil
}

// Advertised returns the tickets currently holding slots.
func (s *TicketService) Advertised(ctx context.Context) ([]model.Ticket, error) {
	return s.tickets.ListAdvertised(ctx)
}

// Latest returns the n most recent approved tickets (the home page feed).
func (s *TicketService) Latest(ctx context.Context, n int) ([]model.Ticket, error) {
	if n <= 0 {
		n = 8
	}
	return s.tickets.ListLatest(ctx, n)
}

func (s *TicketService) refreshAdvertisedGauge(ctx context.Context) {
	if n, err := s.tickets.CountAdvertised(ctx); err == nil {
		monitoring.SetAdvertisedSlots(n)
	}
}
