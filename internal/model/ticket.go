package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Verification states of a ticket listing. Every ticket starts
// pending and an admin moves it to approved or rejected. Only
// approved tickets are bookable or advertisable.
const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
)

// MaxAdvertised is the system-wide cap on tickets with
// IsAdvertised=true at any moment.
const MaxAdvertised = 6

// Transport types that sell numbered seats. Bookings for these may
// carry a selected-seat list which must stay disjoint across all
// non-rejected bookings of the ticket.
var seatBasedTransport = map[string]bool{
	"bus":   true,
	"train": true,
}

// SeatBasedTransport reports whether the transport type uses
// numbered seat selection.
func SeatBasedTransport(t string) bool { return seatBasedTransport[t] }

// Ticket represents a transport ticket listing as stored in the
// `tickets` table. A ticket is exclusively owned by the vendor that
// created it, referenced by email (a back-reference, not a cascading
// foreign key).
//
// Fields:
//  ID                 – primary key identifier.
//  Title              – listing title shown to users.
//  FromLocation       – departure location.
//  ToLocation         – destination location.
//  TransportType      – bus, train, plane, ...
//  Price              – unit price; must be positive.
//  Quantity           – remaining inventory; never negative.
//  DepartureDate      – travel date; bookings require it to be in the future.
//  DepartureTime      – display time string (e.g. "08:30").
//  Perks              – optional perk labels (wifi, meals, ...).
//  ImageURL           – optional listing image.
//  VendorName         – display name of the owning vendor.
//  VendorEmail        – owning vendor's email (back-reference).
//  VerificationStatus – pending, approved or rejected.
//  IsAdvertised       – admin-managed home page slot; approved tickets only,
//                       at most MaxAdvertised system-wide.
//  IsHidden           – fraud-cascade flag; hides the listing without
//                       touching its verification state so the cascade
//                       is reversible.
//  CreatedAt          – timestamp of creation.
//  UpdatedAt          – timestamp of last update.
type Ticket struct {
	ID                 uint64          `json:"id"`
	Title              string          `json:"title"`
	FromLocation       string          `json:"from_location"`
	ToLocation         string          `json:"to_location"`
	TransportType      string          `json:"transport_type"`
	Price              decimal.Decimal `json:"price"`
	Quantity           int             `json:"quantity"`
	DepartureDate      time.Time       `json:"departure_date"`
	DepartureTime      string          `json:"departure_time"`
	Perks              []string        `json:"perks"`
	ImageURL           string          `json:"image_url,omitempty"`
	VendorName         string          `json:"vendor_name"`
	VendorEmail        string          `json:"vendor_email"`
	VerificationStatus string          `json:"verification_status"`
	IsAdvertised       bool            `json:"is_advertised"`
	IsHidden           bool            `json:"is_hidden"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// Sort orders accepted by the public ticket listing.
const (
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortDate      = "date"
)

// TicketFilter narrows the public ticket listing. From and To are
// case-insensitive substring matches; TransportType is exact; Sort is one
// of the Sort* constants (anything else means newest first).
type TicketFilter struct {
	From          string
	To            string
	TransportType string
	Sort          string
}

// TicketPatch carries the vendor-editable subset of ticket fields.
// Ownership, verification and advertisement fields are deliberately
// absent: clients cannot set them through an update.
type TicketPatch struct {
	Title         *string          `json:"title"`
	FromLocation  *string          `json:"from_location"`
	ToLocation    *string          `json:"to_location"`
	TransportType *string          `json:"transport_type"`
	Price         *decimal.Decimal `json:"price"`
	Quantity      *int             `json:"quantity"`
	DepartureDate *time.Time       `json:"departure_date"`
	DepartureTime *string          `json:"departure_time"`
	Perks         *[]string        `json:"perks"`
	ImageURL      *string          `json:"image_url"`
}

// Empty reports whether the patch changes nothing.
func (p TicketPatch) Empty() bool {
	return p.Title == nil && p.FromLocation == nil && p.ToLocation == nil &&
		p.TransportType == nil && p.Price == nil && p.Quantity == nil &&
		p.DepartureDate == nil && p.DepartureTime == nil && p.Perks == nil &&
		p.ImageURL == nil
}
