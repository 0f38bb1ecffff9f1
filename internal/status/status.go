// Package status defines the sentinel errors shared by the service layer.
// Each error corresponds to one failure kind of the marketplace workflow;
// callers wrap them with fmt.Errorf("%w: ...") to attach context and the
// HTTP layer dispatches on errors.Is to pick a response status.
package status

import "errors"

var (
	// ErrUnauthenticated means no valid credential accompanied the call.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden means the caller's role or ownership does not permit
	// the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means the addressed resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument means the input was malformed or missing.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState means the operation is not valid for the resource's
	// current lifecycle state (e.g. paying a booking that is not accepted).
	ErrInvalidState = errors.New("invalid state")

	// ErrInsufficientInventory means the ticket does not have enough
	// remaining quantity for the requested booking or settlement.
	ErrInsufficientInventory = errors.New("insufficient inventory")

	// ErrSeatConflict means one or more requested seats are already taken
	// by another non-rejected booking for the same ticket.
	ErrSeatConflict = errors.New("seat conflict")

	// ErrCapacityExceeded means the system-wide advertisement slot cap
	// (six tickets) is already full.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrPaymentNotCompleted means the payment gateway did not report the
	// referenced payment as succeeded.
	ErrPaymentNotCompleted = errors.New("payment not completed")
)
