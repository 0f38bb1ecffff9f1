package service

import (
	"context"
	"fmt"
	"time"

	"github.com/iliyamo/transit-ticket-market/internal/model"
	"github.com/iliyamo/transit-ticket-market/internal/monitoring"
	"github.com/iliyamo/transit-ticket-market/internal/queue"
	"github.com/iliyamo/transit-ticket-market/internal/status"
)

// UserService owns the admin-side user operations: role assignment and
// the fraud flag with its ticket-visibility cascade.
type UserService struct {
	users  UserStore
	events EventPublisher
}

func NewUserService(users UserStore, events EventPublisher) *UserService {
	return &UserService{users: users, events: events}
}

// List returns all users for the admin panel.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

// Get returns one user by id.
func (s *UserService) Get(ctx context.Context, id uint64) (model.User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateRole assigns one of the three known roles.
func (s *UserService) UpdateRole(ctx context.Context, userID uint64, role string) error {
	if !model.ValidRole(role) {
		return fmt.Errorf("%w: role must be user, vendor or admin", status.ErrInvalidArgument)
	}
	return s.users.UpdateRole(ctx, userID, role)
}

// MarkFraud flags a vendor as fraudulent and hides every ticket carrying
// their email. The cascade sets is_hidden rather than touching
// verification state, so ClearFraud can restore exactly what was hidden.
func (s *UserService) MarkFraud(ctx context.Context, userID uint64) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.Role != model.RoleVendor {
		return fmt.Errorf("%w: only vendors can be marked as fraud", status.ErrInvalidState)
	}
	hidden, err := s.users.SetFraud(ctx, userID, u.Email, true)
	if err != nil {
		return err
	}
	monitoring.FraudCascade("mark")
	_ = s.events.Publish(ctx, queue.VendorFraudQueue, queue.VendorFraudEvent{
		VendorID:      u.ID,
		VendorEmail:   u.Email,
		Marked:        true,
		TicketsHidden: hidden,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	})
	return nil
}

// ClearFraud removes the fraud flag and unhides the vendor's tickets.
func (s *UserService) ClearFraud(ctx context.Context, userID uint64) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	_, err = s.users.SetFraud(ctx, userID, u.Email, false)
	if err != nil {
		return err
	}
	monitoring.FraudCascade("clear")
	_ = s.events.Publish(ctx, queue.VendorFraudQueue, queue.VendorFraudEvent{
		VendorID:    u.ID,
		VendorEmail: u.Email,
		Marked:      false,
		OccurredAt:  time.Now().UTC().Format(time.RFC3339),
	})
	return nil
}
