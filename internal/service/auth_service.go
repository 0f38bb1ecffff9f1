package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/iliyamo/transit-ticket-market/internal/auth"
	"github.com/iliyamo/transit-ticket-market/internal/model"
	"github.com/iliyamo/transit-ticket-market/internal/status"
)

// AuthService handles login-or-register and profile operations. The
// external identity provider has already authenticated the email by the
// time Login is called; this service only materializes the account and
// issues the bearer token the rest of the API consumes.
type AuthService struct {
	users        UserStore
	jwtSecret    string
	tokenTTLDays int
}

func NewAuthService(users UserStore, jwtSecret string, tokenTTLDays int) *AuthService {
	return &AuthService{users: users, jwtSecret: jwtSecret, tokenTTLDays: tokenTTLDays}
}

// Login upserts the user by email and returns it with a signed token.
// First-time login and registration are deliberately indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, name, photoURL string) (model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return model.User{}, "", fmt.Errorf("%w: email is required", status.ErrInvalidArgument)
	}
	u, err := s.users.UpsertByEmail(ctx, email, name, photoURL)
	if err != nil {
		return model.User{}, "", err
	}
	token, err := auth.Sign(s.jwtSecret, auth.Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
	}, s.tokenTTLDays)
	if err != nil {
		return model.User{}, "", err
	}
	return u, token, nil
}

// Profile returns the caller's own user record.
func (s *AuthService) Profile(ctx context.Context, claims auth.Claims) (model.User, error) {
	return s.users.GetByID(ctx, claims.UserID)
}

// UpdateProfile changes the caller's display name and photo. Role and
// fraud state are admin-only and unreachable here.
func (s *AuthService) UpdateProfile(ctx context.Context, claims auth.Claims, name, photoURL string) (model.User, error) {
	if strings.TrimSpace(name) == "" {
		return model.User{}, fmt.Errorf("%w: name is required", status.ErrInvalidArgument)
	}
	if err := s.users.UpdateProfile(ctx, claims.UserID, name, photoURL); err != nil {
		return model.User{}, err
	}
	return s.users.GetByID(ctx, claims.UserID)
}
