// Package auth issues and verifies the bearer credentials used by every
// lifecycle operation. A credential carries the subject's user ID, email
// and role; the actual identity check (password, OAuth, ...) happens at an
// external provider before this service is ever called.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the verified content of a bearer token. Services receive it
// on every call and enforce role and ownership gates against it.
type Claims struct {
	UserID uint64
	Email  string
	Role   string
}

// Sign builds and signs an HS256 JWT for the given claims. The token
// embeds sub (user ID), email, role, exp and iat; ttlDays controls the
// fixed expiry window (seven days in production configuration).
func Sign(secret string, c Claims, ttlDays int) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":   c.UserID,
		"email": c.Email,
		"role":  c.Role,
		"exp":   now.Add(time.Duration(ttlDays) * 24 * time.Hour).Unix(),
		"iat":   now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// Verify parses and validates a signed token, returning its claims. Any
// parse failure, signature mismatch, wrong signing method or expired
// token yields a nil result and the underlying error.
func Verify(secret, raw string) (*Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	out := &Claims{}
	if sub, ok := mc["sub"].(float64); ok {
		out.UserID = uint64(sub)
	}
	if email, ok := mc["email"].(string); ok {
		out.Email = email
	}
	if role, ok := mc["role"].(string); ok {
		out.Role = role
	}
	if out.UserID == 0 || out.Role == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return out, nil
}
