package model

import "time"

// Role names stored in users.role. Role gates every lifecycle
// operation: users book, vendors list tickets, admins moderate.
const (
	RoleUser   = "user"
	RoleVendor = "vendor"
	RoleAdmin  = "admin"
)

// ValidRole reports whether r is one of the three known roles.
func ValidRole(r string) bool {
	return r == RoleUser || r == RoleVendor || r == RoleAdmin
}

// User represents an application user record as stored in the
// `users` table. Accounts are created implicitly on first
// authentication by email; the external identity provider vouches
// for the email, so no credential is stored here. Users are never
// hard-deleted.
//
// Fields:
//  ID        – primary key identifier of the user.
//  Name      – display name supplied by the identity provider.
//  Email     – unique email address; vendors are referenced by it.
//  PhotoURL  – optional avatar URL.
//  Role      – one of user, vendor, admin. Defaults to user.
//  IsFraud   – set by an admin on vendors; cascades into ticket
//              visibility while set.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type User struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	Role      string    `json:"role"`
	IsFraud   bool      `json:"is_fraud"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
