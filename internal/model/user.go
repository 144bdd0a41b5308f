package model

import "time"

// Role names stored in the users.role column.  The set is closed: new
// accounts are always created as RoleUser and there is no self-service
// escalation path.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// ValidRole reports whether the given string is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// Authorities maps a role to the authority strings granted to it.  ADMIN
// implies every USER authority.  The role middleware works on the role
// name itself; authorities are what API clients see.
func Authorities(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{"ROLE_ADMIN", "ROLE_USER"}
	case RoleUser:
		return []string{"ROLE_USER"}
	default:
		return nil
	}
}

// User mirrors the `users` table.  Username is unique and case-sensitive;
// PasswordHash holds the bcrypt digest and the plaintext is never stored
// anywhere.
type User struct {
	ID           uint64
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// RefreshToken mirrors the `refresh_tokens` table.  Token is an opaque
// random value (UUID v4) with a unique index; at most one live row exists
// per user because creation rotates out any prior rows.
type RefreshToken struct {
	ID        uint64
	UserID    uint64
	Token     string
	ExpiresAt time.Time
}

// Expired reports whether the token is past its expiry at the given
// instant.  Expiry is evaluated in UTC.
func (t RefreshToken) Expired(now time.Time) bool {
	return now.UTC().After(t.ExpiresAt)
}
