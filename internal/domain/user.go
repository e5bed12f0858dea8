package domain

import "time"

// Role places a user in the administrative hierarchy. Role plus the optional
// state/district scope defines the jurisdiction every read and write is
// restricted to.
type Role string

const (
	RoleMinistry Role = "ministry"
	RoleState    Role = "state"
	RoleDistrict Role = "district"
	RoleVillage  Role = "village"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleMinistry, RoleState, RoleDistrict, RoleVillage:
		return true
	}
	return false
}

// User is an operator account. Accounts are seeded or created by admins and
// soft-deactivated, never deleted.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	FullName     string
	Role         Role
	StateID      *int
	DistrictID   *int
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session is an opaque bearer token with an absolute expiry. Validity is
// derived at check time; expired sessions are never mutated back to valid.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Valid reports whether the session is usable at the given instant.
func (s Session) Valid(now time.Time) bool {
	return s.ExpiresAt.After(now)
}
