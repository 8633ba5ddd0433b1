package domain

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleResident Role = "resident"
	RoleStaff    Role = "staff"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleResident, RoleStaff:
		return true
	}
	return false
}

type User struct {
	ID           string
	Username     string
	PasswordHash string // argon2 encoded
	Role         Role
	ResidentID   string     // set only for RoleResident
	MFASecret    *string    // TOTP secret, base32 (nullable)
	MFAEnabledAt *time.Time // set once the secret has been verified
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u User) MFAEnabled() bool { return u.MFAEnabledAt != nil }
