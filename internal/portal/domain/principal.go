package domain

// Principal is the authenticated caller of an operation, taken from the
// access token.
type Principal struct {
	UserID     string
	Username   string
	Role       Role
	ResidentID string
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }
