package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/barangay/internal/portal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface implemented by the sqlite and
// mongo drivers. Sub-repositories keep each collection's operations apart.
type Store interface {
	Residents() Residents
	FamilyHeads() FamilyHeads
	Users() Users
	Counters() Counters

	ApplyMigrations() error

	// Close releases the underlying connection or pool.
	Close() error

	// Ping verifies the backing database is reachable.
	Ping(ctx context.Context) error
}

type Residents interface {
	// CreateResident inserts r. A duplicate ResidentID returns ErrAlreadyExists.
	CreateResident(ctx context.Context, r domain.Resident) error

	GetResident(ctx context.Context, residentID string) (domain.Resident, error)

	// ListResidents returns every resident ordered by registration date.
	ListResidents(ctx context.Context) ([]domain.Resident, error)

	// UpdateResident overwrites the mutable fields of r and its UpdatedAt.
	// ResidentID, RegistrationDate and QRCode are left untouched.
	UpdateResident(ctx context.Context, r domain.Resident) error

	DeleteResident(ctx context.Context, residentID string) error

	// SetQRCode stores the generated artifact.
	SetQRCode(ctx context.Context, residentID, qrCode string) error

	// CountByFamilyHead is the number of residents linked to headID.
	CountByFamilyHead(ctx context.Context, headID string) (int64, error)
}

type FamilyHeads interface {
	// CreateFamilyHead inserts h. A duplicate HeadID returns ErrAlreadyExists.
	CreateFamilyHead(ctx context.Context, h domain.FamilyHead) error
	GetFamilyHead(ctx context.Context, headID string) (domain.FamilyHead, error)
	ListFamilyHeads(ctx context.Context) ([]domain.FamilyHead, error)
	DeleteFamilyHead(ctx context.Context, headID string) error
}

type Users interface {
	// CreateUser inserts u. A taken username returns ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used at login.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	ListUsers(ctx context.Context) ([]domain.User, error)

	// UpdatePasswordHash sets the argon2 hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error

	DeleteUser(ctx context.Context, userID string) error

	// IsEmpty reports whether no accounts exist.
	IsEmpty(ctx context.Context) (bool, error)

	// UpdateMFASecret stores a pending TOTP secret without enabling it.
	UpdateMFASecret(ctx context.Context, userID, secret string) error

	// EnableMFA marks the stored secret as active.
	EnableMFA(ctx context.Context, userID string) error

	// DisableMFA clears both the secret and the enabled timestamp.
	DisableMFA(ctx context.Context, userID string) error
}

type Counters interface {
	// Next atomically increments the named counter, creating it at zero
	// first, and returns the new value. The first call returns 1.
	Next(ctx context.Context, name string) (int64, error)
}
