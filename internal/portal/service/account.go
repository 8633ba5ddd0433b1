package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/barangay/internal/portal/domain"
	"github.com/aussiebroadwan/barangay/internal/portal/metrics"
	"github.com/aussiebroadwan/barangay/internal/portal/store"
	"github.com/aussiebroadwan/barangay/pkg/cryptox"
	"github.com/aussiebroadwan/barangay/pkg/idx"
	"github.com/aussiebroadwan/barangay/pkg/jwtx"
	"github.com/aussiebroadwan/barangay/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrMFARequired        = errors.New("one-time code required")
	ErrInvalidOTP         = errors.New("invalid one-time code")
)

const minPasswordLength = 8

type CreateUserInput struct {
	Username   string `json:"username" validate:"required,username"`
	Password   string `json:"password" validate:"required,min=8"`
	Role       string `json:"role" validate:"required,role"`
	ResidentID string `json:"resident_id"`
}

var userMessages = messages{
	"username.required": "Username is required",
	"username.username": "Username must be 3 to 32 letters, digits, '.', '_' or '-'",
	"password.required": "Password is required",
	"password.min":      "Password must be at least 8 characters",
	"role.required":     "Role is required",
	"role.role":         "Role must be admin, resident or staff",
}

// LoginResult is a freshly minted access token and the account it belongs to.
type LoginResult struct {
	AccessToken string
	ExpiresIn   time.Duration
	User        domain.User
}

// AccountService covers login and account administration.
type AccountService struct {
	Store     store.Store
	Signer    jwtx.Signer
	Issuer    string
	Audience  []string
	AccessTTL time.Duration
	Now       func() time.Time
	Metrics   *metrics.Metrics

	dummyOnce sync.Once
	dummyHash string
}

func (s *AccountService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// burnHash spends the same time on unknown usernames as on a real password
// check.
func (s *AccountService) burnHash(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = cryptox.HashPassword(idx.New().String())
	})
	if s.dummyHash != "" {
		_ = cryptox.VerifyPassword(password, s.dummyHash)
	}
}

func (s *AccountService) Login(ctx context.Context, username, password, otpCode string) (LoginResult, error) {
	l := slogx.FromContext(ctx)
	username = strings.TrimSpace(username)

	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		s.burnHash(password)
		s.Metrics.IncLogin("invalid_credentials")
		slogx.Audit(ctx, "login failed", slog.String("username", username), slog.String("reason", "unknown user"))
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			l.Error("stored password hash unusable", slog.String("user_id", u.ID), slog.Any("error", err))
		}
		s.Metrics.IncLogin("invalid_credentials")
		slogx.Audit(ctx, "login failed", slog.String("user_id", u.ID), slog.String("reason", "bad password"))
		return LoginResult{}, ErrInvalidCredentials
	}

	amr := []string{"pwd"}
	if u.MFAEnabled() {
		if otpCode == "" {
			s.Metrics.IncLogin("mfa_required")
			return LoginResult{}, ErrMFARequired
		}
		if !validTOTP(otpCode, u.MFASecret) {
			s.Metrics.IncLogin("invalid_otp")
			slogx.Audit(ctx, "login failed", slog.String("user_id", u.ID), slog.String("reason", "bad otp"))
			return LoginResult{}, ErrInvalidOTP
		}
		amr = append(amr, "otp")
	}

	ttl := s.AccessTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}
	claims := jwtx.NewAccessClaims(jwtx.AccessParams{
		Subject:    u.ID,
		Username:   u.Username,
		Role:       string(u.Role),
		ResidentID: u.ResidentID,
		AMR:        amr,
		Issuer:     s.Issuer,
		Audience:   s.Audience,
		TTL:        ttl,
	}, s.now())

	token, err := s.Signer.Sign(claims)
	if err != nil {
		return LoginResult{}, fmt.Errorf("sign access token: %w", err)
	}

	s.Metrics.IncLogin("success")
	slogx.Audit(ctx, "login succeeded",
		slog.String("user_id", u.ID),
		slog.String("role", string(u.Role)),
		slog.Any("amr", amr),
	)
	return LoginResult{AccessToken: token, ExpiresIn: ttl, User: u}, nil
}

func (s *AccountService) Me(ctx context.Context, p domain.Principal) (domain.User, error) {
	return s.user(ctx, p.UserID)
}

func (s *AccountService) user(ctx context.Context, id string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	return u, nil
}

func (s *AccountService) ChangePassword(ctx context.Context, p domain.Principal, current, next string) error {
	if len(next) < minPasswordLength {
		return fieldError("new_password", "Password must be at least 8 characters")
	}

	u, err := s.user(ctx, p.UserID)
	if err != nil {
		return err
	}
	if err := cryptox.VerifyPassword(current, u.PasswordHash); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := cryptox.HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.Store.Users().UpdatePasswordHash(ctx, u.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	slogx.Audit(ctx, "password changed", slog.String("user_id", u.ID))
	return nil
}

// CreateUser adds an account. Resident accounts must link to an existing
// resident record and other roles must not link to one.
func (s *AccountService) CreateUser(ctx context.Context, p domain.Principal, in CreateUserInput) (domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Role = strings.TrimSpace(in.Role)
	in.ResidentID = strings.TrimSpace(in.ResidentID)

	if err := check(in, userMessages); err != nil {
		return domain.User{}, err
	}

	role := domain.Role(in.Role)
	switch {
	case role == domain.RoleResident && in.ResidentID == "":
		return domain.User{}, fieldError("resident_id", "Resident accounts need a resident id")
	case role != domain.RoleResident && in.ResidentID != "":
		return domain.User{}, fieldError("resident_id", "Only resident accounts link to a resident")
	}

	if in.ResidentID != "" {
		_, err := s.Store.Residents().GetResident(ctx, in.ResidentID)
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, fieldError("resident_id", "Resident does not exist")
		}
		if err != nil {
			return domain.User{}, fmt.Errorf("get resident %s: %w", in.ResidentID, err)
		}
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	u := domain.User{
		ID:           idx.New().String(),
		Username:     in.Username,
		PasswordHash: hash,
		Role:         role,
		ResidentID:   in.ResidentID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.Store.Users().CreateUser(ctx, u)
	if errors.Is(err, store.ErrAlreadyExists) {
		return domain.User{}, ErrUsernameTaken
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	slogx.Audit(ctx, "user created",
		slog.String("user_id", p.UserID),
		slog.String("new_user_id", u.ID),
		slog.String("role", string(u.Role)),
	)
	return u, nil
}

func (s *AccountService) ListUsers(ctx context.Context) ([]domain.User, error) {
	us, err := s.Store.Users().ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return us, nil
}

func (s *AccountService) DeleteUser(ctx context.Context, p domain.Principal, id string) error {
	if id == p.UserID {
		return ErrCannotDeleteSelf
	}

	err := s.Store.Users().DeleteUser(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}

	slogx.Audit(ctx, "user deleted",
		slog.String("user_id", p.UserID),
		slog.String("deleted_user_id", id),
	)
	return nil
}
