package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/barangay/internal/portal/domain"
	"github.com/aussiebroadwan/barangay/pkg/cryptox"
	"github.com/aussiebroadwan/barangay/pkg/slogx"
)

var (
	ErrBootstrapDisabled     = errors.New("bootstrap disabled")
	ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")
	ErrBootstrapAlready      = errors.New("system already bootstrapped")
)

type BootstrapInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// BootstrapService creates the first admin account of an empty install.
type BootstrapService struct {
	Accounts *AccountService
	Token    string // BOOTSTRAP_TOKEN; empty disables bootstrap
}

func (s *BootstrapService) Bootstrap(ctx context.Context, token string, in BootstrapInput) (domain.User, error) {
	l := slogx.FromContext(ctx)

	if s.Token == "" {
		return domain.User{}, ErrBootstrapDisabled
	}
	if !cryptox.TokensEqual(token, s.Token) {
		slogx.Audit(ctx, "bootstrap rejected", slog.String("reason", "token mismatch"))
		return domain.User{}, ErrBootstrapUnauthorized
	}

	empty, err := s.Accounts.Store.Users().IsEmpty(ctx)
	if err != nil {
		return domain.User{}, fmt.Errorf("check users: %w", err)
	}
	if !empty {
		l.Warn("attempted bootstrap on already-bootstrapped system")
		return domain.User{}, ErrBootstrapAlready
	}

	u, err := s.Accounts.CreateUser(ctx, domain.Principal{Username: "bootstrap"}, CreateUserInput{
		Username: in.Username,
		Password: in.Password,
		Role:     string(domain.RoleAdmin),
	})
	if err != nil {
		return domain.User{}, err
	}

	slogx.Audit(ctx, "system bootstrapped", slog.String("admin_user_id", u.ID))
	return u, nil
}
