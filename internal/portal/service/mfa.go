package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/aussiebroadwan/barangay/internal/portal/domain"
	"github.com/aussiebroadwan/barangay/pkg/slogx"
)

var (
	ErrMFAAlreadyEnabled = errors.New("MFA already enabled for this user")
	ErrMFANotEnrolled    = errors.New("MFA not enrolled, enroll first")
	ErrMFANotEnabled     = errors.New("MFA not enabled for this user")
)

func validTOTP(code string, secret *string) bool {
	if secret == nil || *secret == "" || code == "" {
		return false
	}
	return totp.Validate(code, *secret)
}

// MFAService manages the TOTP second factor of an account.
type MFAService struct {
	Accounts *AccountService
	Issuer   string // shown by authenticator apps
	Encoder  QREncoder
}

// EnrollTOTP stores a fresh pending secret. MFA is only enforced once
// VerifyTOTP has confirmed the user can produce codes. Enrolling again
// before verifying replaces the pending secret.
func (s *MFAService) EnrollTOTP(ctx context.Context, p domain.Principal) (domain.TOTPEnrollment, error) {
	u, err := s.Accounts.user(ctx, p.UserID)
	if err != nil {
		return domain.TOTPEnrollment{}, err
	}
	if u.MFAEnabled() {
		return domain.TOTPEnrollment{}, ErrMFAAlreadyEnabled
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: u.Username,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return domain.TOTPEnrollment{}, fmt.Errorf("generate totp key: %w", err)
	}

	qr, err := s.Encoder.DataURL(key.URL())
	if err != nil {
		return domain.TOTPEnrollment{}, fmt.Errorf("render totp qr: %w", err)
	}

	if err := s.Accounts.Store.Users().UpdateMFASecret(ctx, u.ID, key.Secret()); err != nil {
		return domain.TOTPEnrollment{}, fmt.Errorf("store totp secret: %w", err)
	}

	slogx.Audit(ctx, "totp enrolment started", slog.String("user_id", u.ID))
	return domain.TOTPEnrollment{
		Secret:     key.Secret(),
		OTPAuthURL: key.URL(),
		QRCode:     qr,
	}, nil
}

// VerifyTOTP checks code against the pending secret and turns MFA on.
func (s *MFAService) VerifyTOTP(ctx context.Context, p domain.Principal, code string) error {
	u, err := s.Accounts.user(ctx, p.UserID)
	if err != nil {
		return err
	}
	if u.MFAEnabled() {
		return ErrMFAAlreadyEnabled
	}
	if u.MFASecret == nil || *u.MFASecret == "" {
		return ErrMFANotEnrolled
	}
	if !validTOTP(code, u.MFASecret) {
		return ErrInvalidOTP
	}

	if err := s.Accounts.Store.Users().EnableMFA(ctx, u.ID); err != nil {
		return fmt.Errorf("enable mfa: %w", err)
	}

	slogx.Audit(ctx, "totp enabled", slog.String("user_id", u.ID))
	return nil
}

// DisableTOTP turns MFA off. A current code is required.
func (s *MFAService) DisableTOTP(ctx context.Context, p domain.Principal, code string) error {
	u, err := s.Accounts.user(ctx, p.UserID)
	if err != nil {
		return err
	}
	if !u.MFAEnabled() {
		return ErrMFANotEnabled
	}
	if !validTOTP(code, u.MFASecret) {
		return ErrInvalidOTP
	}

	if err := s.Accounts.Store.Users().DisableMFA(ctx, u.ID); err != nil {
		return fmt.Errorf("disable mfa: %w", err)
	}

	slogx.Audit(ctx, "totp disabled", slog.String("user_id", u.ID))
	return nil
}
