package service

import (
	"context"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/barangay/internal/portal/domain"
)

func (e *env) createUser(t *testing.T, username, role, residentID string) domain.User {
	t.Helper()
	u, err := e.accounts.CreateUser(context.Background(), admin, CreateUserInput{
		Username:   username,
		Password:   "correct-horse",
		Role:       role,
		ResidentID: residentID,
	})
	require.NoError(t, err)
	return u
}

func principalOf(u domain.User) domain.Principal {
	return domain.Principal{UserID: u.ID, Username: u.Username, Role: u.Role, ResidentID: u.ResidentID}
}

func TestLogin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	r := e.createResident(t, validInput())
	u := e.createUser(t, "juan", "resident", r.ResidentID)

	res, err := e.accounts.Login(ctx, "juan", "correct-horse", "")
	require.NoError(t, err)
	require.Equal(t, u.ID, res.User.ID)
	require.Equal(t, time.Hour, res.ExpiresIn)

	claims, err := e.km.Verifier.Verify(res.AccessToken)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.Subject)
	require.Equal(t, "resident", claims.Role)
	require.Equal(t, r.ResidentID, claims.ResidentID)
	require.Equal(t, []string{"pwd"}, claims.AMR)

	t.Run("username is case insensitive", func(t *testing.T) {
		_, err := e.accounts.Login(ctx, "JUAN", "correct-horse", "")
		require.NoError(t, err)
	})

	t.Run("wrong password and unknown user look the same", func(t *testing.T) {
		_, err := e.accounts.Login(ctx, "juan", "wrong", "")
		require.ErrorIs(t, err, ErrInvalidCredentials)
		_, err = e.accounts.Login(ctx, "nobody", "correct-horse", "")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestCreateUserRules(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	r := e.createResident(t, validInput())
	e.createUser(t, "kapitan", "admin", "")

	cases := []struct {
		name  string
		in    CreateUserInput
		field string
	}{
		{"short username", CreateUserInput{Username: "ab", Password: "long-enough", Role: "admin"}, "username"},
		{"bad username", CreateUserInput{Username: "juan dela", Password: "long-enough", Role: "admin"}, "username"},
		{"short password", CreateUserInput{Username: "juan", Password: "short", Role: "admin"}, "password"},
		{"unknown role", CreateUserInput{Username: "juan", Password: "long-enough", Role: "mayor"}, "role"},
		{"resident without link", CreateUserInput{Username: "juan", Password: "long-enough", Role: "resident"}, "resident_id"},
		{"staff with link", CreateUserInput{Username: "juan", Password: "long-enough", Role: "staff", ResidentID: r.ResidentID}, "resident_id"},
		{"dangling link", CreateUserInput{Username: "juan", Password: "long-enough", Role: "resident", ResidentID: "R-2024999"}, "resident_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.accounts.CreateUser(ctx, admin, tc.in)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			require.Contains(t, ve.Fields, tc.field)
		})
	}

	t.Run("duplicate username", func(t *testing.T) {
		_, err := e.accounts.CreateUser(ctx, admin, CreateUserInput{Username: "Kapitan", Password: "long-enough", Role: "staff"})
		require.ErrorIs(t, err, ErrUsernameTaken)
	})

	us, err := e.accounts.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, us, 1)
}

func TestChangePassword(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.createUser(t, "kagawad", "staff", "")
	p := principalOf(u)

	require.ErrorIs(t, e.accounts.ChangePassword(ctx, p, "wrong", "brand-new-pass"), ErrInvalidCredentials)
	require.ErrorIs(t, e.accounts.ChangePassword(ctx, p, "correct-horse", "short"), ErrValidation)
	require.NoError(t, e.accounts.ChangePassword(ctx, p, "correct-horse", "brand-new-pass"))

	_, err := e.accounts.Login(ctx, "kagawad", "correct-horse", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = e.accounts.Login(ctx, "kagawad", "brand-new-pass", "")
	require.NoError(t, err)
}

func TestDeleteUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.createUser(t, "kapitan", "admin", "")
	s := e.createUser(t, "kagawad", "staff", "")

	require.ErrorIs(t, e.accounts.DeleteUser(ctx, principalOf(a), a.ID), ErrCannotDeleteSelf)
	require.NoError(t, e.accounts.DeleteUser(ctx, principalOf(a), s.ID))
	require.ErrorIs(t, e.accounts.DeleteUser(ctx, principalOf(a), s.ID), ErrUserNotFound)

	_, err := e.accounts.Me(ctx, principalOf(s))
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestTOTPLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.createUser(t, "kapitan", "admin", "")
	p := principalOf(u)

	require.ErrorIs(t, e.mfa.VerifyTOTP(ctx, p, "123456"), ErrMFANotEnrolled)
	require.ErrorIs(t, e.mfa.DisableTOTP(ctx, p, "123456"), ErrMFANotEnabled)

	enr, err := e.mfa.EnrollTOTP(ctx, p)
	require.NoError(t, err)
	require.NotEmpty(t, enr.Secret)
	require.Contains(t, enr.OTPAuthURL, "otpauth://totp/")
	require.Contains(t, enr.QRCode, "data:image/png;base64,")

	// Pending enrolment does not gate login.
	_, err = e.accounts.Login(ctx, "kapitan", "correct-horse", "")
	require.NoError(t, err)

	require.ErrorIs(t, e.mfa.VerifyTOTP(ctx, p, "000000"), ErrInvalidOTP)

	code, err := totp.GenerateCode(enr.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, e.mfa.VerifyTOTP(ctx, p, code))

	_, err = e.mfa.EnrollTOTP(ctx, p)
	require.ErrorIs(t, err, ErrMFAAlreadyEnabled)

	_, err = e.accounts.Login(ctx, "kapitan", "correct-horse", "")
	require.ErrorIs(t, err, ErrMFARequired)
	_, err = e.accounts.Login(ctx, "kapitan", "correct-horse", "000000")
	require.ErrorIs(t, err, ErrInvalidOTP)

	res, err := e.accounts.Login(ctx, "kapitan", "correct-horse", code)
	require.NoError(t, err)
	claims, err := e.km.Verifier.Verify(res.AccessToken)
	require.NoError(t, err)
	require.Equal(t, []string{"pwd", "otp"}, claims.AMR)

	require.ErrorIs(t, e.mfa.DisableTOTP(ctx, p, "000000"), ErrInvalidOTP)
	require.NoError(t, e.mfa.DisableTOTP(ctx, p, code))

	me, err := e.accounts.Me(ctx, p)
	require.NoError(t, err)
	require.False(t, me.MFAEnabled())
	require.Nil(t, me.MFASecret)
}

func TestBootstrap(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	in := BootstrapInput{Username: "kapitan", Password: "correct-horse"}

	disabled := &BootstrapService{Accounts: e.accounts}
	_, err := disabled.Bootstrap(ctx, "", in)
	require.ErrorIs(t, err, ErrBootstrapDisabled)

	b := &BootstrapService{Accounts: e.accounts, Token: "let-me-in"}

	_, err = b.Bootstrap(ctx, "wrong", in)
	require.ErrorIs(t, err, ErrBootstrapUnauthorized)

	u, err := b.Bootstrap(ctx, "let-me-in", in)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, u.Role)

	_, err = b.Bootstrap(ctx, "let-me-in", BootstrapInput{Username: "second", Password: "correct-horse"})
	require.ErrorIs(t, err, ErrBootstrapAlready)

	_, err = e.accounts.Login(ctx, "kapitan", "correct-horse", "")
	require.NoError(t, err)
}
