package portalsdk

import (
	"context"
	"net/http"
)

// Login exchanges credentials for an access token. Accounts with MFA enabled
// fail with ErrMFARequired until OTPCode is supplied.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	return call[LoginResponse](ctx, c, http.MethodPost, "/v1/auth/login", req, http.StatusOK)
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	return call[User](ctx, c, http.MethodGet, "/v1/auth/me", nil, http.StatusOK)
}

func (c *Client) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/auth/change-password", req, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

func (c *Client) EnrollTOTP(ctx context.Context) (*TOTPEnrollResponse, error) {
	return call[TOTPEnrollResponse](ctx, c, http.MethodPost, "/v1/auth/mfa/totp/enroll", nil, http.StatusOK)
}

// VerifyTOTP activates the pending secret.
func (c *Client) VerifyTOTP(ctx context.Context, code string) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/auth/mfa/totp/verify", TOTPCodeRequest{Code: code}, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

func (c *Client) DisableTOTP(ctx context.Context, code string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, "/v1/auth/mfa/totp", TOTPCodeRequest{Code: code}, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
