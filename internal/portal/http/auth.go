package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/barangay/internal/portal/service"
	"github.com/aussiebroadwan/barangay/pkg/httpx"
	"github.com/aussiebroadwan/barangay/pkg/portalsdk"
)

type AuthHandler struct {
	AccountService *service.AccountService
}

// HandleLogin handles POST /v1/auth/login
//
//	@Summary		Log in
//	@Description	Exchanges a username and password for an access token. Accounts with MFA enabled must also send otp_code.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		portalsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	portalsdk.LoginResponse
//	@Failure		400		{object}	portalsdk.ValidationErrorResponse	"Username or password missing"
//	@Failure		401		{object}	portalsdk.ErrorResponse				"Invalid credentials or one-time code"
//	@Failure		409		{object}	portalsdk.ErrorResponse				"One-time code required"
//	@Failure		429		{object}	portalsdk.ErrorResponse				"Too many attempts"
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req portalsdk.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	fields := map[string]string{}
	if strings.TrimSpace(req.Username) == "" {
		fields["username"] = "Username is required"
	}
	if req.Password == "" {
		fields["password"] = "Password is required"
	}
	if len(fields) > 0 {
		portalsdk.NewValidationError(fields).WriteError(w)
		return
	}

	res, err := h.AccountService.Login(r.Context(), req.Username, req.Password, strings.TrimSpace(req.OTPCode))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, portalsdk.LoginResponse{
		AccessToken: res.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(res.ExpiresIn.Seconds()),
		User:        toUser(res.User),
	})
}

// HandleMe handles GET /v1/auth/me
//
//	@Summary	Current account
//	@Tags		Auth
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	portalsdk.User
//	@Failure	401	{object}	portalsdk.ErrorResponse	"Invalid or missing access token"
//	@Router		/v1/auth/me [get].
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r)
	if !ok {
		portalsdk.ErrInvalidToken.WriteError(w)
		return
	}

	u, err := h.AccountService.Me(r.Context(), p)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUser(u))
}

// HandleChangePassword handles POST /v1/auth/change-password
//
//	@Summary	Change password
//	@Tags		Auth
//	@Security	BearerAuth
//	@Accept		json
//	@Param		request	body	portalsdk.ChangePasswordRequest	true	"Current and new password"
//	@Success	204
//	@Failure	400	{object}	portalsdk.ValidationErrorResponse	"New password too short"
//	@Failure	401	{object}	portalsdk.ErrorResponse				"Current password is wrong"
//	@Router		/v1/auth/change-password [post].
func (h *AuthHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r)
	if !ok {
		portalsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req portalsdk.ChangePasswordRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.AccountService.ChangePassword(r.Context(), p, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
