package http

import (
	"net/http"

	"github.com/aussiebroadwan/barangay/internal/portal/service"
	"github.com/aussiebroadwan/barangay/pkg/httpx"
	"github.com/aussiebroadwan/barangay/pkg/portalsdk"
)

// MFAHandler handles all MFA-related endpoints.
type MFAHandler struct {
	MFAService *service.MFAService
}

// HandleEnroll handles POST /v1/auth/mfa/totp/enroll
//
//	@Summary		Enroll in TOTP MFA
//	@Description	Generates a pending TOTP secret for the authenticated user and returns it with an otpauth URL and its QR code.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	portalsdk.TOTPEnrollResponse	"TOTP secret and QR code"
//	@Failure		401	{object}	portalsdk.ErrorResponse			"Invalid or missing access token"
//	@Failure		409	{object}	portalsdk.ErrorResponse			"MFA already enabled"
//	@Router			/v1/auth/mfa/totp/enroll [post].
func (h *MFAHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r)
	if !ok {
		portalsdk.ErrInvalidToken.WriteError(w)
		return
	}

	enr, err := h.MFAService.EnrollTOTP(r.Context(), p)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, portalsdk.TOTPEnrollResponse{
		Secret:     enr.Secret,
		OTPAuthURL: enr.OTPAuthURL,
		QRCode:     enr.QRCode,
	})
}

// HandleVerify handles POST /v1/auth/mfa/totp/verify
//
//	@Summary	Verify TOTP code and enable MFA
//	@Tags		MFA
//	@Security	BearerAuth
//	@Accept		json
//	@Param		request	body	portalsdk.TOTPCodeRequest	true	"TOTP code"
//	@Success	204
//	@Failure	401	{object}	portalsdk.ErrorResponse	"Invalid code or access token"
//	@Failure	409	{object}	portalsdk.ErrorResponse	"Not enrolled or already enabled"
//	@Router		/v1/auth/mfa/totp/verify [post].
func (h *MFAHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r)
	if !ok {
		portalsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req portalsdk.TOTPCodeRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.MFAService.VerifyTOTP(r.Context(), p, req.Code); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDisable handles DELETE /v1/auth/mfa/totp
//
//	@Summary	Disable TOTP MFA
//	@Tags		MFA
//	@Security	BearerAuth
//	@Accept		json
//	@Param		request	body	portalsdk.TOTPCodeRequest	true	"Current TOTP code"
//	@Success	204
//	@Failure	401	{object}	portalsdk.ErrorResponse	"Invalid code or access token"
//	@Failure	409	{object}	portalsdk.ErrorResponse	"MFA not enabled"
//	@Router		/v1/auth/mfa/totp [delete].
func (h *MFAHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r)
	if !ok {
		portalsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req portalsdk.TOTPCodeRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.MFAService.DisableTOTP(r.Context(), p, req.Code); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
