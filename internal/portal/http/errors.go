package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/barangay/internal/portal/service"
	"github.com/aussiebroadwan/barangay/pkg/httpx"
	"github.com/aussiebroadwan/barangay/pkg/portalsdk"
	"github.com/aussiebroadwan/barangay/pkg/slogx"
)

// writeServiceError maps a service error onto the API envelope. Anything
// unrecognised is logged and answered with an opaque 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		portalsdk.NewValidationError(ve.Fields).WriteError(w)

	case errors.Is(err, service.ErrForbidden):
		portalsdk.ErrForbidden.WriteError(w)

	case errors.Is(err, service.ErrResidentNotFound):
		portalsdk.ErrNotFound.WithDescription("Resident not found").WriteError(w)
	case errors.Is(err, service.ErrFamilyHeadNotFound):
		portalsdk.ErrNotFound.WithDescription("Family head not found").WriteError(w)
	case errors.Is(err, service.ErrUserNotFound):
		portalsdk.ErrNotFound.WithDescription("User not found").WriteError(w)

	case errors.Is(err, service.ErrInvalidCredentials):
		portalsdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrMFARequired):
		portalsdk.ErrMFARequired.WriteError(w)
	case errors.Is(err, service.ErrInvalidOTP):
		portalsdk.ErrInvalidOTP.WriteError(w)

	case errors.Is(err, service.ErrFamilyHeadInUse):
		portalsdk.ErrConflict.WithDescription("Family head still has residents linked to it").WriteError(w)
	case errors.Is(err, service.ErrUsernameTaken):
		portalsdk.ErrConflict.WithDescription("Username already taken").WriteError(w)
	case errors.Is(err, service.ErrMFAAlreadyEnabled):
		portalsdk.ErrConflict.WithDescription("MFA is already enabled").WriteError(w)
	case errors.Is(err, service.ErrMFANotEnrolled):
		portalsdk.ErrConflict.WithDescription("Enroll a TOTP secret first").WriteError(w)
	case errors.Is(err, service.ErrMFANotEnabled):
		portalsdk.ErrConflict.WithDescription("MFA is not enabled").WriteError(w)
	case errors.Is(err, service.ErrCannotDeleteSelf):
		portalsdk.ErrConflict.WithDescription("You cannot delete your own account").WriteError(w)

	default:
		slogx.FromContext(r.Context()).Error("request failed", slog.Any("error", err))
		portalsdk.ErrServerError.WriteError(w)
	}
}

// decode reads the JSON body into v, answering 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := httpx.DecodeJSON(r, v); err != nil {
		slogx.FromContext(r.Context()).Warn("failed to parse request", slog.Any("error", err))
		portalsdk.ErrInvalidRequest.WithDescription("Request body must be valid JSON").WriteError(w)
		return false
	}
	return true
}
