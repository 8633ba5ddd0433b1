package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/barangay/internal/portal/service"
	"github.com/aussiebroadwan/barangay/pkg/httpx"
	"github.com/aussiebroadwan/barangay/pkg/portalsdk"
	"github.com/aussiebroadwan/barangay/pkg/slogx"
)

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP handles the bootstrap endpoint for initial system setup.
//
//	@Summary		Bootstrap the portal
//	@Description	Creates the first admin account. Only available when a bootstrap token is configured and no accounts exist yet.
//	@Tags			Bootstrap
//	@Accept			json
//	@Produce		json
//	@Param			X-Bootstrap-Token	header		string								true	"Bootstrap token for authorization"
//	@Param			request				body		portalsdk.BootstrapRequest			true	"Admin credentials"
//	@Success		201					{object}	portalsdk.BootstrapResponse			"Admin account created"
//	@Failure		400					{object}	portalsdk.ValidationErrorResponse	"Invalid request body or validation failed"
//	@Failure		401					{object}	portalsdk.ErrorResponse				"Missing or invalid bootstrap token"
//	@Failure		404					{object}	portalsdk.ErrorResponse				"Bootstrap not enabled (no token configured)"
//	@Failure		409					{object}	portalsdk.ErrorResponse				"System already bootstrapped"
//	@Router			/v1/bootstrap [post].
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())

	if h.BootstrapService.Token == "" {
		portalsdk.ErrNotFound.WithDescription("Bootstrap endpoint is not enabled").WriteError(w)
		return
	}

	token := r.Header.Get("X-Bootstrap-Token")
	if token == "" {
		portalsdk.ErrInvalidToken.WithDescription("Bootstrap token is required in X-Bootstrap-Token header").WriteError(w)
		return
	}

	var req portalsdk.BootstrapRequest
	if !decode(w, r, &req) {
		return
	}

	u, err := h.BootstrapService.Bootstrap(r.Context(), token, service.BootstrapInput{
		Username: req.Username,
		Password: req.Password,
	})
	switch {
	case errors.Is(err, service.ErrBootstrapDisabled):
		portalsdk.ErrNotFound.WithDescription("Bootstrap endpoint is not enabled").WriteError(w)
		return
	case errors.Is(err, service.ErrBootstrapUnauthorized):
		portalsdk.ErrInvalidToken.WithDescription("Invalid bootstrap token").WriteError(w)
		return
	case errors.Is(err, service.ErrBootstrapAlready):
		portalsdk.ErrConflict.WithDescription("System has already been bootstrapped").WriteError(w)
		return
	case err != nil:
		writeServiceError(w, r, err)
		return
	}

	l.Info("portal bootstrapped", "admin_user_id", u.ID)
	httpx.WriteJSON(w, http.StatusCreated, portalsdk.BootstrapResponse{UserID: u.ID})
}
