package http

import (
	"net/http"

	"github.com/aussiebroadwan/barangay/internal/portal/service"
	"github.com/aussiebroadwan/barangay/pkg/httpx"
	"github.com/aussiebroadwan/barangay/pkg/portalsdk"
)

// UsersHandler administers accounts. Mounted behind RequireRole("admin").
type UsersHandler struct {
	AccountService *service.AccountService
}

// HandleList handles GET /v1/users
//
//	@Summary	List accounts
//	@Tags		Users
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}		portalsdk.User
//	@Failure	403	{object}	portalsdk.ErrorResponse	"Caller is not an admin"
//	@Router		/v1/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	us, err := h.AccountService.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mapSlice(us, toUser))
}

// HandleCreate handles POST /v1/users
//
//	@Summary		Create an account
//	@Description	Resident accounts must reference an existing resident_id; admin and staff accounts must not.
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		portalsdk.CreateUserRequest	true	"Account"
//	@Success		201		{object}	portalsdk.User
//	@Failure		400		{object}	portalsdk.ValidationErrorResponse	"Validation failed"
//	@Failure		409		{object}	portalsdk.ErrorResponse				"Username already taken"
//	@Router			/v1/users [post].
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r)
	if !ok {
		portalsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req portalsdk.CreateUserRequest
	if !decode(w, r, &req) {
		return
	}

	u, err := h.AccountService.CreateUser(r.Context(), p, service.CreateUserInput{
		Username:   req.Username,
		Password:   req.Password,
		Role:       req.Role,
		ResidentID: req.ResidentID,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toUser(u))
}

// HandleDelete handles DELETE /v1/users/{id}
//
//	@Summary	Delete an account
//	@Tags		Users
//	@Security	BearerAuth
//	@Param		id	path	string	true	"User ID"
//	@Success	204
//	@Failure	404	{object}	portalsdk.ErrorResponse	"User not found"
//	@Failure	409	{object}	portalsdk.ErrorResponse	"Cannot delete your own account"
//	@Router		/v1/users/{id} [delete].
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r)
	if !ok {
		portalsdk.ErrInvalidToken.WriteError(w)
		return
	}

	if err := h.AccountService.DeleteUser(r.Context(), p, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
