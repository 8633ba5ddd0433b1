package http

import (
	"net/http"

	"github.com/aussiebroadwan/barangay/internal/portal/service"
	"github.com/aussiebroadwan/barangay/pkg/httpx"
	"github.com/aussiebroadwan/barangay/pkg/portalsdk"
)

// FamilyHeadsHandler is mounted behind RequireRole("admin").
type FamilyHeadsHandler struct {
	FamilyHeadService *service.FamilyHeadService
}

// HandleList handles GET /v1/family-heads
//
//	@Summary	List family heads
//	@Tags		Family Heads
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}		portalsdk.FamilyHead
//	@Failure	403	{object}	portalsdk.ErrorResponse	"Caller is not an admin"
//	@Router		/v1/family-heads [get].
func (h *FamilyHeadsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	hs, err := h.FamilyHeadService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mapSlice(hs, toFamilyHead))
}

// HandleGet handles GET /v1/family-heads/{id}
//
//	@Summary	Get a family head
//	@Tags		Family Heads
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Family head ID"	example(F-2024001)
//	@Success	200	{object}	portalsdk.FamilyHead
//	@Failure	404	{object}	portalsdk.ErrorResponse	"Family head not found"
//	@Router		/v1/family-heads/{id} [get].
func (h *FamilyHeadsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	fh, err := h.FamilyHeadService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toFamilyHead(fh))
}

// HandleCreate handles POST /v1/family-heads
//
//	@Summary	Register a family head
//	@Tags		Family Heads
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		portalsdk.FamilyHeadRequest	true	"Family head"
//	@Success	201		{object}	portalsdk.FamilyHead
//	@Failure	400		{object}	portalsdk.ValidationErrorResponse	"Validation failed"
//	@Router		/v1/family-heads [post].
func (h *FamilyHeadsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req portalsdk.FamilyHeadRequest
	if !decode(w, r, &req) {
		return
	}

	fh, err := h.FamilyHeadService.Create(r.Context(), service.FamilyHeadInput{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Address:       req.Address,
		ContactNumber: req.ContactNumber,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toFamilyHead(fh))
}

// HandleDelete handles DELETE /v1/family-heads/{id}
//
//	@Summary		Delete a family head
//	@Description	Fails with 409 while any resident is linked to the head.
//	@Tags			Family Heads
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Family head ID"
//	@Success		204
//	@Failure		404	{object}	portalsdk.ErrorResponse	"Family head not found"
//	@Failure		409	{object}	portalsdk.ErrorResponse	"Residents are still linked"
//	@Router			/v1/family-heads/{id} [delete].
func (h *FamilyHeadsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.FamilyHeadService.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
