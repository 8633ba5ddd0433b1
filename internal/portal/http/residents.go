package http

import (
	"net/http"

	"github.com/aussiebroadwan/barangay/internal/portal/service"
	"github.com/aussiebroadwan/barangay/pkg/httpx"
	"github.com/aussiebroadwan/barangay/pkg/portalsdk"
)

// ResidentsHandler serves the resident registry. Every operation goes
// through the resident gate inside ResidentService.
type ResidentsHandler struct {
	ResidentService *service.ResidentService
}

// HandleList handles GET /v1/residents
//
//	@Summary		List residents
//	@Description	Returns every resident ordered by registration date. QR codes are not included.
//	@Tags			Residents
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		portalsdk.Resident
//	@Failure		401	{object}	portalsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		403	{object}	portalsdk.ErrorResponse	"Caller is not an admin"
//	@Failure		500	{object}	portalsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/residents [get].
func (h *ResidentsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r)
	if !ok {
		portalsdk.ErrInvalidToken.WriteError(w)
		return
	}

	rs, err := h.ResidentService.List(r.Context(), p)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mapSlice(rs, toResident))
}

// HandleGet handles GET /v1/residents/{id}
//
//	@Summary		Get a resident
//	@Description	Admins may read any resident; residents may read their own record.
//	@Tags			Residents
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Resident ID"	example(R-2024001)
//	@Success		200	{object}	portalsdk.Resident
//	@Failure		401	{object}	portalsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		403	{object}	portalsdk.ErrorResponse	"Not your record"
//	@Failure		404	{object}	portalsdk.ErrorResponse	"Resident not found"
//	@Router			/v1/residents/{id} [get].
func (h *ResidentsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r)
	if !ok {
		portalsdk.ErrInvalidToken.WriteError(w)
		return
	}

	res, err := h.ResidentService.Get(r.Context(), p, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toResident(res))
}

// HandleQRCode handles GET /v1/residents/{id}/qrcode
//
//	@Summary		Get a resident's QR code
//	@Description	Returns the resident's identity QR code as a PNG data URL, generating it on first request.
//	@Tags			Residents
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Resident ID"
//	@Success		200	{object}	portalsdk.QRCodeResponse
//	@Failure		401	{object}	portalsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		403	{object}	portalsdk.ErrorResponse	"Not your record"
//	@Failure		404	{object}	portalsdk.ErrorResponse	"Resident not found"
//	@Failure		500	{object}	portalsdk.ErrorResponse	"QR code could not be generated"
//	@Router			/v1/residents/{id}/qrcode [get].
func (h *ResidentsHandler) HandleQRCode(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r)
	if !ok {
		portalsdk.ErrInvalidToken.WriteError(w)
		return
	}

	code, err := h.ResidentService.QRCode(r.Context(), p, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, portalsdk.QRCodeResponse{QRCode: code})
}

// HandleCreate handles POST /v1/residents
//
//	@Summary		Register a resident
//	@Description	Allocates a resident ID. When familyHeadId is set the head's address replaces the submitted one.
//	@Tags			Residents
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		portalsdk.ResidentRequest	true	"Resident"
//	@Success		201		{object}	portalsdk.Resident
//	@Failure		400		{object}	portalsdk.ValidationErrorResponse	"Validation failed or family head does not exist"
//	@Failure		401		{object}	portalsdk.ErrorResponse				"Invalid or missing access token"
//	@Failure		403		{object}	portalsdk.ErrorResponse				"Caller is not an admin"
//	@Failure		500		{object}	portalsdk.ErrorResponse				"Internal server error"
//	@Router			/v1/residents [post].
func (h *ResidentsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r)
	if !ok {
		portalsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req portalsdk.ResidentRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := h.ResidentService.Create(r.Context(), p, fromResidentRequest(req))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toResident(res))
}

// HandleUpdate handles PUT /v1/residents/{id}
//
//	@Summary		Update a resident
//	@Description	Replaces the resident's personal details. The ID, registration date and QR code never change.
//	@Tags			Residents
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Resident ID"
//	@Param			request	body		portalsdk.ResidentRequest	true	"Resident"
//	@Success		200		{object}	portalsdk.Resident
//	@Failure		400		{object}	portalsdk.ValidationErrorResponse	"Validation failed or family head does not exist"
//	@Failure		401		{object}	portalsdk.ErrorResponse				"Invalid or missing access token"
//	@Failure		403		{object}	portalsdk.ErrorResponse				"Not your record"
//	@Failure		404		{object}	portalsdk.ErrorResponse				"Resident not found"
//	@Router			/v1/residents/{id} [put].
func (h *ResidentsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r)
	if !ok {
		portalsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req portalsdk.ResidentRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := h.ResidentService.Update(r.Context(), p, r.PathValue("id"), fromResidentRequest(req))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toResident(res))
}

// HandleDelete handles DELETE /v1/residents/{id}
//
//	@Summary		Delete a resident
//	@Tags			Residents
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Resident ID"
//	@Success		200	{object}	portalsdk.MessageResponse
//	@Failure		401	{object}	portalsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		403	{object}	portalsdk.ErrorResponse	"Caller is not an admin"
//	@Failure		404	{object}	portalsdk.ErrorResponse	"Resident not found"
//	@Router			/v1/residents/{id} [delete].
func (h *ResidentsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r)
	if !ok {
		portalsdk.ErrInvalidToken.WriteError(w)
		return
	}

	if err := h.ResidentService.Delete(r.Context(), p, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, portalsdk.MessageResponse{Message: "Resident deleted successfully"})
}
