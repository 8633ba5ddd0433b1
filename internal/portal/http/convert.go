package http

import (
	"net/http"

	"github.com/aussiebroadwan/barangay/internal/portal/domain"
	"github.com/aussiebroadwan/barangay/internal/portal/service"
	"github.com/aussiebroadwan/barangay/pkg/httpx"
	"github.com/aussiebroadwan/barangay/pkg/portalsdk"
)

// principalFrom builds the caller from the verified access token.
func principalFrom(r *http.Request) (domain.Principal, bool) {
	c, ok := httpx.ClaimsFromContext(r.Context())
	if !ok || c.Subject == "" {
		return domain.Principal{}, false
	}
	return domain.Principal{
		UserID:     c.Subject,
		Username:   c.Username,
		Role:       domain.Role(c.Role),
		ResidentID: c.ResidentID,
	}, true
}

// toResident never carries the QR artifact.
func toResident(r domain.Resident) portalsdk.Resident {
	return portalsdk.Resident{
		ResidentID:       r.ResidentID,
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Gender:           string(r.Gender),
		BirthDate:        r.BirthDate.Format(domain.DateLayout),
		Address:          r.Address,
		ContactNumber:    r.ContactNumber,
		FamilyHeadID:     r.FamilyHeadID,
		RegistrationDate: r.RegistrationDate,
		UpdatedAt:        r.UpdatedAt,
	}
}

func fromResidentRequest(req portalsdk.ResidentRequest) service.ResidentInput {
	return service.ResidentInput{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Gender:        req.Gender,
		BirthDate:     req.BirthDate,
		Address:       req.Address,
		ContactNumber: req.ContactNumber,
		FamilyHeadID:  req.FamilyHeadID,
	}
}

func toFamilyHead(h domain.FamilyHead) portalsdk.FamilyHead {
	return portalsdk.FamilyHead{
		HeadID:           h.HeadID,
		FirstName:        h.FirstName,
		LastName:         h.LastName,
		Address:          h.Address,
		ContactNumber:    h.ContactNumber,
		RegistrationDate: h.RegistrationDate,
	}
}

func toUser(u domain.User) portalsdk.User {
	return portalsdk.User{
		ID:         u.ID,
		Username:   u.Username,
		Role:       string(u.Role),
		ResidentID: u.ResidentID,
		MFAEnabled: u.MFAEnabled(),
		CreatedAt:  u.CreatedAt,
	}
}

func mapSlice[T, U any](in []T, fn func(T) U) []U {
	out := make([]U, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
