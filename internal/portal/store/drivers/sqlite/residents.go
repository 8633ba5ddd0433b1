package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/barangay/internal/portal/domain"
	"github.com/aussiebroadwan/barangay/internal/portal/store/drivers/sqlite/gen"
)

type residentsRepo struct {
	q *gen.Queries
}

func (r *residentsRepo) CreateResident(ctx context.Context, res domain.Resident) error {
	err := r.q.CreateResident(ctx, gen.CreateResidentParams{
		ResidentID:       res.ResidentID,
		FirstName:        res.FirstName,
		LastName:         res.LastName,
		Gender:           string(res.Gender),
		BirthDate:        res.BirthDate.Format(domain.DateLayout),
		Address:          res.Address,
		ContactNumber:    mapStringNull(res.ContactNumber),
		FamilyHeadID:     mapStringNull(res.FamilyHeadID),
		RegistrationDate: res.RegistrationDate,
		UpdatedAt:        res.UpdatedAt,
	})
	return mapConstraint(err)
}

func (r *residentsRepo) GetResident(ctx context.Context, id string) (domain.Resident, error) {
	row, err := r.q.GetResident(ctx, id)
	if err != nil {
		return domain.Resident{}, mapNotFound(err)
	}
	return mapResident(row), nil
}

func (r *residentsRepo) ListResidents(ctx context.Context) ([]domain.Resident, error) {
	rows, err := r.q.ListResidents(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Resident, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapResident(row))
	}
	return out, nil
}

func (r *residentsRepo) UpdateResident(ctx context.Context, res domain.Resident) error {
	return mapAffected(r.q.UpdateResident(ctx, gen.UpdateResidentParams{
		FirstName:     res.FirstName,
		LastName:      res.LastName,
		Gender:        string(res.Gender),
		BirthDate:     res.BirthDate.Format(domain.DateLayout),
		Address:       res.Address,
		ContactNumber: mapStringNull(res.ContactNumber),
		FamilyHeadID:  mapStringNull(res.FamilyHeadID),
		UpdatedAt:     res.UpdatedAt,
		ResidentID:    res.ResidentID,
	}))
}

func (r *residentsRepo) DeleteResident(ctx context.Context, id string) error {
	return mapAffected(r.q.DeleteResident(ctx, id))
}

func (r *residentsRepo) SetQRCode(ctx context.Context, id, qrCode string) error {
	return mapAffected(r.q.SetResidentQRCode(ctx, gen.SetResidentQRCodeParams{
		QrCode:     mapStringNull(qrCode),
		ResidentID: id,
	}))
}

func (r *residentsRepo) CountByFamilyHead(ctx context.Context, headID string) (int64, error) {
	return r.q.CountResidentsByFamilyHead(ctx, mapStringNull(headID))
}

func mapResident(row gen.Resident) domain.Resident {
	// Birth dates are written by this package in DateLayout.
	birth, _ := time.Parse(domain.DateLayout, row.BirthDate)

	return domain.Resident{
		ResidentID:       row.ResidentID,
		FirstName:        row.FirstName,
		LastName:         row.LastName,
		Gender:           domain.Gender(row.Gender),
		BirthDate:        birth,
		Address:          row.Address,
		ContactNumber:    mapNullString(row.ContactNumber),
		FamilyHeadID:     mapNullString(row.FamilyHeadID),
		RegistrationDate: row.RegistrationDate.UTC(),
		UpdatedAt:        row.UpdatedAt.UTC(),
		QRCode:           mapNullString(row.QrCode),
	}
}
