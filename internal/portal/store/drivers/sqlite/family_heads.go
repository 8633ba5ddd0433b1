package sqlite

import (
	"context"

	"github.com/aussiebroadwan/barangay/internal/portal/domain"
	"github.com/aussiebroadwan/barangay/internal/portal/store/drivers/sqlite/gen"
)

type familyHeadsRepo struct {
	q *gen.Queries
}

func (r *familyHeadsRepo) CreateFamilyHead(ctx context.Context, h domain.FamilyHead) error {
	err := r.q.CreateFamilyHead(ctx, gen.CreateFamilyHeadParams{
		HeadID:           h.HeadID,
		FirstName:        h.FirstName,
		LastName:         h.LastName,
		Address:          h.Address,
		ContactNumber:    mapStringNull(h.ContactNumber),
		RegistrationDate: h.RegistrationDate,
	})
	return mapConstraint(err)
}

func (r *familyHeadsRepo) GetFamilyHead(ctx context.Context, id string) (domain.FamilyHead, error) {
	row, err := r.q.GetFamilyHead(ctx, id)
	if err != nil {
		return domain.FamilyHead{}, mapNotFound(err)
	}
	return mapFamilyHead(row), nil
}

func (r *familyHeadsRepo) ListFamilyHeads(ctx context.Context) ([]domain.FamilyHead, error) {
	rows, err := r.q.ListFamilyHeads(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.FamilyHead, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapFamilyHead(row))
	}
	return out, nil
}

func (r *familyHeadsRepo) DeleteFamilyHead(ctx context.Context, id string) error {
	return mapAffected(r.q.DeleteFamilyHead(ctx, id))
}

func mapFamilyHead(row gen.FamilyHead) domain.FamilyHead {
	return domain.FamilyHead{
		HeadID:           row.HeadID,
		FirstName:        row.FirstName,
		LastName:         row.LastName,
		Address:          row.Address,
		ContactNumber:    mapNullString(row.ContactNumber),
		RegistrationDate: row.RegistrationDate.UTC(),
	}
}
