package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/aussiebroadwan/barangay/internal/portal/domain"
)

type residentDoc struct {
	ID               string    `bson:"_id"`
	FirstName        string    `bson:"first_name"`
	LastName         string    `bson:"last_name"`
	Gender           string    `bson:"gender"`
	BirthDate        string    `bson:"birth_date"`
	Address          string    `bson:"address"`
	ContactNumber    string    `bson:"contact_number,omitempty"`
	FamilyHeadID     string    `bson:"family_head_id,omitempty"`
	RegistrationDate time.Time `bson:"registration_date"`
	UpdatedAt        time.Time `bson:"updated_at"`
	QRCode           string    `bson:"qr_code,omitempty"`
}

type residentsRepo struct {
	c *mongo.Collection
}

func (r *residentsRepo) CreateResident(ctx context.Context, res domain.Resident) error {
	_, err := r.c.InsertOne(ctx, toResidentDoc(res))
	return mapDuplicate(err)
}

func (r *residentsRepo) GetResident(ctx context.Context, id string) (domain.Resident, error) {
	var doc residentDoc
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return domain.Resident{}, mapNotFound(err)
	}
	return doc.domain(), nil
}

func (r *residentsRepo) ListResidents(ctx context.Context) ([]domain.Resident, error) {
	docs, err := findAll[residentDoc](ctx, r.c, bson.D{{Key: "registration_date", Value: 1}, {Key: "_id", Value: 1}})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Resident, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.domain())
	}
	return out, nil
}

func (r *residentsRepo) UpdateResident(ctx context.Context, res domain.Resident) error {
	set := bson.M{
		"first_name": res.FirstName,
		"last_name":  res.LastName,
		"gender":     string(res.Gender),
		"birth_date": res.BirthDate.Format(domain.DateLayout),
		"address":    res.Address,
		"updated_at": res.UpdatedAt,
	}
	unset := bson.M{}
	optional(set, unset, "contact_number", res.ContactNumber)
	optional(set, unset, "family_head_id", res.FamilyHeadID)

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	result, err := r.c.UpdateOne(ctx, bson.M{"_id": res.ResidentID}, update)
	if err != nil {
		return err
	}
	return mapMatched(result.MatchedCount, nil)
}

func (r *residentsRepo) DeleteResident(ctx context.Context, id string) error {
	result, err := r.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	return mapMatched(result.DeletedCount, nil)
}

func (r *residentsRepo) SetQRCode(ctx context.Context, id, qrCode string) error {
	result, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"qr_code": qrCode}})
	if err != nil {
		return err
	}
	return mapMatched(result.MatchedCount, nil)
}

func (r *residentsRepo) CountByFamilyHead(ctx context.Context, headID string) (int64, error) {
	return r.c.CountDocuments(ctx, bson.M{"family_head_id": headID})
}

// optional sets key when v is non-empty and unsets it otherwise, matching
// the NULL columns of the sqlite driver.
func optional(set, unset bson.M, key, v string) {
	if v == "" {
		unset[key] = ""
		return
	}
	set[key] = v
}

func toResidentDoc(r domain.Resident) residentDoc {
	return residentDoc{
		ID:               r.ResidentID,
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Gender:           string(r.Gender),
		BirthDate:        r.BirthDate.Format(domain.DateLayout),
		Address:          r.Address,
		ContactNumber:    r.ContactNumber,
		FamilyHeadID:     r.FamilyHeadID,
		RegistrationDate: r.RegistrationDate,
		UpdatedAt:        r.UpdatedAt,
		QRCode:           r.QRCode,
	}
}

func (d residentDoc) domain() domain.Resident {
	birth, _ := time.Parse(domain.DateLayout, d.BirthDate)
	return domain.Resident{
		ResidentID:       d.ID,
		FirstName:        d.FirstName,
		LastName:         d.LastName,
		Gender:           domain.Gender(d.Gender),
		BirthDate:        birth,
		Address:          d.Address,
		ContactNumber:    d.ContactNumber,
		FamilyHeadID:     d.FamilyHeadID,
		RegistrationDate: d.RegistrationDate.UTC(),
		UpdatedAt:        d.UpdatedAt.UTC(),
		QRCode:           d.QRCode,
	}
}
