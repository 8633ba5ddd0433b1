package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/aussiebroadwan/barangay/internal/portal/domain"
)

type familyHeadDoc struct {
	ID               string    `bson:"_id"`
	FirstName        string    `bson:"first_name"`
	LastName         string    `bson:"last_name"`
	Address          string    `bson:"address"`
	ContactNumber    string    `bson:"contact_number,omitempty"`
	RegistrationDate time.Time `bson:"registration_date"`
}

type familyHeadsRepo struct {
	c *mongo.Collection
}

func (r *familyHeadsRepo) CreateFamilyHead(ctx context.Context, h domain.FamilyHead) error {
	_, err := r.c.InsertOne(ctx, familyHeadDoc{
		ID:               h.HeadID,
		FirstName:        h.FirstName,
		LastName:         h.LastName,
		Address:          h.Address,
		ContactNumber:    h.ContactNumber,
		RegistrationDate: h.RegistrationDate,
	})
	return mapDuplicate(err)
}

func (r *familyHeadsRepo) GetFamilyHead(ctx context.Context, id string) (domain.FamilyHead, error) {
	var doc familyHeadDoc
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return domain.FamilyHead{}, mapNotFound(err)
	}
	return doc.domain(), nil
}

func (r *familyHeadsRepo) ListFamilyHeads(ctx context.Context) ([]domain.FamilyHead, error) {
	docs, err := findAll[familyHeadDoc](ctx, r.c, bson.D{{Key: "registration_date", Value: 1}, {Key: "_id", Value: 1}})
	if err != nil {
		return nil, err
	}
	out := make([]domain.FamilyHead, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.domain())
	}
	return out, nil
}

func (r *familyHeadsRepo) DeleteFamilyHead(ctx context.Context, id string) error {
	result, err := r.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	return mapMatched(result.DeletedCount, nil)
}

func (d familyHeadDoc) domain() domain.FamilyHead {
	return domain.FamilyHead{
		HeadID:           d.ID,
		FirstName:        d.FirstName,
		LastName:         d.LastName,
		Address:          d.Address,
		ContactNumber:    d.ContactNumber,
		RegistrationDate: d.RegistrationDate.UTC(),
	}
}
