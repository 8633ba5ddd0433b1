package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aussiebroadwan/barangay/internal/portal/domain"
)

type userDoc struct {
	ID           string     `bson:"_id"`
	Username     string     `bson:"username"`
	PasswordHash string     `bson:"password_hash"`
	Role         string     `bson:"role"`
	ResidentID   string     `bson:"resident_id,omitempty"`
	MFASecret    *string    `bson:"mfa_secret,omitempty"`
	MFAEnabledAt *time.Time `bson:"mfa_enabled_at,omitempty"`
	CreatedAt    time.Time  `bson:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at"`
}

type usersRepo struct {
	c *mongo.Collection
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.c.InsertOne(ctx, userDoc{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		ResidentID:   u.ResidentID,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	})
	return mapDuplicate(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username}, options.FindOne().SetCollation(usernameCollation))
}

func (r *usersRepo) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (domain.User, error) {
	var doc userDoc
	if err := r.c.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return doc.domain(), nil
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	docs, err := findAll[userDoc](ctx, r.c, bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	if err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.domain())
	}
	return out, nil
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	return r.update(ctx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{"password_hash": newHash, "updated_at": time.Now().UTC()},
	})
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	result, err := r.c.DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return err
	}
	return mapMatched(result.DeletedCount, nil)
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	n, err := r.c.CountDocuments(ctx, bson.M{}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

func (r *usersRepo) UpdateMFASecret(ctx context.Context, userID, secret string) error {
	return r.update(ctx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{"mfa_secret": secret, "updated_at": time.Now().UTC()},
	})
}

func (r *usersRepo) EnableMFA(ctx context.Context, userID string) error {
	now := time.Now().UTC()
	return r.update(ctx,
		bson.M{"_id": userID, "mfa_secret": bson.M{"$exists": true}},
		bson.M{"$set": bson.M{"mfa_enabled_at": now, "updated_at": now}},
	)
}

func (r *usersRepo) DisableMFA(ctx context.Context, userID string) error {
	return r.update(ctx, bson.M{"_id": userID}, bson.M{
		"$unset": bson.M{"mfa_secret": "", "mfa_enabled_at": ""},
		"$set":   bson.M{"updated_at": time.Now().UTC()},
	})
}

func (r *usersRepo) update(ctx context.Context, filter, update bson.M) error {
	result, err := r.c.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	return mapMatched(result.MatchedCount, nil)
}

func (d userDoc) domain() domain.User {
	u := domain.User{
		ID:           d.ID,
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		Role:         domain.Role(d.Role),
		ResidentID:   d.ResidentID,
		MFASecret:    d.MFASecret,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
	if d.MFAEnabledAt != nil {
		t := d.MFAEnabledAt.UTC()
		u.MFAEnabledAt = &t
	}
	return u
}
