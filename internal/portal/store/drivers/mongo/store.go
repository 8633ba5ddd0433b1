// Package mongo is the MongoDB store driver. Collections mirror the sqlite
// tables; indexes created by ApplyMigrations carry the uniqueness rules.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/aussiebroadwan/barangay/internal/portal/store"
)

const (
	colResidents   = "residents"
	colFamilyHeads = "family_heads"
	colUsers       = "users"
	colCounters    = "counters"
)

// usernameCollation makes username lookups and uniqueness case-insensitive.
var usernameCollation = &options.Collation{Locale: "en", Strength: 2}

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ store.Store = (*Store)(nil)

// NewStore connects to uri and verifies the primary is reachable.
func NewStore(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(10*time.Second))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}

	return &Store{client: client, db: client.Database(database)}, nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Residents() store.Residents {
	return &residentsRepo{c: s.db.Collection(colResidents)}
}

func (s *Store) FamilyHeads() store.FamilyHeads {
	return &familyHeadsRepo{c: s.db.Collection(colFamilyHeads)}
}

func (s *Store) Users() store.Users {
	return &usersRepo{c: s.db.Collection(colUsers)}
}

func (s *Store) Counters() store.Counters {
	return &countersRepo{c: s.db.Collection(colCounters)}
}

// ApplyMigrations creates the indexes. Creating an existing index with the
// same definition is a no-op, so this runs on every start.
func (s *Store) ApplyMigrations() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		colResidents: {
			{Keys: bson.D{{Key: "family_head_id", Value: 1}}},
			{Keys: bson.D{{Key: "registration_date", Value: 1}, {Key: "_id", Value: 1}}},
		},
		colFamilyHeads: {
			{Keys: bson.D{{Key: "registration_date", Value: 1}, {Key: "_id", Value: 1}}},
		},
		colUsers: {
			{
				Keys: bson.D{{Key: "username", Value: 1}},
				Options: options.Index().
					SetName("username_unique").
					SetUnique(true).
					SetCollation(usernameCollation),
			},
			{Keys: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}},
		},
	}

	for col, models := range indexes {
		if _, err := s.db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("mongo: create %s indexes: %w", col, err)
		}
	}
	return nil
}

func mapNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	return err
}

func mapDuplicate(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrAlreadyExists
	}
	return err
}

// mapMatched reports ErrNotFound when a targeted write matched nothing.
func mapMatched(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// findAll decodes the whole collection in sort order.
func findAll[T any](ctx context.Context, c *mongo.Collection, sort bson.D) ([]T, error) {
	cur, err := c.Find(ctx, bson.D{}, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	docs := []T{}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
