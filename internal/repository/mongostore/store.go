// Package mongostore implements the repository stores on MongoDB.
//
// Documents are (de)serialised through the bson tags on the model structs.
// Collection names and indexes are managed in one place, EnsureIndexes.
package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection names.
const (
	ColUsers        = "users"
	ColProducts     = "products"
	ColAppointments = "appointments"
)

// Store groups the collections of one database.  It does not own the client;
// the connection handle that produced db is responsible for disconnecting.
type Store struct {
	db *mongo.Database
}

func New(db *mongo.Database) *Store { return &Store{db: db} }

func (s *Store) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// Users, Products and Appointments expose the store interfaces.
func (s *Store) Users() *UserStore               { return &UserStore{col: s.col(ColUsers)} }
func (s *Store) Products() *ProductStore         { return &ProductStore{col: s.col(ColProducts)} }
func (s *Store) Appointments() *AppointmentStore { return &AppointmentStore{s: s} }

// EnsureIndexes creates the indexes the stores rely on.  The unique email
// index is what makes UserStore.Create reject duplicates atomically.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	type idx struct {
		col    string
		keys   bson.D
		unique bool
	}

	indexes := []idx{
		{ColUsers, bson.D{{Key: "email", Value: 1}}, true},

		{ColProducts, bson.D{{Key: "category", Value: 1}}, false},
		{ColProducts, bson.D{{Key: "createdAt", Value: 1}}, false},

		{ColAppointments, bson.D{{Key: "user", Value: 1}, {Key: "date", Value: 1}}, false},
		{ColAppointments, bson.D{{Key: "createdAt", Value: 1}}, false},
	}

	for _, i := range indexes {
		model := mongo.IndexModel{Keys: i.keys}
		if i.unique {
			model.Options = options.Index().SetUnique(true)
		}
		if _, err := s.col(i.col).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", i.col, err)
		}
	}
	return nil
}
