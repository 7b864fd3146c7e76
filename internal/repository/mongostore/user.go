package mongostore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/iliyamo/autopro/internal/model"
	"github.com/iliyamo/autopro/internal/repository"
)

// UserStore implements repository.UserStore on the users collection.
type UserStore struct {
	col *mongo.Collection
}

var _ repository.UserStore = (*UserStore)(nil)

func (s *UserStore) Create(ctx context.Context, u *model.User) error {
	doc := *u
	doc.ID = uuid.NewString()
	doc.CreatedAt = time.Now().UTC()
	doc.UpdatedAt = doc.CreatedAt
	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrEmailExists
		}
		return err
	}
	u.ID, u.CreatedAt, u.UpdatedAt = doc.ID, doc.CreatedAt, doc.UpdatedAt
	return nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return findOne[model.User](ctx, s.col, bson.D{{Key: "email", Value: email}})
}

// FindByID projects the password hash away.
func (s *UserStore) FindByID(ctx context.Context, id string) (*model.User, error) {
	opts := options.FindOne().SetProjection(bson.D{{Key: "password", Value: 0}})
	return findOne[model.User](ctx, s.col, bson.D{{Key: "_id", Value: id}}, opts)
}

func (s *UserStore) FindSummaries(ctx context.Context, ids []string) (map[string]model.UserSummary, error) {
	out := make(map[string]model.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	opts := options.Find().SetProjection(bson.D{
		{Key: "name", Value: 1}, {Key: "email", Value: 1}, {Key: "phone", Value: 1},
	})
	summaries, err := findMany[model.UserSummary](ctx, s.col,
		bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}}, opts)
	if err != nil {
		return nil, err
	}
	for _, us := range summaries {
		out[us.ID] = *us
	}
	return out, nil
}

func (s *UserStore) DeleteAll(ctx context.Context) error { return deleteAll(ctx, s.col) }
