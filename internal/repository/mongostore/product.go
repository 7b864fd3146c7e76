package mongostore

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/iliyamo/autopro/internal/model"
	"github.com/iliyamo/autopro/internal/repository"
)

// ProductStore implements repository.ProductStore on the products collection.
type ProductStore struct {
	col *mongo.Collection
}

var _ repository.ProductStore = (*ProductStore)(nil)

func (s *ProductStore) Create(ctx context.Context, p *model.Product) error {
	doc := *p
	doc.ID = uuid.NewString()
	doc.CreatedAt = time.Now().UTC()
	doc.UpdatedAt = doc.CreatedAt
	if doc.Specs == nil {
		doc.Specs = []model.Spec{}
	}
	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		return wrapError(err)
	}
	*p = doc
	return nil
}

func (s *ProductStore) FindByID(ctx context.Context, id string) (*model.Product, error) {
	return findOne[model.Product](ctx, s.col, bson.D{{Key: "_id", Value: id}})
}

// List filters by a literal, case-insensitive name match and/or category.
func (s *ProductStore) List(ctx context.Context, f repository.ProductFilter) ([]*model.Product, error) {
	filter := bson.D{}
	if f.Keyword != "" {
		filter = append(filter, bson.E{Key: "name", Value: bson.Regex{
			Pattern: regexp.QuoteMeta(f.Keyword),
			Options: "i",
		}})
	}
	if f.Category != "" {
		filter = append(filter, bson.E{Key: "category", Value: string(f.Category)})
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return findMany[model.Product](ctx, s.col, filter, opts)
}

func (s *ProductStore) Update(ctx context.Context, p *model.Product) error {
	now := time.Now().UTC()
	specs := p.Specs
	if specs == nil {
		specs = []model.Spec{}
	}
	err := updateFields(ctx, s.col, p.ID, bson.D{
		{Key: "name", Value: p.Name},
		{Key: "image", Value: p.Image},
		{Key: "category", Value: string(p.Category)},
		{Key: "description", Value: p.Description},
		{Key: "price", Value: p.Price},
		{Key: "countInStock", Value: p.CountInStock},
		{Key: "specs", Value: specs},
		{Key: "updatedAt", Value: now},
	})
	if err != nil {
		return err
	}
	p.UpdatedAt = now
	return nil
}

func (s *ProductStore) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.col, id)
}

func (s *ProductStore) DeleteAll(ctx context.Context) error { return deleteAll(ctx, s.col) }
