package database

import (
	"context"
	"time"

	"blog/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoCategoryStore struct {
	coll *mongo.Collection
}

func NewCategoryStore(db *mongo.Database) *MongoCategoryStore {
	return &MongoCategoryStore{coll: db.Collection(CategoriesCollection)}
}

func (s *MongoCategoryStore) Create(ctx context.Context, category *models.Category) error {
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	category.CreatedAt = now
	category.UpdatedAt = now

	_, err := s.coll.InsertOne(ctx, category)
	return err
}

// FindAll returns categories in natural (insertion) order.
func (s *MongoCategoryStore) FindAll(ctx context.Context) ([]models.Category, error) {
	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *MongoCategoryStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	var category models.Category
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&category); err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

func (s *MongoCategoryStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
