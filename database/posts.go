package database

import (
	"context"
	"time"

	"blog/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoPostStore struct {
	coll *mongo.Collection
}

func NewPostStore(db *mongo.Database) *MongoPostStore {
	return &MongoPostStore{coll: db.Collection(PostsCollection)}
}

func (s *MongoPostStore) Create(ctx context.Context, post *models.Post) error {
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}

	_, err := s.coll.InsertOne(ctx, post)
	return err
}

func (s *MongoPostStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, notFound(err)
	}
	return &post, nil
}

func (s *MongoPostStore) Find(ctx context.Context, q PostQuery) ([]models.Post, error) {
	filter := bson.M{}
	if q.Category != "" {
		filter["category"] = q.Category
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if q.Limit > 0 {
		opts.SetSkip(q.Skip).SetLimit(q.Limit)
	}

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *MongoPostStore) Count(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{})
}

func (s *MongoPostStore) Update(ctx context.Context, id primitive.ObjectID, fields PostUpdate) (*models.Post, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if fields.Title != nil {
		set["title"] = *fields.Title
	}
	if fields.Description != nil {
		set["description"] = *fields.Description
	}
	if fields.Category != nil {
		set["category"] = *fields.Category
	}
	return s.findOneAndUpdate(ctx, id, bson.M{"$set": set})
}

func (s *MongoPostStore) SetImage(ctx context.Context, id primitive.ObjectID, image models.Image) (*models.Post, error) {
	return s.findOneAndUpdate(ctx, id, bson.M{
		"$set": bson.M{"image": image, "updatedAt": time.Now().UTC()},
	})
}

func (s *MongoPostStore) AddLike(ctx context.Context, id, userID primitive.ObjectID) (*models.Post, error) {
	return s.findOneAndUpdate(ctx, id, bson.M{
		"$addToSet": bson.M{"likes": userID},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (s *MongoPostStore) RemoveLike(ctx context.Context, id, userID primitive.ObjectID) (*models.Post, error) {
	return s.findOneAndUpdate(ctx, id, bson.M{
		"$pull": bson.M{"likes": userID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (s *MongoPostStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoPostStore) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.Post
	if err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&post); err != nil {
		return nil, notFound(err)
	}
	return &post, nil
}
