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

type MongoCommentStore struct {
	coll *mongo.Collection
}

func NewCommentStore(db *mongo.Database) *MongoCommentStore {
	return &MongoCommentStore{coll: db.Collection(CommentsCollection)}
}

func (s *MongoCommentStore) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	_, err := s.coll.InsertOne(ctx, comment)
	return err
}

func (s *MongoCommentStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var comment models.Comment
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&comment); err != nil {
		return nil, notFound(err)
	}
	return &comment, nil
}

func (s *MongoCommentStore) FindAll(ctx context.Context) ([]models.Comment, error) {
	return s.find(ctx, bson.M{})
}

func (s *MongoCommentStore) FindByPostID(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error) {
	return s.find(ctx, bson.M{"postId": postID})
}

func (s *MongoCommentStore) UpdateText(ctx context.Context, id primitive.ObjectID, text string) (*models.Comment, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"text": text, "updatedAt": time.Now().UTC()}}

	var comment models.Comment
	if err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&comment); err != nil {
		return nil, notFound(err)
	}
	return &comment, nil
}

func (s *MongoCommentStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoCommentStore) DeleteByPostID(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.M{"postId": postID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *MongoCommentStore) find(ctx context.Context, filter bson.M) ([]models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	comments := []models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}
