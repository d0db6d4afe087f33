package database

import (
	"context"

	"blog/models"

	"github.com/SherClockHolmes/webpush-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoSubscriptionStore struct {
	coll *mongo.Collection
}

func NewSubscriptionStore(db *mongo.Database) *MongoSubscriptionStore {
	return &MongoSubscriptionStore{coll: db.Collection(SubscriptionsCollection)}
}

// Upsert: update if exists, insert if not
func (s *MongoSubscriptionStore) Upsert(ctx context.Context, userID primitive.ObjectID, sub webpush.Subscription) error {
	_, err := s.coll.UpdateOne(
		ctx,
		bson.M{"userId": userID},
		bson.M{
			"$set":         bson.M{"sub": sub},
			"$setOnInsert": bson.M{"_id": primitive.NewObjectID()},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *MongoSubscriptionStore) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.PushSubscription, error) {
	var sub models.PushSubscription
	if err := s.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&sub); err != nil {
		return nil, notFound(err)
	}
	return &sub, nil
}

func (s *MongoSubscriptionStore) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"userId": userID})
	return err
}
