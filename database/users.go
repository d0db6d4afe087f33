package database

import (
	"context"
	"strings"
	"time"

	"blog/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// publicProjection keeps the password hash out of every profile read.
var publicProjection = bson.M{"password": 0}

type MongoUserStore struct {
	coll *mongo.Collection
}

func NewUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{coll: db.Collection(UsersCollection)}
}

func (s *MongoUserStore) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.Email = strings.ToLower(user.Email)

	_, err := s.coll.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (s *MongoUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.coll.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&user); err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *MongoUserStore) GetPublicProfile(ctx context.Context, id primitive.ObjectID) (*models.PublicProfile, error) {
	opts := options.FindOne().SetProjection(publicProjection)

	var profile models.PublicProfile
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&profile); err != nil {
		return nil, notFound(err)
	}
	return &profile, nil
}

func (s *MongoUserStore) GetPublicProfiles(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.PublicProfile, error) {
	profiles := make(map[primitive.ObjectID]models.PublicProfile, len(ids))
	if len(ids) == 0 {
		return profiles, nil
	}

	opts := options.Find().SetProjection(publicProjection)
	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var found []models.PublicProfile
	if err := cursor.All(ctx, &found); err != nil {
		return nil, err
	}
	for _, p := range found {
		profiles[p.ID] = p
	}
	return profiles, nil
}
