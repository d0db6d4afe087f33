package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PostID    primitive.ObjectID `bson:"postId" json:"postId"`
	Text      string             `bson:"text" json:"text"`
	UserID    primitive.ObjectID `bson:"user" json:"userId"`
	Username  string             `bson:"username" json:"username"` // Snapshot taken at creation
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
