package models

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
	IsAdmin      bool               `bson:"isAdmin" json:"isAdmin"`
	ProfilePhoto string             `bson:"profilePhoto" json:"profilePhoto"`
	Bio          string             `bson:"bio" json:"bio"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PublicProfile is what other users get to see: everything but the password.
type PublicProfile struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	Username     string             `bson:"username" json:"username"`
	Email        string             `bson:"email" json:"email"`
	IsAdmin      bool               `bson:"isAdmin" json:"isAdmin"`
	ProfilePhoto string             `bson:"profilePhoto" json:"profilePhoto"`
	Bio          string             `bson:"bio" json:"bio"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		IsAdmin:      u.IsAdmin,
		ProfilePhoto: u.ProfilePhoto,
		Bio:          u.Bio,
		CreatedAt:    u.CreatedAt,
	}
}

// PushSubscription stores one web-push endpoint per user.
type PushSubscription struct {
	ID     primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID   `bson:"userId" json:"userId"`
	Sub    webpush.Subscription `bson:"sub" json:"sub"`
}
