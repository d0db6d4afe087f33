package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Image is the asset reference of a post. PublicID stays nil until an
// upload succeeded.
type Image struct {
	URL      string  `bson:"url" json:"url"`
	PublicID *string `bson:"publicId" json:"publicId"`
}

type Post struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description" json:"description"`
	Category    string               `bson:"category" json:"category"`
	UserID      primitive.ObjectID   `bson:"user" json:"userId"`
	Image       Image                `bson:"image" json:"image"`
	Likes       []primitive.ObjectID `bson:"likes" json:"likes"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`

	User *PublicProfile `bson:"-" json:"user,omitempty"` // Populated in response only
}

// PostDetail is the single-post view. Comments is always a list, empty
// when the post has none.
type PostDetail struct {
	Post
	Comments []Comment `json:"comments"`
}

// LikedBy reports whether userID is in the post's like-set.
func (p *Post) LikedBy(userID primitive.ObjectID) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}
