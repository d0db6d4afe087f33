package database

import (
	"context"
	"errors"

	"blog/models"

	"github.com/SherClockHolmes/webpush-go"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when the addressed document does not exist
	ErrNotFound = errors.New("document not found")

	// ErrDuplicate is returned when a unique index rejects a write
	ErrDuplicate = errors.New("duplicate document")
)

// PostQuery selects posts for listing. Results are always sorted newest
// first. A zero Limit means no paging.
type PostQuery struct {
	Category string
	Skip     int64
	Limit    int64
}

// PostUpdate carries the optional text fields of a post; nil fields are
// left untouched.
type PostUpdate struct {
	Title       *string
	Description *string
	Category    *string
}

func (u PostUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Category == nil
}

type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	Find(ctx context.Context, q PostQuery) ([]models.Post, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id primitive.ObjectID, fields PostUpdate) (*models.Post, error)
	SetImage(ctx context.Context, id primitive.ObjectID, image models.Image) (*models.Post, error)

	// AddLike and RemoveLike are single atomic set operations on the
	// like-set; concurrent callers never overwrite each other.
	AddLike(ctx context.Context, id, userID primitive.ObjectID) (*models.Post, error)
	RemoveLike(ctx context.Context, id, userID primitive.ObjectID) (*models.Post, error)

	Delete(ctx context.Context, id primitive.ObjectID) error
}

type CommentStore interface {
	Create(ctx context.Context, comment *models.Comment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
	FindAll(ctx context.Context) ([]models.Comment, error)
	FindByPostID(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error)
	UpdateText(ctx context.Context, id primitive.ObjectID, text string) (*models.Comment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByPostID(ctx context.Context, postID primitive.ObjectID) (int64, error)
}

type CategoryStore interface {
	Create(ctx context.Context, category *models.Category) error
	FindAll(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	GetPublicProfile(ctx context.Context, id primitive.ObjectID) (*models.PublicProfile, error)

	// GetPublicProfiles resolves many ids at once; unknown ids are absent
	// from the result.
	GetPublicProfiles(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.PublicProfile, error)
}

type SubscriptionStore interface {
	Upsert(ctx context.Context, userID primitive.ObjectID, sub webpush.Subscription) error
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.PushSubscription, error)
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
}

var (
	_ PostStore         = (*MongoPostStore)(nil)
	_ CommentStore      = (*MongoCommentStore)(nil)
	_ CategoryStore     = (*MongoCategoryStore)(nil)
	_ UserStore         = (*MongoUserStore)(nil)
	_ SubscriptionStore = (*MongoSubscriptionStore)(nil)
)
