package services

import (
	"blog/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventPublisher is told about completed lifecycle changes. Implementations
// must not block the caller and have no way to fail the operation.
type EventPublisher interface {
	PostCreated(post *models.Post)
	PostDeleted(postID primitive.ObjectID)
	PostLiked(post *models.Post, userID primitive.ObjectID, liked bool)
	CommentCreated(comment *models.Comment)
}

type NoopPublisher struct{}

func (NoopPublisher) PostCreated(*models.Post) {}
func (NoopPublisher) PostDeleted(primitive.ObjectID) {}
func (NoopPublisher) PostLiked(*models.Post, primitive.ObjectID, bool) {}
func (NoopPublisher) CommentCreated(*models.Comment) {}

// Publishers fans an event out to every member.
type Publishers []EventPublisher

func (p Publishers) PostCreated(post *models.Post) {
	for _, pub := range p {
		pub.PostCreated(post)
	}
}

func (p Publishers) PostDeleted(postID primitive.ObjectID) {
	for _, pub := range p {
		pub.PostDeleted(postID)
	}
}

func (p Publishers) PostLiked(post *models.Post, userID primitive.ObjectID, liked bool) {
	for _, pub := range p {
		pub.PostLiked(post, userID, liked)
	}
}

func (p Publishers) CommentCreated(comment *models.Comment) {
	for _, pub := range p {
		pub.CommentCreated(comment)
	}
}
