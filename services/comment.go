package services

import (
	"context"

	"blog/database"
	"blog/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CommentService struct {
	comments database.CommentStore
	users    database.UserStore
	events   EventPublisher
}

func NewCommentService(comments database.CommentStore, users database.UserStore, events EventPublisher) *CommentService {
	if events == nil {
		events = NoopPublisher{}
	}
	return &CommentService{comments: comments, users: users, events: events}
}

// Create stores a comment with a snapshot of the author's username. The
// referenced post is not checked for existence.
func (s *CommentService) Create(ctx context.Context, req CreateCommentRequest, author Identity) (*models.Comment, error) {
	postID, text, err := req.Validate()
	if err != nil {
		return nil, err
	}

	profile, err := s.users.GetPublicProfile(ctx, author.ID)
	if err != nil {
		return nil, translate(err, "user")
	}

	comment := &models.Comment{
		PostID:   postID,
		Text:     text,
		UserID:   author.ID,
		Username: profile.Username,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.events.CommentCreated(comment)
	return comment, nil
}

func (s *CommentService) List(ctx context.Context) ([]models.Comment, error) {
	return s.comments.FindAll(ctx)
}

func (s *CommentService) ListByPost(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error) {
	return s.comments.FindByPostID(ctx, postID)
}

func (s *CommentService) Delete(ctx context.Context, id primitive.ObjectID, caller Identity) error {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return translate(err, "comment")
	}
	if !caller.OwnsOrAdmin(comment.UserID) {
		return &ForbiddenError{Message: "access denied, not allowed"}
	}
	return translate(s.comments.Delete(ctx, id), "comment")
}

func (s *CommentService) Update(ctx context.Context, id primitive.ObjectID, req UpdateCommentRequest, caller Identity) (*models.Comment, error) {
	text, err := req.Validate()
	if err != nil {
		return nil, err
	}

	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "comment")
	}
	if !caller.OwnsOrAdmin(comment.UserID) {
		return nil, &ForbiddenError{Message: "access denied, only the author or an admin can edit this comment"}
	}

	updated, err := s.comments.UpdateText(ctx, id, text)
	if err != nil {
		return nil, translate(err, "comment")
	}
	return updated, nil
}

// DeleteByPost removes every comment of postID. Zero matches is success.
func (s *CommentService) DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	return s.comments.DeleteByPostID(ctx, postID)
}
