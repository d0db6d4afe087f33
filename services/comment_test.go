package services_test

import (
	"context"
	"testing"

	"blog/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateComment(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "alice", false)
	postID := primitive.NewObjectID()

	c := f.comment(t, author, postID, "  nice post  ")
	assert.Equal(t, "nice post", c.Text)
	assert.Equal(t, "alice", c.Username)
	assert.Equal(t, author.ID, c.UserID)
	assert.Equal(t, postID, c.PostID)
	assert.False(t, c.ID.IsZero())
}

func TestCreateCommentUnknownUser(t *testing.T) {
	f := newFixture(t)
	ghost := services.Identity{ID: primitive.NewObjectID()}

	_, err := f.commentService.Create(context.Background(), services.CreateCommentRequest{
		PostID: primitive.NewObjectID().Hex(),
		Text:   "hello",
	}, ghost)
	var nf *services.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "user not found", nf.Error())
}

func TestCommentAuthorization(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "alice", false)
	stranger := f.user(t, "mallory", false)
	admin := f.user(t, "root", true)
	postID := primitive.NewObjectID()

	tests := []struct {
		name    string
		caller  services.Identity
		allowed bool
	}{
		{"author", author, true},
		{"admin", admin, true},
		{"stranger", stranger, false},
	}

	for _, tt := range tests {
		t.Run("update by "+tt.name, func(t *testing.T) {
			c := f.comment(t, author, postID, "original")
			updated, err := f.commentService.Update(context.Background(), c.ID, services.UpdateCommentRequest{Text: "edited"}, tt.caller)
			if !tt.allowed {
				var forbidden *services.ForbiddenError
				assert.ErrorAs(t, err, &forbidden)
				stored, err := f.comments.FindByID(context.Background(), c.ID)
				require.NoError(t, err)
				assert.Equal(t, "original", stored.Text)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "edited", updated.Text)
		})

		t.Run("delete by "+tt.name, func(t *testing.T) {
			c := f.comment(t, author, postID, "original")
			err := f.commentService.Delete(context.Background(), c.ID, tt.caller)
			if !tt.allowed {
				var forbidden *services.ForbiddenError
				require.ErrorAs(t, err, &forbidden)
				assert.Equal(t, "access denied, not allowed", forbidden.Message)
				return
			}
			require.NoError(t, err)
			_, err = f.comments.FindByID(context.Background(), c.ID)
			assert.Error(t, err)
		})
	}
}

func TestCommentNotFound(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "alice", false)
	missing := primitive.NewObjectID()

	var nf *services.NotFoundError
	assert.ErrorAs(t, f.commentService.Delete(context.Background(), missing, author), &nf)

	_, err := f.commentService.Update(context.Background(), missing, services.UpdateCommentRequest{Text: "x"}, author)
	assert.ErrorAs(t, err, &nf)
}

func TestDeleteByPostWithNoComments(t *testing.T) {
	f := newFixture(t)

	n, err := f.commentService.DeleteByPost(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)
	assert.Zero(t, n)
}
