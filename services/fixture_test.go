package services_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"blog/assets"
	"blog/database/memory"
	"blog/models"
	"blog/services"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fixture struct {
	posts    *memory.PostStore
	comments *memory.CommentStore
	users    *memory.UserStore
	gateway  *assets.Memory

	commentService *services.CommentService
	postService    *services.PostService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		posts:    memory.NewPostStore(),
		comments: memory.NewCommentStore(),
		users:    memory.NewUserStore(),
		gateway:  assets.NewMemory(),
	}
	f.commentService = services.NewCommentService(f.comments, f.users, nil)
	f.postService = services.NewPostService(f.posts, f.users, f.commentService, f.gateway, nil)
	return f
}

func (f *fixture) user(t *testing.T, name string, admin bool) services.Identity {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@example.com", PasswordHash: "x", IsAdmin: admin}
	require.NoError(t, f.users.Create(context.Background(), u))
	return services.Identity{ID: u.ID, IsAdmin: u.IsAdmin}
}

// stageFile writes a throwaway image the memory gateway can stat.
func stageFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "upload.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG"), 0o644))
	return path
}

func (f *fixture) post(t *testing.T, owner services.Identity, title, category string) *models.Post {
	t.Helper()
	post, err := f.postService.Create(context.Background(), services.CreatePostRequest{
		Title:       title,
		Description: "a description long enough",
		Category:    category,
	}, owner, stageFile(t))
	require.NoError(t, err)
	return post
}

func (f *fixture) comment(t *testing.T, author services.Identity, postID primitive.ObjectID, text string) *models.Comment {
	t.Helper()
	c, err := f.commentService.Create(context.Background(), services.CreateCommentRequest{PostID: postID.Hex(), Text: text}, author)
	require.NoError(t, err)
	return c
}
