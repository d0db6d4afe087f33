package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"blog/database"
	"blog/models"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPostStoreFindOrdersNewestFirst(t *testing.T) {
	s := NewPostStore()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Create(ctx, &models.Post{
			Title:     "post",
			Category:  []string{"a", "b"}[i%2],
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	all, err := s.Find(ctx, database.PostQuery{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.True(t, all[i-1].CreatedAt.After(all[i].CreatedAt))
	}

	page, err := s.Find(ctx, database.PostQuery{Skip: 3, Limit: 3})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, all[3].ID, page[0].ID)

	empty, err := s.Find(ctx, database.PostQuery{Skip: 10, Limit: 3})
	require.NoError(t, err)
	assert.Empty(t, empty)

	onlyA, err := s.Find(ctx, database.PostQuery{Category: "a"})
	require.NoError(t, err)
	assert.Len(t, onlyA, 3)
}

func TestPostStoreReturnsCopies(t *testing.T) {
	s := NewPostStore()
	ctx := context.Background()
	post := &models.Post{Title: "original"}
	require.NoError(t, s.Create(ctx, post))

	got, err := s.FindByID(ctx, post.ID)
	require.NoError(t, err)
	got.Title = "mutated"
	got.Likes = append(got.Likes, primitive.NewObjectID())

	again, err := s.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", again.Title)
	assert.Empty(t, again.Likes)
}

func TestPostStoreLikesAreASet(t *testing.T) {
	s := NewPostStore()
	ctx := context.Background()
	post := &models.Post{Title: "liked"}
	require.NoError(t, s.Create(ctx, post))
	user := primitive.NewObjectID()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.AddLike(ctx, post.ID, user)
		}()
	}
	wg.Wait()

	got, err := s.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{user}, got.Likes)

	got, err = s.RemoveLike(ctx, post.ID, user)
	require.NoError(t, err)
	assert.Empty(t, got.Likes)

	_, err = s.AddLike(ctx, primitive.NewObjectID(), user)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestPostStoreUpdateAndDelete(t *testing.T) {
	s := NewPostStore()
	ctx := context.Background()
	post := &models.Post{Title: "before", Description: "kept"}
	require.NoError(t, s.Create(ctx, post))

	title := "after"
	updated, err := s.Update(ctx, post.ID, database.PostUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Title)
	assert.Equal(t, "kept", updated.Description)

	require.NoError(t, s.Delete(ctx, post.ID))
	assert.ErrorIs(t, s.Delete(ctx, post.ID), database.ErrNotFound)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCommentStoreDeleteByPostID(t *testing.T) {
	s := NewCommentStore()
	ctx := context.Background()
	target := primitive.NewObjectID()
	other := primitive.NewObjectID()

	for _, postID := range []primitive.ObjectID{target, other, target} {
		require.NoError(t, s.Create(ctx, &models.Comment{PostID: postID, Text: "hi"}))
	}

	n, err := s.DeleteByPostID(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	left, err := s.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, other, left[0].PostID)

	n, err = s.DeleteByPostID(ctx, target)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCommentStoreKeepsInsertionOrder(t *testing.T) {
	s := NewCommentStore()
	ctx := context.Background()
	postID := primitive.NewObjectID()

	for _, text := range []string{"one", "two", "three"} {
		require.NoError(t, s.Create(ctx, &models.Comment{PostID: postID, Text: text}))
	}

	got, err := s.FindByPostID(ctx, postID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "one", got[0].Text)
	assert.Equal(t, "three", got[2].Text)

	updated, err := s.UpdateText(ctx, got[1].ID, "deux")
	require.NoError(t, err)
	assert.Equal(t, "deux", updated.Text)

	_, err = s.UpdateText(ctx, primitive.NewObjectID(), "x")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestUserStoreUniqueEmail(t *testing.T) {
	s := NewUserStore()
	ctx := context.Background()

	first := &models.User{Username: "alice", Email: "alice@example.com"}
	require.NoError(t, s.Create(ctx, first))
	err := s.Create(ctx, &models.User{Username: "alice2", Email: "ALICE@example.com"})
	assert.ErrorIs(t, err, database.ErrDuplicate)

	found, err := s.FindByEmail(ctx, "Alice@Example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)

	profiles, err := s.GetPublicProfiles(ctx, []primitive.ObjectID{first.ID, primitive.NewObjectID()})
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "alice", profiles[first.ID].Username)
}

func TestCategoryStore(t *testing.T) {
	s := NewCategoryStore()
	ctx := context.Background()

	c := &models.Category{Title: "go"}
	require.NoError(t, s.Create(ctx, c))
	assert.False(t, c.ID.IsZero())

	got, err := s.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "go", got.Title)

	require.NoError(t, s.Delete(ctx, c.ID))
	_, err = s.FindByID(ctx, c.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestSubscriptionStoreUpsert(t *testing.T) {
	s := NewSubscriptionStore()
	ctx := context.Background()
	user := primitive.NewObjectID()

	require.NoError(t, s.Upsert(ctx, user, webpush.Subscription{Endpoint: "https://push.example/1"}))
	first, err := s.FindByUser(ctx, user)
	require.NoError(t, err)

	require.NoError(t, s.Upsert(ctx, user, webpush.Subscription{Endpoint: "https://push.example/2"}))
	second, err := s.FindByUser(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "https://push.example/2", second.Sub.Endpoint)

	require.NoError(t, s.DeleteByUser(ctx, user))
	_, err = s.FindByUser(ctx, user)
	assert.ErrorIs(t, err, database.ErrNotFound)
}
