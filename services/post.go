package services

import (
	"context"
	"errors"
	"log"

	"blog/assets"
	"blog/database"
	"blog/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostsPerPage is the page size of paginated listing.
const PostsPerPage = 3

// ListPostsQuery selects one of three listing modes. PageNumber wins over
// Category; zero values mean "not given".
type ListPostsQuery struct {
	PageNumber int
	Category   string
}

// commentLinks is the part of the comment service a post needs: its
// comments for display and their removal on delete.
type commentLinks interface {
	ListByPost(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error)
	DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error)
}

// PostService owns the post lifecycle: nonexistent -> active -> deleted.
type PostService struct {
	posts    database.PostStore
	users    database.UserStore
	comments commentLinks
	assets   assets.Gateway
	events   EventPublisher

	// removeLocal disposes of staged upload files off the request path.
	removeLocal func(path string)
}

func NewPostService(posts database.PostStore, users database.UserStore, comments commentLinks, gateway assets.Gateway, events EventPublisher) *PostService {
	if events == nil {
		events = NoopPublisher{}
	}
	return &PostService{
		posts:       posts,
		users:       users,
		comments:    comments,
		assets:      gateway,
		events:      events,
		removeLocal: func(path string) { go assets.RemoveLocal(path) },
	}
}

// Create uploads the staged image and persists the post. No post is
// stored unless the upload succeeded.
func (s *PostService) Create(ctx context.Context, req CreatePostRequest, owner Identity, imagePath string) (*models.Post, error) {
	if imagePath == "" {
		return nil, invalid("no image provided")
	}
	defer s.removeLocal(imagePath)

	valid, err := req.Validate()
	if err != nil {
		return nil, err
	}

	uploaded, err := s.assets.Upload(ctx, imagePath)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:       valid.Title,
		Description: valid.Description,
		Category:    valid.Category,
		UserID:      owner.ID,
		Image:       models.Image{URL: uploaded.URL, PublicID: &uploaded.PublicID},
		Likes:       []primitive.ObjectID{},
	}
	if err := s.posts.Create(ctx, post); err != nil {
		// Nothing references the upload, so drop it.
		if rmErr := s.assets.Remove(ctx, uploaded.PublicID); rmErr != nil {
			log.Printf("[PostService] orphaned image %s: %v", uploaded.PublicID, rmErr)
		}
		return nil, err
	}

	s.events.PostCreated(post)
	return post, nil
}

func (s *PostService) List(ctx context.Context, q ListPostsQuery) ([]models.Post, error) {
	switch {
	case q.PageNumber > 0:
		return s.posts.Find(ctx, database.PostQuery{
			Skip:  int64(q.PageNumber-1) * PostsPerPage,
			Limit: PostsPerPage,
		})
	case q.Category != "":
		posts, err := s.posts.Find(ctx, database.PostQuery{Category: q.Category})
		if err != nil {
			return nil, err
		}
		return posts, s.populate(ctx, posts)
	default:
		posts, err := s.posts.Find(ctx, database.PostQuery{})
		if err != nil {
			return nil, err
		}
		return posts, s.populate(ctx, posts)
	}
}

// Get returns the post with its author profile and comments attached.
func (s *PostService) Get(ctx context.Context, id primitive.ObjectID) (*models.PostDetail, error) {
	post, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.populateOne(ctx, post); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return &models.PostDetail{Post: *post, Comments: comments}, nil
}

func (s *PostService) Count(ctx context.Context) (int64, error) {
	return s.posts.Count(ctx)
}

// Delete removes the post, then best-effort its image and its comments.
// Only the post removal can fail the call.
func (s *PostService) Delete(ctx context.Context, id primitive.ObjectID, caller Identity) error {
	post, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !caller.OwnsOrAdmin(post.UserID) {
		return &ForbiddenError{Message: "access denied, forbidden"}
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return translate(err, "post")
	}

	if post.Image.PublicID != nil {
		if err := s.assets.Remove(ctx, *post.Image.PublicID); err != nil {
			log.Printf("[PostService] delete %s: image removal failed: %v", id.Hex(), err)
		}
	}

	if n, err := s.comments.DeleteByPost(ctx, id); err != nil {
		log.Printf("[PostService] delete %s: comment cleanup failed: %v", id.Hex(), err)
	} else if n > 0 {
		log.Printf("[PostService] delete %s: removed %d comments", id.Hex(), n)
	}

	s.events.PostDeleted(id)
	return nil
}

// Update changes the text fields. Only the owner may do so; admins may
// delete a post but not rewrite it.
func (s *PostService) Update(ctx context.Context, id primitive.ObjectID, req UpdatePostRequest, caller Identity) (*models.Post, error) {
	fields, err := req.Validate()
	if err != nil {
		return nil, err
	}

	post, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.Owns(post.UserID) {
		return nil, &ForbiddenError{Message: "access denied, you are not allowed"}
	}

	if !fields.Empty() {
		post, err = s.posts.Update(ctx, id, fields)
		if err != nil {
			return nil, translate(err, "post")
		}
	}
	if err := s.populateOne(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdateImage replaces the post image. The new file is uploaded before the
// old one is removed so a failed upload leaves the post untouched.
func (s *PostService) UpdateImage(ctx context.Context, id primitive.ObjectID, imagePath string, caller Identity) (*models.Post, error) {
	if imagePath == "" {
		return nil, invalid("no image provided")
	}
	defer s.removeLocal(imagePath)

	post, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.Owns(post.UserID) {
		return nil, &ForbiddenError{Message: "access denied, you are not allowed"}
	}

	uploaded, err := s.assets.Upload(ctx, imagePath)
	if err != nil {
		return nil, err
	}

	updated, err := s.posts.SetImage(ctx, id, models.Image{URL: uploaded.URL, PublicID: &uploaded.PublicID})
	if err != nil {
		if rmErr := s.assets.Remove(ctx, uploaded.PublicID); rmErr != nil {
			log.Printf("[PostService] orphaned image %s: %v", uploaded.PublicID, rmErr)
		}
		return nil, translate(err, "post")
	}

	if post.Image.PublicID != nil {
		if err := s.assets.Remove(ctx, *post.Image.PublicID); err != nil {
			log.Printf("[PostService] update image %s: old image removal failed: %v", id.Hex(), err)
		}
	}
	return updated, nil
}

// ToggleLike flips the caller's membership in the like-set.
func (s *PostService) ToggleLike(ctx context.Context, id primitive.ObjectID, caller Identity) (*models.Post, error) {
	post, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	liked := !post.LikedBy(caller.ID)
	if liked {
		post, err = s.posts.AddLike(ctx, id, caller.ID)
	} else {
		post, err = s.posts.RemoveLike(ctx, id, caller.ID)
	}
	if err != nil {
		return nil, translate(err, "post")
	}

	s.events.PostLiked(post, caller.ID, liked)
	return post, nil
}

func (s *PostService) find(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "post")
	}
	return post, nil
}

// populate attaches owner profiles. Posts whose owner no longer exists keep
// a nil User.
func (s *PostService) populate(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	seen := make(map[primitive.ObjectID]bool, len(posts))
	ids := make([]primitive.ObjectID, 0, len(posts))
	for _, p := range posts {
		if !seen[p.UserID] {
			seen[p.UserID] = true
			ids = append(ids, p.UserID)
		}
	}

	profiles, err := s.users.GetPublicProfiles(ctx, ids)
	if err != nil {
		return err
	}
	for i := range posts {
		if profile, ok := profiles[posts[i].UserID]; ok {
			posts[i].User = &profile
		}
	}
	return nil
}

func (s *PostService) populateOne(ctx context.Context, post *models.Post) error {
	profile, err := s.users.GetPublicProfile(ctx, post.UserID)
	if errors.Is(err, database.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	post.User = profile
	return nil
}
