// Package memory implements the database store interfaces in process
// memory. It backs the tests and DATABASE=memory local runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"blog/database"
	"blog/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostStore implements database.PostStore using in-memory storage
type PostStore struct {
	mu    sync.RWMutex
	posts map[primitive.ObjectID]*models.Post
}

func NewPostStore() *PostStore {
	return &PostStore{posts: make(map[primitive.ObjectID]*models.Post)}
}

func (s *PostStore) Create(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}

	s.posts[post.ID] = clonePost(post)
	return nil
}

func (s *PostStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return clonePost(post), nil
}

func (s *PostStore) Find(ctx context.Context, q database.PostQuery) ([]models.Post, error) {
	s.mu.RLock()
	matched := make([]models.Post, 0, len(s.posts))
	for _, post := range s.posts {
		if q.Category != "" && post.Category != q.Category {
			continue
		}
		matched = append(matched, *clonePost(post))
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.Hex() > matched[j].ID.Hex()
	})

	if q.Limit <= 0 {
		return matched, nil
	}
	if q.Skip >= int64(len(matched)) {
		return []models.Post{}, nil
	}
	end := q.Skip + q.Limit
	if end > int64(len(matched)) {
		end = int64(len(matched))
	}
	return matched[q.Skip:end], nil
}

func (s *PostStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.posts)), nil
}

func (s *PostStore) Update(ctx context.Context, id primitive.ObjectID, fields database.PostUpdate) (*models.Post, error) {
	return s.mutate(id, func(p *models.Post) {
		if fields.Title != nil {
			p.Title = *fields.Title
		}
		if fields.Description != nil {
			p.Description = *fields.Description
		}
		if fields.Category != nil {
			p.Category = *fields.Category
		}
	})
}

func (s *PostStore) SetImage(ctx context.Context, id primitive.ObjectID, image models.Image) (*models.Post, error) {
	return s.mutate(id, func(p *models.Post) {
		p.Image = cloneImage(image)
	})
}

func (s *PostStore) AddLike(ctx context.Context, id, userID primitive.ObjectID) (*models.Post, error) {
	return s.mutate(id, func(p *models.Post) {
		if !p.LikedBy(userID) {
			p.Likes = append(p.Likes, userID)
		}
	})
}

func (s *PostStore) RemoveLike(ctx context.Context, id, userID primitive.ObjectID) (*models.Post, error) {
	return s.mutate(id, func(p *models.Post) {
		kept := p.Likes[:0]
		for _, liker := range p.Likes {
			if liker != userID {
				kept = append(kept, liker)
			}
		}
		p.Likes = kept
	})
}

func (s *PostStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return database.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

// mutate applies fn under the write lock, which makes every update atomic
// with respect to other writers.
func (s *PostStore) mutate(id primitive.ObjectID, fn func(*models.Post)) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	fn(post)
	post.UpdatedAt = time.Now().UTC()
	return clonePost(post), nil
}

func clonePost(p *models.Post) *models.Post {
	c := *p
	c.Likes = append([]primitive.ObjectID{}, p.Likes...)
	c.Image = cloneImage(p.Image)
	c.User = nil
	return &c
}

func cloneImage(img models.Image) models.Image {
	if img.PublicID == nil {
		return models.Image{URL: img.URL}
	}
	id := *img.PublicID
	return models.Image{URL: img.URL, PublicID: &id}
}
