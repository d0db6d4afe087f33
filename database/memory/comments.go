package memory

import (
	"context"
	"sync"
	"time"

	"blog/database"
	"blog/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CommentStore struct {
	mu       sync.RWMutex
	comments map[primitive.ObjectID]*models.Comment
	order    []primitive.ObjectID
}

func NewCommentStore() *CommentStore {
	return &CommentStore{comments: make(map[primitive.ObjectID]*models.Comment)}
}

func (s *CommentStore) Create(ctx context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	c := *comment
	s.comments[c.ID] = &c
	s.order = append(s.order, c.ID)
	return nil
}

func (s *CommentStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comment, ok := s.comments[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	c := *comment
	return &c, nil
}

func (s *CommentStore) FindAll(ctx context.Context) ([]models.Comment, error) {
	return s.filter(func(*models.Comment) bool { return true }), nil
}

func (s *CommentStore) FindByPostID(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error) {
	return s.filter(func(c *models.Comment) bool { return c.PostID == postID }), nil
}

func (s *CommentStore) UpdateText(ctx context.Context, id primitive.ObjectID, text string) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	comment.Text = text
	comment.UpdatedAt = time.Now().UTC()
	c := *comment
	return &c, nil
}

func (s *CommentStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[id]; !ok {
		return database.ErrNotFound
	}
	s.remove(id)
	return nil
}

func (s *CommentStore) DeleteByPostID(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for _, id := range append([]primitive.ObjectID{}, s.order...) {
		if s.comments[id].PostID == postID {
			s.remove(id)
			deleted++
		}
	}
	return deleted, nil
}

// remove must be called with the write lock held.
func (s *CommentStore) remove(id primitive.ObjectID) {
	delete(s.comments, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *CommentStore) filter(keep func(*models.Comment) bool) []models.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []models.Comment{}
	for _, id := range s.order {
		if c := s.comments[id]; keep(c) {
			result = append(result, *c)
		}
	}
	return result
}
