package memory

import (
	"context"
	"sync"
	"time"

	"blog/database"
	"blog/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CategoryStore struct {
	mu         sync.RWMutex
	categories []models.Category
}

func NewCategoryStore() *CategoryStore {
	return &CategoryStore{}
}

func (s *CategoryStore) Create(ctx context.Context, category *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	category.CreatedAt = now
	category.UpdatedAt = now

	s.categories = append(s.categories, *category)
	return nil
}

func (s *CategoryStore) FindAll(ctx context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Category{}, s.categories...), nil
}

func (s *CategoryStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.categories {
		if c.ID == id {
			found := c
			return &found, nil
		}
	}
	return nil, database.ErrNotFound
}

func (s *CategoryStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.categories {
		if c.ID == id {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			return nil
		}
	}
	return database.ErrNotFound
}
