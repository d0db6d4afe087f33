package services

import (
	"context"
	"log"

	"blog/database"
	"blog/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CategoryService manages the flat category list. Categories are free-text
// labels: deleting one leaves posts that carry its title alone.
type CategoryService struct {
	categories database.CategoryStore
}

func NewCategoryService(categories database.CategoryStore) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest, owner Identity) (*models.Category, error) {
	title, err := req.Validate()
	if err != nil {
		return nil, err
	}

	category := &models.Category{Title: title, UserID: owner.ID}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	log.Printf("[CategoryService] created category %s (%q)", category.ID.Hex(), category.Title)
	return category, nil
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.categories.FindAll(ctx)
}

// Delete removes the category and returns its id.
func (s *CategoryService) Delete(ctx context.Context, id primitive.ObjectID) (primitive.ObjectID, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return primitive.NilObjectID, translate(err, "category")
	}
	if err := s.categories.Delete(ctx, category.ID); err != nil {
		return primitive.NilObjectID, translate(err, "category")
	}
	return category.ID, nil
}
