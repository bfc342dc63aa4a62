package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campusvoice/feedback-api/internal/models"
)

// CategoryRepository serves the seeded feedback category reference data.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository constructs a new repository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns all categories ordered by name.
func (r *CategoryRepository) List(ctx context.Context) ([]models.FeedbackCategory, error) {
	var categories []models.FeedbackCategory
	query := "SELECT id, name, description FROM feedback_categories ORDER BY name ASC"
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// FindByID fetches a category by primary key.
func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*models.FeedbackCategory, error) {
	var category models.FeedbackCategory
	if err := r.db.GetContext(ctx, &category, "SELECT id, name, description FROM feedback_categories WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &category, nil
}
