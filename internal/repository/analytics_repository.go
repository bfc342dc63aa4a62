package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campusvoice/feedback-api/internal/models"
)

// AnalyticsRepository aggregates sentiment labels over enriched feedback.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository constructs a new repository.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// SentimentDistribution counts labelled submissions per sentiment for a
// department. Rows without a sentiment are excluded.
func (r *AnalyticsRepository) SentimentDistribution(ctx context.Context, departmentID int64) ([]models.SentimentCount, error) {
	query := `SELECT sentiment, COUNT(*) AS count
FROM feedback
WHERE department_id = $1 AND sentiment IS NOT NULL
GROUP BY sentiment
ORDER BY sentiment ASC`
	var counts []models.SentimentCount
	if err := r.db.SelectContext(ctx, &counts, query, departmentID); err != nil {
		return nil, fmt.Errorf("sentiment distribution: %w", err)
	}
	return counts, nil
}

// SentimentByCategory returns positive and negative counts per category for a
// department, ordered by category name.
func (r *AnalyticsRepository) SentimentByCategory(ctx context.Context, departmentID int64) ([]models.CategorySentiment, error) {
	query := `SELECT c.name AS category,
COALESCE(SUM(CASE WHEN f.sentiment = $2 THEN 1 ELSE 0 END), 0) AS positive_count,
COALESCE(SUM(CASE WHEN f.sentiment = $3 THEN 1 ELSE 0 END), 0) AS negative_count
FROM feedback f
JOIN feedback_categories c ON c.id = f.category_id
WHERE f.department_id = $1
GROUP BY c.name
ORDER BY c.name ASC`
	var rows []models.CategorySentiment
	if err := r.db.SelectContext(ctx, &rows, query, departmentID, models.SentimentPositive, models.SentimentNegative); err != nil {
		return nil, fmt.Errorf("sentiment by category: %w", err)
	}
	return rows, nil
}
