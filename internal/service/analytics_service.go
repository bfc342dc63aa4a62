package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/campusvoice/feedback-api/internal/models"
	appErrors "github.com/campusvoice/feedback-api/pkg/errors"
)

type analyticsRepository interface {
	SentimentDistribution(ctx context.Context, departmentID int64) ([]models.SentimentCount, error)
	SentimentByCategory(ctx context.Context, departmentID int64) ([]models.CategorySentiment, error)
}

// DepartmentAnalytics is the full rollup the coordinator dashboard charts.
type DepartmentAnalytics struct {
	Distribution []models.SentimentCount    `json:"sentiment_distribution"`
	ByCategory   []models.CategorySentiment `json:"sentiment_by_category"`
}

// AnalyticsService serves the department sentiment rollups, fronted by a
// best-effort cache keyed per department.
type AnalyticsService struct {
	analytics analyticsRepository
	cache     *CacheService
	logger    *zap.Logger
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(analytics analyticsRepository, cache *CacheService, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{analytics: analytics, cache: cache, logger: logger}
}

// DepartmentAnalytics returns the sentiment distribution and the per-category
// positive/negative breakdown for the actor's department.
func (s *AnalyticsService) DepartmentAnalytics(ctx context.Context, actor models.Actor) (*DepartmentAnalytics, error) {
	if actor.DepartmentID == nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "no department assigned to this account")
	}
	departmentID := *actor.DepartmentID

	cacheKey := fmt.Sprintf("analytics:%d:rollup", departmentID)
	var cached DepartmentAnalytics
	if s.cache.GetJSON(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	distribution, err := s.analytics.SentimentDistribution(ctx, departmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sentiment distribution")
	}
	byCategory, err := s.analytics.SentimentByCategory(ctx, departmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load category sentiment")
	}
	for i := range byCategory {
		byCategory[i].DisplayName = byCategory[i].Category.DisplayName()
	}

	result := &DepartmentAnalytics{
		Distribution: distribution,
		ByCategory:   byCategory,
	}
	s.cache.SetJSON(ctx, cacheKey, result)

	s.logger.Debug("analytics computed",
		zap.Int64("department_id", departmentID),
		zap.Int("categories", len(byCategory)))
	return result, nil
}
