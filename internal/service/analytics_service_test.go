package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusvoice/feedback-api/internal/models"
	appErrors "github.com/campusvoice/feedback-api/pkg/errors"
)

type stubAnalyticsRepo struct {
	distribution []models.SentimentCount
	byCategory   []models.CategorySentiment
	calls        int
}

func (r *stubAnalyticsRepo) SentimentDistribution(_ context.Context, _ int64) ([]models.SentimentCount, error) {
	r.calls++
	return r.distribution, nil
}

func (r *stubAnalyticsRepo) SentimentByCategory(_ context.Context, _ int64) ([]models.CategorySentiment, error) {
	return r.byCategory, nil
}

type memoryCacheStore struct {
	values map[string]string
}

func newMemoryCacheStore() *memoryCacheStore {
	return &memoryCacheStore{values: map[string]string{}}
}

func (s *memoryCacheStore) Get(_ context.Context, key string) (string, error) {
	value, ok := s.values[key]
	if !ok {
		return "", appErrors.ErrCacheMiss
	}
	return value, nil
}

func (s *memoryCacheStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	s.values[key] = value
	return nil
}

func (s *memoryCacheStore) DeleteByPattern(_ context.Context, _ string) error {
	s.values = map[string]string{}
	return nil
}

func TestDepartmentAnalyticsFillsDisplayNames(t *testing.T) {
	repo := &stubAnalyticsRepo{
		distribution: []models.SentimentCount{
			{Sentiment: models.SentimentNegative, Count: 2},
			{Sentiment: models.SentimentPositive, Count: 5},
		},
		byCategory: []models.CategorySentiment{
			{Category: models.CategoryLibrary, PositiveCount: 3, NegativeCount: 1},
			{Category: models.CategoryStaffBehaviour, PositiveCount: 2, NegativeCount: 1},
		},
	}
	cache := NewCacheService(nil, false, 0, zap.NewNop())
	svc := NewAnalyticsService(repo, cache, zap.NewNop())

	analytics, err := svc.DepartmentAnalytics(context.Background(), coordinatorActor())
	require.NoError(t, err)
	require.Len(t, analytics.Distribution, 2)
	require.Equal(t, "Library", analytics.ByCategory[0].DisplayName)
	require.Equal(t, "Staff Behaviour", analytics.ByCategory[1].DisplayName)
}

func TestDepartmentAnalyticsRequiresDepartment(t *testing.T) {
	svc := NewAnalyticsService(&stubAnalyticsRepo{}, NewCacheService(nil, false, 0, zap.NewNop()), zap.NewNop())

	unassigned := models.Actor{UserID: "coord-9", Role: models.RoleCoordinator}
	_, err := svc.DepartmentAnalytics(context.Background(), unassigned)
	require.Error(t, err)
	require.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestDepartmentAnalyticsServedFromCache(t *testing.T) {
	repo := &stubAnalyticsRepo{
		distribution: []models.SentimentCount{{Sentiment: models.SentimentNeutral, Count: 1}},
	}
	store := newMemoryCacheStore()
	cache := NewCacheService(store, true, time.Minute, zap.NewNop())
	svc := NewAnalyticsService(repo, cache, zap.NewNop())

	first, err := svc.DepartmentAnalytics(context.Background(), coordinatorActor())
	require.NoError(t, err)
	second, err := svc.DepartmentAnalytics(context.Background(), coordinatorActor())
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 1, repo.calls, "second read must come from the cache")
}
