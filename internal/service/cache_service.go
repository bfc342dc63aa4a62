package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/campusvoice/feedback-api/pkg/errors"
)

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService is a best-effort JSON cache in front of the analytics queries.
// Every failure degrades to a miss; cache trouble never fails a request.
type CacheService struct {
	store   cacheStore
	enabled bool
	ttl     time.Duration
	logger  *zap.Logger
}

// NewCacheService constructs the service. A nil store disables caching.
func NewCacheService(store cacheStore, enabled bool, ttl time.Duration, logger *zap.Logger) *CacheService {
	return &CacheService{
		store:   store,
		enabled: enabled && store != nil,
		ttl:     ttl,
		logger:  logger,
	}
}

// Enabled reports whether the cache is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled
}

// GetJSON loads a cached value into dest, reporting whether it was a hit.
func (s *CacheService) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if !s.Enabled() {
		return false
	}
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		s.logger.Warn("cache payload corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// SetJSON stores a value under the configured TTL.
func (s *CacheService) SetJSON(ctx context.Context, key string, value interface{}) {
	if !s.Enabled() {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.store.Set(ctx, key, string(raw), s.ttl); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops every key matching the pattern.
func (s *CacheService) Invalidate(ctx context.Context, pattern string) {
	if !s.Enabled() {
		return
	}
	if err := s.store.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("cache invalidation failed", zap.String("pattern", pattern), zap.Error(err))
	}
}
