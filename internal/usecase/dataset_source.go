package usecase

import (
	"context"
	"time"

	"majormatch/internal/dataset"
	"majormatch/internal/metrics"
	"majormatch/internal/pkg/logger"
	"majormatch/internal/repository"
)

// DatasetCacheKey is bumped whenever the cached dataset's JSON shape changes.
const DatasetCacheKey = "majormatch:dataset:v1"

type DatasetCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CachedDatasetSource puts a snapshot cache in front of a dataset repository.
// A nil cache, or a cache error, falls through to the repository.
type CachedDatasetSource struct {
	repo  repository.DatasetRepository
	cache DatasetCache
	ttl   time.Duration
	log   logger.Logger
}

func NewCachedDatasetSource(repo repository.DatasetRepository, cache DatasetCache, ttl time.Duration, log logger.Logger) *CachedDatasetSource {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &CachedDatasetSource{repo: repo, cache: cache, ttl: ttl, log: log}
}

func (s *CachedDatasetSource) LoadDataset(ctx context.Context) (dataset.Dataset, error) {
	if s.cache == nil {
		metrics.DatasetCacheTotal.WithLabelValues(metrics.CacheBypass).Inc()
		return s.repo.LoadDataset(ctx)
	}

	var cached dataset.Dataset
	found, err := s.cache.GetJSON(ctx, DatasetCacheKey, &cached)
	switch {
	case err != nil:
		metrics.DatasetCacheTotal.WithLabelValues(metrics.CacheBypass).Inc()
		s.log.Warn("dataset cache read failed", map[string]interface{}{"key": DatasetCacheKey, "error": err})
	case found:
		verr := cached.Validate()
		if verr == nil {
			metrics.DatasetCacheTotal.WithLabelValues(metrics.CacheHit).Inc()
			return cached, nil
		}
		s.log.Warn("discarding invalid cached dataset", map[string]interface{}{"key": DatasetCacheKey, "error": verr})
		_ = s.cache.Delete(ctx, DatasetCacheKey)
		metrics.DatasetCacheTotal.WithLabelValues(metrics.CacheMiss).Inc()
	default:
		metrics.DatasetCacheTotal.WithLabelValues(metrics.CacheMiss).Inc()
	}

	ds, err := s.repo.LoadDataset(ctx)
	if err != nil {
		return dataset.Dataset{}, err
	}
	if err := s.cache.SetJSON(ctx, DatasetCacheKey, ds, s.ttl); err != nil {
		s.log.Warn("dataset cache write failed", map[string]interface{}{"key": DatasetCacheKey, "error": err})
	}
	return ds, nil
}

// Invalidate drops the cached snapshot so the next load reads the repository.
func (s *CachedDatasetSource) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, DatasetCacheKey)
}
