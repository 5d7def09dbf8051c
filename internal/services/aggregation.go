package services

import (
	"context"

	"github.com/fleetsight/gasdash-backend/internal/clients/redis"
	"github.com/fleetsight/gasdash-backend/internal/data/repos"
	"github.com/fleetsight/gasdash-backend/internal/platform/dbctx"
	"github.com/fleetsight/gasdash-backend/internal/platform/logger"
)

const cardCacheKey = "gasdash:cards"

// AggregationCache is what the sync service pokes after a run. The redis
// adapter implements it; a nil cache disables caching.
type AggregationCache interface {
	Invalidate(ctx context.Context) error
}

// AggregationService serves the dashboard card view: the grouped snapshot
// counts, cached until the next sync invalidates them.
type AggregationService interface {
	AggregationCache
	CardCounts(ctx context.Context) ([]repos.AggregateRow, error)
}

type aggregationService struct {
	snapshots repos.SnapshotRepo
	cache     *redis.Cache
	log       *logger.Logger
}

func NewAggregationService(snapshots repos.SnapshotRepo, cache *redis.Cache, baseLog *logger.Logger) AggregationService {
	return &aggregationService{
		snapshots: snapshots,
		cache:     cache,
		log:       baseLog.With("service", "AggregationService"),
	}
}

func (s *aggregationService) CardCounts(ctx context.Context) ([]repos.AggregateRow, error) {
	if s.cache != nil {
		var cached []repos.AggregateRow
		found, err := s.cache.GetJSON(ctx, cardCacheKey, &cached)
		if err != nil {
			s.log.Warn("card cache read failed", "error", err)
		} else if found {
			return cached, nil
		}
	}
	rows, err := s.snapshots.GroupedCounts(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cardCacheKey, rows); err != nil {
			s.log.Warn("card cache write failed", "error", err)
		}
	}
	return rows, nil
}

func (s *aggregationService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Del(ctx, cardCacheKey)
}
