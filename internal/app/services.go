package app

import (
	"context"

	"github.com/fleetsight/gasdash-backend/internal/clients/redis"
	"github.com/fleetsight/gasdash-backend/internal/platform/logger"
	"github.com/fleetsight/gasdash-backend/internal/services"
)

type Services struct {
	Policy      services.PolicyService
	Sync        services.SyncService
	History     services.HistoryService
	Aggregation services.AggregationService
}

func wireServices(cfg Config, reposet Repos, log *logger.Logger) Services {
	log.Info("Wiring services...")

	var cache *redis.Cache
	if cfg.RedisAddr != "" {
		c, err := redis.NewCache(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CardCacheTTL, log)
		if err != nil {
			log.Warn("redis unavailable, card caching disabled", "addr", cfg.RedisAddr, "error", err)
		} else {
			cache = c
		}
	}

	policy := services.NewPolicyService(reposet.EndUserDefault, reposet.EndUserExc, reposet.ValveGroup, log)
	aggregation := services.NewAggregationService(reposet.Snapshot, cache, log)
	sync := services.NewSyncService(reposet.CylinderSource, reposet.Snapshot, policy, aggregation, cfg.ProgressBatchSize, log)
	history := services.NewHistoryService(reposet.Snapshot, reposet.History, reposet.SnapshotRequest, log)

	return Services{
		Policy:      policy,
		Sync:        sync,
		History:     history,
		Aggregation: aggregation,
	}
}
