package app

import (
	"strings"
	"time"

	"github.com/fleetsight/gasdash-backend/internal/platform/envutil"
)

type Config struct {
	HTTPAddr            string
	AllowOrigins        []string
	SyncInterval        time.Duration
	IncrementalLookback time.Duration
	ProgressBatchSize   int
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	CardCacheTTL        time.Duration
	Environment         string
}

func LoadConfig() Config {
	origins := []string{}
	if raw := envutil.Str("CORS_ALLOW_ORIGINS", ""); raw != "" {
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}
	return Config{
		HTTPAddr:            envutil.Str("HTTP_ADDR", ":8080"),
		AllowOrigins:        origins,
		SyncInterval:        envutil.Duration("SYNC_INTERVAL", 15*time.Minute),
		IncrementalLookback: envutil.Duration("SYNC_LOOKBACK", time.Hour),
		ProgressBatchSize:   envutil.Int("SYNC_PROGRESS_BATCH", 500),
		RedisAddr:           envutil.Str("REDIS_ADDR", ""),
		RedisPassword:       envutil.Str("REDIS_PASSWORD", ""),
		RedisDB:             envutil.Int("REDIS_DB", 0),
		CardCacheTTL:        envutil.Duration("CARD_CACHE_TTL", 5*time.Minute),
		Environment:         envutil.Str("ENVIRONMENT", "development"),
	}
}
