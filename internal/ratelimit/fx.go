package ratelimit

import (
	"context"

	redis "github.com/redis/go-redis/v9"
	"github.com/tubigan/waterworks/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the optional redis client and the generation lock built on
// it. Both are nil when REDIS_ADDR is unset.
var Module = fx.Module("ratelimit",
	fx.Provide(NewRedisClient),
	fx.Provide(NewLocker),
)

func NewRedisClient(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				log.Warn("redis unreachable, generation locking degrades to storage-level uniqueness", zap.Error(err))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})

	return client
}
