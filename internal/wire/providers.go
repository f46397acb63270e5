// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"novel-review-api/internal/config"
	"novel-review-api/internal/infrastructure/persistence/redis"
	"novel-review-api/internal/interfaces/http/middleware"
	"novel-review-api/pkg/logger"
)

// ProvideRedisClient 提供 Redis 客户端。
// 未启用时返回 nil，依赖方需容忍空客户端
func ProvideRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Cache.Redis.Enabled {
		logger.Info(ctx, "redis disabled, rate limiting will be skipped")
		return nil, func() {}, nil
	}

	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

// ProvideRateLimiter 提供限流器，Redis 未启用时为 nil（中间件退化为放行）
func ProvideRateLimiter(client *redis.Client) middleware.RateLimiter {
	if client == nil {
		return nil
	}
	return redis.NewRateLimiter(client)
}
