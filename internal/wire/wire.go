//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"novel-review-api/internal/application/generation"
	"novel-review-api/internal/application/review"
	"novel-review-api/internal/config"
	"novel-review-api/internal/infrastructure/llm"
	"novel-review-api/internal/interfaces/http/handler"
	"novel-review-api/internal/interfaces/http/router"
	"novel-review-api/internal/workflow/port"
)

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		LLMSet,
		RedisSet,
		ReviewSet,
		RouterSet,
	)
	return nil, nil, nil
}

// LLMSet 模型工厂与结构化生成调用方
var LLMSet = wire.NewSet(
	llm.NewEinoFactory,
	wire.Bind(new(port.ChatModelFactory), new(*llm.EinoFactory)),
	generation.NewEinoInvoker,
	wire.Bind(new(generation.Invoker), new(*generation.EinoInvoker)),
)

// RedisSet Redis 提供者集合（未启用时客户端与限流器均为 nil）
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	ProvideRateLimiter,
)

// ReviewSet 审校流水线提供者集合
var ReviewSet = wire.NewSet(
	review.NewService,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	handler.NewAnalysisHandler,
	handler.NewHealthHandler,
	router.New,
)
