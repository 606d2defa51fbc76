//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"jenga-prompts-api/internal/application/enhance"
	"jenga-prompts-api/internal/config"
	"jenga-prompts-api/internal/infrastructure/llm"
	"jenga-prompts-api/internal/interfaces/http/handler"
	"jenga-prompts-api/internal/interfaces/http/router"
	"jenga-prompts-api/internal/workflow/port"
	"jenga-prompts-api/internal/workflow/prompt"
	"jenga-prompts-api/internal/workflow/transform"
)

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RedisSet,
		WorkflowSet,
		LLMSet,
		RouterSet,
	)
	return nil, nil, nil
}

// RedisSet Redis 提供者集合；未启用或不可达时退化为进程内限流
var RedisSet = wire.NewSet(
	ProvideRedisClientOptional,
	ProvideRateLimiter,
)

// WorkflowSet 提示词构建与模型适配
var WorkflowSet = wire.NewSet(
	ProvideModelSpecRegistry,
	ProvideStrategySelector,
	ProvideTemplateSource,
	prompt.NewBuilder,
	transform.NewTransformer,
)

// LLMSet LLM 客户端工厂
var LLMSet = wire.NewSet(
	llm.NewFactory,
	wire.Bind(new(port.ChatClientFactory), new(*llm.Factory)),
	wire.Bind(new(handler.CredentialChecker), new(*llm.Factory)),
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	enhance.NewService,
	ProvideHealthHandler,
	ProvidePromptHandler,
	ProvideStreamHandler,
	router.New,
)
