package wire

import (
	"context"

	"jenga-prompts-api/internal/application/enhance"
	"jenga-prompts-api/internal/config"
	"jenga-prompts-api/internal/infrastructure/persistence/redis"
	"jenga-prompts-api/internal/interfaces/http/handler"
	"jenga-prompts-api/internal/interfaces/http/middleware"
	"jenga-prompts-api/internal/workflow/modelspec"
	"jenga-prompts-api/internal/workflow/prompt"
	"jenga-prompts-api/internal/workflow/strategy"
	"jenga-prompts-api/pkg/logger"
)

// ProvideRedisClientOptional Redis 未启用或不可达时返回 nil，不阻塞启动
func ProvideRedisClientOptional(ctx context.Context, cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Cache.Redis.Enabled {
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		logger.Warn(ctx, "redis not available, falling back to in-process rate limiting", "error", err.Error())
		return nil, func() {}, nil
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRateLimiter 多实例部署依赖 Redis 共享计数
func ProvideRateLimiter(client *redis.Client) middleware.RateLimiter {
	if client == nil {
		return redis.NewLocalRateLimiter()
	}
	return redis.NewRateLimiter(client)
}

// ProvideModelSpecRegistry 加载目标模型规格表
func ProvideModelSpecRegistry(cfg *config.Config) (*modelspec.Registry, error) {
	return modelspec.NewRegistry(cfg.Prompt.ModelSpecsFile)
}

func ProvideStrategySelector(cfg *config.Config) *strategy.Selector {
	return strategy.NewSelector(cfg.Prompt.StrictStrategy)
}

// ProvideTemplateSource 模态框架模板；目录留空时不附加框架
func ProvideTemplateSource(cfg *config.Config) prompt.TemplateSource {
	if cfg.Prompt.FrameworkDir == "" {
		return nil
	}
	return prompt.NewFrameworkLoader(cfg.Prompt.FrameworkDir)
}

func ProvideHealthHandler(cfg *config.Config, client *redis.Client, llm handler.CredentialChecker) *handler.HealthHandler {
	return handler.NewHealthHandler(cfg.App.Version, client, llm)
}

func ProvidePromptHandler(cfg *config.Config, svc *enhance.Service, llm handler.CredentialChecker) *handler.PromptHandler {
	return handler.NewPromptHandler(svc, llm, cfg.App.Name, cfg.App.IsProduction())
}

func ProvideStreamHandler(cfg *config.Config, svc *enhance.Service) *handler.StreamHandler {
	return handler.NewStreamHandler(svc, cfg.App.IsProduction())
}
