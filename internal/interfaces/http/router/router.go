// Package router 提供 HTTP 路由配置
package router

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"jenga-prompts-api/internal/config"
	"jenga-prompts-api/internal/interfaces/http/dto"
	"jenga-prompts-api/internal/interfaces/http/handler"
	"jenga-prompts-api/internal/interfaces/http/middleware"
	apperrors "jenga-prompts-api/pkg/errors"
	"jenga-prompts-api/pkg/logger"
)

// Router HTTP 路由器
type Router struct {
	engine  *gin.Engine
	cfg     *config.Config
	health  *handler.HealthHandler
	prompts *handler.PromptHandler
	stream  *handler.StreamHandler
	limiter middleware.RateLimiter
}

// New 创建新的路由器；limiter 为 nil 时不限流
func New(
	cfg *config.Config,
	health *handler.HealthHandler,
	prompts *handler.PromptHandler,
	stream *handler.StreamHandler,
	limiter middleware.RateLimiter,
) *Router {
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	r := &Router{
		engine:  engine,
		cfg:     cfg,
		health:  health,
		prompts: prompts,
		stream:  stream,
		limiter: limiter,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) metricsPath() string {
	if p := r.cfg.Observability.Metrics.Path; p != "" {
		return p
	}
	return "/metrics"
}

// setupMiddleware 配置中间件
func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name, "/health", "/live", "/ready", r.metricsPath()))
		r.engine.Use(middleware.TraceContext())
	}

	r.engine.Use(middleware.AccessLog())

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics(r.metricsPath()))
	}

	r.engine.Use(middleware.CORS(r.cfg.Security.CORS))
}

// setupRoutes 配置路由
func (r *Router) setupRoutes() {
	r.engine.GET("/health", r.health.Health)
	r.engine.GET("/live", r.health.Live)
	r.engine.GET("/ready", r.health.Ready)

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.metricsPath(), gin.WrapH(promhttp.Handler()))
	}

	if r.cfg.Security.ClientAPIKey == "" {
		logger.Warn(context.Background(), "client API key not configured, /v1 endpoints are unauthenticated")
	}

	v1 := r.engine.Group("/v1",
		middleware.APIKeyAuth(r.cfg.Security.ClientAPIKey),
		middleware.RateLimit(r.cfg.Security.RateLimit, "v1", r.limiter),
		middleware.BodyLimit(r.cfg.Server.HTTP.MaxBodyBytes),
	)
	{
		v1.GET("/status", r.prompts.Status)
		v1.GET("/models", r.prompts.Models)

		prompts := v1.Group("/prompts")
		{
			prompts.POST("/enhance", r.prompts.Enhance)
			prompts.POST("/enhance/stream", r.stream.EnhanceStream)
			prompts.POST("/transform", r.prompts.Transform)
			prompts.POST("/validate", r.prompts.Validate)
		}
	}

	r.engine.NoRoute(func(c *gin.Context) {
		appErr := apperrors.ErrNotFound.WithDetail(
			fmt.Sprintf("Route %s %s not found", c.Request.Method, c.Request.URL.Path))
		dto.AbortWithRoutes(c, appErr, availableRoutes)
	})
	r.engine.NoMethod(func(c *gin.Context) {
		dto.AbortWithAppError(c, apperrors.ErrMethodNotAllowed, false)
	})
}

var availableRoutes = map[string]string{
	"health":        "GET /health",
	"status":        "GET /v1/status",
	"models":        "GET /v1/models?mode={mode}",
	"enhance":       "POST /v1/prompts/enhance",
	"enhanceStream": "POST /v1/prompts/enhance/stream",
	"transform":     "POST /v1/prompts/transform",
	"validate":      "POST /v1/prompts/validate",
}
