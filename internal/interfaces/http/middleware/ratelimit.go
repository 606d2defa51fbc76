package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"jenga-prompts-api/internal/config"
	"jenga-prompts-api/internal/infrastructure/persistence/redis"
	"jenga-prompts-api/internal/interfaces/http/dto"
	apperrors "jenga-prompts-api/pkg/errors"
	"jenga-prompts-api/pkg/logger"
	"jenga-prompts-api/pkg/metrics"
)

// RateLimiter 限流器接口
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (redis.Decision, error)
}

// RateLimit 滑动窗口限流，按客户端密钥 + IP 计数
func RateLimit(cfg config.RateLimitConfig, scope string, limiter RateLimiter) gin.HandlerFunc {
	if !cfg.Enabled || limiter == nil || cfg.Requests <= 0 {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		key := redis.BuildRateLimitKey(cfg.KeyPrefix, clientID(c), scope)

		d, err := limiter.Allow(c.Request.Context(), key, cfg.Requests, cfg.Window)
		if err != nil {
			// 限流器故障时放行
			logger.Warn(c.Request.Context(), "rate limiter unavailable, allowing request", "error", err.Error())
			c.Next()
			return
		}

		now := time.Now()
		c.Header("RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("RateLimit-Remaining", strconv.Itoa(d.Remaining))
		c.Header("RateLimit-Reset", strconv.Itoa(ceilSeconds(d.ResetAt.Sub(now))))

		if !d.Allowed {
			metrics.RateLimitRejected.Inc()
			c.Header("Retry-After", strconv.Itoa(ceilSeconds(d.RetryAfter(now))))
			dto.AbortWithAppError(c, apperrors.ErrTooManyRequests, false)
			return
		}

		c.Next()
	}
}

// clientID 客户端 IP，带密钥时附加密钥指纹
func clientID(c *gin.Context) string {
	id := c.ClientIP()
	if key := c.GetString(clientKeyCtxKey); key != "" {
		sum := sha256.Sum256([]byte(key))
		id += ":" + hex.EncodeToString(sum[:6])
	}
	return id
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}
