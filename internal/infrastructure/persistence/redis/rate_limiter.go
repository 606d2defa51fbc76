package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
)

// Decision 一次限流判定的结果
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	// ResetAt 窗口内最早一次请求滑出窗口的时间
	ResetAt time.Time
}

// RetryAfter 距离下一次可用配额的时长
func (d Decision) RetryAfter(now time.Time) time.Duration {
	if d.Allowed || d.ResetAt.Before(now) {
		return 0
	}
	return d.ResetAt.Sub(now)
}

// RateLimiter 滑动窗口限流器（ZSET，score 为毫秒时间戳）
type RateLimiter struct {
	client *Client
	now    func() time.Time
}

// NewRateLimiter 创建限流器
func NewRateLimiter(client *Client) *RateLimiter {
	return &RateLimiter{client: client, now: time.Now}
}

// Allow 检查是否允许请求：先记录本次请求，超出上限时撤回
func (l *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error) {
	ctx, span := tracer.Start(ctx, "ratelimit.Allow")
	span.SetAttributes(
		attribute.String("ratelimit.key", key),
		attribute.Int("ratelimit.limit", limit),
		attribute.Int64("ratelimit.window_ms", window.Milliseconds()),
	)
	defer span.End()

	now := l.now()
	nowMs := now.UnixMilli()
	windowStart := nowMs - window.Milliseconds()
	member := strconv.FormatInt(nowMs, 10) + "-" + uuid.NewString()

	pipe := l.client.rdb.TxPipeline()
	// 移除窗口外的请求
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(nowMs), Member: member})
	countCmd := pipe.ZCard(ctx, key)
	oldestCmd := pipe.ZRangeWithScores(ctx, key, 0, 0)
	pipe.PExpire(ctx, key, window)

	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return Decision{}, err
	}

	count := int(countCmd.Val())
	d := Decision{Limit: limit, ResetAt: now.Add(window)}
	if oldest := oldestCmd.Val(); len(oldest) > 0 {
		d.ResetAt = time.UnixMilli(int64(oldest[0].Score)).Add(window)
	}
	span.SetAttributes(attribute.Int("ratelimit.current_count", count))

	if count > limit {
		// 被拒绝的请求不占用配额
		if err := l.client.rdb.ZRem(ctx, key, member).Err(); err != nil {
			span.RecordError(err)
		}
		span.SetAttributes(attribute.Bool("ratelimit.allowed", false))
		return d, nil
	}

	d.Allowed = true
	d.Remaining = limit - count
	span.SetAttributes(attribute.Bool("ratelimit.allowed", true))
	return d, nil
}

// Reset 重置限流计数
func (l *RateLimiter) Reset(ctx context.Context, key string) error {
	ctx, span := tracer.Start(ctx, "ratelimit.Reset")
	span.SetAttributes(attribute.String("ratelimit.key", key))
	defer span.End()

	return l.client.rdb.Del(ctx, key).Err()
}

// BuildRateLimitKey 构建限流键
func BuildRateLimitKey(prefix, clientID, scope string) string {
	if prefix == "" {
		prefix = "ratelimit:"
	}
	return fmt.Sprintf("%s%s:%s", prefix, scope, clientID)
}
