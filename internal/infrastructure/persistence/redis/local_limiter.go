package redis

import (
	"context"
	"sync"
	"time"
)

// LocalRateLimiter 进程内滑动窗口限流器，未启用 Redis 时使用
type LocalRateLimiter struct {
	mu   sync.Mutex
	hits map[string][]time.Time
	now  func() time.Time
}

func NewLocalRateLimiter() *LocalRateLimiter {
	return &LocalRateLimiter{hits: make(map[string][]time.Time), now: time.Now}
}

func (l *LocalRateLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-window)

	hits := l.hits[key]
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	hits = hits[i:]

	d := Decision{Limit: limit, ResetAt: now.Add(window)}
	if len(hits) > 0 {
		d.ResetAt = hits[0].Add(window)
	}
	if len(hits) >= limit {
		l.store(key, hits)
		return d, nil
	}

	hits = append(hits, now)
	l.store(key, hits)
	d.Allowed = true
	d.Remaining = limit - len(hits)
	if len(hits) == 1 {
		d.ResetAt = now.Add(window)
	}
	return d, nil
}

func (l *LocalRateLimiter) store(key string, hits []time.Time) {
	if len(hits) == 0 {
		delete(l.hits, key)
		return
	}
	l.hits[key] = hits
}

func (l *LocalRateLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	delete(l.hits, key)
	l.mu.Unlock()
	return nil
}
