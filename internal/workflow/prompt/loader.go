package prompt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"jenga-prompts-api/internal/domain/entity"
	"jenga-prompts-api/pkg/logger"
	"jenga-prompts-api/pkg/metrics"
	"jenga-prompts-api/pkg/tracer"
)

// TemplateSource 框架模板来源；不可用时返回 false，调用方走内置模板
type TemplateSource interface {
	Load(ctx context.Context, filename string) (string, bool)
}

// FrameworkFile 模态对应的框架模板文件名
func FrameworkFile(mode entity.Mode) string {
	return fmt.Sprintf("%s-prompt-framework.md", mode)
}

// FrameworkLoader 从目录读取框架模板并按文件名缓存，进程生命周期内不失效。
// 读取失败不缓存，下次请求会重试。
type FrameworkLoader struct {
	dir   string
	mu    sync.RWMutex
	cache map[string]string
	group singleflight.Group
}

func NewFrameworkLoader(dir string) *FrameworkLoader {
	return &FrameworkLoader{
		dir:   dir,
		cache: make(map[string]string),
	}
}

func (l *FrameworkLoader) Load(ctx context.Context, filename string) (string, bool) {
	if l == nil || l.dir == "" {
		return "", false
	}

	l.mu.RLock()
	content, ok := l.cache[filename]
	l.mu.RUnlock()
	if ok {
		metrics.FrameworkLoadsTotal.WithLabelValues(filename, "hit").Inc()
		return content, true
	}

	v, err, _ := l.group.Do(filename, func() (any, error) {
		return l.read(ctx, filename)
	})
	if err != nil {
		metrics.FrameworkLoadsTotal.WithLabelValues(filename, "fallback").Inc()
		logger.Warn(ctx, "framework template unavailable, using built-in template",
			"file", filename,
			"error", err.Error(),
		)
		return "", false
	}
	metrics.FrameworkLoadsTotal.WithLabelValues(filename, "loaded").Inc()
	return v.(string), true
}

func (l *FrameworkLoader) read(ctx context.Context, filename string) (string, error) {
	_, span := tracer.Start(ctx, "prompt.framework.load")
	defer span.End()
	span.SetAttributes(attribute.String("framework.file", filename))

	if filename != filepath.Base(filename) {
		err := fmt.Errorf("invalid framework file name: %q", filename)
		tracer.RecordError(span, err)
		return "", err
	}

	b, err := os.ReadFile(filepath.Join(l.dir, filename))
	if err != nil {
		tracer.RecordError(span, err)
		return "", err
	}
	content := strings.TrimSpace(string(b))
	if content == "" {
		err := fmt.Errorf("framework file %s is empty", filename)
		tracer.RecordError(span, err)
		return "", err
	}

	l.mu.Lock()
	l.cache[filename] = content
	l.mu.Unlock()
	return content, nil
}

// Cached 已缓存的模板数量
func (l *FrameworkLoader) Cached() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.cache)
}
