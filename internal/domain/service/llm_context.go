// Package service 定义跨层共享的领域服务约定
package service

import (
	"context"
	"strings"
)

type llmCtxKey string

const (
	llmCtxKeyOperation llmCtxKey = "llm_operation"
	llmCtxKeyProvider  llmCtxKey = "llm_provider"
)

// 调用场景，用作指标与追踪的标签
const (
	OperationEnhance       = "enhance"
	OperationEnhanceStream = "enhance_stream"
)

const unknown = "unknown"

// WithLLMCall 在 context 中标记本次 LLM 调用的场景与提供商
func WithLLMCall(ctx context.Context, operation, provider string) context.Context {
	if op := strings.TrimSpace(operation); op != "" {
		ctx = context.WithValue(ctx, llmCtxKeyOperation, op)
	}
	if p := strings.TrimSpace(provider); p != "" {
		ctx = context.WithValue(ctx, llmCtxKeyProvider, p)
	}
	return ctx
}

func OperationFromContext(ctx context.Context) string {
	return stringValue(ctx, llmCtxKeyOperation)
}

func ProviderFromContext(ctx context.Context) string {
	return stringValue(ctx, llmCtxKeyProvider)
}

func stringValue(ctx context.Context, key llmCtxKey) string {
	if ctx == nil {
		return unknown
	}
	s, ok := ctx.Value(key).(string)
	if !ok || s == "" {
		return unknown
	}
	return s
}
