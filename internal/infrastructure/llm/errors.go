// Package llm 提供 LLM 提供商客户端（Gemini REST 与 Eino OpenAI 兼容模型）
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
)

var (
	// ErrBlockedContent 请求被提供商的安全策略拦截
	ErrBlockedContent = errors.New("content blocked by AI service")
	// ErrEmptyResponse 有候选结果但文本为空
	ErrEmptyResponse = errors.New("empty response from AI service")
	// ErrMalformedResponse 响应结构缺失必要字段或无法解析
	ErrMalformedResponse = errors.New("invalid response from AI service")
	// ErrUpstreamTimeout 出站调用超时
	ErrUpstreamTimeout = errors.New("AI service request timed out")
	// ErrUpstreamUnavailable 连接被拒绝、DNS 失败或提供商返回 503
	ErrUpstreamUnavailable = errors.New("AI service unavailable")
	// ErrMissingAPIKey 提供商未配置凭证
	ErrMissingAPIKey = errors.New("AI service API key not configured")
)

// BlockedError 携带提供商给出的拦截原因
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return "Request blocked: " + e.Reason
}

func (e *BlockedError) Is(target error) bool {
	return target == ErrBlockedContent
}

// ProviderError 提供商返回的其它非 2xx 响应
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 512 {
		body = body[:512]
	}
	return fmt.Sprintf("AI service returned status %d: %s", e.StatusCode, body)
}

// statusError 将非 2xx 状态码映射为类型化错误
func statusError(code int, body string) error {
	switch code {
	case http.StatusServiceUnavailable, http.StatusBadGateway:
		return fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, code)
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return fmt.Errorf("%w: status %d", ErrUpstreamTimeout, code)
	default:
		return &ProviderError{StatusCode: code, Body: body}
	}
}

// classify 将传输层错误归类；调用方主动取消时原样返回
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUpstreamTimeout) || errors.Is(err, ErrUpstreamUnavailable) ||
		errors.Is(err, ErrBlockedContent) || errors.Is(err, ErrEmptyResponse) || errors.Is(err, ErrMalformedResponse) {
		return err
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) || errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	// eino openai 适配器只暴露错误文本
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "status code: 503"), strings.Contains(msg, "service unavailable"),
		strings.Contains(msg, "connection refused"), strings.Contains(msg, "no such host"):
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	case strings.Contains(msg, "status code: 504"), strings.Contains(msg, "timeout"):
		return fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
	}
	return err
}
