package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/cloudwego/eino-ext/components/model/openai"

	"jenga-prompts-api/internal/config"
	"jenga-prompts-api/internal/workflow/port"
)

// 提供商协议
const (
	ProviderTypeGemini = "gemini"
	ProviderTypeOpenAI = "openai"
)

// Factory 管理多个 LLM 客户端实例
type Factory struct {
	config     *config.LLMConfig
	httpClient *http.Client
	clients    map[string]port.ChatClient
	mu         sync.RWMutex
}

// NewFactory 创建 LLM 客户端工厂
func NewFactory(cfg *config.Config) *Factory {
	return &Factory{
		config:     &cfg.LLM,
		httpClient: &http.Client{},
		clients:    make(map[string]port.ChatClient),
	}
}

// Get 获取指定名称的客户端，如果未指定则返回默认客户端
func (f *Factory) Get(ctx context.Context, name string) (port.ChatClient, error) {
	if name == "" {
		name = f.config.DefaultProvider
	}

	f.mu.RLock()
	c, ok := f.clients[name]
	f.mu.RUnlock()
	if ok {
		return c, nil
	}

	// 惰性加载
	f.mu.Lock()
	defer f.mu.Unlock()

	// 再次检查防止竞态
	if c, ok = f.clients[name]; ok {
		return c, nil
	}

	providerCfg, ok := f.config.Providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %s not found in LLM config", name)
	}
	if strings.TrimSpace(providerCfg.APIKey) == "" {
		return nil, fmt.Errorf("provider %s: %w", name, ErrMissingAPIKey)
	}

	c, err := f.build(ctx, name, providerCfg)
	if err != nil {
		return nil, err
	}
	f.clients[name] = c
	return c, nil
}

func (f *Factory) build(ctx context.Context, name string, p config.ProviderConfig) (port.ChatClient, error) {
	switch strings.ToLower(p.Type) {
	case ProviderTypeGemini, "":
		return NewGeminiClient(GeminiConfig{
			Provider: name,
			APIKey:   p.APIKey,
			BaseURL:  p.BaseURL,
			Model:    p.Model,
			Timeout:  p.Timeout,
		}, f.httpClient), nil
	case ProviderTypeOpenAI:
		cfg := &openai.ChatModelConfig{
			APIKey:      p.APIKey,
			BaseURL:     p.BaseURL,
			Model:       p.Model,
			Temperature: ptrFloat32(float32(p.Temperature)),
			TopP:        ptrFloat32(float32(p.TopP)),
			Timeout:     p.Timeout,
		}
		if p.MaxTokens > 0 {
			cfg.MaxTokens = &p.MaxTokens
		}
		chatModel, err := openai.NewChatModel(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create eino chat model for %s: %w", name, err)
		}
		return NewEinoClient(name, p.Model, p.Timeout, chatModel), nil
	default:
		return nil, fmt.Errorf("provider %s: unsupported type %q", name, p.Type)
	}
}

// Default 返回默认客户端
func (f *Factory) Default(ctx context.Context) (port.ChatClient, error) {
	return f.Get(ctx, "")
}

// Configured 提供商存在且配置了凭证
func (f *Factory) Configured(name string) bool {
	p, ok := f.config.Provider(name)
	return ok && strings.TrimSpace(p.APIKey) != ""
}

// Describe 返回提供商的协议与模型名，用于状态接口
func (f *Factory) Describe(name string) (providerName, modelName string) {
	if name == "" {
		name = f.config.DefaultProvider
	}
	p := f.config.Providers[name]
	return name, p.Model
}

func ptrFloat32(f float32) *float32 {
	return &f
}
