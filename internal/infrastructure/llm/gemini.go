package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"jenga-prompts-api/internal/workflow/port"
	"jenga-prompts-api/pkg/metrics"
	"jenga-prompts-api/pkg/tracer"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	maxErrorBody         = 4 << 10
)

// GeminiConfig Gemini REST 客户端配置
type GeminiConfig struct {
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  time.Duration
}

// GeminiClient 直接调用 Gemini generateContent / streamGenerateContent
type GeminiClient struct {
	provider   string
	apiKey     string
	baseURL    string
	model      string
	timeout    time.Duration
	httpClient *http.Client
}

func NewGeminiClient(cfg GeminiConfig, httpClient *http.Client) *GeminiClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultGeminiBaseURL
	}
	provider := cfg.Provider
	if provider == "" {
		provider = "gemini"
	}
	return &GeminiClient{
		provider:   provider,
		apiKey:     cfg.APIKey,
		baseURL:    base,
		model:      cfg.Model,
		timeout:    cfg.Timeout,
		httpClient: httpClient,
	}
}

func (c *GeminiClient) Provider() string { return c.provider }
func (c *GeminiClient) Model() string    { return c.model }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature float64 `json:"temperature,omitempty"`
	TopP        float64 `json:"topP,omitempty"`
	TopK        int     `json:"topK,omitempty"`
}

type geminiRequest struct {
	Contents          []geminiContent        `json:"contents"`
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

// GeminiResponse generateContent 的响应（流式每个事件同构）
type GeminiResponse struct {
	Candidates []struct {
		Content *struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// ExtractText 校验并取出首个候选的文本：
// 无候选且带拦截原因 -> *BlockedError；无候选 -> ErrMalformedResponse；文本为空 -> ErrEmptyResponse
func ExtractText(resp *GeminiResponse) (string, error) {
	if resp == nil {
		return "", ErrMalformedResponse
	}
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", &BlockedError{Reason: resp.PromptFeedback.BlockReason}
		}
		return "", ErrMalformedResponse
	}
	text := strings.TrimSpace(candidateText(resp))
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func candidateText(resp *GeminiResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}

func (c *GeminiClient) Generate(ctx context.Context, req port.ChatRequest) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	ctx, span := tracer.Start(ctx, "llm.gemini.generate")
	defer span.End()
	span.SetAttributes(attribute.String("llm.model", c.model))

	start := time.Now()
	text, err := c.generate(ctx, req)
	c.observe(start, err)
	tracer.RecordError(span, err)
	return text, err
}

func (c *GeminiClient) generate(ctx context.Context, req port.ChatRequest) (string, error) {
	resp, err := c.post(ctx, "generateContent", nil, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out GeminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if ctx.Err() != nil {
			return "", classify(ctx.Err())
		}
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return ExtractText(&out)
}

func (c *GeminiClient) Stream(ctx context.Context, req port.ChatRequest) (port.ChunkStream, error) {
	ctx, cancel := c.withTimeout(ctx)

	start := time.Now()
	resp, err := c.post(ctx, "streamGenerateContent", url.Values{"alt": {"sse"}}, req)
	if err != nil {
		c.observe(start, err)
		cancel()
		return nil, err
	}
	return newSSEStream(resp.Body, cancel, func(err error) { c.observe(start, err) }), nil
}

// post 发送请求；非 2xx 时读取部分响应体并返回类型化错误
func (c *GeminiClient) post(ctx context.Context, method string, query url.Values, req port.ChatRequest) (*http.Response, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	payload := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: req.UserContent}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature: req.Temperature,
			TopP:        req.TopP,
			TopK:        req.TopK,
		},
	}
	if req.SystemInstruction != "" {
		payload.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.SystemInstruction}}}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal gemini request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:%s", c.baseURL, url.PathEscape(c.model), method)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build gemini request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, classify(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, statusError(resp.StatusCode, string(b))
	}
	return resp, nil
}

func (c *GeminiClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *GeminiClient) observe(start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.LLMCallTotal.WithLabelValues(c.provider, c.model, status).Inc()
	metrics.LLMCallDuration.WithLabelValues(c.provider, c.model).Observe(time.Since(start).Seconds())
}
