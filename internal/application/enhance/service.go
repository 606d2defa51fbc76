// Package enhance 编排一次提示词增强：校验 -> 组装指令 -> 调用 LLM -> 格式化响应
package enhance

import (
	"context"
	"strconv"
	"strings"
	"time"

	"jenga-prompts-api/internal/config"
	"jenga-prompts-api/internal/domain/entity"
	"jenga-prompts-api/internal/domain/service"
	"jenga-prompts-api/internal/workflow/modelspec"
	"jenga-prompts-api/internal/workflow/port"
	"jenga-prompts-api/internal/workflow/prompt"
	"jenga-prompts-api/internal/workflow/transform"
	apperrors "jenga-prompts-api/pkg/errors"
	"jenga-prompts-api/pkg/logger"
	"jenga-prompts-api/pkg/metrics"
)

// Response 非流式增强结果
type Response struct {
	Prompt      string                    `json:"prompt"`
	Parameters  map[string]string         `json:"parameters,omitempty"`
	Transformed *entity.TransformedPrompt `json:"transformed,omitempty"`
}

// Service 提示词增强应用服务
type Service struct {
	builder     *prompt.Builder
	transformer *transform.Transformer
	clients     port.ChatClientFactory
	llm         config.LLMConfig
}

func NewService(builder *prompt.Builder, transformer *transform.Transformer, clients port.ChatClientFactory, cfg *config.Config) *Service {
	return &Service{
		builder:     builder,
		transformer: transformer,
		clients:     clients,
		llm:         cfg.LLM,
	}
}

// BuildPrompt 组装发给 LLM 的完整指令文本
func (s *Service) BuildPrompt(ctx context.Context, req entity.PromptRequest) string {
	return s.builder.Build(ctx, req.Mode, req.Options, strings.TrimSpace(req.UserPrompt))
}

// Enhance 非流式增强；userPrompt 为空时在任何模型调用之前返回错误
func (s *Service) Enhance(ctx context.Context, req entity.PromptRequest) (resp *Response, err error) {
	start := time.Now()
	defer func() { observe(req.Mode, false, start, err) }()

	if err := validate(req); err != nil {
		return nil, err
	}

	// 目标模型不可用时不消耗 LLM 调用
	var target transform.Target
	if req.ModelKey != "" {
		if target, err = s.transformer.Resolve(req.Mode, req.ModelKey); err != nil {
			return nil, toAppError(err)
		}
	}

	client, err := s.clients.Get(ctx, "")
	if err != nil {
		return nil, toAppError(err)
	}
	ctx = service.WithLLMCall(ctx, service.OperationEnhance, client.Provider())
	ctx = logger.WithContext(ctx, logger.ModeKey, modeLabel(req.Mode))
	if req.ModelKey != "" {
		ctx = logger.WithContext(ctx, logger.ModelKey, req.ModelKey)
	}

	text, err := client.Generate(ctx, s.chatRequest(ctx, client, req))
	if err != nil {
		logger.Error(ctx, "prompt enhancement failed", err, "provider", client.Provider())
		return nil, toAppError(err)
	}

	resp = formatResponse(text, req)
	if req.ModelKey != "" {
		resp.Transformed = s.transformer.Apply(ctx, target, transform.Args{
			UserPrompt: text,
			Mode:       req.Mode,
			ModelKey:   req.ModelKey,
			Options:    transformOptions(req.Options),
		})
	}

	args := []any{"provider", client.Provider(), "duration_ms", time.Since(start).Milliseconds()}
	if resp.Transformed != nil {
		args = append(args, "truncated", resp.Transformed.Metadata.Truncated)
	}
	logger.Info(ctx, "prompt enhanced", args...)
	return resp, nil
}

// EnhanceStream 流式增强；返回前出现的错误尚未写出任何内容，之后的错误由 cb.OnError 处理
func (s *Service) EnhanceStream(ctx context.Context, req entity.PromptRequest, cb StreamCallbacks) (full string, err error) {
	start := time.Now()
	defer func() { observe(req.Mode, true, start, err) }()

	if err := validate(req); err != nil {
		return "", err
	}

	client, err := s.clients.Get(ctx, "")
	if err != nil {
		return "", toAppError(err)
	}
	ctx = service.WithLLMCall(ctx, service.OperationEnhanceStream, client.Provider())
	ctx = logger.WithContext(ctx, logger.ModeKey, modeLabel(req.Mode))

	stream, err := client.Stream(ctx, s.chatRequest(ctx, client, req))
	if err != nil {
		logger.Error(ctx, "failed to open enhancement stream", err, "provider", client.Provider())
		return "", toAppError(err)
	}

	full, err = Relay(ctx, stream, cb)
	if err != nil {
		return full, toAppError(err)
	}
	logger.Info(ctx, "prompt enhancement streamed",
		"provider", client.Provider(),
		"duration_ms", time.Since(start).Milliseconds(),
		"chars", len(full),
	)
	return full, nil
}

// Transform 对已有提示词做目标模型适配
func (s *Service) Transform(ctx context.Context, args transform.Args) (*entity.TransformedPrompt, error) {
	if strings.TrimSpace(args.UserPrompt) == "" {
		return nil, apperrors.ErrMissingUserPrompt
	}
	out, err := s.transformer.Transform(ctx, args)
	if err != nil {
		return nil, toAppError(err)
	}
	return out, nil
}

// Validate 仅作参考的校验
func (s *Service) Validate(promptText, modelKey string, mode entity.Mode) entity.ValidationResult {
	return s.transformer.Validate(promptText, modelKey, mode)
}

// Models 列出模态下可用的目标模型
func (s *Service) Models(mode entity.Mode) []modelspec.ModelSpec {
	return s.transformer.Models(mode)
}

func (s *Service) chatRequest(ctx context.Context, client port.ChatClient, req entity.PromptRequest) port.ChatRequest {
	p, _ := s.llm.Provider(client.Provider())
	system := p.SystemInstruction
	if system == "" {
		system = config.DefaultSystemInstruction
	}
	return port.ChatRequest{
		SystemInstruction: system,
		UserContent:       s.BuildPrompt(ctx, req),
		Temperature:       p.Temperature,
		TopP:              p.TopP,
		TopK:              p.TopK,
	}
}

func validate(req entity.PromptRequest) error {
	if strings.TrimSpace(req.UserPrompt) == "" {
		return apperrors.ErrMissingUserPrompt
	}
	return nil
}

// formatResponse 选择了 Detailed JSON 输出结构时附带请求参数
func formatResponse(text string, req entity.PromptRequest) *Response {
	resp := &Response{Prompt: text}
	if !isDetailedJSON(req.Options.Get(entity.OptOutputStructure)) {
		return resp
	}

	params := map[string]string{"mode": req.RawMode}
	for k, v := range req.Options {
		params[k] = v
	}
	if strings.TrimSpace(params[entity.OptAdditionalDetails]) == "" {
		delete(params, entity.OptAdditionalDetails)
	}
	resp.Parameters = params
	return resp
}

func isDetailedJSON(v string) bool {
	return strings.EqualFold(v, "Detailed JSON") || strings.EqualFold(v, "detailed_json")
}

func transformOptions(opts entity.Options) entity.TransformOptions {
	return entity.TransformOptions{
		Resolution:     opts.Get(entity.OptResolution),
		AspectRatio:    opts.Get(entity.OptAspectRatio),
		Duration:       parseDuration(opts.Get(entity.OptDuration)),
		NegativePrompt: opts.Get(entity.OptNegativePrompt),
		Style:          opts.Get(entity.OptImageStyle),
		Quality:        entity.ParseQuality(opts.Get(entity.OptQuality)),
	}
}

// parseDuration 无法解析或非正数时返回 0，由规格默认值兜底
func parseDuration(v string) int {
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func modeLabel(m entity.Mode) string {
	if m == entity.ModeUnknown {
		return "unknown"
	}
	return string(m)
}

func observe(mode entity.Mode, stream bool, start time.Time, err error) {
	streamLabel := "false"
	if stream {
		streamLabel = "true"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.EnhancementTotal.WithLabelValues(modeLabel(mode), streamLabel, status).Inc()
	metrics.EnhancementDuration.WithLabelValues(modeLabel(mode), streamLabel).Observe(time.Since(start).Seconds())
}
