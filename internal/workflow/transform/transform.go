// Package transform 将增强后的提示词适配到具体目标模型
package transform

import (
	"context"
	"fmt"
	"strings"

	"jenga-prompts-api/internal/domain/entity"
	"jenga-prompts-api/internal/workflow/modelspec"
	"jenga-prompts-api/internal/workflow/node"
	"jenga-prompts-api/internal/workflow/strategy"
	"jenga-prompts-api/pkg/logger"
	"jenga-prompts-api/pkg/metrics"
)

// DefaultNegativePrompt 规格要求反向提示词而调用方未提供时使用
const DefaultNegativePrompt = "blurry, low quality, deformed, artifacts, poorly drawn, distorted"

// Args 适配参数
type Args struct {
	UserPrompt string
	Mode       entity.Mode
	ModelKey   string
	Options    entity.TransformOptions
}

// Transformer 规格查询 -> 截断 -> 策略增强 -> 参数推导
type Transformer struct {
	specs    *modelspec.Registry
	selector *strategy.Selector
}

func NewTransformer(specs *modelspec.Registry, selector *strategy.Selector) *Transformer {
	return &Transformer{specs: specs, selector: selector}
}

// Target 解析后的目标模型：规格与增强策略
type Target struct {
	Spec     modelspec.ModelSpec
	Strategy strategy.Strategy
	// Matched 为 false 表示策略来自回退
	Matched bool
}

// Resolve 查询规格并选择策略，不做任何文本处理；规格缺失时返回 modelspec.ErrSpecNotFound
func (t *Transformer) Resolve(mode entity.Mode, modelKey string) (Target, error) {
	spec, err := t.specs.Lookup(mode.Modality(), modelKey)
	if err != nil {
		return Target{}, err
	}
	st, matched, err := t.selector.Select(modelKey, spec.Strategy)
	if err != nil {
		return Target{}, err
	}
	return Target{Spec: spec, Strategy: st, Matched: matched}, nil
}

// Transform 规格缺失时在任何截断或增强之前返回 modelspec.ErrSpecNotFound
func (t *Transformer) Transform(ctx context.Context, args Args) (*entity.TransformedPrompt, error) {
	target, err := t.Resolve(args.Mode, args.ModelKey)
	if err != nil {
		return nil, err
	}
	return t.Apply(ctx, target, args), nil
}

// Apply 对已解析的目标模型执行截断、策略增强与参数推导
func (t *Transformer) Apply(ctx context.Context, target Target, args Args) *entity.TransformedPrompt {
	spec, st := target.Spec, target.Strategy
	if !target.Matched {
		logger.Warn(ctx, "no strategy registered for model, using fallback",
			"model_key", args.ModelKey,
			"strategy", st.Name(),
		)
	}

	original := node.EstimateTokens(args.UserPrompt)
	text, truncated := node.TruncateByTokens(args.UserPrompt, spec.TokenLimit)
	if truncated {
		metrics.PromptTruncationsTotal.WithLabelValues(args.ModelKey).Inc()
		logger.Debug(ctx, "prompt truncated to model token limit",
			"model_key", args.ModelKey,
			"original_tokens", original,
			"token_limit", spec.TokenLimit,
		)
	}

	res := st.Transform(text, spec, args.Options)
	enhancements := res.Enhancements
	if enhancements == nil {
		enhancements = []string{}
	}

	return &entity.TransformedPrompt{
		Prompt: res.Prompt,
		Params: buildParams(args, spec),
		Metadata: entity.TransformMetadata{
			OriginalTokenEstimate: original,
			FinalTokenEstimate:    node.EstimateTokens(res.Prompt),
			Truncated:             truncated,
			EnhancementsApplied:   enhancements,
		},
	}
}

func buildParams(args Args, spec modelspec.ModelSpec) map[string]any {
	opts := args.Options
	params := map[string]any{
		"engine":     args.ModelKey,
		"media_type": string(args.Mode),
	}
	if res := firstNonEmpty(opts.Resolution, spec.DefaultResolution); res != "" {
		params["resolution"] = res
	}

	switch args.Mode {
	case entity.ModeVideo:
		d := opts.Duration
		if d <= 0 {
			d = spec.MaxDuration
		}
		if d > 0 {
			params["duration_sec"] = d
		}
	case entity.ModeImage:
		if ar := firstNonEmpty(opts.AspectRatio, spec.DefaultAspectRatio); ar != "" {
			params["aspect_ratio"] = ar
		}
	}

	if spec.NegativePromptRequired {
		params["negative_prompt"] = firstNonEmpty(opts.NegativePrompt, DefaultNegativePrompt)
	}
	return params
}

// Validate 仅作参考的校验，不会失败；规格缺失时返回 valid=false
func (t *Transformer) Validate(prompt, modelKey string, mode entity.Mode) entity.ValidationResult {
	spec, err := t.specs.Lookup(mode.Modality(), modelKey)
	if err != nil {
		return entity.ValidationResult{
			Valid:       false,
			Warnings:    []string{"Model specification not found."},
			Suggestions: []string{"Please select a valid model."},
		}
	}

	warnings := []string{}
	suggestions := []string{}

	tokens := node.EstimateTokens(prompt)
	if tokens > spec.TokenLimit {
		warnings = append(warnings, fmt.Sprintf(
			"Prompt is ~%d tokens, exceeding the ~%d token limit for %s.", tokens, spec.TokenLimit, spec.DisplayName))
		suggestions = append(suggestions, "Consider shortening your prompt or being more concise.")
	}
	if spec.NegativePromptRequired {
		suggestions = append(suggestions, fmt.Sprintf(
			"%s works best with negative prompts to avoid common issues.", spec.DisplayName))
	}
	if mode == entity.ModeVideo && spec.MaxDuration > 0 {
		suggestions = append(suggestions, fmt.Sprintf(
			"%s can generate videos up to %d seconds long.", spec.DisplayName, spec.MaxDuration))
	}
	if len(spec.StyleKeywords) > 0 {
		kw := spec.StyleKeywords
		if len(kw) > 3 {
			kw = kw[:3]
		}
		suggestions = append(suggestions, "Consider adding style keywords: "+strings.Join(kw, ", "))
	}

	return entity.ValidationResult{
		Valid:       len(warnings) == 0,
		Warnings:    warnings,
		Suggestions: suggestions,
	}
}

// Models 列出某模态下可用的目标模型
func (t *Transformer) Models(mode entity.Mode) []modelspec.ModelSpec {
	return t.specs.List(mode.Modality())
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
