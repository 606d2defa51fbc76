package strategy

import (
	"strings"

	"jenga-prompts-api/internal/domain/entity"
	"jenga-prompts-api/internal/workflow/modelspec"
)

// Placeholder 格式模板中代表用户场景描述的占位符
const Placeholder = "[scene description]"

// TemplateFormat 模板 + 参数标签，适用于 Midjourney 一类模型
type TemplateFormat struct{}

func (TemplateFormat) Name() string { return "template_format" }

func (TemplateFormat) Transform(prompt string, spec modelspec.ModelSpec, opts entity.TransformOptions) Result {
	var applied []string
	out := prompt

	if strings.Contains(spec.PromptFormat, Placeholder) {
		out = strings.Replace(spec.PromptFormat, Placeholder, prompt, 1)
		applied = append(applied, "Applied format template")
	}

	if len(spec.RequiredParameters) > 0 {
		out = out + " " + strings.Join(spec.RequiredParameters, " ")
		applied = append(applied, "Added required parameters")
	}

	if style := strings.TrimSpace(opts.Style); style != "" && len(spec.StyleKeywords) > 0 {
		out = out + " --style " + style
		applied = append(applied, "Applied style keywords")
	}

	return Result{Prompt: out, Enhancements: applied}
}
