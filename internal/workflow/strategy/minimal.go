package strategy

import (
	"jenga-prompts-api/internal/domain/entity"
	"jenga-prompts-api/internal/workflow/modelspec"
)

// Minimal 只做质量增强，适用于自带提示词改写的模型（如 DALL-E）
type Minimal struct{}

func (Minimal) Name() string { return "minimal" }

func (Minimal) Transform(prompt string, spec modelspec.ModelSpec, opts entity.TransformOptions) Result {
	out, ok := applyQuality(prompt, spec, opts.Quality)
	if !ok {
		return Result{Prompt: out}
	}
	return Result{Prompt: out, Enhancements: []string{"Applied subtle quality enhancement"}}
}
