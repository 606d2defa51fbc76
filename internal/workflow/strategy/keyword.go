package strategy

import (
	"strings"

	"jenga-prompts-api/internal/domain/entity"
	"jenga-prompts-api/internal/workflow/modelspec"
)

// KeywordBoosted 关键词增强，适用于扩散类模型
type KeywordBoosted struct{}

func (KeywordBoosted) Name() string { return "keyword_boosted" }

func (KeywordBoosted) Transform(prompt string, spec modelspec.ModelSpec, opts entity.TransformOptions) Result {
	var applied []string
	out := prompt

	if len(spec.RecommendedBoosters) > 0 {
		out = strings.Join(spec.RecommendedBoosters, ", ") + ", " + out
		applied = append(applied, "Added boosters")
	}

	var ok bool
	if out, ok = applyQuality(out, spec, opts.Quality); ok {
		applied = append(applied, qualityLabel(opts.Quality))
	}

	if spec.RequiredBoilerplate != "" {
		out = out + ", " + spec.RequiredBoilerplate
		applied = append(applied, "Added required boilerplate")
	}

	return Result{Prompt: out, Enhancements: applied}
}
