// Package strategy 按目标模型家族改写提示词
package strategy

import (
	"fmt"
	"strings"

	"jenga-prompts-api/internal/domain/entity"
	"jenga-prompts-api/internal/workflow/modelspec"
)

// Result 改写结果
type Result struct {
	Prompt       string
	Enhancements []string
}

// Strategy 增强策略：纯函数，相同输入得到相同输出
type Strategy interface {
	Name() string
	Transform(prompt string, spec modelspec.ModelSpec, opts entity.TransformOptions) Result
}

// qualityBoosters 按质量档位选取增强词：medium 取前两个，high 取全部
func qualityBoosters(spec modelspec.ModelSpec, q entity.Quality) []string {
	switch q {
	case entity.QualityMedium:
		if len(spec.QualityBoosters) > 2 {
			return spec.QualityBoosters[:2]
		}
		return spec.QualityBoosters
	case entity.QualityHigh:
		return spec.QualityBoosters
	default:
		return nil
	}
}

// applyQuality 将质量增强词前置，未实际应用时返回 false
func applyQuality(prompt string, spec modelspec.ModelSpec, q entity.Quality) (string, bool) {
	boosters := qualityBoosters(spec, q)
	if len(boosters) == 0 {
		return prompt, false
	}
	return strings.Join(boosters, ", ") + ", " + prompt, true
}

func qualityLabel(q entity.Quality) string {
	return fmt.Sprintf("Applied %s quality boosters", q)
}
