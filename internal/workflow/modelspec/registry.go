// Package modelspec 提供目标生成模型的规格表（只读）
package modelspec

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed specs/model_specs.yaml
var specsFS embed.FS

// DefaultTokenLimit 规格未声明 token_limit 时的上限
const DefaultTokenLimit = 400

// ErrSpecNotFound 规格表中不存在 (modality, modelKey)
var ErrSpecNotFound = errors.New("model specification not found")

// NotFoundError 携带未命中的键
type NotFoundError struct {
	Modality string
	ModelKey string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("model specification not found for key: %s in modality: %s", e.ModelKey, e.Modality)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrSpecNotFound
}

// ModelSpec 目标模型规格，加载后不可变
type ModelSpec struct {
	Key                    string   `yaml:"-" json:"key"`
	Modality               string   `yaml:"-" json:"modality"`
	DisplayName            string   `yaml:"name" json:"displayName"`
	TokenLimit             int      `yaml:"token_limit" json:"tokenLimit"`
	DefaultResolution      string   `yaml:"default_resolution" json:"defaultResolution,omitempty"`
	DefaultAspectRatio     string   `yaml:"default_aspect_ratio" json:"defaultAspectRatio,omitempty"`
	MaxDuration            int      `yaml:"max_duration" json:"maxDuration,omitempty"`
	PromptFormat           string   `yaml:"prompt_format" json:"promptFormat,omitempty"`
	RequiredBoilerplate    string   `yaml:"required_boilerplate" json:"requiredBoilerplate,omitempty"`
	RequiredParameters     []string `yaml:"required_parameters" json:"requiredParameters,omitempty"`
	RecommendedBoosters    []string `yaml:"recommended_boosters" json:"recommendedBoosters,omitempty"`
	StyleKeywords          []string `yaml:"style_keywords" json:"styleKeywords,omitempty"`
	QualityBoosters        []string `yaml:"quality_boosters" json:"qualityBoosters,omitempty"`
	NegativePromptRequired bool     `yaml:"negative_prompt_required" json:"negativePromptRequired"`
	// Strategy 可选，声明增强策略名；静态映射优先
	Strategy string `yaml:"strategy" json:"strategy,omitempty"`
}

// Registry 以 (modality, modelKey) 为键的规格表，构造后只读，可并发访问
type Registry struct {
	specs map[string]map[string]ModelSpec
}

// NewRegistry 加载规格表：path 为空时使用内置数据
func NewRegistry(path string) (*Registry, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = specsFS.ReadFile("specs/model_specs.yaml")
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read model specs: %w", err)
	}
	return Parse(data)
}

// Parse 从 YAML 构建规格表
func Parse(data []byte) (*Registry, error) {
	raw := make(map[string]map[string]ModelSpec)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse model specs: %w", err)
	}

	for modality, models := range raw {
		for key, spec := range models {
			spec.Key = key
			spec.Modality = modality
			if spec.TokenLimit <= 0 {
				spec.TokenLimit = DefaultTokenLimit
			}
			if spec.DisplayName == "" {
				spec.DisplayName = key
			}
			models[key] = spec
		}
	}
	return &Registry{specs: raw}, nil
}

// Lookup 返回规格副本；不存在时返回 *NotFoundError
func (r *Registry) Lookup(modality, modelKey string) (ModelSpec, error) {
	if spec, ok := r.specs[modality][modelKey]; ok {
		return spec.clone(), nil
	}
	return ModelSpec{}, &NotFoundError{Modality: modality, ModelKey: modelKey}
}

// List 返回某个模态下的全部规格，按 key 排序
func (r *Registry) List(modality string) []ModelSpec {
	models := r.specs[modality]
	out := make([]ModelSpec, 0, len(models))
	for _, spec := range models {
		out = append(out, spec.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Modalities 返回已登记的模态
func (r *Registry) Modalities() []string {
	out := make([]string, 0, len(r.specs))
	for m := range r.specs {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// clone 拷贝切片字段，调用方修改不会影响规格表
func (s ModelSpec) clone() ModelSpec {
	s.RequiredParameters = append([]string(nil), s.RequiredParameters...)
	s.RecommendedBoosters = append([]string(nil), s.RecommendedBoosters...)
	s.StyleKeywords = append([]string(nil), s.StyleKeywords...)
	s.QualityBoosters = append([]string(nil), s.QualityBoosters...)
	return s
}
