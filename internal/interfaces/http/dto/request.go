package dto

import (
	"encoding/json"
	"strconv"
	"strings"

	"jenga-prompts-api/internal/domain/entity"
	"jenga-prompts-api/internal/workflow/transform"
)

// EnhanceRequest 提示词增强请求
type EnhanceRequest struct {
	UserPrompt string         `json:"userPrompt"`
	Mode       string         `json:"mode"`
	Options    map[string]any `json:"options"`
	ModelKey   string         `json:"modelKey"`
}

// ToEntity 转换为领域请求；mode 大小写不敏感
func (r EnhanceRequest) ToEntity() entity.PromptRequest {
	return entity.PromptRequest{
		UserPrompt: r.UserPrompt,
		Mode:       entity.ParseMode(r.Mode),
		RawMode:    r.Mode,
		Options:    NormalizeOptions(r.Options),
		ModelKey:   strings.TrimSpace(r.ModelKey),
	}
}

// NormalizeOptions 将字符串、数字和布尔值统一为字符串；null 被忽略
func NormalizeOptions(in map[string]any) entity.Options {
	out := make(entity.Options, len(in))
	for k, v := range in {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			out[k] = val
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(val)
		case json.Number:
			out[k] = val.String()
		default:
			b, err := json.Marshal(val)
			if err != nil {
				continue
			}
			out[k] = string(b)
		}
	}
	return out
}

// TransformOptions 目标模型适配选项
type TransformOptions struct {
	Resolution     string `json:"resolution"`
	AspectRatio    string `json:"aspectRatio"`
	Duration       int    `json:"duration"`
	NegativePrompt string `json:"negativePrompt"`
	Style          string `json:"style"`
	Quality        string `json:"quality"`
}

// TransformRequest 目标模型适配请求
type TransformRequest struct {
	UserPrompt string           `json:"userPrompt"`
	Mode       string           `json:"mode"`
	ModelKey   string           `json:"modelKey"`
	Options    TransformOptions `json:"options"`
}

func (r TransformRequest) ToArgs() transform.Args {
	return transform.Args{
		UserPrompt: r.UserPrompt,
		Mode:       entity.ParseMode(r.Mode),
		ModelKey:   strings.TrimSpace(r.ModelKey),
		Options: entity.TransformOptions{
			Resolution:     r.Options.Resolution,
			AspectRatio:    r.Options.AspectRatio,
			Duration:       r.Options.Duration,
			NegativePrompt: r.Options.NegativePrompt,
			Style:          r.Options.Style,
			Quality:        entity.ParseQuality(r.Options.Quality),
		},
	}
}

// ValidateRequest 提示词校验请求
type ValidateRequest struct {
	Prompt   string `json:"prompt"`
	ModelKey string `json:"modelKey"`
	Mode     string `json:"mode"`
}
