package entity

import "strings"

// Quality 质量档位
type Quality string

const (
	QualityLow    Quality = "low"
	QualityMedium Quality = "medium"
	QualityHigh   Quality = "high"
)

// ParseQuality 解析质量档位，无法识别时视为未指定
func ParseQuality(s string) Quality {
	switch q := Quality(strings.ToLower(strings.TrimSpace(s))); q {
	case QualityLow, QualityMedium, QualityHigh:
		return q
	default:
		return ""
	}
}

// TransformOptions 目标模型适配选项
type TransformOptions struct {
	Resolution     string  `json:"resolution,omitempty"`
	AspectRatio    string  `json:"aspectRatio,omitempty"`
	Duration       int     `json:"duration,omitempty"`
	NegativePrompt string  `json:"negativePrompt,omitempty"`
	Style          string  `json:"style,omitempty"`
	Quality        Quality `json:"quality,omitempty"`
}

// TransformMetadata 适配过程元数据
type TransformMetadata struct {
	OriginalTokenEstimate int      `json:"originalTokenEstimate"`
	FinalTokenEstimate    int      `json:"finalTokenEstimate"`
	Truncated             bool     `json:"truncated"`
	EnhancementsApplied   []string `json:"enhancementsApplied"`
}

// TransformedPrompt 适配后的提示词
type TransformedPrompt struct {
	Prompt   string            `json:"prompt"`
	Params   map[string]any    `json:"params"`
	Metadata TransformMetadata `json:"metadata"`
}

// ValidationResult 提示词校验结果，仅作参考，不阻断请求
type ValidationResult struct {
	Valid       bool     `json:"valid"`
	Warnings    []string `json:"warnings"`
	Suggestions []string `json:"suggestions"`
}
