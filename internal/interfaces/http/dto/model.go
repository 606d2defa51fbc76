package dto

import (
	"jenga-prompts-api/internal/workflow/modelspec"
)

// ModelResponse 目标模型概要
type ModelResponse struct {
	Key                    string `json:"key"`
	Name                   string `json:"name"`
	TokenLimit             int    `json:"tokenLimit"`
	DefaultResolution      string `json:"defaultResolution,omitempty"`
	DefaultAspectRatio     string `json:"defaultAspectRatio,omitempty"`
	MaxDuration            int    `json:"maxDuration,omitempty"`
	NegativePromptRequired bool   `json:"negativePromptRequired"`
	Strategy               string `json:"strategy,omitempty"`
}

// ModelListResponse 模态下的模型列表
type ModelListResponse struct {
	Mode   string          `json:"mode"`
	Models []ModelResponse `json:"models"`
}

func ToModelResponses(specs []modelspec.ModelSpec) []ModelResponse {
	out := make([]ModelResponse, 0, len(specs))
	for _, s := range specs {
		out = append(out, ModelResponse{
			Key:                    s.Key,
			Name:                   s.DisplayName,
			TokenLimit:             s.TokenLimit,
			DefaultResolution:      s.DefaultResolution,
			DefaultAspectRatio:     s.DefaultAspectRatio,
			MaxDuration:            s.MaxDuration,
			NegativePromptRequired: s.NegativePromptRequired,
			Strategy:               s.Strategy,
		})
	}
	return out
}
