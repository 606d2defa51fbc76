// Package entity 定义领域实体
package entity

import (
	"strings"
)

// Mode 目标模态
type Mode string

const (
	ModeText    Mode = "text"
	ModeImage   Mode = "image"
	ModeVideo   Mode = "video"
	ModeAudio   Mode = "audio"
	ModeCode    Mode = "code"
	ModeUnknown Mode = ""
)

// Modes 所有受支持的模态，顺序即对外展示顺序
var Modes = []Mode{ModeText, ModeImage, ModeVideo, ModeAudio, ModeCode}

// ParseMode 大小写不敏感地解析模态，无法识别时返回 ModeUnknown
func ParseMode(s string) Mode {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if m.Known() {
		return m
	}
	return ModeUnknown
}

// Known 是否为受支持的模态
func (m Mode) Known() bool {
	switch m {
	case ModeText, ModeImage, ModeVideo, ModeAudio, ModeCode:
		return true
	default:
		return false
	}
}

// Label 用于提示词中的模态名称（首字母大写）
func (m Mode) Label() string {
	if m == ModeUnknown {
		return "Unknown"
	}
	return strings.ToUpper(string(m[:1])) + string(m[1:])
}

// Modality 模型规格表使用的模态键，如 text-to-image
func (m Mode) Modality() string {
	if !m.Known() {
		return ""
	}
	return "text-to-" + string(m)
}

// Options 用户在界面上选择的模态参数，值统一为字符串
type Options map[string]string

// Get 返回去除首尾空白后的值
func (o Options) Get(key string) string {
	if o == nil {
		return ""
	}
	return strings.TrimSpace(o[key])
}

// 常用选项键
const (
	OptContentTone       = "contentTone"
	OptPOV               = "pov"
	OptResolution        = "resolution"
	OptImageStyle        = "imageStyle"
	OptLighting          = "lighting"
	OptFraming           = "framing"
	OptCameraAngle       = "cameraAngle"
	OptAspectRatio       = "aspectRatio"
	OptAdditionalDetails = "additionalDetails"
	OptOutputFormat      = "outputFormat"
	OptAudioType         = "audioType"
	OptAudioVibe         = "audioVibe"
	OptCodeLanguage      = "codeLanguage"
	OptCodeTask          = "codeTask"
	OptOutputStructure   = "outputStructure"
	OptQuality           = "quality"
	OptNegativePrompt    = "negativePrompt"
	OptDuration          = "duration"
)

// PromptRequest 一次提示词增强请求
type PromptRequest struct {
	UserPrompt string
	Mode       Mode
	// RawMode 调用方传入的原始模态字符串
	RawMode string
	Options Options
	// ModelKey 非空时对增强结果再做目标模型适配
	ModelKey string
}
