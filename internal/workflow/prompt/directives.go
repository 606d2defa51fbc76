package prompt

import (
	"strings"

	"jenga-prompts-api/internal/domain/entity"
)

type directive struct {
	label  string
	key    string
	quoted bool
}

// modeBlock 模态的内置指令块
type modeBlock struct {
	modality     string
	task         string
	requirements string
	directives   []directive
}

// blockFor 五种模态各有一个指令块，未知模态返回 false
func blockFor(mode entity.Mode) (modeBlock, bool) {
	switch mode {
	case entity.ModeVideo:
		return modeBlock{
			modality:     "Video Generation",
			task:         "Write a detailed screenplay shot description for an 8-second video (150-250 words).",
			requirements: "Create a complete narrative arc with visual details about subjects, actions, environment, and cinematography.",
			directives: []directive{
				{label: "Content Tone", key: entity.OptContentTone},
				{label: "Point of View", key: entity.OptPOV},
				{label: "Quality", key: entity.OptResolution},
			},
		}, true
	case entity.ModeImage:
		return modeBlock{
			modality: "Image Generation",
			task:     "Transform concept into dense, comma-separated keywords and phrases.",
			directives: []directive{
				{label: "Style", key: entity.OptImageStyle},
				{label: "Tone & Mood", key: entity.OptContentTone},
				{label: "Lighting", key: entity.OptLighting},
				{label: "Framing", key: entity.OptFraming},
				{label: "Camera Angle", key: entity.OptCameraAngle},
				{label: "Quality", key: entity.OptResolution},
				{label: "Aspect Ratio", key: entity.OptAspectRatio},
				{label: "Additional Details", key: entity.OptAdditionalDetails, quoted: true},
			},
		}, true
	case entity.ModeText:
		return modeBlock{
			modality:     "Text Generation",
			task:         "Refine prompt for better LLM responses with clear structure and constraints.",
			requirements: "Add context, specify AI persona, provide examples if needed, set clear boundaries.",
			directives: []directive{
				{label: "Tone", key: entity.OptContentTone},
				{label: "Output Format", key: entity.OptOutputFormat},
			},
		}, true
	case entity.ModeAudio:
		return modeBlock{
			modality:     "Audio Generation",
			task:         "Create rich, descriptive audio generation prompt.",
			requirements: "Describe genre, tempo, instrumentation, vocals (music) or voice characteristics (speech) or sound environment (SFX).",
			directives: []directive{
				{label: "Audio Type", key: entity.OptAudioType},
				{label: "Vibe/Mood", key: entity.OptAudioVibe},
				{label: "Tone", key: entity.OptContentTone},
			},
		}, true
	case entity.ModeCode:
		return modeBlock{
			modality:     "Code Generation",
			task:         "Convert natural language to precise coding instruction.",
			requirements: "Be unambiguous. Specify functions, parameters, return values, and logic clearly.",
			directives: []directive{
				{label: "Language", key: entity.OptCodeLanguage},
				{label: "Task", key: entity.OptCodeTask},
			},
		}, true
	default:
		return modeBlock{}, false
	}
}

// renderDirectives 只渲染非空字段；全部为空时返回空串（不输出标题）
func renderDirectives(defs []directive, opts entity.Options) string {
	lines := make([]string, 0, len(defs)+1)
	lines = append(lines, "**Directives:**")
	for _, d := range defs {
		v := opts.Get(d.key)
		if v == "" {
			continue
		}
		if d.quoted {
			v = `"` + v + `"`
		}
		lines = append(lines, "- "+d.label+": "+v)
	}
	if len(lines) == 1 {
		return ""
	}
	return strings.Join(lines, "\n")
}
