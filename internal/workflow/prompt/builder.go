// Package prompt 按模态组装发给 LLM 的指令文本
package prompt

import (
	"context"
	"strings"

	"jenga-prompts-api/internal/domain/entity"
)

// BaseInstruction 所有模态共用的前置说明
const BaseInstruction = `Your task is to take the user's basic idea and transform it into a "master prompt" optimized for a specific AI modality. The final output should ONLY be the enhanced prompt itself, with no additional text, commentary, or markdown formatting unless specified by the output format.`

// GenericInstruction 未知模态的兜底指令
const GenericInstruction = "Please enhance this prompt to be more effective."

// Builder 组装最终提示词
type Builder struct {
	templates TemplateSource
}

// NewBuilder templates 可为 nil，此时始终使用内置模板
func NewBuilder(templates TemplateSource) *Builder {
	return &Builder{templates: templates}
}

// Build 返回 BaseInstruction + 模态指令块；用户的核心想法在结果中恰好出现一次
func (b *Builder) Build(ctx context.Context, mode entity.Mode, opts entity.Options, userPrompt string) string {
	return BaseInstruction + "\n\n" + b.modeSection(ctx, mode, opts, userPrompt)
}

func (b *Builder) modeSection(ctx context.Context, mode entity.Mode, opts entity.Options, userPrompt string) string {
	coreIdea := coreIdeaLine(userPrompt)

	block, ok := blockFor(mode)
	if !ok {
		return coreIdea + "\n\n" + GenericInstruction
	}
	directives := renderDirectives(block.directives, opts)

	if framework, ok := b.framework(ctx, mode); ok {
		parts := []string{framework, coreIdea}
		if directives != "" {
			parts = append(parts, directives)
		}
		return strings.Join(parts, "\n\n")
	}

	lines := []string{
		"**Modality: " + block.modality + "**",
		"**Task:** " + block.task,
	}
	if directives != "" {
		lines = append(lines, directives)
	}
	if block.requirements != "" {
		lines = append(lines, "**Requirements:** "+block.requirements)
	}
	lines = append(lines, coreIdea)
	return strings.Join(lines, "\n")
}

func (b *Builder) framework(ctx context.Context, mode entity.Mode) (string, bool) {
	if b == nil || b.templates == nil {
		return "", false
	}
	return b.templates.Load(ctx, FrameworkFile(mode))
}

func coreIdeaLine(userPrompt string) string {
	return `**Core Idea:** "` + userPrompt + `"`
}
