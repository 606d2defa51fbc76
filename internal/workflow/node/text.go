package node

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// charsPerToken 粗略估算：每 4 个字符约 1 个 token
const charsPerToken = 4

// ellipsis 截断标记
const ellipsis = "..."

// EstimateTokens 按 ceil(字符数 / 4) 估算 token 数，字符按 rune 计
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + charsPerToken - 1) / charsPerToken
}

// TruncateByTokens 将文本截断到 maxTokens 以内并追加省略号。
// 截断结果（含省略号）的估算值不超过 maxTokens；未发生实际截断时原样返回。
func TruncateByTokens(text string, maxTokens int) (string, bool) {
	if EstimateTokens(text) <= maxTokens {
		return text, false
	}
	if maxTokens <= 0 {
		return "", text != ""
	}

	budget := maxTokens*charsPerToken - utf8.RuneCountInString(ellipsis)
	cut := strings.TrimRightFunc(TruncateByRunes(text, budget), unicode.IsSpace)
	out := cut + ellipsis
	if utf8.RuneCountInString(out) >= utf8.RuneCountInString(text) {
		return text, false
	}
	return out, true
}

// TruncateByRunes 按 rune 数截断
func TruncateByRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i]
		}
		n++
	}
	return s
}
