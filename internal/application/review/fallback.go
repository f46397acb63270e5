package review

import (
	"strings"
	"unicode/utf8"

	"novel-review-api/internal/domain/entity"
)

// maxDetectedTitleRunes 标题启发式截取上限
const maxDetectedTitleRunes = 30

// DetectTitle 从正文推测作品标题：
// 优先取「」或《》括起的首个片段，否则取首个非空行的前缀。
// 纯启发式，仅用于设定提取失败时的兜底设定集
func DetectTitle(text string) string {
	for _, pair := range [][2]string{{"《", "》"}, {"「", "」"}} {
		start := strings.Index(text, pair[0])
		if start < 0 {
			continue
		}
		rest := text[start+len(pair[0]):]
		end := strings.Index(rest, pair[1])
		if end <= 0 {
			continue
		}
		title := strings.TrimSpace(rest[:end])
		if title != "" && utf8.RuneCountInString(title) <= maxDetectedTitleRunes {
			return title
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		runes := []rune(line)
		if len(runes) > maxDetectedTitleRunes {
			runes = runes[:maxDetectedTitleRunes]
		}
		return string(runes)
	}
	return "未命名作品"
}

// FallbackSettingModel 设定提取失败时的最小可用设定集，
// 标题来自正文启发式，其余字段为空，后续检查按无既有设定处理
func FallbackSettingModel(text string) *entity.SettingModel {
	return &entity.SettingModel{
		Title:   DetectTitle(text),
		Summary: "设定提取失败，使用最小兜底设定集，后续检查未参照既有设定。",
	}
}
