package ai

import (
	"fmt"
	"strings"
)

// 翻译指令：要求严格的四段式输出（标题、摘要、三条要点）
const systemPrompt = `Output ONLY:
标题：<Chinese title>
摘要：<2-3 Chinese sentences>
要点：
- <bullet 1>
- <bullet 2>
- <bullet 3>`

// 要点不足时的占位文案
const placeholderBullet = "细节待补充"

// buildUserText 构造发送给后端的用户消息
func buildUserText(title, description, sourceName string) string {
	return fmt.Sprintf("来源：%s\n标题：%s\n描述：%s", sourceName, title, strings.TrimSpace(description))
}

// parseStructuredReply 解析四段式回复，返回标题与拼接了要点的摘要。
// 要点不足3条时用占位文案补齐到恰好3条。
func parseStructuredReply(text string) (string, string) {
	var title string
	var summaryParts []string
	var bullets []string

	section := ""
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "标题："):
			title = strings.TrimSpace(strings.TrimPrefix(line, "标题："))
		case strings.HasPrefix(line, "摘要："):
			section = "summary"
			summaryParts = []string{strings.TrimSpace(strings.TrimPrefix(line, "摘要："))}
		case strings.HasPrefix(line, "要点："):
			section = "bullets"
		case strings.HasPrefix(line, "- "):
			item := strings.TrimSpace(strings.TrimPrefix(line, "- "))
			if section == "bullets" {
				bullets = append(bullets, item)
			} else if section == "summary" {
				summaryParts = append(summaryParts, item)
			}
		case line != "" && section == "summary":
			summaryParts = append(summaryParts, line)
		}
	}

	for len(bullets) < 3 {
		bullets = append(bullets, placeholderBullet)
	}

	summary := strings.Join(summaryParts, "\n\n")
	var b strings.Builder
	b.WriteString(summary)
	b.WriteString("\n\n要点：\n")
	for i, bullet := range bullets {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- " + bullet)
	}
	return title, b.String()
}
