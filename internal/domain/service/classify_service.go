package service

import "strings"

// 固定的分类集合，顺序即日报中的输出顺序，也是关键词匹配的优先顺序
const (
	CategoryAI       = "AI 与机器学习"
	CategoryGaming   = "游戏与怀旧科技"
	CategoryDevTools = "开发工具与开源"
	CategoryInfra    = "基础设施与行业"
	CategoryMisc     = "趣闻" // 兜底分类
)

// Categories 返回全部分类，按日报输出顺序排列
func Categories() []string {
	return []string{CategoryAI, CategoryGaming, CategoryDevTools, CategoryInfra, CategoryMisc}
}

// categoryRule 表示一条分类规则：命中任一关键词即归入该分类
type categoryRule struct {
	category string
	keywords []string
}

// 分类规则表，按优先级排列，先命中者先得
var categoryRules = []categoryRule{
	{CategoryAI, []string{
		"ai", "llm", "model", "agent", "gpt", "claude", "grok", "ml ", "neural", "deep learning",
	}},
	{CategoryGaming, []string{
		"game", "gaming", "retro", "vintage", "nostalgia", "classic", "emulator", "amiga", "commodore",
	}},
	{CategoryDevTools, []string{
		"rust", "python", "javascript", "github", "open source", "framework", "library", "tool", "compiler", "database", "sql",
	}},
	{CategoryInfra, []string{
		"cloud", "aws", "gcp", "azure", "server", "datacenter", "infrastructure", "kubernetes", "docker", "devops", "security", "privacy", "encryption",
	}},
}

// Classify 根据标题关键词确定文章分类。
// 纯函数：小写子串匹配，按规则表顺序取第一个命中的分类，无命中时返回兜底分类。
func Classify(title string) string {
	t := strings.ToLower(title)
	for _, rule := range categoryRules {
		for _, k := range rule.keywords {
			if strings.Contains(t, k) {
				return rule.category
			}
		}
	}
	return CategoryMisc
}
