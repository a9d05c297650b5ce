package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/wolfitem/tech-daily/internal/domain/model"
	"github.com/wolfitem/tech-daily/internal/domain/service"
	"github.com/wolfitem/tech-daily/internal/infrastructure/image"
)

// 导语中的主题关键词表，按出现顺序去重后最多取3个
var topicRules = []struct {
	topic    string
	keywords []string
}{
	{"AI", []string{"ai", "llm", "gpt", "claude"}},
	{"云原生", []string{"cloud", "aws", "kubernetes", "docker"}},
	{"编程语言", []string{"rust", "python", "javascript"}},
	{"游戏", []string{"game", "gaming"}},
}

// renderPost 把最终文章列表渲染为带frontmatter的日报正文
func renderPost(date string, articles []model.Article, withImages bool) string {
	var lines []string

	// Frontmatter
	now := time.Now()
	lines = append(lines,
		"---",
		fmt.Sprintf("title: %s 科技圈新闻汇总", date),
		fmt.Sprintf("date: %s %02d:%02d:00", date, now.Hour(), now.Minute()),
		"tags: [AI, 游戏, 开发工具, 科技新闻]",
		"categories: [技术新闻]",
		"---",
		"",
	)

	lines = append(lines, renderLead(articles), "", "---", "")

	// 按分类分组，分类内保持选取顺序
	grouped := make(map[string][]model.Article)
	for _, a := range articles {
		cat := service.Classify(a.Title)
		grouped[cat] = append(grouped[cat], a)
	}

	// 按固定分类顺序输出，空分类跳过
	for _, category := range service.Categories() {
		items := grouped[category]
		if len(items) == 0 {
			continue
		}

		lines = append(lines, fmt.Sprintf("## %s", category), "")

		for _, item := range items {
			title := item.TranslatedTitle
			if title == "" {
				title = item.Title
			}

			lines = append(lines, fmt.Sprintf("### %s", title), "")

			if withImages {
				lines = append(lines, image.Placeholder(item.Link), "")
			}

			lines = append(lines, item.TranslatedSummary, "")

			if item.CommentsLink != "" {
				lines = append(lines, fmt.Sprintf("📎 [讨论区](%s)", item.CommentsLink), "")
			}
			lines = append(lines,
				fmt.Sprintf("📎 [原文链接](%s)", item.Link),
				"",
				"---",
				"",
			)
		}
	}

	lines = append(lines, "*本文汇总自多个社区信息源，每日更新，涵盖 AI 应用、游戏技术、开发工具及科技行业动态。*", "")

	return strings.Join(lines, "\n")
}

// renderLead 根据实际内容生成导语
func renderLead(articles []model.Article) string {
	categoriesPresent := make(map[string]bool)
	var topics []string
	topicSeen := make(map[string]bool)
	sourceNames := make(map[string]bool)

	for _, a := range articles {
		categoriesPresent[service.Classify(a.Title)] = true
		if a.SourceName != "" {
			sourceNames[a.SourceName] = true
		}

		titleLower := strings.ToLower(a.Title)
		for _, rule := range topicRules {
			if topicSeen[rule.topic] {
				continue
			}
			for _, k := range rule.keywords {
				if strings.Contains(titleLower, k) {
					topics = append(topics, rule.topic)
					topicSeen[rule.topic] = true
					break
				}
			}
		}
	}
	if len(topics) > 3 {
		topics = topics[:3]
	}

	// 单一信息源时点名，多信息源时用统称
	origin := "多个社区"
	if len(sourceNames) == 1 {
		for name := range sourceNames {
			origin = name
		}
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("精选 %d 条来自 %s 的热门话题", len(articles), origin))
	if len(topics) > 0 {
		parts = append(parts, fmt.Sprintf("，涵盖 %s 等主题", strings.Join(topics, "/")))
	}

	var mentioned []string
	for _, cat := range []string{service.CategoryAI, service.CategoryDevTools, service.CategoryInfra, service.CategoryGaming} {
		if categoriesPresent[cat] {
			mentioned = append(mentioned, cat)
		}
	}
	if len(mentioned) > 0 {
		parts = append(parts, fmt.Sprintf("，内容涉及 %s", mentioned[0]))
		if len(mentioned) > 1 {
			parts = append(parts, fmt.Sprintf("及 %s", mentioned[1]))
		}
	}

	return fmt.Sprintf("> 📰 **%s**", strings.Join(parts, ""))
}
