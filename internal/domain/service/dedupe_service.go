package service

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/wolfitem/tech-daily/internal/domain/model"
	"github.com/wolfitem/tech-daily/internal/infrastructure/logger"
)

// PostFileName 返回指定日期的日报文件名
func PostFileName(date string) string {
	return fmt.Sprintf("%s-科技圈新闻汇总.md", date)
}

// 日报正文中的原文链接标记
var articleLinkPattern = regexp.MustCompile(`\[原文链接\]\(([^)]+)\)`)

// ExtractLinks 从日报正文中提取全部原文链接
func ExtractLinks(content string) map[string]struct{} {
	links := make(map[string]struct{})
	for _, m := range articleLinkPattern.FindAllStringSubmatch(content, -1) {
		links[m[1]] = struct{}{}
	}
	return links
}

// DedupeService 定义与历史日报去重的领域服务接口
type DedupeService interface {
	// Dedupe 过滤掉链接已出现在近几期日报中的文章，保持其余文章的原始顺序
	Dedupe(articles []model.Article, currentDate string, days int) ([]model.Article, error)
}

// dedupeService 实现DedupeService接口
type dedupeService struct {
	postsDir string
}

// NewDedupeService 创建一个新的去重服务实例
func NewDedupeService(postsDir string) DedupeService {
	return &dedupeService{postsDir: postsDir}
}

// Dedupe 扫描当前日期之前days个自然日的日报（不多不少），
// 汇总其中的原文链接并据此过滤候选文章。日报文件缺失视为当天没有链接。
func (s *dedupeService) Dedupe(articles []model.Article, currentDate string, days int) ([]model.Article, error) {
	base, err := time.Parse("2006-01-02", currentDate)
	if err != nil {
		return nil, fmt.Errorf("解析日期失败: %w", err)
	}

	seen := make(map[string]struct{})
	for i := 1; i <= days; i++ {
		prevDate := base.AddDate(0, 0, -i).Format("2006-01-02")
		prevFile := filepath.Join(s.postsDir, PostFileName(prevDate))

		content, err := os.ReadFile(prevFile)
		if err != nil {
			// 历史日报不存在时按空集处理
			logger.Debug("历史日报不存在，跳过", "date", prevDate, "file", prevFile)
			continue
		}
		for link := range ExtractLinks(string(content)) {
			seen[link] = struct{}{}
		}
	}

	filtered := make([]model.Article, 0, len(articles))
	for _, a := range articles {
		if _, dup := seen[a.Link]; dup {
			logger.Debug("过滤已发布文章", "title", a.Title, "link", a.Link)
			continue
		}
		filtered = append(filtered, a)
	}

	logger.Info("历史去重完成", "days", days, "seen_links", len(seen), "before", len(articles), "after", len(filtered))
	return filtered, nil
}
