package service

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gilliek/go-opml/opml"
	"github.com/mmcdole/gofeed"

	"github.com/wolfitem/tech-daily/internal/domain/model"
	"github.com/wolfitem/tech-daily/internal/infrastructure/logger"
)

// feedSource 表示一个命名信息源
type feedSource struct {
	Name string // 显示名称
	URL  string // Feed地址，%d占位符表示抓取数量
}

// 内置信息源表，键为信息源标识
var builtinSources = map[string]feedSource{
	"hackernews": {Name: "Hacker News", URL: "https://hnrss.org/frontpage?points=50&count=%d"},
	"lobsters":   {Name: "Lobsters", URL: "https://lobste.rs/rss"},
	"devto":      {Name: "DEV Community", URL: "https://dev.to/feed"},
	"arxiv-ai":   {Name: "arXiv cs.AI", URL: "https://rss.arxiv.org/rss/cs.AI"},
}

// FeedService 定义信息源抓取的领域服务接口
type FeedService interface {
	// FetchArticles 按给定顺序抓取各信息源的候选文章
	FetchArticles(sources []string, count int, opmlFile string, config model.RssConfig) ([]model.Article, error)
}

// feedService 实现FeedService接口
type feedService struct{}

// NewFeedService 创建一个新的信息源服务实例
func NewFeedService() FeedService {
	return &feedService{}
}

// parseOpmlSources 解析OPML文件中的额外信息源。
// 每个带有xmlUrl的outline成为一个通用信息源，标识取自标题的小写连字符形式。
func parseOpmlSources(opmlFile string) (map[string]feedSource, []string, error) {
	doc, err := opml.NewOPMLFromFile(opmlFile)
	if err != nil {
		return nil, nil, fmt.Errorf("解析OPML文件失败: %w", err)
	}

	extras := make(map[string]feedSource)
	var order []string
	var walk func(outline opml.Outline)
	walk = func(outline opml.Outline) {
		if outline.XMLURL != "" {
			title := outline.Title
			if title == "" {
				title = outline.Text
			}
			id := strings.ToLower(strings.Join(strings.Fields(title), "-"))
			if id == "" {
				id = fmt.Sprintf("opml-%d", len(extras)+1)
			}
			extras[id] = feedSource{Name: title, URL: outline.XMLURL}
			order = append(order, id)
		}
		for _, child := range outline.Outlines {
			walk(child)
		}
	}
	for _, outline := range doc.Outlines() {
		walk(outline)
	}

	logger.Info("OPML文件解析完成", "file", opmlFile, "sources_count", len(extras))
	return extras, order, nil
}

// stripHTMLTags 去除HTML标签，只保留纯文本
func stripHTMLTags(html string) string {
	if html == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		logger.Warn("解析HTML失败，返回原始内容", "error", err)
		return html
	}

	// 清理文本（去除多余的空白字符）
	text := strings.TrimSpace(doc.Text())
	return strings.Join(strings.Fields(text), " ")
}

// commentsLink 推断文章的讨论区链接。
// 聚合类Feed（如hnrss、lobsters）通常把讨论页放在guid里，原文放在link里。
func commentsLink(item *gofeed.Item) string {
	if strings.HasPrefix(item.GUID, "http") && item.GUID != item.Link {
		return item.GUID
	}
	return ""
}

// FetchArticles 并发抓取各信息源，返回的文章在同一信息源内保持Feed中的顺序，
// 不同信息源之间按sources给定的顺序排列。
func (s *feedService) FetchArticles(sources []string, count int, opmlFile string, config model.RssConfig) ([]model.Article, error) {
	logger.Info("开始抓取信息源", "sources", strings.Join(sources, ","), "count", count)
	defer logger.TimeTrack("FetchArticles")()

	timeout := 30
	concurrency := 3
	maxRetries := 3
	retryBackoffBase := 1
	if config.Timeout > 0 {
		timeout = config.Timeout
	}
	if config.Concurrency > 0 {
		concurrency = config.Concurrency
	}
	if config.MaxRetries > 0 {
		maxRetries = config.MaxRetries
	}
	if config.RetryBackoffBase > 0 {
		retryBackoffBase = config.RetryBackoffBase
	}

	// 合并内置信息源与OPML额外信息源
	catalog := make(map[string]feedSource, len(builtinSources))
	for id, src := range builtinSources {
		catalog[id] = src
	}
	ids := sources
	if opmlFile != "" {
		extras, extraOrder, err := parseOpmlSources(opmlFile)
		if err != nil {
			return nil, err
		}
		for id, src := range extras {
			catalog[id] = src
		}
		ids = append(append([]string{}, ids...), extraOrder...)
	}
	if len(ids) == 0 {
		// 未指定信息源时默认只抓Hacker News
		ids = []string{"hackernews"}
	}

	fp := gofeed.NewParser()
	fp.Client = &http.Client{Timeout: time.Duration(timeout) * time.Second}
	fp.UserAgent = "Mozilla/5.0 (compatible; tech-daily)"

	type sourceResult struct {
		id       string
		articles []model.Article
		err      error
	}

	resultChan := make(chan sourceResult, len(ids))
	semaphore := make(chan struct{}, concurrency)

	for _, id := range ids {
		go func(id string) {
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			src, ok := catalog[id]
			if !ok {
				resultChan <- sourceResult{id: id, err: fmt.Errorf("未知的信息源: %s", id)}
				return
			}

			url := src.URL
			if strings.Contains(url, "%d") {
				url = fmt.Sprintf(url, count)
			}
			logger.Info("开始抓取信息源", "source", id, "url", url)

			// 带指数退避的重试
			var feed *gofeed.Feed
			var fetchErr error
			for retries := 0; retries < maxRetries; retries++ {
				ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
				feed, fetchErr = fp.ParseURLWithContext(url, ctx)
				cancel()
				if fetchErr == nil {
					break
				}
				logger.Warn("抓取信息源失败，准备重试", "source", id, "attempt", retries+1, "error", fetchErr)
				if retries < maxRetries-1 {
					backoff := time.Duration(retryBackoffBase<<retries) * time.Second
					time.Sleep(backoff)
				}
			}
			if fetchErr != nil {
				resultChan <- sourceResult{id: id, err: fmt.Errorf("抓取信息源%s失败: %w", id, fetchErr)}
				return
			}

			var articles []model.Article
			for i, item := range feed.Items {
				if i >= count {
					break
				}
				if item.Title == "" || item.Link == "" {
					continue
				}
				articles = append(articles, model.Article{
					Title:        strings.TrimSpace(item.Title),
					Link:         strings.TrimSpace(item.Link),
					Description:  stripHTMLTags(item.Description),
					CommentsLink: commentsLink(item),
					PubDate:      item.Published,
					Source:       id,
					SourceName:   src.Name,
				})
			}
			logger.Info("信息源抓取完成", "source", id, "articles_count", len(articles))
			resultChan <- sourceResult{id: id, articles: articles}
		}(id)
	}

	// 按信息源收集结果，抓取失败的信息源只告警不中断
	bySource := make(map[string][]model.Article, len(ids))
	for range ids {
		result := <-resultChan
		if result.err != nil {
			logger.Error("处理信息源失败", "source", result.id, "error", result.err)
			continue
		}
		bySource[result.id] = result.articles
	}

	var articles []model.Article
	for _, id := range ids {
		articles = append(articles, bySource[id]...)
	}

	logger.Info("所有信息源处理完成", "total_articles", len(articles))
	return articles, nil
}

// KnownSources 返回全部内置信息源标识，按字典序排列
func KnownSources() []string {
	ids := make([]string, 0, len(builtinSources))
	for id := range builtinSources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
