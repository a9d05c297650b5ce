package service

import (
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/wolfitem/tech-daily/internal/domain/model"
	"github.com/wolfitem/tech-daily/internal/infrastructure/logger"
)

// EnrichService 定义文章描述补全的领域服务接口
type EnrichService interface {
	// FetchDescription 尽力从目标页面提取简短描述，任何失败都返回空字符串
	FetchDescription(url string, timeout time.Duration) string

	// EnrichArticles 为缺少描述的文章补全描述
	EnrichArticles(articles []model.Article, timeout time.Duration) []model.Article
}

// enrichService 实现EnrichService接口
type enrichService struct {
	client *http.Client
}

// NewEnrichService 创建一个新的描述补全服务实例
func NewEnrichService() EnrichService {
	return &enrichService{client: &http.Client{}}
}

// FetchDescription 优先读取og:description，其次读取meta description。
// 网络错误、超时、标签缺失一律按无描述处理，不影响流水线继续。
func (s *enrichService) FetchDescription(url string, timeout time.Duration) string {
	client := &http.Client{Timeout: timeout, Transport: s.client.Transport}

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := client.Do(req)
	if err != nil {
		logger.Debug("获取页面描述失败", "url", url, "error", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	if desc, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		return strings.TrimSpace(desc)
	}
	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		return strings.TrimSpace(desc)
	}
	return ""
}

// EnrichArticles 逐篇补全缺失的描述
func (s *enrichService) EnrichArticles(articles []model.Article, timeout time.Duration) []model.Article {
	defer logger.TimeTrack("EnrichArticles")()

	enriched := 0
	for i := range articles {
		if articles[i].Description != "" || articles[i].Link == "" {
			continue
		}
		if desc := s.FetchDescription(articles[i].Link, timeout); desc != "" {
			articles[i].Description = desc
			enriched++
		}
	}

	logger.Info("描述补全完成", "articles_count", len(articles), "enriched", enriched)
	return articles
}
