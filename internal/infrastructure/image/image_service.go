package image

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/wolfitem/tech-daily/internal/domain/model"
	"github.com/wolfitem/tech-daily/internal/infrastructure/logger"
)

// 正文中的配图占位标记
var imagePlaceholderPattern = regexp.MustCompile(`<!-- IMAGE: (.*?) -->`)

// Placeholder 返回文章链接对应的配图占位标记
func Placeholder(link string) string {
	return fmt.Sprintf("<!-- IMAGE: %s -->", link)
}

// Uploader 定义配图上传接口，默认实现直接透传og:image地址
type Uploader interface {
	// Upload 上传图片并返回可公开访问的地址
	Upload(imageURL, key string) (string, error)
}

// passthroughUploader 不上传，直接引用原始图片地址
type passthroughUploader struct{}

func (passthroughUploader) Upload(imageURL, _ string) (string, error) {
	return imageURL, nil
}

// Service 在时间与数量预算内为文章解析配图
type Service struct {
	uploader Uploader
	config   model.ImageConfig
}

// NewService 创建配图服务，uploader为nil时使用透传实现
func NewService(uploader Uploader, config model.ImageConfig) *Service {
	if uploader == nil {
		uploader = passthroughUploader{}
	}
	if config.PerPageTimeout == 0 {
		config.PerPageTimeout = 5
	}
	if config.TotalTimeout == 0 {
		config.TotalTimeout = 90
	}
	return &Service{uploader: uploader, config: config}
}

// ProcessContent 解析正文中的配图占位标记：
// 成功取到og:image时替换为img标签，失败、超预算或超时时移除占位标记。
// 返回处理后的正文和成功嵌入的配图数量。
func (s *Service) ProcessContent(content, date string, maxImages int) (string, int) {
	defer logger.TimeTrack("ProcessContent")()

	placeholders := imagePlaceholderPattern.FindAllStringSubmatch(content, -1)
	if len(placeholders) == 0 {
		return content, 0
	}

	client := &http.Client{Timeout: time.Duration(s.config.PerPageTimeout) * time.Second}
	deadline := time.Now().Add(time.Duration(s.config.TotalTimeout) * time.Second)

	uploaded := 0
	for _, m := range placeholders {
		articleURL := m[1]
		placeholder := Placeholder(articleURL)

		// 超出总时间预算或数量预算时直接移除剩余占位标记
		if time.Now().After(deadline) || uploaded >= maxImages {
			content = strings.Replace(content, placeholder, "", 1)
			continue
		}

		imageURL := s.fetchOgImage(client, articleURL)
		if imageURL == "" {
			content = strings.Replace(content, placeholder, "", 1)
			continue
		}

		key := fmt.Sprintf("images/%s/article-%02d.jpg", strings.ReplaceAll(date, "-", "/"), uploaded)
		publicURL, err := s.uploader.Upload(imageURL, key)
		if err != nil {
			logger.Warn("上传配图失败", "url", imageURL, "error", err)
			content = strings.Replace(content, placeholder, "", 1)
			continue
		}

		imgTag := fmt.Sprintf(`<img src="%s" alt="配图" style="max-width:100%%;height:auto;margin:10px 0;">`, publicURL)
		content = strings.Replace(content, placeholder, imgTag, 1)
		uploaded++
	}

	logger.Info("配图处理完成", "placeholders", len(placeholders), "uploaded", uploaded)
	return content, uploaded
}

// fetchOgImage 抓取文章页面并提取og:image，任何失败都返回空字符串
func (s *Service) fetchOgImage(client *http.Client, articleURL string) string {
	req, err := http.NewRequest(http.MethodGet, articleURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := client.Do(req)
	if err != nil {
		logger.Debug("抓取文章页面失败", "url", articleURL, "error", err)
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

	imageURL, ok := doc.Find(`meta[property="og:image"]`).Attr("content")
	if !ok || strings.TrimSpace(imageURL) == "" {
		return ""
	}

	// 相对地址按文章地址解析为绝对地址
	base, err := url.Parse(articleURL)
	if err != nil {
		return imageURL
	}
	ref, err := url.Parse(strings.TrimSpace(imageURL))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
