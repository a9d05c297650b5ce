package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wolfitem/tech-daily/internal/domain/model"
	"github.com/wolfitem/tech-daily/internal/domain/service"
	"github.com/wolfitem/tech-daily/internal/infrastructure/ai"
	"github.com/wolfitem/tech-daily/internal/infrastructure/cache"
	"github.com/wolfitem/tech-daily/internal/infrastructure/database"
	"github.com/wolfitem/tech-daily/internal/infrastructure/image"
	"github.com/wolfitem/tech-daily/internal/infrastructure/logger"
	"github.com/wolfitem/tech-daily/internal/middleware"
)

// PostService 定义日报生成的应用服务接口
type PostService interface {
	// GeneratePost 执行完整流水线并返回生成的日报文件路径
	GeneratePost(params model.GenerateParams) (string, error)
}

// postService 实现PostService接口
type postService struct {
	feedService   service.FeedService
	enrichService service.EnrichService
	selectService service.SelectService
	validator     *service.Validator
}

// NewPostService 创建一个新的日报生成服务实例
func NewPostService() PostService {
	return &postService{
		feedService:   service.NewFeedService(),
		enrichService: service.NewEnrichService(),
		selectService: service.NewSelectService(),
		validator:     service.NewValidator(),
	}
}

// GeneratePost 流水线：抓取 → 描述补全 → 历史去重 → 均衡选取 → 翻译（带缓存）
// → 渲染 → 写文件 → 配图（可选）→ 归档（可选）。
// 翻译阶段逐篇串行执行，保证稳定的输出顺序与缓存写入纪律。
func (s *postService) GeneratePost(params model.GenerateParams) (string, error) {
	logger.Info("开始生成日报", "date", params.Date, "sources", strings.Join(params.Sources, ","))
	defer logger.TimeTrack("GeneratePost")()
	logger.LogMemStatsOnce()

	metrics := middleware.NewMetricsCollector()

	// 参数默认值
	if params.Date == "" {
		params.Date = time.Now().Format("2006-01-02")
	}
	if params.Count <= 0 {
		params.Count = 15
	}
	if params.Limit <= 0 {
		params.Limit = 10
	}
	if params.PerSource <= 0 {
		params.PerSource = 2
	}
	if params.DedupeDays <= 0 {
		params.DedupeDays = 3
	}
	if params.PostsDir == "" {
		params.PostsDir = "posts"
	}
	if params.CacheFile == "" {
		params.CacheFile = filepath.Join("cache", "translations.json")
	}

	if err := s.validator.ValidateDate(params.Date); err != nil {
		return "", err
	}
	if params.OpmlFile != "" {
		if err := s.validator.ValidateOpmlPath(params.OpmlFile); err != nil {
			return "", err
		}
	}

	// 1. 抓取候选文章
	articles, err := s.feedService.FetchArticles(params.Sources, params.Count, params.OpmlFile, params.RssConfig)
	if err != nil {
		return "", fmt.Errorf("抓取文章失败: %w", err)
	}
	metrics.RecordFetched(int64(len(articles)))

	// 2. 补全缺失的描述
	enrichTimeout := 10
	if params.RssConfig.EnrichTimeout > 0 {
		enrichTimeout = params.RssConfig.EnrichTimeout
	}
	articles = s.enrichService.EnrichArticles(articles, time.Duration(enrichTimeout)*time.Second)

	// 3. 与历史日报去重
	if params.Dedupe {
		dedupeService := service.NewDedupeService(params.PostsDir)
		articles, err = dedupeService.Dedupe(articles, params.Date, params.DedupeDays)
		if err != nil {
			return "", fmt.Errorf("历史去重失败: %w", err)
		}
	}
	metrics.RecordDeduped(int64(len(articles)))

	// 4. 跨信息源均衡选取
	articles = s.selectService.PickBalanced(articles, params.Limit, params.PerSource, params.Sources)
	metrics.RecordSelected(int64(len(articles)))
	logger.Info("均衡选取完成", "selected", len(articles))

	// 5. 翻译（缓存优先）
	translationCache := cache.NewFileCache(params.CacheFile)
	if err := translationCache.Load(); err != nil {
		return "", fmt.Errorf("加载翻译缓存失败: %w", err)
	}

	backend, limiter := s.selectBackend(params)
	translateService := service.NewTranslateService(backend, translationCache, limiter)

	ctx := context.Background()
	for i := range articles {
		hit, err := translateService.Resolve(ctx, &articles[i])
		if err != nil {
			// 已配置后端的调用失败是需要排查的运维错误，中止整次运行；
			// 此前翻译成功的条目已增量落盘，不会丢失
			return "", fmt.Errorf("翻译文章失败 (%s): %w", articles[i].Title, err)
		}
		if hit {
			metrics.RecordCacheHit()
		} else {
			metrics.RecordBackendCall()
		}
	}
	if err := translationCache.Save(); err != nil {
		logger.Error("持久化翻译缓存失败", "error", err)
	}

	// 6. 渲染并写入日报
	content := renderPost(params.Date, articles, params.WithImages)
	if err := os.MkdirAll(params.PostsDir, 0755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}
	postPath := filepath.Join(params.PostsDir, service.PostFileName(params.Date))
	if err := os.WriteFile(postPath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("写入日报文件失败: %w", err)
	}
	logger.Info("日报写入完成", "file", postPath)

	// 7. 处理配图
	if params.WithImages {
		maxImages := params.MaxImages
		if maxImages <= 0 {
			maxImages = 15
		}
		imageService := image.NewService(nil, params.ImageConfig)
		processed, added := imageService.ProcessContent(content, params.Date, maxImages)
		if err := os.WriteFile(postPath, []byte(processed), 0644); err != nil {
			return "", fmt.Errorf("写入日报文件失败: %w", err)
		}
		for i := 0; i < added; i++ {
			metrics.RecordImageAdded()
		}
	}

	// 8. 归档已发布文章
	if params.DatabaseConfig.Enabled {
		if err := s.archiveArticles(articles, params); err != nil {
			// 归档失败不影响已生成的日报
			logger.Error("归档已发布文章失败", "error", err)
		}
	}

	metrics.LogReport()
	return postPath, nil
}

// selectBackend 按配置确定翻译后端：Anthropic兼容后端优先，其次OpenAI；
// 都未配置时返回nil，表示使用模板回退。
func (s *postService) selectBackend(params model.GenerateParams) (service.Translator, *middleware.RateLimiter) {
	anthropicConfig := params.AnthropicConfig
	anthropicConfig.APIKey = s.validator.ResolveAPIKey("ANTHROPIC_API_KEY", anthropicConfig.APIKey)
	if anthropicConfig.APIKey != "" {
		logger.Info("使用Anthropic兼容翻译后端", "model", anthropicConfig.Model)
		return ai.NewAnthropicClient(anthropicConfig),
			middleware.NewRateLimiter(int64(anthropicConfig.MaxCalls), 24*time.Hour)
	}

	openaiConfig := params.OpenAIConfig
	openaiConfig.APIKey = s.validator.ResolveAPIKey("OPENAI_API_KEY", openaiConfig.APIKey)
	if openaiConfig.APIKey != "" {
		logger.Info("使用OpenAI翻译后端", "model", openaiConfig.Model)
		return ai.NewOpenAIClient(openaiConfig),
			middleware.NewRateLimiter(int64(openaiConfig.MaxCalls), 24*time.Hour)
	}

	logger.Warn("未配置任何翻译后端，使用模板回退")
	return nil, nil
}

// archiveArticles 把本期文章写入归档数据库
func (s *postService) archiveArticles(articles []model.Article, params model.GenerateParams) error {
	db := database.NewSQLiteDatabase(params.DatabaseConfig.FilePath)
	if err := db.Init(); err != nil {
		return fmt.Errorf("初始化归档数据库失败: %w", err)
	}
	defer db.Close()

	repo := database.NewSQLiteArticleRepository(db)
	for _, a := range articles {
		archived := model.ArchivedArticle{
			Title:           a.Title,
			TranslatedTitle: a.TranslatedTitle,
			Summary:         a.TranslatedSummary,
			Source:          a.SourceName,
			Category:        service.Classify(a.Title),
			Link:            a.Link,
			PublishDate:     params.Date,
		}
		if err := repo.SaveArticle(archived); err != nil {
			logger.Error("归档单篇文章失败", "title", a.Title, "error", err)
			// 继续归档其余文章
		}
	}
	logger.Info("文章归档完成", "count", len(articles))
	return nil
}
