package service

import (
	"context"
	"fmt"

	"github.com/wolfitem/tech-daily/internal/domain/model"
	"github.com/wolfitem/tech-daily/internal/infrastructure/logger"
	"github.com/wolfitem/tech-daily/internal/middleware"
)

// Translator 定义翻译后端的能力接口
type Translator interface {
	// Translate 将标题与描述翻译为中文标题和摘要
	Translate(ctx context.Context, title, description, sourceName string) (string, string, error)
	// Name 返回后端名称
	Name() string
}

// TranslationCache 定义翻译缓存接口
type TranslationCache interface {
	Get(key string) (model.TranslationEntry, bool)
	Set(key string, entry model.TranslationEntry)
	Save() error
}

// TranslateService 定义文章翻译的领域服务接口
type TranslateService interface {
	// Resolve 为文章填充翻译结果，返回是否命中缓存。
	// 文章既无链接也无标题时整体跳过（不翻译也不写缓存）。
	Resolve(ctx context.Context, article *model.Article) (bool, error)
}

// translateService 实现TranslateService接口。
// backend为nil时表示未配置任何翻译后端，使用确定性的模板回退。
type translateService struct {
	backend Translator
	cache   TranslationCache
	limiter *middleware.RateLimiter
}

// NewTranslateService 创建一个新的翻译服务实例
func NewTranslateService(backend Translator, cache TranslationCache, limiter *middleware.RateLimiter) TranslateService {
	return &translateService{
		backend: backend,
		cache:   cache,
		limiter: limiter,
	}
}

// templateFallback 未配置后端时的模板翻译：保留原文标题，合成通用摘要
func templateFallback(article model.Article) (string, string) {
	src := article.SourceName
	if src == "" {
		src = "社区"
	}
	summary := fmt.Sprintf("来自 %s 的热门话题。", src) +
		"\n\n要点：\n- 细节待补充\n- 细节待补充\n- 细节待补充"
	return article.Title, summary
}

// Resolve 先查缓存，命中则原样返回；未命中调用后端（或模板回退），
// 然后写入缓存并立即持久化。后端调用失败原样上抛，由调用方中止运行。
func (s *translateService) Resolve(ctx context.Context, article *model.Article) (bool, error) {
	key := article.CacheKey()
	if key == "" {
		logger.Warn("文章缺少链接与标题，跳过翻译")
		return false, nil
	}

	if entry, ok := s.cache.Get(key); ok {
		article.TranslatedTitle = entry.Title
		article.TranslatedSummary = entry.Summary
		return true, nil
	}

	var zhTitle, zhSummary string
	if s.backend == nil {
		zhTitle, zhSummary = templateFallback(*article)
	} else {
		if s.limiter != nil && !s.limiter.Check() {
			return false, &middleware.RateLimitError{Status: s.limiter.GetStatus()}
		}
		var err error
		zhTitle, zhSummary, err = s.backend.Translate(ctx, article.Title, article.Description, article.SourceName)
		if err != nil {
			return false, fmt.Errorf("调用%s后端翻译失败: %w", s.backend.Name(), err)
		}
	}

	article.TranslatedTitle = zhTitle
	article.TranslatedSummary = zhSummary

	s.cache.Set(key, model.TranslationEntry{Title: zhTitle, Summary: zhSummary})
	// 增量持久化：即使后续文章翻译失败，已完成的条目也不丢失
	if err := s.cache.Save(); err != nil {
		logger.Error("持久化翻译缓存失败", "key", key, "error", err)
	}

	return false, nil
}
