package service

import (
	"sort"

	"github.com/wolfitem/tech-daily/internal/domain/model"
	"github.com/wolfitem/tech-daily/internal/infrastructure/logger"
)

// SelectService 定义跨信息源均衡选取的领域服务接口
type SelectService interface {
	// PickBalanced 从候选文章中选出跨信息源均衡的最终列表
	PickBalanced(articles []model.Article, limit, perSource int, sourceOrder []string) []model.Article
}

// selectService 实现SelectService接口
type selectService struct{}

// NewSelectService 创建一个新的均衡选取服务实例
func NewSelectService() SelectService {
	return &selectService{}
}

// PickBalanced 两轮选取：
// 第一轮按信息源优先顺序各取最多perSource篇，达到limit立即停止；
// 第二轮从perSource偏移开始按轮次在各信息源间轮转补足，直到达到limit
// 或一整轮没有任何信息源还有剩余文章。
// 信息源内部的文章顺序始终保持抓取时的相对顺序。
func (s *selectService) PickBalanced(articles []model.Article, limit, perSource int, sourceOrder []string) []model.Article {
	// 按信息源分桶，桶内保持原始顺序
	buckets := make(map[string][]model.Article)
	for _, a := range articles {
		src := a.Source
		if src == "" {
			src = "unknown"
		}
		buckets[src] = append(buckets[src], a)
	}

	// 未指定优先顺序时退化为信息源标识的字典序
	order := sourceOrder
	if len(order) == 0 {
		order = make([]string, 0, len(buckets))
		for src := range buckets {
			order = append(order, src)
		}
		sort.Strings(order)
	}

	var picked []model.Article

	// 第一轮：按优先顺序各取配额内的文章
	for _, src := range order {
		if bucket, ok := buckets[src]; ok {
			n := perSource
			if n > len(bucket) {
				n = len(bucket)
			}
			picked = append(picked, bucket[:n]...)
		}
		if len(picked) >= limit {
			return picked[:limit]
		}
	}

	// 第二轮：从配额偏移处开始轮转补足
	for i := perSource; len(picked) < limit; i++ {
		progressed := false
		for _, src := range order {
			if bucket, ok := buckets[src]; ok && i < len(bucket) {
				picked = append(picked, bucket[i])
				progressed = true
				if len(picked) >= limit {
					return picked[:limit]
				}
			}
		}
		if !progressed {
			break
		}
	}

	logger.Debug("均衡选取完成", "picked", len(picked), "limit", limit, "sources", len(buckets))
	if len(picked) > limit {
		return picked[:limit]
	}
	return picked
}
