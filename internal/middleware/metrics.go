package middleware

import (
	"sync"
	"time"

	"github.com/wolfitem/tech-daily/internal/infrastructure/logger"
)

// MetricsCollector 收集一次日报生成的流水线统计
type MetricsCollector struct {
	mu sync.RWMutex

	startTime time.Time

	// 各阶段统计
	fetched      int64
	deduped      int64
	selected     int64
	cacheHits    int64
	cacheMisses  int64
	backendCalls int64
	imagesAdded  int64
}

// NewMetricsCollector 创建新的统计收集器
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{startTime: time.Now()}
}

// RecordFetched 记录抓取到的候选文章数量
func (m *MetricsCollector) RecordFetched(count int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetched = count
}

// RecordDeduped 记录去重后剩余的文章数量
func (m *MetricsCollector) RecordDeduped(count int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deduped = count
}

// RecordSelected 记录最终入选的文章数量
func (m *MetricsCollector) RecordSelected(count int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected = count
}

// RecordCacheHit 记录一次翻译缓存命中
func (m *MetricsCollector) RecordCacheHit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheHits++
}

// RecordBackendCall 记录一次翻译后端调用（缓存未命中）
func (m *MetricsCollector) RecordBackendCall() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheMisses++
	m.backendCalls++
}

// RecordImageAdded 记录一张成功嵌入的配图
func (m *MetricsCollector) RecordImageAdded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.imagesAdded++
}

// LogReport 输出本次运行的统计报告
func (m *MetricsCollector) LogReport() {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hitRate := 0.0
	if total := m.cacheHits + m.cacheMisses; total > 0 {
		hitRate = float64(m.cacheHits) / float64(total) * 100
	}

	logger.Info("日报生成统计",
		"duration", time.Since(m.startTime),
		"fetched", m.fetched,
		"after_dedupe", m.deduped,
		"selected", m.selected,
		"cache_hits", m.cacheHits,
		"backend_calls", m.backendCalls,
		"cache_hit_rate", hitRate,
		"images_added", m.imagesAdded)
}
