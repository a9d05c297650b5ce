package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/wolfitem/tech-daily/internal/domain/model"
	"github.com/wolfitem/tech-daily/internal/infrastructure/logger"
)

// FileCache 管理落盘的翻译缓存。
// 缓存是永久正向缓存：条目一旦写入就不再失效，同一链接不会重复翻译。
type FileCache struct {
	filePath string
	entries  map[string]model.TranslationEntry
	mu       sync.RWMutex
}

// NewFileCache 创建一个新的翻译缓存实例
func NewFileCache(filePath string) *FileCache {
	return &FileCache{
		filePath: filePath,
		entries:  make(map[string]model.TranslationEntry),
	}
}

// Load 从文件加载已有缓存。
// 文件不存在按空缓存处理；文件内容损坏时同样按空缓存处理而不是中断运行。
func (fc *FileCache) Load() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	data, err := os.ReadFile(fc.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("读取缓存文件失败: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var entries map[string]model.TranslationEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		logger.Warn("翻译缓存文件损坏，按空缓存处理", "file", fc.filePath, "error", err)
		fc.entries = make(map[string]model.TranslationEntry)
		return nil
	}

	fc.entries = entries
	logger.Info("翻译缓存加载完成", "file", fc.filePath, "entries", len(entries))
	return nil
}

// Get 查询缓存条目
func (fc *FileCache) Get(key string) (model.TranslationEntry, bool) {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	entry, ok := fc.entries[key]
	return entry, ok
}

// Set 写入缓存条目（仅内存，持久化由Save完成）
func (fc *FileCache) Set(key string, entry model.TranslationEntry) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	fc.entries[key] = entry
}

// Len 返回当前缓存条目数量
func (fc *FileCache) Len() int {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	return len(fc.entries)
}

// Save 持久化缓存到文件。
// 写入前先回读磁盘上的最新内容并合并，保证并发或历史运行写入的条目不丢失；
// 本进程的条目在键冲突时覆盖磁盘版本。
func (fc *FileCache) Save() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	merged := make(map[string]model.TranslationEntry, len(fc.entries))
	if data, err := os.ReadFile(fc.filePath); err == nil && len(data) > 0 {
		var onDisk map[string]model.TranslationEntry
		if err := json.Unmarshal(data, &onDisk); err == nil {
			for key, entry := range onDisk {
				merged[key] = entry
			}
		} else {
			logger.Warn("合并磁盘缓存失败，忽略旧内容", "file", fc.filePath, "error", err)
		}
	}
	for key, entry := range fc.entries {
		merged[key] = entry
	}

	if err := os.MkdirAll(filepath.Dir(fc.filePath), 0755); err != nil {
		return fmt.Errorf("创建缓存目录失败: %w", err)
	}

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化缓存失败: %w", err)
	}
	if err := os.WriteFile(fc.filePath, data, 0644); err != nil {
		return fmt.Errorf("写入缓存文件失败: %w", err)
	}

	fc.entries = merged
	return nil
}
