package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Validator 提供输入验证功能
type Validator struct{}

// NewValidator 创建新的验证器实例
func NewValidator() *Validator {
	return &Validator{}
}

// 发布日期格式 YYYY-MM-DD
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidateDate 验证发布日期格式
func (v *Validator) ValidateDate(date string) error {
	if !datePattern.MatchString(date) {
		return fmt.Errorf("无效的日期格式（应为YYYY-MM-DD）: %s", date)
	}
	return nil
}

// ValidateOpmlPath 验证OPML文件路径安全性
func (v *Validator) ValidateOpmlPath(filePath string) error {
	if strings.TrimSpace(filePath) == "" {
		return errors.New("文件路径不能为空")
	}

	cleanPath := filepath.Clean(filePath)

	// 检查路径是否包含目录遍历尝试
	if strings.Contains(cleanPath, "..") || strings.Contains(cleanPath, "~") {
		return fmt.Errorf("路径包含非法字符: %s", cleanPath)
	}

	// 检查文件扩展名
	if !strings.HasSuffix(strings.ToLower(cleanPath), ".opml") {
		return fmt.Errorf("只允许.OPML文件格式: %s", cleanPath)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("文件访问失败: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("路径指向目录而非文件: %s", cleanPath)
	}

	// 验证文件大小合理性（最大10MB限制）
	if info.Size() > 10*1024*1024 {
		return fmt.Errorf("文件过大(>10MB): %s", cleanPath)
	}

	return nil
}

// ResolveAPIKey 解析翻译后端的API密钥：环境变量优先于配置文件。
// 两处都没有时返回空字符串，表示该后端未配置（不是错误）。
func (v *Validator) ResolveAPIKey(envVar, configured string) string {
	if key := strings.TrimSpace(os.Getenv(envVar)); key != "" {
		return key
	}

	configured = strings.TrimSpace(configured)
	// 占位符密钥视同未配置
	if strings.Contains(configured, "****") {
		return ""
	}
	return configured
}
