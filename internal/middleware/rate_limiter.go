package middleware

import (
	"fmt"
	"sync"
	"time"
)

// RateLimiter 限制单次运行内翻译后端的调用次数
type RateLimiter struct {
	mu            sync.RWMutex
	requestsCount int64
	lastReset     time.Time
	window        time.Duration
	maxRequests   int64
}

// NewRateLimiter 创建新的速率限制器。maxRequests为0表示不限制。
func NewRateLimiter(maxRequests int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		maxRequests: maxRequests,
		window:      window,
		lastReset:   time.Now(),
	}
}

// Check 检查是否还有调用额度，有则占用一次并返回true
func (rl *RateLimiter) Check() bool {
	if rl.maxRequests <= 0 {
		return true // 无限额
	}

	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// 重置窗口周期
	if now.Sub(rl.lastReset) >= rl.window {
		rl.requestsCount = 0
		rl.lastReset = now
	}

	if rl.requestsCount < rl.maxRequests {
		rl.requestsCount++
		return true
	}

	return false
}

// GetStatus 获取当前状态
func (rl *RateLimiter) GetStatus() Status {
	now := time.Now()

	rl.mu.RLock()
	defer rl.mu.RUnlock()

	remaining := rl.maxRequests - rl.requestsCount
	if remaining < 0 {
		remaining = 0
	}

	return Status{
		Limit:     rl.maxRequests,
		Used:      rl.requestsCount,
		Remaining: remaining,
		ResetIn:   rl.window - now.Sub(rl.lastReset),
	}
}

// Status 速率限制状态
type Status struct {
	Limit     int64
	Used      int64
	Remaining int64
	ResetIn   time.Duration
}

// RateLimitError 限流错误
type RateLimitError struct {
	Status Status
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("翻译调用额度已用尽: %d/%d", e.Status.Used, e.Status.Limit)
}
