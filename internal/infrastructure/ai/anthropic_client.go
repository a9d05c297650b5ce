package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wolfitem/tech-daily/internal/domain/model"
	"github.com/wolfitem/tech-daily/internal/infrastructure/logger"
)

// AnthropicClient 对接Anthropic兼容的messages接口（如Minimax）
type AnthropicClient struct {
	config model.BackendConfig
	client *http.Client
}

// NewAnthropicClient 创建新的Anthropic兼容客户端
func NewAnthropicClient(config model.BackendConfig) *AnthropicClient {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.minimaxi.com/anthropic"
	}
	if config.Model == "" {
		config.Model = "MiniMax-M2.1"
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 1500
	}
	if config.Timeout == 0 {
		config.Timeout = 90
	}

	transport := &http.Transport{
		ResponseHeaderTimeout: 30 * time.Second,
		TLSHandshakeTimeout:   15 * time.Second,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
	}

	return &AnthropicClient{
		config: config,
		client: &http.Client{
			Timeout:   time.Duration(config.Timeout) * time.Second,
			Transport: transport,
		},
	}
}

// Name 返回后端名称
func (c *AnthropicClient) Name() string {
	return "anthropic"
}

// anthropicRequest messages接口的请求体
type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string                  `json:"role"`
	Content []anthropicContentBlock `json:"content"`
}

// anthropicContentBlock 响应content是带类型的内容块序列（thinking、text等）
type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicResponse struct {
	Content []anthropicContentBlock `json:"content"`
}

// Translate 调用messages接口翻译标题与描述。
// 从响应内容块中取第一个text类型的块，按四段式解析。
// 调用失败直接返回错误，由调用方决定是否中止整次运行。
func (c *AnthropicClient) Translate(ctx context.Context, title, description, sourceName string) (string, string, error) {
	reqBody := anthropicRequest{
		Model:     c.config.Model,
		MaxTokens: c.config.MaxTokens,
		System:    systemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: []anthropicContentBlock{
				{Type: "text", Text: buildUserText(title, description, sourceName)},
			}},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", "", fmt.Errorf("构建请求体失败: %w", err)
	}

	endpoint := strings.TrimRight(c.config.BaseURL, "/") + "/v1/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", "", fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("发送翻译请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", "", fmt.Errorf("翻译接口返回错误: %d %s", resp.StatusCode, string(body))
	}

	var response anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", "", fmt.Errorf("解析翻译响应失败: %w", err)
	}

	// 跳过thinking等其他类型的块，取第一个text块
	var text string
	for _, block := range response.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return "", "", fmt.Errorf("翻译响应中没有text内容块")
	}

	zhTitle, zhSummary := parseStructuredReply(text)
	logger.Debug("Anthropic翻译完成", "title", title, "zh_title", zhTitle)
	return zhTitle, zhSummary, nil
}
