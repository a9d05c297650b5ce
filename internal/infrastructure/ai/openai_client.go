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

// OpenAIClient 对接经典的chat completions接口
type OpenAIClient struct {
	config model.BackendConfig
	client *http.Client
}

// NewOpenAIClient 创建新的OpenAI客户端
func NewOpenAIClient(config model.BackendConfig) *OpenAIClient {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.openai.com"
	}
	if config.Model == "" {
		config.Model = "gpt-4o-mini"
	}
	if config.Timeout == 0 {
		config.Timeout = 60
	}

	transport := &http.Transport{
		ResponseHeaderTimeout: 30 * time.Second,
		TLSHandshakeTimeout:   15 * time.Second,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
	}

	return &OpenAIClient{
		config: config,
		client: &http.Client{
			Timeout:   time.Duration(config.Timeout) * time.Second,
			Transport: transport,
		},
	}
}

// Name 返回后端名称
func (c *OpenAIClient) Name() string {
	return "openai"
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Translate 调用chat completions接口翻译标题与描述。
// 回复按空行分段：第一段首行作为标题，其余段落拼接为摘要。
func (c *OpenAIClient) Translate(ctx context.Context, title, description, sourceName string) (string, string, error) {
	reqBody := chatRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildUserText(title, description, sourceName)},
		},
		Temperature: 0.2,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", "", fmt.Errorf("构建请求体失败: %w", err)
	}

	endpoint := strings.TrimRight(c.config.BaseURL, "/") + "/v1/chat/completions"
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

	var response chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", "", fmt.Errorf("解析翻译响应失败: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", "", fmt.Errorf("翻译响应不包含有效内容")
	}

	logger.Debug("OpenAI接口调用成功",
		"prompt_tokens", response.Usage.PromptTokens,
		"total_tokens", response.Usage.TotalTokens)

	return parseChatReply(response.Choices[0].Message.Content)
}

// parseChatReply 按空行分段解析回复：首段首行为标题，其余段落为摘要
func parseChatReply(text string) (string, string, error) {
	var parts []string
	for _, p := range strings.Split(strings.TrimSpace(text), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "", "", fmt.Errorf("翻译响应内容为空")
	}

	title := strings.TrimSpace(strings.SplitN(parts[0], "\n", 2)[0])
	summary := ""
	if len(parts) > 1 {
		summary = strings.TrimSpace(strings.Join(parts[1:], "\n\n"))
	}
	return title, summary, nil
}
