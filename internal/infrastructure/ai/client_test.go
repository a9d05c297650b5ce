package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wolfitem/tech-daily/internal/domain/model"
)

func TestAnthropicClientTranslate(t *testing.T) {
	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")

		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("请求体解析失败: %v", err)
		}
		if req.System == "" || len(req.Messages) != 1 {
			t.Errorf("请求体缺少system或消息: %+v", req)
		}

		// 响应含thinking块，客户端应跳过并取第一个text块
		resp := anthropicResponse{Content: []anthropicContentBlock{
			{Type: "thinking", Text: "内部推理"},
			{Type: "text", Text: "标题：中文标题\n摘要：中文摘要。\n要点：\n- 一\n- 二\n- 三"},
		}}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewAnthropicClient(model.BackendConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})

	title, summary, err := client.Translate(context.Background(), "Title", "desc", "Hacker News")
	if err != nil {
		t.Fatalf("翻译失败: %v", err)
	}
	if gotPath != "/v1/messages" {
		t.Errorf("请求路径错误: %s", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("鉴权头错误: %s", gotAuth)
	}
	if title != "中文标题" {
		t.Errorf("标题解析错误: %q", title)
	}
	if !strings.Contains(summary, "中文摘要。") || !strings.Contains(summary, "- 三") {
		t.Errorf("摘要解析错误: %q", summary)
	}
}

func TestAnthropicClientNoTextBlock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := anthropicResponse{Content: []anthropicContentBlock{
			{Type: "thinking", Text: "只有推理块"},
		}}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewAnthropicClient(model.BackendConfig{APIKey: "k", BaseURL: server.URL})
	if _, _, err := client.Translate(context.Background(), "T", "", ""); err == nil {
		t.Error("缺少text块应返回错误")
	}
}

func TestOpenAIClientTranslate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("请求路径错误: %s", r.URL.Path)
		}
		reply := "中文标题\n\n中文摘要第一段。\n\n第二段。"
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": reply}},
			},
			"usage": map[string]int{"prompt_tokens": 10, "total_tokens": 50},
		})
	}))
	defer server.Close()

	client := NewOpenAIClient(model.BackendConfig{APIKey: "k", BaseURL: server.URL})
	title, summary, err := client.Translate(context.Background(), "Title", "desc", "Lobsters")
	if err != nil {
		t.Fatalf("翻译失败: %v", err)
	}
	if title != "中文标题" {
		t.Errorf("标题解析错误: %q", title)
	}
	if summary != "中文摘要第一段。\n\n第二段。" {
		t.Errorf("摘要解析错误: %q", summary)
	}
}

func TestOpenAIClientUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewOpenAIClient(model.BackendConfig{APIKey: "k", BaseURL: server.URL})
	if _, _, err := client.Translate(context.Background(), "T", "", ""); err == nil {
		t.Error("上游非200应返回错误")
	}
}
