package image

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wolfitem/tech-daily/internal/domain/model"
)

func TestProcessContentReplacesPlaceholder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><meta property="og:image" content="https://cdn.example.com/pic.jpg"></head></html>`)
	}))
	defer server.Close()

	content := "### 标题\n\n" + Placeholder(server.URL) + "\n\n摘要。"

	s := NewService(nil, model.ImageConfig{})
	got, uploaded := s.ProcessContent(content, "2025-01-10", 15)

	if uploaded != 1 {
		t.Fatalf("期望嵌入1张配图，实际%d张", uploaded)
	}
	if strings.Contains(got, "<!-- IMAGE: ") {
		t.Error("处理后不应残留占位标记")
	}
	if !strings.Contains(got, `<img src="https://cdn.example.com/pic.jpg"`) {
		t.Errorf("占位标记应替换为img标签:\n%s", got)
	}
}

func TestProcessContentRemovesOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>无og:image</title></head></html>`)
	}))
	defer server.Close()

	content := Placeholder(server.URL) + "\n\n正文。"

	s := NewService(nil, model.ImageConfig{})
	got, uploaded := s.ProcessContent(content, "2025-01-10", 15)

	if uploaded != 0 {
		t.Errorf("无og:image时不应计数，实际%d张", uploaded)
	}
	if strings.Contains(got, "<!-- IMAGE: ") {
		t.Error("失败的占位标记应被移除")
	}
	if !strings.Contains(got, "正文。") {
		t.Error("正文其余部分应保留")
	}
}

func TestProcessContentMaxImagesBudget(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><meta property="og:image" content="/pic.jpg"></head></html>`)
	}))
	defer server.Close()

	content := strings.Join([]string{
		Placeholder(server.URL + "/a"),
		Placeholder(server.URL + "/b"),
		Placeholder(server.URL + "/c"),
	}, "\n\n")

	s := NewService(nil, model.ImageConfig{})
	got, uploaded := s.ProcessContent(content, "2025-01-10", 2)

	if uploaded != 2 {
		t.Fatalf("数量预算应生效，期望2张，实际%d张", uploaded)
	}
	if got2 := strings.Count(got, "<img src="); got2 != 2 {
		t.Errorf("期望2个img标签，实际%d个", got2)
	}
	if strings.Contains(got, "<!-- IMAGE: ") {
		t.Error("超出预算的占位标记应被移除而非保留")
	}
}

func TestProcessContentResolvesRelativeImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><meta property="og:image" content="/images/pic.jpg"></head></html>`)
	}))
	defer server.Close()

	content := Placeholder(server.URL + "/article")

	s := NewService(nil, model.ImageConfig{})
	got, uploaded := s.ProcessContent(content, "2025-01-10", 15)

	if uploaded != 1 {
		t.Fatalf("期望嵌入1张配图，实际%d张", uploaded)
	}
	if !strings.Contains(got, server.URL+"/images/pic.jpg") {
		t.Errorf("相对地址应解析为绝对地址:\n%s", got)
	}
}

func TestProcessContentNoPlaceholders(t *testing.T) {
	s := NewService(nil, model.ImageConfig{})
	content := "### 标题\n\n摘要。"
	got, uploaded := s.ProcessContent(content, "2025-01-10", 15)
	if got != content || uploaded != 0 {
		t.Errorf("无占位标记时内容应原样返回（uploaded=%d）", uploaded)
	}
}

// uploaderFunc 便于测试自定义上传实现
type uploaderFunc func(imageURL, key string) (string, error)

func (f uploaderFunc) Upload(imageURL, key string) (string, error) { return f(imageURL, key) }

func TestProcessContentUploaderKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><meta property="og:image" content="https://cdn.example.com/pic.jpg"></head></html>`)
	}))
	defer server.Close()

	var gotKey string
	up := uploaderFunc(func(imageURL, key string) (string, error) {
		gotKey = key
		return "https://r2.example.com/" + key, nil
	})

	content := Placeholder(server.URL)
	s := NewService(up, model.ImageConfig{})
	got, _ := s.ProcessContent(content, "2025-01-10", 15)

	if gotKey != "images/2025/01/10/article-00.jpg" {
		t.Errorf("上传键格式错误: %q", gotKey)
	}
	if !strings.Contains(got, "https://r2.example.com/images/2025/01/10/article-00.jpg") {
		t.Errorf("img标签应使用上传返回的公开地址:\n%s", got)
	}
}
