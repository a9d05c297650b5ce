package ai

import (
	"strings"
	"testing"
)

func TestParseStructuredReplyFull(t *testing.T) {
	text := `标题：新的推理模型发布
摘要：某实验室发布了新模型。性能有明显提升。
要点：
- 推理速度更快
- 成本更低
- 支持更长上下文`

	title, summary := parseStructuredReply(text)
	if title != "新的推理模型发布" {
		t.Errorf("标题解析错误: %q", title)
	}
	if !strings.HasPrefix(summary, "某实验室发布了新模型。性能有明显提升。") {
		t.Errorf("摘要应以原摘要开头: %q", summary)
	}
	if !strings.Contains(summary, "要点：\n- 推理速度更快\n- 成本更低\n- 支持更长上下文") {
		t.Errorf("要点拼接错误: %q", summary)
	}
}

func TestParseStructuredReplyPadsBullets(t *testing.T) {
	text := `标题：标题
摘要：摘要。
要点：
- 只有一条`

	_, summary := parseStructuredReply(text)
	if got := strings.Count(summary, "- "); got != 3 {
		t.Errorf("要点应补齐到3条，实际%d条", got)
	}
	if strings.Count(summary, placeholderBullet) != 2 {
		t.Errorf("缺失的要点应用占位文案补齐: %q", summary)
	}
}

func TestParseStructuredReplyNoBullets(t *testing.T) {
	_, summary := parseStructuredReply("标题：标题\n摘要：摘要。")
	if strings.Count(summary, placeholderBullet) != 3 {
		t.Errorf("无要点时应补3条占位: %q", summary)
	}
}

func TestParseStructuredReplyMultiLineSummary(t *testing.T) {
	text := `标题：标题
摘要：第一句。
第二句延续。
要点：
- a
- b
- c`

	_, summary := parseStructuredReply(text)
	if !strings.Contains(summary, "第一句。") || !strings.Contains(summary, "第二句延续。") {
		t.Errorf("多行摘要应全部保留: %q", summary)
	}
}

func TestParseChatReply(t *testing.T) {
	text := `新的推理模型发布

某实验室发布了新模型。

性能有明显提升。`

	title, summary, err := parseChatReply(text)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if title != "新的推理模型发布" {
		t.Errorf("标题解析错误: %q", title)
	}
	if summary != "某实验室发布了新模型。\n\n性能有明显提升。" {
		t.Errorf("摘要解析错误: %q", summary)
	}
}

func TestParseChatReplyTitleOnly(t *testing.T) {
	title, summary, err := parseChatReply("只有标题")
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if title != "只有标题" || summary != "" {
		t.Errorf("单段回复应只产出标题: %q / %q", title, summary)
	}
}

func TestParseChatReplyEmpty(t *testing.T) {
	if _, _, err := parseChatReply("  \n\n  "); err == nil {
		t.Error("空回复应返回错误")
	}
}

func TestBuildUserText(t *testing.T) {
	got := buildUserText("Title", "  desc  ", "Hacker News")
	want := "来源：Hacker News\n标题：Title\n描述：desc"
	if got != want {
		t.Errorf("用户消息格式错误:\n%q\n期望:\n%q", got, want)
	}
}
