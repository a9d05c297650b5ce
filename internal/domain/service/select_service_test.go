package service

import (
	"fmt"
	"testing"

	"github.com/wolfitem/tech-daily/internal/domain/model"
)

// makeArticles 生成某个信息源的n篇有序测试文章
func makeArticles(source string, n int) []model.Article {
	articles := make([]model.Article, 0, n)
	for i := 0; i < n; i++ {
		articles = append(articles, model.Article{
			Title:  fmt.Sprintf("%s-article-%d", source, i),
			Link:   fmt.Sprintf("https://example.com/%s/%d", source, i),
			Source: source,
		})
	}
	return articles
}

func TestPickBalancedQuotaThenFill(t *testing.T) {
	s := NewSelectService()

	var pool []model.Article
	pool = append(pool, makeArticles("s1", 5)...)
	pool = append(pool, makeArticles("s2", 1)...)

	got := s.PickBalanced(pool, 4, 2, []string{"s1", "s2"})

	// 第一轮取 s1[0] s1[1] s2[0]，补足轮从偏移2开始取 s1[2]
	want := []string{"s1-article-0", "s1-article-1", "s2-article-0", "s1-article-2"}
	if len(got) != len(want) {
		t.Fatalf("期望%d篇，实际%d篇", len(want), len(got))
	}
	for i, title := range want {
		if got[i].Title != title {
			t.Errorf("位置%d期望%s，实际%s", i, title, got[i].Title)
		}
	}
}

func TestPickBalancedExactLimit(t *testing.T) {
	s := NewSelectService()

	var pool []model.Article
	pool = append(pool, makeArticles("s1", 10)...)
	pool = append(pool, makeArticles("s2", 10)...)
	pool = append(pool, makeArticles("s3", 10)...)

	got := s.PickBalanced(pool, 6, 2, []string{"s1", "s2", "s3"})
	if len(got) != 6 {
		t.Fatalf("期望恰好6篇，实际%d篇", len(got))
	}
}

func TestPickBalancedShortCircuitFirstPass(t *testing.T) {
	s := NewSelectService()

	var pool []model.Article
	pool = append(pool, makeArticles("s1", 5)...)
	pool = append(pool, makeArticles("s2", 5)...)
	pool = append(pool, makeArticles("s3", 5)...)

	// 第一轮在s2处即达到limit，s3不应出现
	got := s.PickBalanced(pool, 3, 2, []string{"s1", "s2", "s3"})
	if len(got) != 3 {
		t.Fatalf("期望3篇，实际%d篇", len(got))
	}
	for _, a := range got {
		if a.Source == "s3" {
			t.Errorf("达到limit后不应再取s3的文章: %s", a.Title)
		}
	}
}

func TestPickBalancedFewerThanLimit(t *testing.T) {
	s := NewSelectService()

	var pool []model.Article
	pool = append(pool, makeArticles("s1", 2)...)
	pool = append(pool, makeArticles("s2", 1)...)

	got := s.PickBalanced(pool, 10, 2, nil)
	if len(got) != 3 {
		t.Fatalf("候选不足时应全部返回，期望3篇，实际%d篇", len(got))
	}

	// 不允许出现重复
	seen := make(map[string]bool)
	for _, a := range got {
		if seen[a.Link] {
			t.Errorf("结果中出现重复文章: %s", a.Link)
		}
		seen[a.Link] = true
	}
}

func TestPickBalancedLexicographicFallback(t *testing.T) {
	s := NewSelectService()

	var pool []model.Article
	pool = append(pool, makeArticles("zeta", 1)...)
	pool = append(pool, makeArticles("alpha", 1)...)

	// 未指定优先顺序时按信息源标识的字典序
	got := s.PickBalanced(pool, 2, 2, nil)
	if len(got) != 2 {
		t.Fatalf("期望2篇，实际%d篇", len(got))
	}
	if got[0].Source != "alpha" || got[1].Source != "zeta" {
		t.Errorf("期望字典序 alpha,zeta，实际 %s,%s", got[0].Source, got[1].Source)
	}
}

func TestPickBalancedPreservesOrderWithinSource(t *testing.T) {
	s := NewSelectService()

	pool := makeArticles("s1", 6)
	got := s.PickBalanced(pool, 5, 2, []string{"s1"})

	if len(got) != 5 {
		t.Fatalf("期望5篇，实际%d篇", len(got))
	}
	for i, a := range got {
		want := fmt.Sprintf("s1-article-%d", i)
		if a.Title != want {
			t.Errorf("位置%d期望%s，实际%s", i, want, a.Title)
		}
	}
}
