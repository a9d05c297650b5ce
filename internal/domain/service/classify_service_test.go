package service

import "testing"

func TestClassifyKeywords(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"New LLM model released", CategoryAI},
		{"Claude gets a new agent mode", CategoryAI},
		{"Retro gaming on the Amiga", CategoryGaming},
		{"Rust framework for building tools", CategoryDevTools},
		{"Postgres is a great database", CategoryDevTools},
		{"Kubernetes at scale in the datacenter", CategoryInfra},
		{"Why privacy matters", CategoryInfra},
		{"A curious story about bees", CategoryMisc},
	}

	for _, tt := range tests {
		if got := Classify(tt.title); got != tt.want {
			t.Errorf("Classify(%q) = %s, 期望 %s", tt.title, got, tt.want)
		}
	}
}

func TestClassifyEmptyTitle(t *testing.T) {
	if got := Classify(""); got != CategoryMisc {
		t.Errorf("空标题应归入兜底分类，实际 %s", got)
	}
}

func TestClassifyFirstRuleWins(t *testing.T) {
	// 同时命中AI与基础设施关键词时，按规则表顺序归入AI
	if got := Classify("AI workloads on Kubernetes"); got != CategoryAI {
		t.Errorf("期望 %s，实际 %s", CategoryAI, got)
	}
}

func TestClassifyTotality(t *testing.T) {
	valid := make(map[string]bool)
	for _, c := range Categories() {
		valid[c] = true
	}

	titles := []string{"", "随便什么标题", "GPT-5 is here", "docker compose v3", "???!!!", "game over"}
	for _, title := range titles {
		got := Classify(title)
		if !valid[got] {
			t.Errorf("Classify(%q)返回了未知分类: %s", title, got)
		}
	}
}

func TestCategoriesOrder(t *testing.T) {
	cats := Categories()
	if len(cats) != 5 {
		t.Fatalf("期望5个分类，实际%d个", len(cats))
	}
	if cats[len(cats)-1] != CategoryMisc {
		t.Errorf("兜底分类应排在最后，实际 %s", cats[len(cats)-1])
	}
}
