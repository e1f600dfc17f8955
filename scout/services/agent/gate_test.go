package agent

import "testing"

func newTestAgent() *ResearchAgent {
	return NewResearchAgent(nil, AgentConfig{Model: DefaultModel, MaxTokens: DefaultMaxTokens})
}

func TestShouldSearch(t *testing.T) {
	a := newTestAgent()

	cases := []struct {
		query string
		want  bool
	}{
		{"what happened today", true},
		{"who is the current president", true},
		{"Who is the President?", true},
		{"LATEST news on the election", true},
		{"what's the weather like", true},
		{"TSLA stock price", true},
		{"best movies of 2025", true},
		{"explain recursion", false},
		{"What is 2+2?", false},
		{"write a haiku about autumn", false},
	}
	for _, c := range cases {
		if got := a.ShouldSearch(c.query); got != c.want {
			t.Errorf("ShouldSearch(%q) = %v, want %v", c.query, got, c.want)
		}
	}
}

func TestShouldSearchExtraKeywords(t *testing.T) {
	a := NewResearchAgent(nil, AgentConfig{
		Model:         DefaultModel,
		MaxTokens:     DefaultMaxTokens,
		ExtraKeywords: []string{"kubecon"},
	})
	if !a.ShouldSearch("when is KubeCon this time") {
		t.Error("expected extra keyword to trigger search")
	}
}
