package agent

import "strings"

// searchKeywords trigger the web-search tool. Matching is plain substring
// containment on the lowercased query; no tokenization or negation handling.
var searchKeywords = []string{
	"current", "latest", "recent", "today", "now", "this year", "2025", "2026",
	"who is", "what is the current", "president", "ceo", "news", "weather",
	"stock price", "score", "winner", "election", "update", "right now",
}

// ShouldSearch reports whether the query needs live web search.
func (a *ResearchAgent) ShouldSearch(query string) bool {
	queryLower := strings.ToLower(query)
	for _, keyword := range a.keywords {
		if strings.Contains(queryLower, keyword) {
			return true
		}
	}
	return false
}
