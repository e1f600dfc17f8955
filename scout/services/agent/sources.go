package agent

import (
	"regexp"

	"scout/scout/types"
)

var sourcePattern = regexp.MustCompile(`\[([^\]]+)\]\(([^\)]+)\)`)

// ExtractSources collects every Markdown link in text as a {title, url}
// pair, in document order. Repeats are kept.
func ExtractSources(text string) []types.Source {
	matches := sourcePattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	sources := make([]types.Source, 0, len(matches))
	for _, m := range matches {
		sources = append(sources, types.Source{Title: m[1], URL: m[2]})
	}
	return sources
}
