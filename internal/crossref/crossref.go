// Package crossref extracts tracker issue keys from document text so
// canvases and decks can link back to the roadmap.
package crossref

import (
	"regexp"

	"github.com/nhle/foundry/internal/model"
)

// issueKeyPattern matches tracker issue keys (e.g., PROJ-123, ABC-1).
var issueKeyPattern = regexp.MustCompile(`([A-Z][A-Z0-9]+-\d+)`)

// ExtractIssueKeys extracts all issue key matches from text.
// Returns a deduplicated list preserving the order of first occurrence.
func ExtractIssueKeys(text string) []string {
	matches := issueKeyPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var result []string
	for _, m := range matches {
		if seen[m] {
			continue
		}
		seen[m] = true
		result = append(result, m)
	}
	return result
}

// Annotate scans a document's text content and fills IssueRefs with the
// issue keys it mentions. Roadmap task IDs are not included; only keys
// appearing in prose count as references.
func Annotate(doc *model.Document) {
	combined := doc.Title + " " + doc.Description
	for _, section := range doc.Sections {
		combined += " " + section.Title + " " + section.Content
	}
	combined += " " + doc.Source

	doc.IssueRefs = ExtractIssueKeys(combined)
}
