// Package canvas defines the strategy canvas templates and turns
// AI-generated markdown drafts into structured documents.
package canvas

import (
	"context"
	"fmt"
	"strings"

	"github.com/nhle/foundry/internal/ai"
	"github.com/nhle/foundry/internal/model"
)

// Template describes one canvas kind: its display name and the ordered
// block vocabulary.
type Template struct {
	Kind     model.DocumentKind
	Name     string
	Sections []string
}

// Templates lists every supported canvas, in menu order.
var Templates = []Template{
	{
		Kind: model.DocumentBusinessModel,
		Name: "Business Model Canvas",
		Sections: []string{
			"Key Partners",
			"Key Activities",
			"Key Resources",
			"Value Propositions",
			"Customer Relationships",
			"Channels",
			"Customer Segments",
			"Cost Structure",
			"Revenue Streams",
		},
	},
	{
		Kind: model.DocumentLeanCanvas,
		Name: "Lean Canvas",
		Sections: []string{
			"Problem",
			"Customer Segments",
			"Unique Value Proposition",
			"Solution",
			"Channels",
			"Revenue Streams",
			"Cost Structure",
			"Key Metrics",
			"Unfair Advantage",
		},
	},
	{
		Kind: model.DocumentJourneyMap,
		Name: "Customer Journey Map",
		Sections: []string{
			"Awareness",
			"Consideration",
			"Decision",
			"Onboarding",
			"Retention",
			"Advocacy",
		},
	},
}

// TemplateFor returns the template for a canvas kind.
func TemplateFor(kind model.DocumentKind) (Template, error) {
	for _, t := range Templates {
		if t.Kind == kind {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("no canvas template for kind %q", kind)
}

// Blank creates an empty document for a canvas kind with all sections
// present in template order.
func Blank(kind model.DocumentKind, title string) (*model.Document, error) {
	tpl, err := TemplateFor(kind)
	if err != nil {
		return nil, err
	}

	doc := &model.Document{Kind: kind, Title: title}
	for _, name := range tpl.Sections {
		doc.Sections = append(doc.Sections, model.Section{Title: name})
	}
	return doc, nil
}

// Generate asks the provider to draft a canvas for the product idea and
// parses the response into a document. Sections the model skipped are
// kept empty so the canvas layout stays complete.
func Generate(
	ctx context.Context,
	provider ai.Provider,
	kind model.DocumentKind,
	title, productIdea string,
) (*model.Document, error) {
	tpl, err := TemplateFor(kind)
	if err != nil {
		return nil, err
	}

	system, user := ai.CanvasPrompt(tpl.Name, productIdea, tpl.Sections)
	raw, err := provider.Generate(ctx, system, user)
	if err != nil {
		return nil, fmt.Errorf("generating %s: %w", tpl.Name, err)
	}

	doc := &model.Document{
		Kind:        kind,
		Title:       title,
		Description: productIdea,
	}
	drafted := ParseSections(raw)
	for _, name := range tpl.Sections {
		doc.Sections = append(doc.Sections, model.Section{
			Title:   name,
			Content: drafted[normalizeHeading(name)],
		})
	}
	return doc, nil
}

// ParseSections splits markdown into a heading->content map. Both
// level-1 and level-2 headings delimit sections; text before the first
// heading is dropped.
func ParseSections(markdown string) map[string]string {
	sections := make(map[string]string)

	var (
		heading string
		lines   []string
	)
	flush := func() {
		if heading == "" {
			return
		}
		sections[heading] = strings.TrimSpace(strings.Join(lines, "\n"))
	}

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "## "):
			flush()
			heading = normalizeHeading(trimmed[3:])
			lines = nil
		case strings.HasPrefix(trimmed, "# "):
			flush()
			heading = normalizeHeading(trimmed[2:])
			lines = nil
		default:
			if heading != "" {
				lines = append(lines, line)
			}
		}
	}
	flush()

	return sections
}

func normalizeHeading(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
