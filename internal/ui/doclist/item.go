package doclist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/foundry/internal/model"
	"github.com/nhle/foundry/internal/theme"
)

// DocItem wraps a model.Document so it can be used in a bubbles/list.
type DocItem struct {
	Doc model.Document
}

// FilterValue returns the string used for fuzzy filtering.
func (i DocItem) FilterValue() string { return i.Doc.Title }

// Title returns the document title for the list.
func (i DocItem) Title() string { return i.Doc.Title }

// Description returns a short summary line for the list.
func (i DocItem) Description() string {
	parts := []string{
		kindLabel(i.Doc.Kind),
		relativeTime(i.Doc.UpdatedAt),
	}
	return strings.Join(parts, " | ")
}

// ItemDelegate implements list.ItemDelegate for rendering documents.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single list item line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	docItem, ok := item.(DocItem)
	if !ok {
		return
	}

	doc := docItem.Doc
	isSelected := index == m.Index()

	kindBadge := kindStyle(doc.Kind).Render(kindLabel(doc.Kind))

	detail := ""
	switch doc.Kind {
	case model.DocumentRoadmap:
		detail = fmt.Sprintf("%d tasks", len(doc.Tasks))
		if doc.LastSync != nil {
			detail += ", synced " + relativeTime(*doc.LastSync)
		}
	case model.DocumentSlideDeck:
		detail = fmt.Sprintf("%d slides", len(doc.Sections))
	default:
		filled := 0
		for _, s := range doc.Sections {
			if s.Content != "" {
				filled++
			}
		}
		detail = fmt.Sprintf("%d/%d blocks", filled, len(doc.Sections))
	}
	detailStr := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(detail)

	refBadge := ""
	if len(doc.IssueRefs) > 0 {
		refBadge = lipgloss.NewStyle().
			Foreground(theme.ColorMagenta).
			Render(fmt.Sprintf(" ⇢%d", len(doc.IssueRefs)))
	}

	timeStr := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(relativeTime(doc.UpdatedAt))

	line := fmt.Sprintf(
		"%s %s %s%s  %s",
		kindBadge, doc.Title, detailStr, refBadge, timeStr,
	)

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// kindLabel returns a short display label for a document kind.
func kindLabel(kind model.DocumentKind) string {
	switch kind {
	case model.DocumentRoadmap:
		return "ROADMAP"
	case model.DocumentJourneyMap:
		return "JOURNEY"
	case model.DocumentBusinessModel:
		return "BMC"
	case model.DocumentLeanCanvas:
		return "LEAN"
	case model.DocumentSlideDeck:
		return "DECK"
	default:
		return strings.ToUpper(string(kind))
	}
}

// kindStyle returns a color-coded badge style for a document kind.
func kindStyle(kind model.DocumentKind) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch kind {
	case model.DocumentRoadmap:
		return base.Foreground(theme.ColorBlue)
	case model.DocumentSlideDeck:
		return base.Foreground(theme.ColorOrange)
	case model.DocumentJourneyMap:
		return base.Foreground(theme.ColorGreen)
	default:
		return base.Foreground(theme.ColorMagenta)
	}
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case d < 24*time.Hour:
		hrs := int(d.Hours())
		if hrs == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hrs)
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	default:
		weeks := int(d.Hours() / 24 / 7)
		if weeks == 1 {
			return "1w ago"
		}
		return fmt.Sprintf("%dw ago", weeks)
	}
}
