// Package slides parses Markdown slide decks with optional YAML
// frontmatter and writes them back in the same format.
package slides

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/nhle/foundry/internal/model"
)

const fileMode = 0o600

// Meta holds the deck-level frontmatter fields.
type Meta struct {
	Title  string `yaml:"title,omitempty"`
	Author string `yaml:"author,omitempty"`
	Date   string `yaml:"date,omitempty"`
	Theme  string `yaml:"theme,omitempty"`
}

// Slide is a single slide: its heading, body markdown, and speaker notes.
type Slide struct {
	Title string
	Body  string
	Notes string
}

// Deck is a parsed slide deck.
type Deck struct {
	Meta   Meta
	Slides []Slide
}

// Load reads and parses a deck file.
func Load(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading deck file: %w", err)
	}
	deck, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return deck, nil
}

// Parse parses deck markdown. Frontmatter is optional; slides are
// separated by lines containing only "---", and a level-1 or level-2
// heading also opens a new slide. Speaker notes are HTML comments of
// the form <!-- notes: ... -->.
func Parse(data []byte) (*Deck, error) {
	content := string(data)

	var deck Deck
	if strings.HasPrefix(content, "---\n") {
		fm, body, err := splitFrontmatter(content)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(fm, &deck.Meta); err != nil {
			return nil, fmt.Errorf("parsing frontmatter: %w", err)
		}
		content = body
	}

	var (
		current   *Slide
		bodyLines []string
		inNotes   bool
		noteLines []string
	)

	flushBody := func() {
		if current == nil {
			return
		}
		current.Body = strings.TrimSpace(strings.Join(bodyLines, "\n"))
		current.Notes = strings.TrimSpace(strings.Join(noteLines, "\n"))
		deck.Slides = append(deck.Slides, *current)
		current = nil
		bodyLines = nil
		noteLines = nil
	}

	openSlide := func(title string) {
		flushBody()
		current = &Slide{Title: title}
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)

		if inNotes {
			if idx := strings.Index(trimmed, "-->"); idx >= 0 {
				noteLines = append(noteLines, strings.TrimSpace(trimmed[:idx]))
				inNotes = false
			} else {
				noteLines = append(noteLines, trimmed)
			}
			continue
		}

		switch {
		case trimmed == "---":
			flushBody()

		case strings.HasPrefix(trimmed, "<!-- notes:"):
			note := strings.TrimPrefix(trimmed, "<!-- notes:")
			if idx := strings.Index(note, "-->"); idx >= 0 {
				noteLines = append(noteLines, strings.TrimSpace(note[:idx]))
			} else {
				noteLines = append(noteLines, strings.TrimSpace(note))
				inNotes = true
			}

		case strings.HasPrefix(trimmed, "# "):
			openSlide(strings.TrimSpace(trimmed[2:]))

		case strings.HasPrefix(trimmed, "## "):
			openSlide(strings.TrimSpace(trimmed[3:]))

		default:
			if current == nil {
				if trimmed == "" {
					continue
				}
				// Body text before any heading opens an untitled slide.
				current = &Slide{}
			}
			bodyLines = append(bodyLines, line)
		}
	}
	flushBody()

	if len(deck.Slides) == 0 {
		return nil, errors.New("deck contains no slides")
	}

	return &deck, nil
}

// Format serializes a deck back to markdown with YAML frontmatter.
func Format(deck *Deck) ([]byte, error) {
	var buf bytes.Buffer

	if deck.Meta != (Meta{}) {
		fm, err := yaml.Marshal(deck.Meta)
		if err != nil {
			return nil, fmt.Errorf("marshaling frontmatter: %w", err)
		}
		buf.WriteString("---\n")
		buf.Write(fm)
		buf.WriteString("---\n\n")
	}

	for i, slide := range deck.Slides {
		if i > 0 {
			buf.WriteString("\n---\n\n")
		}
		if slide.Title != "" {
			buf.WriteString("# ")
			buf.WriteString(slide.Title)
			buf.WriteString("\n")
		}
		if slide.Body != "" {
			if slide.Title != "" {
				buf.WriteString("\n")
			}
			buf.WriteString(slide.Body)
			buf.WriteString("\n")
		}
		if slide.Notes != "" {
			buf.WriteString("\n<!-- notes: ")
			buf.WriteString(slide.Notes)
			buf.WriteString(" -->\n")
		}
	}

	return buf.Bytes(), nil
}

// Save writes a deck to a markdown file.
func Save(path string, deck *Deck) error {
	data, err := Format(deck)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, fileMode)
}

// ToDocument converts a deck into a storable document. Each slide
// becomes a section; notes travel in the section content after a
// blank line marker.
func ToDocument(deck *Deck) *model.Document {
	title := deck.Meta.Title
	if title == "" && len(deck.Slides) > 0 {
		title = deck.Slides[0].Title
	}

	doc := &model.Document{
		Kind:  model.DocumentSlideDeck,
		Title: title,
	}
	for _, slide := range deck.Slides {
		content := slide.Body
		if slide.Notes != "" {
			content += "\n\n<!-- notes: " + slide.Notes + " -->"
		}
		doc.Sections = append(doc.Sections, model.Section{
			Title:   slide.Title,
			Content: strings.TrimSpace(content),
		})
	}
	return doc
}

// FromDocument rebuilds a deck from a stored slide deck document.
func FromDocument(doc *model.Document) (*Deck, error) {
	if doc.Kind != model.DocumentSlideDeck {
		return nil, fmt.Errorf("document %s is a %s, not a slide deck", doc.ID, doc.Kind)
	}

	deck := &Deck{Meta: Meta{Title: doc.Title}}
	for _, section := range doc.Sections {
		slide := Slide{Title: section.Title, Body: section.Content}
		if idx := strings.Index(slide.Body, "<!-- notes:"); idx >= 0 {
			rest := slide.Body[idx+len("<!-- notes:"):]
			if end := strings.Index(rest, "-->"); end >= 0 {
				slide.Notes = strings.TrimSpace(rest[:end])
				slide.Body = strings.TrimSpace(slide.Body[:idx])
			}
		}
		deck.Slides = append(deck.Slides, slide)
	}
	if len(deck.Slides) == 0 {
		return nil, errors.New("document contains no slides")
	}
	return deck, nil
}

// splitFrontmatter splits deck markdown into YAML frontmatter and body.
func splitFrontmatter(content string) ([]byte, string, error) {
	rest := content[4:] // skip opening ---\n
	idx := strings.Index(rest, "\n---\n")
	if idx < 0 {
		return nil, "", errors.New("unclosed frontmatter (missing closing ---)")
	}

	fm := rest[:idx]
	body := strings.TrimLeft(rest[idx+len("\n---\n"):], "\n")
	return []byte(fm), body, nil
}
