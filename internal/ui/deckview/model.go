// Package deckview presents a slide deck document one slide at a time,
// rendered through glamour.
package deckview

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/foundry/internal/keys"
	"github.com/nhle/foundry/internal/slides"
	"github.com/nhle/foundry/internal/theme"
)

// ClosedMsg is sent when the user leaves the deck view.
type ClosedMsg struct{}

// DeckReloadedMsg is sent when a watched deck file changed on disk and
// has been reparsed.
type DeckReloadedMsg struct {
	Deck *slides.Deck
	Err  error
}

// Model is the slide presentation view.
type Model struct {
	deck      *slides.Deck
	keys      *keys.KeyMap
	renderer  *glamour.TermRenderer
	current   int
	showNotes bool
	width     int
	height    int
}

// New creates a deck view for the given deck.
func New(deck *slides.Deck, k *keys.KeyMap, width, height int) Model {
	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-12),
	)
	return Model{
		deck:     deck,
		keys:     k,
		renderer: renderer,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the deck view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DeckReloadedMsg:
		if msg.Err == nil && msg.Deck != nil {
			m.deck = msg.Deck
			if m.current >= len(m.deck.Slides) {
				m.current = len(m.deck.Slides) - 1
			}
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.NextSlide):
			if m.current < len(m.deck.Slides)-1 {
				m.current++
			}
		case key.Matches(msg, m.keys.PrevSlide):
			if m.current > 0 {
				m.current--
			}
		case msg.String() == "s":
			m.showNotes = !m.showNotes
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return ClosedMsg{} }
		}
	}

	return m, nil
}

// View renders the current slide centered in the terminal.
func (m Model) View() string {
	if m.deck == nil || len(m.deck.Slides) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("Empty deck.")
	}

	slide := m.deck.Slides[m.current]

	body := slide.Body
	if slide.Title != "" {
		body = fmt.Sprintf("# %s\n\n%s", slide.Title, slide.Body)
	}

	rendered := body
	if m.renderer != nil {
		if out, err := m.renderer.Render(body); err == nil {
			rendered = out
		}
	}

	content := lipgloss.NewStyle().
		Width(m.width-8).
		Height(m.height-4).
		Align(lipgloss.Center, lipgloss.Center).
		Render(rendered)

	footerText := fmt.Sprintf("%d / %d", m.current+1, len(m.deck.Slides))
	if m.showNotes && slide.Notes != "" {
		footerText += "  ·  " + slide.Notes
	}
	footer := theme.HelpStyle.
		Width(m.width - 8).
		Align(lipgloss.Center).
		Render(footerText)

	return lipgloss.JoinVertical(lipgloss.Center, content, footer)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-12),
	)
	if err == nil {
		m.renderer = renderer
	}
}
