// Package canvasview renders a canvas document block by block, with
// the focused block's markdown rendered through glamour.
package canvasview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/foundry/internal/keys"
	"github.com/nhle/foundry/internal/model"
	"github.com/nhle/foundry/internal/theme"
)

// ClosedMsg is sent when the user leaves the canvas view.
type ClosedMsg struct{}

// Model is the canvas document view.
type Model struct {
	doc      *model.Document
	keys     *keys.KeyMap
	renderer *glamour.TermRenderer
	focused  int
	width    int
	height   int
}

// New creates a canvas view for the given document.
func New(doc *model.Document, k *keys.KeyMap, width, height int) Model {
	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-8),
	)
	return Model{
		doc:      doc,
		keys:     k,
		renderer: renderer,
		width:    width,
		height:   height,
	}
}

// Document returns the viewed document.
func (m Model) Document() *model.Document {
	return m.doc
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the canvas view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Down):
		if m.focused < len(m.doc.Sections)-1 {
			m.focused++
		}
	case key.Matches(keyMsg, m.keys.Up):
		if m.focused > 0 {
			m.focused--
		}
	case key.Matches(keyMsg, m.keys.Back):
		return m, func() tea.Msg { return ClosedMsg{} }
	}

	return m, nil
}

// View renders the block index on the left and the focused block's
// content on the right.
func (m Model) View() string {
	if m.doc == nil || len(m.doc.Sections) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("Empty canvas.")
	}

	indexWidth := 28
	var index []string
	index = append(index, theme.HeaderStyle.Render(m.doc.Title))
	for i, section := range m.doc.Sections {
		marker := "  "
		style := theme.ListItemStyle
		if i == m.focused {
			marker = "» "
			style = theme.SelectedItemStyle
		}
		title := section.Title
		if section.Content == "" {
			title += " ·"
		}
		index = append(index, style.Width(indexWidth).Render(marker+title))
	}
	indexCol := lipgloss.JoinVertical(lipgloss.Left, index...)

	section := m.doc.Sections[m.focused]
	content := section.Content
	if content == "" {
		content = "_No content yet. Press 'a' to draft with AI._"
	}

	body := fmt.Sprintf("## %s\n\n%s", section.Title, content)
	rendered := body
	if m.renderer != nil {
		if out, err := m.renderer.Render(body); err == nil {
			rendered = out
		}
	}

	detail := theme.PanelStyle.
		Width(m.width - indexWidth - 6).
		Render(strings.TrimRight(rendered, "\n"))

	return lipgloss.JoinHorizontal(lipgloss.Top, indexCol, " ", detail)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-8),
	)
	if err == nil {
		m.renderer = renderer
	}
}
