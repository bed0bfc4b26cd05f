// Package histview browses a document's version history and restores a
// selected snapshot.
package histview

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/foundry/internal/keys"
	"github.com/nhle/foundry/internal/model"
	"github.com/nhle/foundry/internal/store"
	"github.com/nhle/foundry/internal/theme"
)

// ClosedMsg is sent when the user leaves the history view.
type ClosedMsg struct{}

// VersionsLoadedMsg carries the loaded snapshot list.
type VersionsLoadedMsg struct {
	Versions []model.DocumentVersion
	Err      error
}

// RestoredMsg is sent after a restore attempt. The restored snapshot is
// saved as the document's newest version, so history is never rewritten.
type RestoredMsg struct {
	Doc *model.Document
	Err error
}

// Model is the version history view for one document.
type Model struct {
	store    store.Store
	keys     *keys.KeyMap
	docID    string
	title    string
	versions []model.DocumentVersion
	cursor   int
	loadErr  error
	width    int
	height   int
}

// New creates a history view for the given document.
func New(s store.Store, k *keys.KeyMap, docID, title string, width, height int) Model {
	return Model{
		store:  s,
		keys:   k,
		docID:  docID,
		title:  title,
		width:  width,
		height: height,
	}
}

// Init loads the version list.
func (m Model) Init() tea.Cmd {
	s := m.store
	id := m.docID
	return func() tea.Msg {
		versions, err := s.GetVersions(context.Background(), id)
		return VersionsLoadedMsg{Versions: versions, Err: err}
	}
}

// Update handles messages for the history view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case VersionsLoadedMsg:
		m.versions = msg.Versions
		m.loadErr = msg.Err
		m.cursor = 0
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.versions)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Select):
			return m, m.restore()
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return ClosedMsg{} }
		}
	}

	return m, nil
}

// restore returns a command restoring the focused snapshot.
func (m Model) restore() tea.Cmd {
	if m.cursor >= len(m.versions) {
		return nil
	}
	s := m.store
	id := m.docID
	version := m.versions[m.cursor].Version
	return func() tea.Msg {
		doc, err := s.RestoreVersion(context.Background(), id, version)
		return RestoredMsg{Doc: doc, Err: err}
	}
}

// View renders the snapshot list, newest first.
func (m Model) View() string {
	if m.loadErr != nil {
		return theme.PanelStyle.Render(
			fmt.Sprintf("Could not load history: %v", m.loadErr),
		)
	}
	if len(m.versions) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No saved versions yet.")
	}

	var rows []string
	rows = append(rows, theme.HeaderStyle.Render(
		fmt.Sprintf("History · %s", m.title),
	))
	for i, v := range m.versions {
		line := fmt.Sprintf("v%-4d %s", v.Version,
			v.CreatedAt.Format("2006-01-02 15:04"))
		style := theme.ListItemStyle
		if i == m.cursor {
			style = theme.SelectedItemStyle
			line = "» " + line
		} else {
			line = "  " + line
		}
		rows = append(rows, style.Render(line))
	}
	rows = append(rows, theme.HelpStyle.Render(
		"enter restore as newest version | esc back",
	))

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
