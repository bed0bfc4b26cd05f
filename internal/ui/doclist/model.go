package doclist

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/foundry/internal/keys"
	"github.com/nhle/foundry/internal/model"
	"github.com/nhle/foundry/internal/store"
	"github.com/nhle/foundry/internal/theme"
)

// DocsLoadedMsg is sent when documents have been loaded from the store.
type DocsLoadedMsg struct {
	Docs []model.Document
}

// SelectedDocMsg is sent when a user opens a document.
type SelectedDocMsg struct {
	DocID string
	Kind  model.DocumentKind
}

// DeleteDocMsg is sent when a user asks to delete the focused document.
type DeleteDocMsg struct {
	DocID string
}

// NewDocMsg is sent when a user asks to create a new artifact.
type NewDocMsg struct{}

// HistoryDocMsg is sent when a user asks to browse the focused
// document's version history.
type HistoryDocMsg struct {
	DocID string
	Title string
}

// Model is the artifact library view.
type Model struct {
	list        list.Model
	store       store.Store
	keys        *keys.KeyMap
	filter      store.DocumentFilter
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates a new document list model.
func New(s store.Store, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Artifacts"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search artifacts..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:  l,
		store: s,
		keys:  k,
		filter: store.DocumentFilter{
			SortBy:   "updated_at",
			SortDesc: true,
		},
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Init returns a command that loads the initial set of documents.
func (m Model) Init() tea.Cmd {
	return m.LoadDocs()
}

// Searching reports whether the search input is capturing keystrokes.
func (m Model) Searching() bool {
	return m.searchMode
}

// SetKind restricts the list to one document kind, or clears the
// restriction when kind is nil.
func (m *Model) SetKind(kind *model.DocumentKind) tea.Cmd {
	m.filter.Kind = kind
	m.filter.Kinds = nil
	return m.LoadDocs()
}

// SetKinds restricts the list to a group of document kinds. Passing the
// active group again clears the restriction.
func (m *Model) SetKinds(kinds []model.DocumentKind) tea.Cmd {
	if m.filter.Kind == nil && sameKinds(m.filter.Kinds, kinds) {
		m.filter.Kinds = nil
	} else {
		m.filter.Kind = nil
		m.filter.Kinds = kinds
	}
	return m.LoadDocs()
}

func sameKinds(a, b []model.DocumentKind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Update handles messages for the document list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DocsLoadedMsg:
		items := make([]list.Item, len(msg.Docs))
		for i, doc := range msg.Docs {
			items[i] = DocItem{Doc: doc}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		query := m.searchInput.Value()
		if query != "" {
			m.filter.Query = &query
		} else {
			m.filter.Query = nil
		}
		return m, m.LoadDocs()

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.filter.Query = nil
		return m, m.LoadDocs()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(DocItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedDocMsg{DocID: item.Doc.ID, Kind: item.Doc.Kind}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.New):
		return m, func() tea.Msg { return NewDocMsg{} }

	case key.Matches(msg, m.keys.History):
		item, ok := m.list.SelectedItem().(DocItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return HistoryDocMsg{DocID: item.Doc.ID, Title: item.Doc.Title}
		}

	case key.Matches(msg, m.keys.Delete):
		item, ok := m.list.SelectedItem().(DocItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return DeleteDocMsg{DocID: item.Doc.ID}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the document list view.
func (m Model) View() string {
	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, m.list.View())
	}

	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}

	return m.list.View()
}

// renderEmptyState shows guidance text when the library is empty.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.filter.Kind != nil || m.filter.Query != nil {
		return style.Render("No matching artifacts.\nTry adjusting your filters.")
	}

	return style.Render(
		"No artifacts yet.\n\n" +
			"Press 'n' to create one, or 'a' to draft one with AI.",
	)
}

// LoadDocs returns a tea.Cmd that queries the store with the current filter.
func (m Model) LoadDocs() tea.Cmd {
	filter := m.filter
	s := m.store
	return func() tea.Msg {
		docs, err := s.GetDocuments(context.Background(), filter)
		if err != nil {
			return DocsLoadedMsg{Docs: nil}
		}
		return DocsLoadedMsg{Docs: docs}
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
