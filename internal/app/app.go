// Package app wires the store, sync engine, AI provider, and views
// into the root Bubble Tea model.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	aiservice "github.com/nhle/foundry/internal/ai"
	"github.com/nhle/foundry/internal/canvas"
	"github.com/nhle/foundry/internal/credential"
	"github.com/nhle/foundry/internal/crossref"
	"github.com/nhle/foundry/internal/gantt"
	"github.com/nhle/foundry/internal/keys"
	"github.com/nhle/foundry/internal/model"
	"github.com/nhle/foundry/internal/slides"
	"github.com/nhle/foundry/internal/source/jira"
	"github.com/nhle/foundry/internal/store"
	appsync "github.com/nhle/foundry/internal/sync"
	"github.com/nhle/foundry/internal/ui"
	"github.com/nhle/foundry/internal/ui/canvasview"
	"github.com/nhle/foundry/internal/ui/connect"
	"github.com/nhle/foundry/internal/ui/deckview"
	"github.com/nhle/foundry/internal/ui/doclist"
	helpview "github.com/nhle/foundry/internal/ui/help"
	"github.com/nhle/foundry/internal/ui/histview"
	"github.com/nhle/foundry/internal/ui/timeline"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLibrary ViewState = iota
	ViewTimeline
	ViewCanvas
	ViewDeck
	ViewConnect
	ViewHelp
	ViewNewArtifact
	ViewHistory
)

// headerOffset is the number of terminal rows above a view's first
// content row (the application header).
const headerOffset = 1

type unreadCountMsg struct {
	count int
}

type docLoadedMsg struct {
	doc *model.Document
	err error
}

type docSavedMsg struct {
	err error
}

type canvasDraftedMsg struct {
	doc *model.Document
	err error
}

// docDraftedMsg carries an AI-drafted roadmap or slide deck; unlike
// canvases these open via the regular document routing.
type docDraftedMsg struct {
	doc *model.Document
	err error
}

// Model is the root Bubble Tea model that manages view routing,
// layout, and access to the persistence and sync layers.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	store        *store.SQLiteStore
	cfg          *model.AppConfig
	keys         *keys.KeyMap
	syncer       *appsync.Syncer
	provider     aiservice.Provider

	docList     doclist.Model
	timeline    timeline.Model
	canvasView  canvasview.Model
	deckView    deckview.Model
	connectView connect.Model
	helpView    helpview.Model
	histView    histview.Model

	activeDoc *model.Document

	// New-artifact form state (huh binds to these).
	newForm  *huh.Form
	newKind  string
	newTitle string
	newIdea  string

	// Timeline text filter. Keystrokes feed the syncer's debounced
	// filter; a stale rebuild is discarded by its generation counter.
	filterInput textinput.Model
	filtering   bool

	ready       bool
	unreadCount int
	statusMsg   string
}

// New creates the root application model.
func New(s *store.SQLiteStore, cfg *model.AppConfig) Model {
	k := keys.DefaultKeyMap()
	today := model.DateOf(time.Now())

	filter := textinput.New()
	filter.Placeholder = "filter issues..."
	filter.CharLimit = 64

	m := Model{
		currentView: ViewLibrary,
		store:       s,
		cfg:         cfg,
		keys:        k,
		provider:    loadProvider(cfg),
		docList:     doclist.New(s, k, 80, 24),
		timeline:    timeline.New(k, today, 80, 24, headerOffset+1),
		helpView:    helpview.New(k, 80, 24),
		filterInput: filter,
	}
	m.syncer = buildSyncer(s, cfg)
	return m
}

// buildSyncer constructs the sync engine when a tracker connection is
// configured. Returns nil otherwise.
func buildSyncer(s *store.SQLiteStore, cfg *model.AppConfig) *appsync.Syncer {
	if cfg.Jira.BaseURL == "" {
		return nil
	}
	token, err := credential.Get(credential.KeyJiraToken)
	if err != nil || token == "" {
		return nil
	}

	adapter := jira.NewAdapter(
		cfg.Jira.BaseURL, cfg.Jira.Email, token, cfg.Jira.StartDateField,
	)
	debounce := time.Duration(cfg.Display.DebounceMs) * time.Millisecond
	return appsync.New(adapter, s, cfg.Jira, debounce)
}

// loadProvider creates the AI provider if an API key is available from
// the environment or the system keyring. Returns nil otherwise.
func loadProvider(cfg *model.AppConfig) aiservice.Provider {
	credKey := credential.KeyAnthropicAPI
	envKey := "ANTHROPIC_API_KEY"
	if cfg.AI.Provider == "openai" {
		credKey = credential.KeyOpenAIAPI
		envKey = "OPENAI_API_KEY"
	}

	apiKey := os.Getenv(envKey)
	if apiKey == "" {
		var err error
		apiKey, err = credential.Get(credKey)
		if err != nil || apiKey == "" {
			return nil
		}
	}

	provider, err := aiservice.NewProvider(cfg.AI, apiKey)
	if err != nil {
		return nil
	}
	return provider
}

// Init loads the artifact library and the unread notification count.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.docList.Init(),
		m.fetchUnreadCount(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.docList.SetSize(w, h)
		m.timeline.SetSize(w, h)
		m.canvasView.SetSize(w, h)
		m.deckView.SetSize(w, h)
		m.connectView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.histView.SetSize(w, h)
		return m.updateActiveView(msg)

	case unreadCountMsg:
		m.unreadCount = msg.count
		return m, nil

	case doclist.SelectedDocMsg:
		return m, m.loadDoc(msg.DocID)

	case doclist.NewDocMsg:
		return m.openNewArtifactForm()

	case doclist.DeleteDocMsg:
		return m, m.deleteDoc(msg.DocID)

	case doclist.HistoryDocMsg:
		m.previousView = m.currentView
		m.currentView = ViewHistory
		m.histView = histview.New(
			m.store, m.keys, msg.DocID, msg.Title,
			m.layout.ContentWidth(), m.layout.ContentHeight(),
		)
		return m, m.histView.Init()

	case histview.ClosedMsg:
		m.currentView = ViewLibrary
		return m, nil

	case histview.RestoredMsg:
		if msg.Err != nil {
			m.statusMsg = fmt.Sprintf("restore failed: %v", msg.Err)
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("%q restored", msg.Doc.Title)
		m.currentView = ViewLibrary
		return m, m.docList.LoadDocs()

	case docLoadedMsg:
		if msg.err != nil || msg.doc == nil {
			m.statusMsg = fmt.Sprintf("error: %v", msg.err)
			return m, nil
		}
		return m.openDoc(msg.doc)

	case docSavedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("save failed: %v", msg.err)
		}
		return m, m.docList.LoadDocs()

	case canvasDraftedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("draft failed: %v", msg.err)
			return m, nil
		}
		// A redraft of an open canvas replaces its blocks in place.
		if m.activeDoc != nil && m.activeDoc.Kind == msg.doc.Kind {
			msg.doc.ID = m.activeDoc.ID
			msg.doc.CreatedAt = m.activeDoc.CreatedAt
		}
		m.activeDoc = msg.doc
		m.canvasView = canvasview.New(
			msg.doc, m.keys,
			m.layout.ContentWidth(), m.layout.ContentHeight(),
		)
		m.currentView = ViewCanvas
		return m, m.saveDoc(msg.doc)

	case docDraftedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("draft failed: %v", msg.err)
			return m, nil
		}
		next, cmd := m.openDoc(msg.doc)
		return next, tea.Batch(cmd, m.saveDoc(msg.doc))

	case timeline.TaskRescheduledMsg:
		return m, m.pushReschedule(msg)

	case timeline.GranularityChangedMsg:
		return m, nil

	case appsync.RefreshedMsg:
		return m.handleRefreshed(msg)

	case appsync.PushResultMsg:
		if msg.Reverted {
			m.statusMsg = fmt.Sprintf("%s: remote rejected change, reverted", msg.Key)
			if m.activeDoc != nil {
				return m, tea.Batch(m.loadDoc(m.activeDoc.ID), m.fetchUnreadCount())
			}
			return m, m.fetchUnreadCount()
		}
		if msg.Err != nil {
			m.statusMsg = fmt.Sprintf("sync-back failed: %v", msg.Err)
			return m, m.fetchUnreadCount()
		}
		m.statusMsg = fmt.Sprintf("%s rescheduled", msg.Key)
		return m, nil

	case canvasview.ClosedMsg, deckview.ClosedMsg:
		m.currentView = ViewLibrary
		m.activeDoc = nil
		return m, m.docList.LoadDocs()

	case connect.DoneMsg:
		m.currentView = ViewLibrary
		if msg.Saved {
			m.syncer = buildSyncer(m.store, m.cfg)
			m.statusMsg = "tracker connected"
			if m.syncer != nil {
				return m, m.syncer.Refresh()
			}
		}
		return m, nil

	case tea.KeyMsg:
		if m.filtering && m.currentView == ViewTimeline {
			return m.handleFilterKeys(msg)
		}
		if handled, next, cmd := m.handleGlobalKeys(msg); handled {
			return next, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKeys processes keys that work regardless of view. Views
// with text input (connect wizard, new-artifact form) are excluded.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	textCapture := m.currentView == ViewConnect ||
		m.currentView == ViewNewArtifact ||
		(m.currentView == ViewLibrary && m.docList.Searching())
	if textCapture {
		if msg.String() == "ctrl+c" {
			return true, m, tea.Quit
		}
		return false, m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return true, m, tea.Quit

	case "q":
		if m.currentView == ViewLibrary {
			return true, m, tea.Quit
		}

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return true, m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return true, m, nil

	case "c":
		if m.currentView == ViewLibrary {
			m.previousView = m.currentView
			m.currentView = ViewConnect
			m.connectView = connect.New(
				m.cfg, m.layout.ContentWidth(), m.layout.ContentHeight(),
			)
			return true, m, m.connectView.Init()
		}

	case "r":
		if m.syncer == nil {
			m.statusMsg = "not connected; press 'c' to configure the tracker"
			return true, m, nil
		}
		m.statusMsg = "syncing..."
		return true, m, m.syncer.Refresh()

	case "a":
		if m.currentView == ViewCanvas && m.activeDoc != nil {
			return true, m, m.draftCanvas(m.activeDoc)
		}
		if m.currentView == ViewLibrary {
			next, cmd := m.openNewArtifactForm()
			return true, next, cmd
		}

	case "1":
		if m.currentView == ViewLibrary {
			return true, m, m.docList.SetKinds(
				[]model.DocumentKind{model.DocumentRoadmap},
			)
		}

	case "2":
		if m.currentView == ViewLibrary {
			return true, m, m.docList.SetKinds([]model.DocumentKind{
				model.DocumentBusinessModel,
				model.DocumentLeanCanvas,
				model.DocumentJourneyMap,
			})
		}

	case "3":
		if m.currentView == ViewLibrary {
			return true, m, m.docList.SetKinds(
				[]model.DocumentKind{model.DocumentSlideDeck},
			)
		}

	case "/":
		if m.currentView == ViewTimeline && m.syncer != nil {
			m.filtering = true
			return true, m, m.filterInput.Focus()
		}

	case "esc":
		// An in-progress drag owns esc (cancels the gesture).
		if m.currentView == ViewTimeline && !m.timeline.Dragging() {
			m.currentView = ViewLibrary
			m.activeDoc = nil
			return true, m, m.docList.LoadDocs()
		}
	}

	return false, m, nil
}

// handleFilterKeys feeds keystrokes into the timeline filter. Every
// change schedules a debounced rebuild in the syncer; clearing the
// filter rebuilds immediately.
func (m Model) handleFilterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filtering = false
		m.filterInput.Blur()
		return m, nil

	case "esc":
		m.filtering = false
		m.filterInput.Blur()
		m.filterInput.SetValue("")
		if m.syncer != nil {
			return m, m.syncer.SetFilter(appsync.Filter{})
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	if m.syncer == nil {
		return m, cmd
	}
	filterCmd := m.syncer.SetFilter(appsync.Filter{Text: m.filterInput.Value()})
	return m, tea.Batch(cmd, filterCmd)
}

// openDoc routes a loaded document to the view for its kind.
func (m Model) openDoc(doc *model.Document) (tea.Model, tea.Cmd) {
	m.activeDoc = doc
	w := m.layout.ContentWidth()
	h := m.layout.ContentHeight()

	switch doc.Kind {
	case model.DocumentRoadmap:
		m.timeline.SetTasks(doc.Tasks)
		m.currentView = ViewTimeline
		return m, nil

	case model.DocumentSlideDeck:
		deck, err := slides.FromDocument(doc)
		if err != nil {
			m.statusMsg = fmt.Sprintf("error: %v", err)
			m.activeDoc = nil
			return m, nil
		}
		m.deckView = deckview.New(deck, m.keys, w, h)
		m.currentView = ViewDeck
		return m, nil

	default:
		m.canvasView = canvasview.New(doc, m.keys, w, h)
		m.currentView = ViewCanvas
		return m, nil
	}
}

// handleRefreshed applies a completed tracker sync to the active
// roadmap document.
func (m Model) handleRefreshed(msg appsync.RefreshedMsg) (tea.Model, tea.Cmd) {
	if msg.Auth != nil {
		m.statusMsg = msg.Auth.Message + "; press 'c' to reconnect"
		return m, nil
	}
	if msg.Err != nil {
		m.statusMsg = fmt.Sprintf("sync failed: %v", msg.Err)
		return m, nil
	}

	// A filtered rebuild only narrows the rendered schedule; the full
	// roadmap in the store stays intact.
	if msg.Filtered {
		m.timeline.SetTasks(msg.Result.Tasks)
		m.statusMsg = fmt.Sprintf("%d tasks match", len(msg.Result.Tasks))
		return m, nil
	}

	m.statusMsg = fmt.Sprintf("synced %d tasks", len(msg.Result.Tasks))
	if len(msg.Result.Warnings) > 0 {
		m.statusMsg += fmt.Sprintf(" (%d warnings)", len(msg.Result.Warnings))
	}

	if m.activeDoc != nil && m.activeDoc.Kind == model.DocumentRoadmap {
		m.activeDoc.Tasks = msg.Result.Tasks
		now := time.Now()
		m.activeDoc.LastSync = &now
		m.timeline.SetTasks(msg.Result.Tasks)
		return m, m.saveDoc(m.activeDoc)
	}

	return m, nil
}

// pushReschedule persists a rescheduled bar and pushes it to the
// tracker when connected.
func (m Model) pushReschedule(msg timeline.TaskRescheduledMsg) tea.Cmd {
	if m.activeDoc == nil {
		return nil
	}

	if m.syncer != nil {
		return m.syncer.PushDates(m.activeDoc.ID, msg.Index, msg.Task)
	}

	// Not connected: keep the change locally.
	if msg.Index >= 0 && msg.Index < len(m.activeDoc.Tasks) {
		m.activeDoc.Tasks[msg.Index] = msg.Task
	}
	return m.saveDoc(m.activeDoc)
}

// openNewArtifactForm shows the artifact creation form.
func (m Model) openNewArtifactForm() (tea.Model, tea.Cmd) {
	m.newKind = string(model.DocumentLeanCanvas)
	m.newTitle = ""
	m.newIdea = ""

	m.newForm = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Artifact Type").
				Options(
					huh.NewOption("Roadmap - Jira-synced Gantt timeline", string(model.DocumentRoadmap)),
					huh.NewOption("Lean Canvas", string(model.DocumentLeanCanvas)),
					huh.NewOption("Business Model Canvas", string(model.DocumentBusinessModel)),
					huh.NewOption("Customer Journey Map", string(model.DocumentJourneyMap)),
					huh.NewOption("Slide Deck", string(model.DocumentSlideDeck)),
				).
				Value(&m.newKind),
			huh.NewInput().
				Title("Title").
				Value(&m.newTitle).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				}),
			huh.NewText().
				Title("Product Idea").
				Description("Optional. With an AI provider configured, the artifact is drafted from this").
				Value(&m.newIdea),
		),
	).WithWidth(m.layout.ContentWidth() - 8)

	m.previousView = m.currentView
	m.currentView = ViewNewArtifact
	return m, m.newForm.Init()
}

// updateNewArtifactForm drives the creation form to completion.
func (m Model) updateNewArtifactForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	mdl, cmd := m.newForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.newForm = f
	}

	if m.newForm.State == huh.StateAborted {
		m.currentView = m.previousView
		return m, nil
	}
	if m.newForm.State != huh.StateCompleted {
		return m, cmd
	}

	m.currentView = ViewLibrary
	return m.createArtifact()
}

// createArtifact builds the new document from the form values.
func (m Model) createArtifact() (tea.Model, tea.Cmd) {
	kind := model.DocumentKind(m.newKind)

	switch kind {
	case model.DocumentRoadmap:
		if m.newIdea != "" && m.provider != nil {
			return m, m.generateRoadmap(m.newTitle, m.newIdea)
		}
		doc := &model.Document{Kind: kind, Title: m.newTitle, Description: m.newIdea}
		return m, m.saveDoc(doc)

	case model.DocumentSlideDeck:
		if m.newIdea != "" && m.provider != nil {
			return m, m.generateDeck(m.newTitle, m.newIdea)
		}
		deck := &slides.Deck{
			Meta:   slides.Meta{Title: m.newTitle},
			Slides: []slides.Slide{{Title: m.newTitle}},
		}
		doc := slides.ToDocument(deck)
		doc.Description = m.newIdea
		return m, m.saveDoc(doc)

	default:
		if m.newIdea != "" && m.provider != nil {
			return m, m.generateCanvas(kind, m.newTitle, m.newIdea)
		}
		doc, err := canvas.Blank(kind, m.newTitle)
		if err != nil {
			m.statusMsg = fmt.Sprintf("error: %v", err)
			return m, nil
		}
		doc.Description = m.newIdea
		return m, m.saveDoc(doc)
	}
}

// generateCanvas drafts a new canvas with the AI provider.
func (m Model) generateCanvas(kind model.DocumentKind, title, idea string) tea.Cmd {
	provider := m.provider
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		doc, err := canvas.Generate(ctx, provider, kind, title, idea)
		return canvasDraftedMsg{doc: doc, err: err}
	}
}

// generateRoadmap drafts a schedulable roadmap with the AI provider.
func (m Model) generateRoadmap(title, idea string) tea.Cmd {
	provider := m.provider
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		doc, err := gantt.Draft(ctx, provider, title, idea)
		return docDraftedMsg{doc: doc, err: err}
	}
}

// generateDeck drafts a pitch deck with the AI provider.
func (m Model) generateDeck(title, topic string) tea.Cmd {
	provider := m.provider
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		doc, err := slides.Draft(ctx, provider, title, topic)
		return docDraftedMsg{doc: doc, err: err}
	}
}

// draftCanvas redrafts the open canvas from its description.
func (m Model) draftCanvas(doc *model.Document) tea.Cmd {
	if m.provider == nil {
		m.statusMsg = "no AI provider configured"
		return nil
	}
	if doc.Description == "" {
		m.statusMsg = "canvas has no product idea to draft from"
		return nil
	}
	return m.generateCanvas(doc.Kind, doc.Title, doc.Description)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLibrary:
		m.docList, cmd = m.docList.Update(msg)
	case ViewTimeline:
		m.timeline, cmd = m.timeline.Update(msg)
	case ViewCanvas:
		m.canvasView, cmd = m.canvasView.Update(msg)
	case ViewDeck:
		m.deckView, cmd = m.deckView.Update(msg)
	case ViewConnect:
		m.connectView, cmd = m.connectView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewHistory:
		m.histView, cmd = m.histView.Update(msg)
	case ViewNewArtifact:
		return m.updateNewArtifactForm(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	headerTitle := "Foundry"
	if m.activeDoc != nil {
		headerTitle = fmt.Sprintf("Foundry · %s", m.activeDoc.Title)
	}
	if m.unreadCount > 0 {
		headerTitle += fmt.Sprintf(" [%d new]", m.unreadCount)
	}

	header := m.layout.RenderHeader(headerTitle, m.syncStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLibrary:
		return m.docList.View()
	case ViewTimeline:
		return m.timeline.View()
	case ViewCanvas:
		return m.canvasView.View()
	case ViewDeck:
		return m.deckView.View()
	case ViewConnect:
		return m.connectView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewHistory:
		return m.histView.View()
	case ViewNewArtifact:
		return m.newForm.View()
	default:
		return ""
	}
}

// syncStatus returns a short string describing the tracker connection.
func (m Model) syncStatus() string {
	if m.syncer == nil {
		return "not connected"
	}

	status := m.syncer.Status()
	switch status.State {
	case appsync.StateRunning:
		return "syncing"
	case appsync.StateError:
		return "⚠ sync error"
	default:
		if !status.LastSync.IsZero() {
			return "synced " + status.LastSync.Format("15:04")
		}
		return "idle"
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.filtering {
		return "/ " + m.filterInput.View()
	}
	if m.statusMsg != "" {
		return m.statusMsg
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help"
	case ViewTimeline:
		return "drag bars to reschedule | h/l shift | H/L edges | g months/quarters | / filter | r sync | esc back"
	case ViewCanvas:
		return "j/k blocks | a AI draft | esc back"
	case ViewDeck:
		return "←/→ slides | s notes | esc back"
	case ViewHistory:
		return "j/k versions | enter restore | esc back"
	case ViewConnect, ViewNewArtifact:
		return "enter submit | esc cancel"
	default:
		return "q quit | ? help | n new | enter open | / search | r sync | c connect"
	}
}

// loadDoc returns a command that loads a document by ID.
func (m Model) loadDoc(id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		doc, err := s.GetDocument(context.Background(), id)
		return docLoadedMsg{doc: doc, err: err}
	}
}

// saveDoc annotates and persists a document.
func (m Model) saveDoc(doc *model.Document) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		crossref.Annotate(doc)
		err := s.SaveDocument(context.Background(), doc)
		return docSavedMsg{err: err}
	}
}

// deleteDoc removes a document and reloads the library.
func (m Model) deleteDoc(id string) tea.Cmd {
	s := m.store
	reload := m.docList.LoadDocs()
	return func() tea.Msg {
		if err := s.DeleteDocument(context.Background(), id); err != nil {
			return docSavedMsg{err: err}
		}
		return reload()
	}
}

// fetchUnreadCount queries the store for unread notifications.
func (m Model) fetchUnreadCount() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		notifications, err := s.GetUnreadNotifications(context.Background())
		if err != nil {
			return unreadCountMsg{count: 0}
		}
		return unreadCountMsg{count: len(notifications)}
	}
}
