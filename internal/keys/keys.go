package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Search
	Search key.Binding

	// Help toggle
	Help key.Binding

	// Manual refresh from the tracker
	Refresh key.Binding

	// View switching
	ViewRoadmap key.Binding
	ViewCanvas  key.Binding
	ViewDeck    key.Binding

	// Timeline scheduling (keyboard fallback for mouse drag)
	MoveLeft    key.Binding
	MoveRight   key.Binding
	GrowLeft    key.Binding
	GrowRight   key.Binding
	Granularity key.Binding

	// Artifact actions
	New      key.Binding
	Generate key.Binding
	History  key.Binding
	Delete   key.Binding

	// Slide navigation
	NextSlide key.Binding
	PrevSlide key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		ViewRoadmap: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "roadmaps"),
		),
		ViewCanvas: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "canvases"),
		),
		ViewDeck: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "decks"),
		),
		MoveLeft: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "shift left"),
		),
		MoveRight: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "shift right"),
		),
		GrowLeft: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "move start"),
		),
		GrowRight: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "move end"),
		),
		Granularity: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "months/quarters"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new artifact"),
		),
		Generate: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "AI draft"),
		),
		History: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "versions"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		NextSlide: key.NewBinding(
			key.WithKeys("right", "n", " "),
			key.WithHelp("→", "next slide"),
		),
		PrevSlide: key.NewBinding(
			key.WithKeys("left", "p"),
			key.WithHelp("←", "previous slide"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Select, k.Back,
		k.Quit, k.Help, k.Search,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back, k.Quit},
		{k.ViewRoadmap, k.ViewCanvas, k.ViewDeck, k.Search, k.Refresh},
		{k.MoveLeft, k.MoveRight, k.GrowLeft, k.GrowRight, k.Granularity},
		{k.New, k.Generate, k.History, k.Delete, k.Help},
	}
}
