package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhle/foundry/internal/crossref"
	"github.com/nhle/foundry/internal/keys"
	"github.com/nhle/foundry/internal/slides"
	"github.com/nhle/foundry/internal/ui/deckview"
)

var slidesCmd = &cobra.Command{
	Use:   "slides",
	Short: "Work with markdown slide decks",
}

var slidesImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a markdown deck into the artifact library",
	Args:  cobra.ExactArgs(1),
	RunE:  runSlidesImport,
}

var slidesPresentCmd = &cobra.Command{
	Use:   "present <file>",
	Short: "Present a markdown deck, reloading on file changes",
	Long: `present opens a deck file full screen and watches it for changes, so
edits in another window show up on the current slide as you save.`,
	Args: cobra.ExactArgs(1),
	RunE: runSlidesPresent,
}

func init() {
	slidesCmd.AddCommand(slidesImportCmd)
	slidesCmd.AddCommand(slidesPresentCmd)
	rootCmd.AddCommand(slidesCmd)
}

func runSlidesImport(_ *cobra.Command, args []string) error {
	deck, err := slides.Load(args[0])
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	doc := slides.ToDocument(deck)
	crossref.Annotate(doc)
	if err := s.SaveDocument(context.Background(), doc); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Imported %q (%d slides) as %s\n",
		doc.Title, len(deck.Slides), doc.ID)
	return nil
}

func runSlidesPresent(_ *cobra.Command, args []string) error {
	path := args[0]
	deck, err := slides.Load(path)
	if err != nil {
		return err
	}

	m := presenterModel{
		view: deckview.New(deck, keys.DefaultKeyMap(), 80, 24),
	}
	p := tea.NewProgram(m, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher, err := slides.Watch(path, func() {
		reloaded, loadErr := slides.Load(path)
		p.Send(deckview.DeckReloadedMsg{Deck: reloaded, Err: loadErr})
	})
	if err == nil {
		defer watcher.Close()
		go watcher.Run(ctx, nil)
	}

	_, err = p.Run()
	return err
}

// presenterModel adapts the deck view into a standalone program.
type presenterModel struct {
	view deckview.Model
}

func (m presenterModel) Init() tea.Cmd {
	return m.view.Init()
}

func (m presenterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.view.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case deckview.ClosedMsg:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

func (m presenterModel) View() string {
	return m.view.View()
}
