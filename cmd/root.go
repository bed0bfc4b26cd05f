// Package cmd implements the foundry CLI commands.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhle/foundry/internal/app"
	"github.com/nhle/foundry/internal/model"
	"github.com/nhle/foundry/internal/store"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagConfig string
	flagDB     string
)

var rootCmd = &cobra.Command{
	Use:   "foundry",
	Short: "Terminal studio for product strategy artifacts",
	Long: `foundry turns Jira projects into interactive Gantt roadmaps and keeps
canvases, slide decks, and journey maps alongside them. Run foundry with
no arguments to open the TUI; drag bars to reschedule and sync the new
dates back to the tracker.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "path to artifact database")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	p := tea.NewProgram(
		app.New(s, cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err = p.Run()
	return err
}

// configPath resolves the config file location from the flag or default.
func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return model.DefaultConfigPath()
}

// loadConfig reads the application config, falling back to defaults
// when no file exists yet.
func loadConfig() (*model.AppConfig, error) {
	return model.LoadConfig(configPath())
}

// openStore opens the artifact database, creating parent directories
// on first run.
func openStore() (*store.SQLiteStore, error) {
	path := flagDB
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".config", "foundry", "foundry.db")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return store.NewSQLiteStore(path)
}
