package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/foundry/internal/credential"
	"github.com/nhle/foundry/internal/model"
	"github.com/nhle/foundry/internal/source/jira"
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Configure the Jira connection",
	Long: `connect prompts for the tracker URL, account, and API token, validates
the connection, and stores the token in the system keyring. The TUI
offers the same wizard under 'c'.`,
	RunE: runConnect,
}

func init() {
	rootCmd.AddCommand(connectCmd)
}

func runConnect(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	baseURL := cfg.Jira.BaseURL
	email := cfg.Jira.Email
	token := ""

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Base URL").
				Placeholder("https://jira.example.com").
				Value(&baseURL).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("base URL is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Email").
				Description("Leave empty to use a bearer PAT").
				Value(&email),
			huh.NewInput().
				Title("API Token").
				EchoMode(huh.EchoModePassword).
				Value(&token).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("token is required")
					}
					return nil
				}),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	adapter := jira.NewAdapter(baseURL, email, token, cfg.Jira.StartDateField)

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	info, err := adapter.ValidateConnection(ctx)
	if err != nil {
		return fmt.Errorf("validating connection: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Connected as %s\n", info.AccountName)

	projects, err := adapter.GetProjects(ctx)
	if err != nil {
		return fmt.Errorf("listing projects: %w", err)
	}

	options := make([]huh.Option[string], 0, len(projects))
	for _, p := range projects {
		opt := huh.NewOption(fmt.Sprintf("%s - %s", p.Key, p.Name), p.Key)
		for _, sel := range cfg.Jira.Projects {
			if sel == p.Key {
				opt = opt.Selected(true)
			}
		}
		options = append(options, opt)
	}

	selected := cfg.Jira.Projects
	projectForm := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Projects to sync").
				Options(options...).
				Value(&selected),
		),
	)
	if err := projectForm.Run(); err != nil {
		return err
	}

	if err := credential.Set(credential.KeyJiraToken, token); err != nil {
		return fmt.Errorf("storing credential: %w", err)
	}

	cfg.Jira.BaseURL = baseURL
	cfg.Jira.Email = email
	cfg.Jira.Projects = selected
	if err := model.SaveConfig(configPath(), cfg); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Saved. Syncing %d projects.\n", len(selected))
	return nil
}
