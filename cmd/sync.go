package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/nhle/foundry/internal/credential"
	"github.com/nhle/foundry/internal/gantt"
	"github.com/nhle/foundry/internal/model"
	"github.com/nhle/foundry/internal/source"
	"github.com/nhle/foundry/internal/source/jira"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch the tracker schedule and print it",
	Long: `sync runs a one-shot fetch against the configured projects and prints
the resulting schedule. Useful for scripting and for checking the
connection without opening the TUI.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Jira.BaseURL == "" {
		return fmt.Errorf("no tracker configured; run 'foundry connect' first")
	}
	token, err := credential.Get(credential.KeyJiraToken)
	if err != nil || token == "" {
		return fmt.Errorf("no stored credential; run 'foundry connect' first")
	}

	adapter := jira.NewAdapter(
		cfg.Jira.BaseURL, cfg.Jira.Email, token, cfg.Jira.StartDateField,
	)

	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	issues, err := fetchConfigured(ctx, adapter, cfg)
	if err != nil {
		return err
	}

	result := gantt.Transform(issues, time.Now())

	fmt.Fprintf(os.Stdout, "%-12s %-42s %-11s %-11s %5s\n",
		"KEY", "TASK", "START", "END", "DONE")
	for _, t := range result.Tasks {
		label := ansi.Truncate(t.Label, 42, "…")
		fmt.Fprintf(os.Stdout, "%-12s %-42s %-11s %-11s %4.0f%%\n",
			t.ID, label, t.Start, t.End, t.Progress*100)
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
	fmt.Fprintf(os.Stdout, "\n%d tasks from %d issues\n", len(result.Tasks), len(issues))
	return nil
}

// fetchConfigured retrieves issues for every configured project, or via
// the configured JQL when no projects are selected.
func fetchConfigured(
	ctx context.Context,
	src source.IssueSource,
	cfg *model.AppConfig,
) ([]model.Issue, error) {
	if len(cfg.Jira.Projects) == 0 {
		if cfg.Jira.JQL == "" {
			return nil, fmt.Errorf("no projects or JQL configured")
		}
		return src.FetchIssues(ctx, source.IssueQuery{
			JQL:        cfg.Jira.JQL,
			MaxResults: cfg.Jira.MaxResults,
		})
	}

	var issues []model.Issue
	for _, key := range cfg.Jira.Projects {
		batch, err := src.FetchIssues(ctx, source.IssueQuery{
			ProjectKey: key,
			MaxResults: cfg.Jira.MaxResults,
		})
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", key, err)
		}
		issues = append(issues, batch...)
	}
	return issues, nil
}
