package model

import (
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Jira.MaxResults != 100 {
		t.Errorf("MaxResults = %d, want 100", cfg.Jira.MaxResults)
	}
	if cfg.Jira.StartDateField != "customfield_10015" {
		t.Errorf("StartDateField = %q", cfg.Jira.StartDateField)
	}
	if cfg.AI.Provider != "anthropic" {
		t.Errorf("Provider = %q", cfg.AI.Provider)
	}
	if cfg.Display.DebounceMs != 500 {
		t.Errorf("DebounceMs = %d, want 500", cfg.Display.DebounceMs)
	}
}

func TestSaveAndLoadConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	cfg.Jira.BaseURL = "https://jira.example.com"
	cfg.Jira.Email = "pm@example.com"
	cfg.Jira.Projects = []string{"ROAD", "APP"}
	cfg.Display.Granularity = "quarters"

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Jira.BaseURL != cfg.Jira.BaseURL {
		t.Errorf("BaseURL = %q", loaded.Jira.BaseURL)
	}
	if len(loaded.Jira.Projects) != 2 || loaded.Jira.Projects[0] != "ROAD" {
		t.Errorf("Projects = %v", loaded.Jira.Projects)
	}
	if loaded.Display.Granularity != "quarters" {
		t.Errorf("Granularity = %q", loaded.Display.Granularity)
	}
	// Defaults still backfill fields the file does not set.
	if loaded.AI.MaxTokens != 4096 {
		t.Errorf("MaxTokens = %d, want 4096", loaded.AI.MaxTokens)
	}
}
