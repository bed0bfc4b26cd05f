package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// JiraConfig holds the connection and query settings for the issue
// tracker. The API token itself lives in the system keyring, not here.
type JiraConfig struct {
	// BaseURL is the root URL of the Jira instance.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// Email is the account used for basic auth alongside the API token.
	Email string `mapstructure:"email" yaml:"email"`

	// Projects are the project keys fetched on sync, in order.
	Projects []string `mapstructure:"projects" yaml:"projects"`

	// JQL, when set, overrides the per-project query entirely.
	JQL string `mapstructure:"jql" yaml:"jql"`

	// MaxResults caps the number of issues fetched per query.
	MaxResults int `mapstructure:"max_results" yaml:"max_results"`

	// StartDateField is the custom field id carrying the issue start
	// date. Jira has no standard start date field in API v2.
	StartDateField string `mapstructure:"start_date_field" yaml:"start_date_field"`
}

// AIConfig holds settings for the AI provider integrations.
type AIConfig struct {
	// Provider selects the text provider ("anthropic" or "openai").
	Provider        string `mapstructure:"provider" yaml:"provider"`
	Model           string `mapstructure:"model" yaml:"model"`
	MaxTokens       int    `mapstructure:"max_tokens" yaml:"max_tokens"`
	TranscribeModel string `mapstructure:"transcribe_model" yaml:"transcribe_model"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`

	// Granularity is the timeline axis unit: "months" or "quarters".
	Granularity string `mapstructure:"granularity" yaml:"granularity"`

	// DebounceMs is the delay before a filter change triggers a resync.
	DebounceMs int `mapstructure:"debounce_ms" yaml:"debounce_ms"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Jira    JiraConfig    `mapstructure:"jira" yaml:"jira"`
	AI      AIConfig      `mapstructure:"ai" yaml:"ai"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/foundry/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "foundry", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Jira: JiraConfig{
			MaxResults:     100,
			StartDateField: "customfield_10015",
		},
		AI: AIConfig{
			Provider:        "anthropic",
			Model:           "claude-sonnet-4-20250514",
			MaxTokens:       4096,
			TranscribeModel: "whisper-1",
		},
		Display: DisplayConfig{
			Theme:       "default",
			Granularity: "months",
			DebounceMs:  500,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("jira.max_results", 100)
	v.SetDefault("jira.start_date_field", "customfield_10015")
	v.SetDefault("ai.provider", "anthropic")
	v.SetDefault("ai.model", "claude-sonnet-4-20250514")
	v.SetDefault("ai.max_tokens", 4096)
	v.SetDefault("ai.transcribe_model", "whisper-1")
	v.SetDefault("display.theme", "default")
	v.SetDefault("display.granularity", "months")
	v.SetDefault("display.debounce_ms", 500)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("jira", cfg.Jira)
	v.Set("ai", cfg.AI)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
