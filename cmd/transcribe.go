package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/foundry/internal/ai"
	"github.com/nhle/foundry/internal/credential"
	"github.com/nhle/foundry/internal/model"
)

var flagSummarize bool

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <audio-file>",
	Short: "Transcribe a voice memo with Whisper",
	Long: `transcribe uploads an audio file to the OpenAI transcription API and
prints the text. With --summarize the transcript is condensed into
meeting notes by the configured text provider.`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscribe,
}

func init() {
	transcribeCmd.Flags().BoolVar(&flagSummarize, "summarize", false,
		"condense the transcript into meeting notes")
	rootCmd.AddCommand(transcribeCmd)
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		apiKey, err = credential.Get(credential.KeyOpenAIAPI)
		if err != nil || apiKey == "" {
			return fmt.Errorf("no OpenAI API key; set OPENAI_API_KEY or store one in the keyring")
		}
	}

	audio, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer audio.Close()

	client := ai.NewOpenAI(apiKey, cfg.AI.Model, cfg.AI.MaxTokens)
	if cfg.AI.TranscribeModel != "" {
		client.SetTranscribeModel(cfg.AI.TranscribeModel)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	transcript, err := client.Transcribe(ctx, filepath.Base(args[0]), audio)
	if err != nil {
		return fmt.Errorf("transcribing: %w", err)
	}

	if !flagSummarize {
		fmt.Fprintln(os.Stdout, transcript)
		return nil
	}

	provider, err := textProvider(cfg)
	if err != nil {
		return err
	}

	system, user := ai.SummaryPrompt(transcript)
	summary, err := provider.Generate(ctx, system, user)
	if err != nil {
		return fmt.Errorf("summarizing: %w", err)
	}
	fmt.Fprintln(os.Stdout, summary)
	return nil
}

// textProvider resolves the configured text provider and its API key
// from the environment or the keyring.
func textProvider(cfg *model.AppConfig) (ai.Provider, error) {
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
			return nil, fmt.Errorf("no API key for provider %q", cfg.AI.Provider)
		}
	}
	return ai.NewProvider(cfg.AI, apiKey)
}
