package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

const (
	openAIDefaultModel      = "gpt-4o"
	openAIDefaultMax        = 4096
	openAIBaseURL           = "https://api.openai.com"
	openAIDefaultTranscribe = "whisper-1"
)

// OpenAI calls the OpenAI chat completions API and, for voice memos,
// the Whisper transcription endpoint.
type OpenAI struct {
	apiKey          string
	model           string
	maxTokens       int
	transcribeModel string
	baseURL         string
	client          *http.Client
}

// NewOpenAI creates an OpenAI provider.
func NewOpenAI(apiKey, modelName string, maxTokens int) *OpenAI {
	if modelName == "" {
		modelName = openAIDefaultModel
	}
	if maxTokens <= 0 {
		maxTokens = openAIDefaultMax
	}
	return &OpenAI{
		apiKey:          apiKey,
		model:           modelName,
		maxTokens:       maxTokens,
		transcribeModel: openAIDefaultTranscribe,
		baseURL:         openAIBaseURL,
		client:          &http.Client{},
	}
}

func (o *OpenAI) Name() string { return "openai" }

// SetTranscribeModel overrides the Whisper model used for Transcribe.
func (o *OpenAI) SetTranscribeModel(name string) {
	if name != "" {
		o.transcribeModel = name
	}
}

// Generate makes a single chat completions request and returns the
// first choice's message content.
func (o *OpenAI) Generate(
	ctx context.Context,
	systemPrompt, userPrompt string,
) (string, error) {
	reqBody := openAIChatRequest{
		Model:     o.model,
		MaxTokens: o.maxTokens,
		Messages: []openAIChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost,
		o.baseURL+"/v1/chat/completions", bytes.NewReader(bodyBytes),
	)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling OpenAI API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", openAIError(resp.StatusCode, respBody)
	}

	var result openAIChatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("response contained no choices")
	}

	return result.Choices[0].Message.Content, nil
}

// Transcribe uploads an audio file to the Whisper endpoint and returns
// the transcribed text.
func (o *OpenAI) Transcribe(
	ctx context.Context,
	filename string,
	audio io.Reader,
) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("copying audio: %w", err)
	}
	if err := writer.WriteField("model", o.transcribeModel); err != nil {
		return "", fmt.Errorf("writing model field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalizing form: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost,
		o.baseURL+"/v1/audio/transcriptions", &buf,
	)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling transcription API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", openAIError(resp.StatusCode, respBody)
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	return result.Text, nil
}

// openAIError extracts the API error message from a non-200 response.
func openAIError(status int, body []byte) error {
	var apiErr struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("API error (%d): %s", status, apiErr.Error.Message)
	}
	return fmt.Errorf("API error (%d): %s", status, string(body))
}

// --- OpenAI API types ---

type openAIChatRequest struct {
	Model     string              `json:"model"`
	MaxTokens int                 `json:"max_tokens,omitempty"`
	Messages  []openAIChatMessage `json:"messages"`
}

type openAIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Index   int               `json:"index"`
		Message openAIChatMessage `json:"message"`
	} `json:"choices"`
}
