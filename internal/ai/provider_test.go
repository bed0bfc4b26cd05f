package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nhle/foundry/internal/model"
)

func modelAIConfig(provider string) model.AIConfig {
	return model.AIConfig{Provider: provider}
}

func TestAnthropicGenerate(t *testing.T) {
	var gotReq anthropicRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("x-api-key = %q", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Error("anthropic-version header missing")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatal(err)
		}
		json.NewEncoder(w).Encode(anthropicResponse{
			Content: []anthropicContentBlock{
				{Type: "text", Text: "## Problem\n- users lose context"},
			},
		})
	}))
	defer server.Close()

	p := NewAnthropic("test-key", "claude-sonnet-4-20250514", 2048)
	p.baseURL = server.URL

	text, err := p.Generate(context.Background(), "system prompt", "user prompt")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "## Problem") {
		t.Errorf("text = %q", text)
	}
	if gotReq.Model != "claude-sonnet-4-20250514" || gotReq.MaxTokens != 2048 {
		t.Errorf("request = %+v", gotReq)
	}
	if gotReq.System != "system prompt" {
		t.Errorf("system = %q", gotReq.System)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Content[0].Text != "user prompt" {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
}

func TestAnthropicGenerateAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error": {"type": "invalid_request_error", "message": "max_tokens required"}}`)
	}))
	defer server.Close()

	p := NewAnthropic("test-key", "", 0)
	p.baseURL = server.URL

	_, err := p.Generate(context.Background(), "s", "u")
	if err == nil || !strings.Contains(err.Error(), "max_tokens required") {
		t.Errorf("err = %v, want API error message", err)
	}
}

func TestOpenAIGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("authorization = %q", r.Header.Get("Authorization"))
		}
		var req openAIChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("messages = %+v", req.Messages)
		}
		io.WriteString(w, `{"id": "chatcmpl-1", "choices": [{"index": 0, "message": {"role": "assistant", "content": "drafted"}}]}`)
	}))
	defer server.Close()

	p := NewOpenAI("test-key", "gpt-4o", 1024)
	p.baseURL = server.URL

	text, err := p.Generate(context.Background(), "s", "u")
	if err != nil {
		t.Fatal(err)
	}
	if text != "drafted" {
		t.Errorf("text = %q", text)
	}
}

func TestOpenAITranscribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatal(err)
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Errorf("model field = %q", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatal(err)
		}
		defer file.Close()
		if header.Filename != "memo.m4a" {
			t.Errorf("filename = %q", header.Filename)
		}
		data, _ := io.ReadAll(file)
		if string(data) != "fake-audio-bytes" {
			t.Errorf("uploaded body = %q", data)
		}
		io.WriteString(w, `{"text": "we should focus on onboarding"}`)
	}))
	defer server.Close()

	p := NewOpenAI("test-key", "", 0)
	p.baseURL = server.URL

	text, err := p.Transcribe(
		context.Background(), "memo.m4a", strings.NewReader("fake-audio-bytes"),
	)
	if err != nil {
		t.Fatal(err)
	}
	if text != "we should focus on onboarding" {
		t.Errorf("text = %q", text)
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		provider string
		wantName string
		wantErr  bool
	}{
		{"anthropic", "anthropic", false},
		{"", "anthropic", false},
		{"openai", "openai", false},
		{"cohere", "", true},
	}
	for _, tc := range tests {
		p, err := NewProvider(modelAIConfig(tc.provider), "key")
		if tc.wantErr {
			if err == nil {
				t.Errorf("provider %q: expected error", tc.provider)
			}
			continue
		}
		if err != nil {
			t.Errorf("provider %q: %v", tc.provider, err)
			continue
		}
		if p.Name() != tc.wantName {
			t.Errorf("provider %q: name = %q", tc.provider, p.Name())
		}
	}
}

func TestCanvasPromptListsSections(t *testing.T) {
	system, user := CanvasPrompt(
		"Lean Canvas", "terminal strategy studio",
		[]string{"Problem", "Solution", "Key Metrics"},
	)
	for _, heading := range []string{"## Problem", "## Solution", "## Key Metrics"} {
		if !strings.Contains(system, heading) {
			t.Errorf("system prompt missing %q", heading)
		}
	}
	if !strings.Contains(user, "terminal strategy studio") {
		t.Errorf("user prompt = %q", user)
	}
}
