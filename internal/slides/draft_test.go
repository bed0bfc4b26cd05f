package slides

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nhle/foundry/internal/model"
)

type fakeProvider struct {
	response string
	err      error
	user     string
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Generate(_ context.Context, _, user string) (string, error) {
	f.user = user
	return f.response, f.err
}

func TestDraftParsesDeckMarkdown(t *testing.T) {
	provider := &fakeProvider{response: strings.Join([]string{
		"# The Problem",
		"- strategy artifacts scattered across tools",
		"",
		"---",
		"",
		"# The Product",
		"- one terminal studio",
		"<!-- notes: demo the timeline here -->",
	}, "\n")}

	doc, err := Draft(
		context.Background(), provider,
		"Foundry pitch", "terminal strategy studio",
	)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(provider.user, "terminal strategy studio") {
		t.Errorf("user prompt = %q", provider.user)
	}
	if doc.Kind != model.DocumentSlideDeck || doc.Title != "Foundry pitch" {
		t.Errorf("document = %+v", doc)
	}
	if doc.Description != "terminal strategy studio" {
		t.Errorf("description = %q", doc.Description)
	}

	if len(doc.Sections) != 2 {
		t.Fatalf("got %d slides, want 2", len(doc.Sections))
	}
	if doc.Sections[0].Title != "The Problem" {
		t.Errorf("first slide = %q", doc.Sections[0].Title)
	}

	// Speaker notes survive the round trip into the stored document.
	deck, err := FromDocument(doc)
	if err != nil {
		t.Fatal(err)
	}
	if deck.Slides[1].Notes != "demo the timeline here" {
		t.Errorf("notes = %q", deck.Slides[1].Notes)
	}
}

func TestDraftRejectsEmptyDeck(t *testing.T) {
	provider := &fakeProvider{response: "\n\n"}
	if _, err := Draft(context.Background(), provider, "x", "y"); err == nil {
		t.Error("expected error for response with no slides")
	}
}

func TestDraftPropagatesProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("rate limited")}
	_, err := Draft(context.Background(), provider, "x", "y")
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("err = %v", err)
	}
}
