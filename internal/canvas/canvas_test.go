package canvas

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
	system   string
	user     string
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Generate(_ context.Context, system, user string) (string, error) {
	f.system = system
	f.user = user
	return f.response, f.err
}

func TestBlankKeepsTemplateOrder(t *testing.T) {
	doc, err := Blank(model.DocumentLeanCanvas, "My canvas")
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Sections) != 9 {
		t.Fatalf("got %d sections, want 9", len(doc.Sections))
	}
	if doc.Sections[0].Title != "Problem" || doc.Sections[8].Title != "Unfair Advantage" {
		t.Errorf("section order = %v", doc.Sections)
	}
	for _, s := range doc.Sections {
		if s.Content != "" {
			t.Errorf("blank canvas section %q has content", s.Title)
		}
	}
}

func TestBlankUnknownKind(t *testing.T) {
	if _, err := Blank(model.DocumentRoadmap, "x"); err == nil {
		t.Error("expected error for non-canvas kind")
	}
}

func TestGenerateParsesSections(t *testing.T) {
	provider := &fakeProvider{response: strings.Join([]string{
		"## Problem",
		"- artifacts scattered across tools",
		"",
		"## Customer Segments",
		"- early-stage founders",
		"",
		"## Key Metrics",
		"- weekly active documents",
	}, "\n")}

	doc, err := Generate(
		context.Background(), provider,
		model.DocumentLeanCanvas, "Foundry canvas", "terminal strategy studio",
	)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(provider.system, "Lean Canvas") {
		t.Errorf("system prompt = %q", provider.system)
	}
	if !strings.Contains(provider.user, "terminal strategy studio") {
		t.Errorf("user prompt = %q", provider.user)
	}

	// Full template layout even when the model skipped sections.
	if len(doc.Sections) != 9 {
		t.Fatalf("got %d sections, want 9", len(doc.Sections))
	}

	byTitle := make(map[string]string)
	for _, s := range doc.Sections {
		byTitle[s.Title] = s.Content
	}
	if !strings.Contains(byTitle["Problem"], "artifacts scattered") {
		t.Errorf("Problem = %q", byTitle["Problem"])
	}
	if !strings.Contains(byTitle["Key Metrics"], "weekly active documents") {
		t.Errorf("Key Metrics = %q", byTitle["Key Metrics"])
	}
	if byTitle["Solution"] != "" {
		t.Errorf("skipped section not empty: %q", byTitle["Solution"])
	}
}

func TestGeneratePropagatesProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("rate limited")}
	_, err := Generate(
		context.Background(), provider,
		model.DocumentBusinessModel, "x", "y",
	)
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("err = %v", err)
	}
}

func TestParseSections(t *testing.T) {
	md := "intro text\n# One\nalpha\n## Two\nbeta\ngamma\n"
	got := ParseSections(md)
	if len(got) != 2 {
		t.Fatalf("got %d sections: %v", len(got), got)
	}
	if got["one"] != "alpha" {
		t.Errorf("one = %q", got["one"])
	}
	if got["two"] != "beta\ngamma" {
		t.Errorf("two = %q", got["two"])
	}
}
