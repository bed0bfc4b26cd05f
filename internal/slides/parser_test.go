package slides

import (
	"strings"
	"testing"

	"github.com/nhle/foundry/internal/model"
)

const sampleDeck = `---
title: Foundry pitch
author: Dana
theme: dark
---

# Foundry

A terminal product-strategy studio.

<!-- notes: open with the one-liner, pause -->

---

## The problem

- Strategy artifacts live in five different tools
- Roadmaps drift from the tracker

## The solution

- One keyboard-driven workspace
- Jira stays the source of truth
`

func TestParseDeck(t *testing.T) {
	deck, err := Parse([]byte(sampleDeck))
	if err != nil {
		t.Fatal(err)
	}

	if deck.Meta.Title != "Foundry pitch" || deck.Meta.Author != "Dana" {
		t.Errorf("meta = %+v", deck.Meta)
	}

	if len(deck.Slides) != 3 {
		t.Fatalf("got %d slides, want 3", len(deck.Slides))
	}

	first := deck.Slides[0]
	if first.Title != "Foundry" {
		t.Errorf("first title = %q", first.Title)
	}
	if !strings.Contains(first.Body, "terminal product-strategy studio") {
		t.Errorf("first body = %q", first.Body)
	}
	if first.Notes != "open with the one-liner, pause" {
		t.Errorf("first notes = %q", first.Notes)
	}

	if deck.Slides[1].Title != "The problem" {
		t.Errorf("second title = %q", deck.Slides[1].Title)
	}
	// A heading opens a new slide even without a --- separator.
	if deck.Slides[2].Title != "The solution" {
		t.Errorf("third title = %q", deck.Slides[2].Title)
	}
}

func TestParseDeckWithoutFrontmatter(t *testing.T) {
	deck, err := Parse([]byte("# Only slide\n\nbody text\n"))
	if err != nil {
		t.Fatal(err)
	}
	if deck.Meta != (Meta{}) {
		t.Errorf("meta = %+v, want zero", deck.Meta)
	}
	if len(deck.Slides) != 1 || deck.Slides[0].Title != "Only slide" {
		t.Errorf("slides = %+v", deck.Slides)
	}
}

func TestParseMultilineNotes(t *testing.T) {
	src := "# Slide\n\n<!-- notes: first line\nsecond line\n-->\n"
	deck, err := Parse([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if deck.Slides[0].Notes != "first line\nsecond line" {
		t.Errorf("notes = %q", deck.Slides[0].Notes)
	}
}

func TestParseEmptyDeck(t *testing.T) {
	if _, err := Parse([]byte("\n\n")); err == nil {
		t.Error("expected error for deck with no slides")
	}
}

func TestParseUnclosedFrontmatter(t *testing.T) {
	if _, err := Parse([]byte("---\ntitle: x\n")); err == nil {
		t.Error("expected error for unclosed frontmatter")
	}
}

func TestFormatRoundTrip(t *testing.T) {
	deck, err := Parse([]byte(sampleDeck))
	if err != nil {
		t.Fatal(err)
	}

	out, err := Format(deck)
	if err != nil {
		t.Fatal(err)
	}

	again, err := Parse(out)
	if err != nil {
		t.Fatalf("reparsing formatted deck: %v\n%s", err, out)
	}

	if again.Meta != deck.Meta {
		t.Errorf("meta changed: %+v vs %+v", again.Meta, deck.Meta)
	}
	if len(again.Slides) != len(deck.Slides) {
		t.Fatalf("slide count changed: %d vs %d", len(again.Slides), len(deck.Slides))
	}
	for i := range deck.Slides {
		if again.Slides[i].Title != deck.Slides[i].Title {
			t.Errorf("slide %d title changed: %q vs %q",
				i, again.Slides[i].Title, deck.Slides[i].Title)
		}
		if again.Slides[i].Notes != deck.Slides[i].Notes {
			t.Errorf("slide %d notes changed: %q vs %q",
				i, again.Slides[i].Notes, deck.Slides[i].Notes)
		}
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	deck, err := Parse([]byte(sampleDeck))
	if err != nil {
		t.Fatal(err)
	}

	doc := ToDocument(deck)
	if doc.Kind != model.DocumentSlideDeck || doc.Title != "Foundry pitch" {
		t.Errorf("document = %+v", doc)
	}
	if len(doc.Sections) != 3 {
		t.Fatalf("got %d sections, want 3", len(doc.Sections))
	}

	again, err := FromDocument(doc)
	if err != nil {
		t.Fatal(err)
	}
	if again.Slides[0].Notes != "open with the one-liner, pause" {
		t.Errorf("notes lost through document: %q", again.Slides[0].Notes)
	}
	if again.Slides[1].Title != "The problem" {
		t.Errorf("slide titles lost through document: %+v", again.Slides)
	}
}

func TestFromDocumentRejectsOtherKinds(t *testing.T) {
	doc := &model.Document{Kind: model.DocumentRoadmap}
	if _, err := FromDocument(doc); err == nil {
		t.Error("expected error for non-deck document")
	}
}
