package ai

import (
	"fmt"
	"strings"
)

// CanvasPrompt builds the prompt pair for drafting a strategy canvas.
// sections is the ordered block vocabulary of the canvas kind; the
// model is instructed to emit one "## <section>" heading per block so
// the response can be split back into sections.
func CanvasPrompt(canvasName, productIdea string, sections []string) (string, string) {
	var sb strings.Builder

	sb.WriteString("You are a product strategy assistant. ")
	sb.WriteString("You draft concise, realistic strategy artifacts ")
	sb.WriteString("for early-stage products.\n\n")

	sb.WriteString(fmt.Sprintf("Produce a %s as Markdown.\n", canvasName))
	sb.WriteString("Use exactly these second-level headings, in this order:\n")
	for _, s := range sections {
		sb.WriteString("## ")
		sb.WriteString(s)
		sb.WriteString("\n")
	}
	sb.WriteString("\nUnder each heading write 2-5 short bullet points. ")
	sb.WriteString("Do not add any other headings, preamble, or closing remarks.")

	user := fmt.Sprintf("Product idea:\n%s", productIdea)
	return sb.String(), user
}

// RoadmapPrompt builds the prompt pair for drafting a product roadmap.
// The model emits one task per line in a fixed pipe-separated layout
// that the caller parses into scheduled tasks.
func RoadmapPrompt(productIdea string) (string, string) {
	var sb strings.Builder

	sb.WriteString("You are a product strategy assistant. ")
	sb.WriteString("You draft realistic delivery roadmaps.\n\n")

	sb.WriteString("Produce a roadmap as plain text, one work item per line, ")
	sb.WriteString("in this exact format:\n")
	sb.WriteString("LABEL | START | END | KIND\n")
	sb.WriteString("where START and END are ISO dates (YYYY-MM-DD), ")
	sb.WriteString("END is after START, and KIND is one of: ")
	sb.WriteString("project, task, milestone.\n")
	sb.WriteString("Start from today, keep 8-15 items, group related work ")
	sb.WriteString("under project lines. No other text.")

	user := fmt.Sprintf("Product idea:\n%s", productIdea)
	return sb.String(), user
}

// SlideDeckPrompt builds the prompt pair for drafting a pitch deck in
// the Markdown slide format the deck parser reads.
func SlideDeckPrompt(topic string) (string, string) {
	var sb strings.Builder

	sb.WriteString("You are a product strategy assistant. ")
	sb.WriteString("You draft investor and stakeholder pitch decks.\n\n")

	sb.WriteString("Produce a slide deck as Markdown. Rules:\n")
	sb.WriteString("- Separate slides with a line containing only ---\n")
	sb.WriteString("- Start each slide with a # or ## heading\n")
	sb.WriteString("- Keep each slide to at most 6 bullet points\n")
	sb.WriteString("- Optionally add speaker notes as <!-- notes: ... -->\n")
	sb.WriteString("- 8-12 slides, no preamble before the first slide")

	user := fmt.Sprintf("Deck topic:\n%s", topic)
	return sb.String(), user
}

// SummaryPrompt builds the prompt pair for condensing a transcribed
// voice memo into a document description.
func SummaryPrompt(transcript string) (string, string) {
	system := "You are a product strategy assistant. " +
		"Condense the following voice memo transcript into a short, " +
		"well-structured product idea description. Keep the author's " +
		"intent, drop filler words, use plain prose."
	return system, transcript
}
