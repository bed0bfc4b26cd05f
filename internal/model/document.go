package model

import "time"

// DocumentKind identifies the artifact type of a document.
type DocumentKind string

const (
	DocumentRoadmap       DocumentKind = "roadmap"
	DocumentJourneyMap    DocumentKind = "journey_map"
	DocumentBusinessModel DocumentKind = "business_model"
	DocumentLeanCanvas    DocumentKind = "lean_canvas"
	DocumentSlideDeck     DocumentKind = "slide_deck"
)

// Section is one titled block of a canvas-style document (a Business
// Model Canvas block, a Lean Canvas block, or a journey map stage).
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Document is a persisted business artifact. Which payload fields are
// populated depends on Kind: roadmaps carry Tasks, canvases carry
// Sections, slide decks carry the markdown Source.
type Document struct {
	ID          string       `json:"id"`
	Kind        DocumentKind `json:"kind"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`

	// Tasks is the roadmap schedule, recomputed fresh on every sync.
	Tasks []Task `json:"tasks,omitempty"`

	// Sections holds canvas blocks in canonical order.
	Sections []Section `json:"sections,omitempty"`

	// Source is the raw markdown of a slide deck.
	Source string `json:"source,omitempty"`

	// IssueRefs are tracker issue keys mentioned in the document text,
	// extracted on save.
	IssueRefs []string `json:"issue_refs,omitempty"`

	// LastSync is when the document's tasks were last refreshed from
	// the tracker. Nil for documents that have never synced.
	LastSync *time.Time `json:"last_sync,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentVersion is an immutable snapshot of a document taken on save.
type DocumentVersion struct {
	ID         string    `json:"id" db:"id"`
	DocumentID string    `json:"document_id" db:"document_id"`
	Version    int       `json:"version" db:"version"`
	Payload    string    `json:"payload" db:"payload"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
