package model

import "time"

// Notification levels.
const (
	NotifyInfo  = "info"
	NotifyError = "error"
)

// Notification represents an event surfaced to the user in the status
// bar: sync completions, sync-back failures, reverted changes.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id" db:"id"`

	// Ref links this notification to a document or issue key, if any.
	Ref string `json:"ref,omitempty" db:"ref"`

	// Level is the severity (use Notify* constants).
	Level string `json:"level" db:"level"`

	// Message is the human-readable notification text.
	Message string `json:"message" db:"message"`

	// Read indicates whether the user has seen this notification.
	Read bool `json:"read" db:"read"`

	// CreatedAt is when this notification was generated.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
