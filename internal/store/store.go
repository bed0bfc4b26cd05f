package store

import (
	"context"

	"github.com/nhle/foundry/internal/model"
)

// DocumentFilter controls filtering and sorting for document queries.
// Kind and Kinds are alternatives; Kind wins when both are set.
type DocumentFilter struct {
	Kind     *model.DocumentKind
	Kinds    []model.DocumentKind
	Query    *string
	SortBy   string // "title", "kind", "created_at", "updated_at"
	SortDesc bool
	Limit    int
}

// Store defines the persistence interface for artifact documents, their
// version history, and user notifications.
type Store interface {
	// === Documents ===

	SaveDocument(ctx context.Context, doc *model.Document) error
	GetDocument(ctx context.Context, id string) (*model.Document, error)
	GetDocuments(ctx context.Context, filter DocumentFilter) ([]model.Document, error)
	DeleteDocument(ctx context.Context, id string) error

	// === Version history ===

	GetVersions(ctx context.Context, documentID string) ([]model.DocumentVersion, error)
	RestoreVersion(ctx context.Context, documentID string, version int) (*model.Document, error)

	// === Notifications ===

	CreateNotification(ctx context.Context, n model.Notification) error
	GetUnreadNotifications(ctx context.Context) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
}
