package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/foundry/internal/model"
)

// ErrNotFound is returned when a requested document or version does not
// exist.
var ErrNotFound = errors.New("not found")

// SQLiteStore implements the Store interface using a local SQLite database.
// Documents are stored as JSON payloads; every save appends an immutable
// version snapshot so artifact history survives edits.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// SaveDocument inserts or updates a document and appends a version
// snapshot of the saved payload, all in one transaction. New documents
// get a generated ID.
func (s *SQLiteStore) SaveDocument(
	ctx context.Context,
	doc *model.Document,
) error {
	now := time.Now().UTC()
	if doc.ID == "" {
		doc.ID = uuid.New().String()
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling document %s: %w", doc.ID, err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var lastSync interface{}
	if doc.LastSync != nil {
		lastSync = doc.LastSync.UTC()
	}

	// Update in place on conflict. INSERT OR REPLACE would delete the
	// existing row first and cascade-wipe its version history.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (
			id, kind, title, description, payload, last_sync, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			title = excluded.title,
			description = excluded.description,
			payload = excluded.payload,
			last_sync = excluded.last_sync,
			updated_at = excluded.updated_at`,
		doc.ID, string(doc.Kind), doc.Title, doc.Description,
		string(payload), lastSync, doc.CreatedAt.UTC(), doc.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("upserting document %s: %w", doc.ID, err)
	}

	var nextVersion int
	err = tx.GetContext(ctx, &nextVersion,
		"SELECT COALESCE(MAX(version), 0) + 1 FROM document_versions WHERE document_id = ?",
		doc.ID,
	)
	if err != nil {
		return fmt.Errorf("computing next version for %s: %w", doc.ID, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO document_versions (id, document_id, version, payload, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), doc.ID, nextVersion, string(payload), now,
	)
	if err != nil {
		return fmt.Errorf("snapshotting document %s: %w", doc.ID, err)
	}

	return tx.Commit()
}

// GetDocument retrieves a single document by its ID.
func (s *SQLiteStore) GetDocument(
	ctx context.Context,
	id string,
) (*model.Document, error) {
	var payload string
	err := s.db.GetContext(ctx, &payload,
		"SELECT payload FROM documents WHERE id = ?", id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting document %s: %w", id, err)
	}

	return unmarshalDocument(payload)
}

// GetDocuments retrieves documents matching the provided filter options.
func (s *SQLiteStore) GetDocuments(
	ctx context.Context,
	filter DocumentFilter,
) ([]model.Document, error) {
	var conditions []string
	var args []interface{}

	if filter.Kind != nil {
		conditions = append(conditions, "kind = ?")
		args = append(args, string(*filter.Kind))
	} else if len(filter.Kinds) > 0 {
		placeholders := strings.Repeat("?,", len(filter.Kinds))
		conditions = append(conditions,
			"kind IN ("+placeholders[:len(placeholders)-1]+")")
		for _, k := range filter.Kinds {
			args = append(args, string(k))
		}
	}
	if filter.Query != nil && *filter.Query != "" {
		conditions = append(conditions, "(title LIKE ? OR description LIKE ?)")
		q := "%" + *filter.Query + "%"
		args = append(args, q, q)
	}

	query := "SELECT payload FROM documents"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	sortBy := "updated_at"
	if filter.SortBy != "" {
		allowedSorts := map[string]bool{
			"title":      true,
			"kind":       true,
			"created_at": true,
			"updated_at": true,
		}
		if allowedSorts[filter.SortBy] {
			sortBy = filter.SortBy
		}
	}

	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", sortBy, direction)

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	var payloads []string
	if err := s.db.SelectContext(ctx, &payloads, query, args...); err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}

	docs := make([]model.Document, 0, len(payloads))
	for _, p := range payloads {
		doc, err := unmarshalDocument(p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	return docs, nil
}

// DeleteDocument removes a document and, via cascade, its versions.
func (s *SQLiteStore) DeleteDocument(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document %s: %w", id, err)
	}
	return nil
}

// GetVersions lists a document's version snapshots, newest first.
func (s *SQLiteStore) GetVersions(
	ctx context.Context,
	documentID string,
) ([]model.DocumentVersion, error) {
	var versions []model.DocumentVersion
	err := s.db.SelectContext(ctx, &versions, `
		SELECT id, document_id, version, payload, created_at
		FROM document_versions
		WHERE document_id = ?
		ORDER BY version DESC`,
		documentID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying versions for %s: %w", documentID, err)
	}
	return versions, nil
}

// RestoreVersion re-saves the payload of an older snapshot as the
// current document state. The restore itself produces a new version.
func (s *SQLiteStore) RestoreVersion(
	ctx context.Context,
	documentID string,
	version int,
) (*model.Document, error) {
	var payload string
	err := s.db.GetContext(ctx, &payload, `
		SELECT payload FROM document_versions
		WHERE document_id = ? AND version = ?`,
		documentID, version,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf(
			"version %d of document %s: %w", version, documentID, ErrNotFound,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("reading version %d of %s: %w", version, documentID, err)
	}

	doc, err := unmarshalDocument(payload)
	if err != nil {
		return nil, err
	}

	if err := s.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("restoring version %d of %s: %w", version, documentID, err)
	}

	return doc, nil
}

// CreateNotification inserts a new notification record.
func (s *SQLiteStore) CreateNotification(
	ctx context.Context,
	n model.Notification,
) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Level == "" {
		n.Level = model.NotifyInfo
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, ref, level, message, read, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID, n.Ref, n.Level, n.Message,
		boolToInt(n.Read), n.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("creating notification: %w", err)
	}

	return nil
}

// GetUnreadNotifications retrieves all notifications that have not been
// read, ordered by creation time descending.
func (s *SQLiteStore) GetUnreadNotifications(
	ctx context.Context,
) ([]model.Notification, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT * FROM notifications WHERE read = 0 ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("querying unread notifications: %w", err)
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var (
			n         model.Notification
			readInt   int
			createdAt time.Time
		)
		err := rows.Scan(
			&n.ID, &n.Ref, &n.Level, &n.Message, &readInt, &createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning notification row: %w", err)
		}
		n.Read = readInt != 0
		n.CreatedAt = createdAt
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// MarkNotificationRead marks a single notification as read.
func (s *SQLiteStore) MarkNotificationRead(
	ctx context.Context,
	id string,
) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET read = 1 WHERE id = ?", id,
	)
	if err != nil {
		return fmt.Errorf("marking notification %s as read: %w", id, err)
	}
	return nil
}

// unmarshalDocument decodes a stored document payload.
func unmarshalDocument(payload string) (*model.Document, error) {
	var doc model.Document
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, fmt.Errorf("unmarshaling document payload: %w", err)
	}
	return &doc, nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
