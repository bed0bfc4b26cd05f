package store_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nhle/foundry/internal/model"
	"github.com/nhle/foundry/internal/store"
	"github.com/nhle/foundry/tests/testutil"
)

func roadmapDoc() *model.Document {
	start := model.NewDate(2026, 3, 2)
	return &model.Document{
		Kind:        model.DocumentRoadmap,
		Title:       "Q2 launch",
		Description: "Spring release plan",
		Tasks: []model.Task{{
			ID:           "ROAD-7",
			Label:        "▸ ROAD-7 Checkout redesign",
			Start:        start,
			End:          start.AddDays(10),
			DurationDays: 10,
			Progress:     0.5,
			Kind:         model.KindTask,
			Details: model.TaskDetails{
				Summary:   "Checkout redesign",
				Status:    "In Progress",
				IssueType: model.IssueTypeStory,
			},
		}},
	}
}

func TestSaveAndGetDocument(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	doc := roadmapDoc()
	if err := s.SaveDocument(ctx, doc); err != nil {
		t.Fatal(err)
	}
	if doc.ID == "" {
		t.Fatal("save did not assign an ID")
	}

	got, err := s.GetDocument(ctx, doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Q2 launch" || got.Kind != model.DocumentRoadmap {
		t.Errorf("round-tripped document mismatch: %+v", got)
	}
	if len(got.Tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(got.Tasks))
	}

	// Dates survive the JSON payload as plain calendar dates.
	task := got.Tasks[0]
	if task.Start.String() != "2026-03-02" || task.End.String() != "2026-03-12" {
		t.Errorf("task dates lost in persistence: %s..%s", task.Start, task.End)
	}
	if task.DurationDays != 10 || task.Progress != 0.5 {
		t.Errorf("task fields lost in persistence: %+v", task)
	}
}

func TestGetDocumentNotFound(t *testing.T) {
	s := testutil.NewTestStore(t)

	_, err := s.GetDocument(context.Background(), "nope")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestVersionHistory(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	doc := roadmapDoc()
	if err := s.SaveDocument(ctx, doc); err != nil {
		t.Fatal(err)
	}

	doc.Title = "Q2 launch (revised)"
	if err := s.SaveDocument(ctx, doc); err != nil {
		t.Fatal(err)
	}

	versions, err := s.GetVersions(ctx, doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(versions) != 2 {
		t.Fatalf("got %d versions, want 2", len(versions))
	}
	if versions[0].Version != 2 || versions[1].Version != 1 {
		t.Errorf("versions not newest-first: %v", versions)
	}
	if !strings.Contains(versions[1].Payload, "Q2 launch") {
		t.Error("first snapshot missing original payload")
	}

	restored, err := s.RestoreVersion(ctx, doc.ID, 1)
	if err != nil {
		t.Fatal(err)
	}
	if restored.Title != "Q2 launch" {
		t.Errorf("restored title = %q, want original", restored.Title)
	}

	// The restore itself is versioned.
	versions, err = s.GetVersions(ctx, doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(versions) != 3 {
		t.Errorf("got %d versions after restore, want 3", len(versions))
	}

	if _, err := s.RestoreVersion(ctx, doc.ID, 99); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("restore of missing version: err = %v, want ErrNotFound", err)
	}
}

func TestGetDocumentsFilter(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	docs := []*model.Document{
		{Kind: model.DocumentRoadmap, Title: "Roadmap A"},
		{Kind: model.DocumentLeanCanvas, Title: "Canvas B"},
		{Kind: model.DocumentSlideDeck, Title: "Pitch deck"},
	}
	for _, d := range docs {
		if err := s.SaveDocument(ctx, d); err != nil {
			t.Fatal(err)
		}
	}

	kind := model.DocumentLeanCanvas
	got, err := s.GetDocuments(ctx, store.DocumentFilter{Kind: &kind})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Title != "Canvas B" {
		t.Errorf("kind filter returned %v", got)
	}

	q := "deck"
	got, err = s.GetDocuments(ctx, store.DocumentFilter{Query: &q})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Title != "Pitch deck" {
		t.Errorf("query filter returned %v", got)
	}

	got, err = s.GetDocuments(ctx, store.DocumentFilter{SortBy: "title"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0].Title != "Canvas B" {
		t.Errorf("sorted listing returned %v", got)
	}
}

func TestGetDocumentsKindsGroup(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	docs := []*model.Document{
		{Kind: model.DocumentRoadmap, Title: "Roadmap A"},
		{Kind: model.DocumentLeanCanvas, Title: "Canvas B"},
		{Kind: model.DocumentBusinessModel, Title: "Canvas C"},
		{Kind: model.DocumentSlideDeck, Title: "Pitch deck"},
	}
	for _, d := range docs {
		if err := s.SaveDocument(ctx, d); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.GetDocuments(ctx, store.DocumentFilter{
		Kinds: []model.DocumentKind{
			model.DocumentLeanCanvas,
			model.DocumentBusinessModel,
			model.DocumentJourneyMap,
		},
		SortBy: "title",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Title != "Canvas B" || got[1].Title != "Canvas C" {
		t.Errorf("kinds group filter returned %v", got)
	}
}

func TestDeleteDocumentCascadesVersions(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	doc := roadmapDoc()
	if err := s.SaveDocument(ctx, doc); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteDocument(ctx, doc.ID); err != nil {
		t.Fatal(err)
	}

	versions, err := s.GetVersions(ctx, doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(versions) != 0 {
		t.Errorf("versions survived document delete: %v", versions)
	}
}

func TestNotifications(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	n := model.Notification{
		Ref:       "ROAD-7",
		Level:     model.NotifyError,
		Message:   "sync-back failed; change reverted",
		CreatedAt: time.Now(),
	}
	if err := s.CreateNotification(ctx, n); err != nil {
		t.Fatal(err)
	}

	unread, err := s.GetUnreadNotifications(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(unread) != 1 || unread[0].Level != model.NotifyError {
		t.Fatalf("unread = %v", unread)
	}

	if err := s.MarkNotificationRead(ctx, unread[0].ID); err != nil {
		t.Fatal(err)
	}

	unread, err = s.GetUnreadNotifications(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(unread) != 0 {
		t.Errorf("notification still unread after mark: %v", unread)
	}
}
