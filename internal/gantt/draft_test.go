package gantt

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

func TestDraftParsesRoadmapLines(t *testing.T) {
	provider := &fakeProvider{response: strings.Join([]string{
		"MVP build | 2026-09-01 | 2026-10-15 | project",
		"Onboarding flow | 2026-09-01 | 2026-09-12 | task",
		"Beta launch | 2026-10-15 | 2026-10-15 | milestone",
		"not a roadmap line",
		"Bad dates | soon | later | task",
	}, "\n")}

	doc, err := Draft(
		context.Background(), provider,
		"Launch plan", "terminal strategy studio",
	)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(provider.user, "terminal strategy studio") {
		t.Errorf("user prompt = %q", provider.user)
	}
	if doc.Kind != model.DocumentRoadmap || doc.Title != "Launch plan" {
		t.Errorf("document = %+v", doc)
	}

	// Malformed lines are dropped, valid ones survive in order.
	if len(doc.Tasks) != 3 {
		t.Fatalf("got %d tasks, want 3: %v", len(doc.Tasks), doc.Tasks)
	}

	mvp := doc.Tasks[0]
	if mvp.Label != "MVP build" || mvp.Kind != model.KindProject {
		t.Errorf("first task = %+v", mvp)
	}
	if mvp.Start.String() != "2026-09-01" || mvp.End.String() != "2026-10-15" {
		t.Errorf("first task window = %s..%s", mvp.Start, mvp.End)
	}
	if mvp.DurationDays != 44 {
		t.Errorf("duration = %d, want 44", mvp.DurationDays)
	}

	// A zero-length milestone window is pushed out to one day.
	beta := doc.Tasks[2]
	if beta.Kind != model.KindMilestone {
		t.Errorf("milestone kind = %q", beta.Kind)
	}
	if beta.End.String() != "2026-10-16" || beta.DurationDays != 1 {
		t.Errorf("milestone window = %s..%s (%dd)", beta.Start, beta.End, beta.DurationDays)
	}

	// Drafted tasks need unique IDs for the drag controller.
	if doc.Tasks[0].ID == "" || doc.Tasks[0].ID == doc.Tasks[1].ID {
		t.Errorf("task IDs = %q, %q", doc.Tasks[0].ID, doc.Tasks[1].ID)
	}
}

func TestDraftRejectsUnusableResponse(t *testing.T) {
	provider := &fakeProvider{response: "Sure! Here is a roadmap:\n\nGood luck."}
	if _, err := Draft(context.Background(), provider, "x", "y"); err == nil {
		t.Error("expected error for response with no usable lines")
	}
}

func TestDraftPropagatesProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("rate limited")}
	_, err := Draft(context.Background(), provider, "x", "y")
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("err = %v", err)
	}
}
