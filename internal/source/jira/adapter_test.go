package jira

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nhle/foundry/internal/model"
	"github.com/nhle/foundry/internal/source"
)

const searchFixture = `{
	"startAt": 0, "maxResults": 100, "total": 1,
	"issues": [{
		"id": "10001",
		"key": "ROAD-7",
		"fields": {
			"summary": "Checkout redesign",
			"description": "Rework the funnel",
			"status": {"name": "In Progress", "id": "3"},
			"priority": {"name": "High", "id": "2"},
			"issuetype": {"name": "Story", "id": "10001"},
			"assignee": {"displayName": "Dana Reeve"},
			"reporter": {"displayName": "Lee Ota"},
			"project": {"key": "ROAD", "name": "Roadmap"},
			"duedate": "2026-04-10",
			"labels": ["q2", "checkout"],
			"components": [{"name": "web"}, {"name": "payments"}],
			"timetracking": {
				"originalEstimateSeconds": 57600,
				"remainingEstimateSeconds": 28800
			},
			"parent": {"key": "ROAD-1"},
			"customfield_10015": "2026-03-30",
			"subtasks": [{
				"key": "ROAD-8",
				"fields": {
					"summary": "Wire new form",
					"status": {"name": "To Do"},
					"issuetype": {"name": "Sub-task"}
				}
			}]
		}
	}]
}`

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewAdapter(srv.URL, "dana@example.com", "token", "customfield_10015")
}

func TestFetchIssuesMapsFields(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/2/search" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		io.WriteString(w, searchFixture)
	})

	issues, err := adapter.FetchIssues(context.Background(), source.IssueQuery{
		ProjectKey: "ROAD",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1", len(issues))
	}

	issue := issues[0]
	if issue.Key != "ROAD-7" || issue.Summary != "Checkout redesign" {
		t.Errorf("identity fields wrong: %+v", issue)
	}
	if issue.StartDate != "2026-03-30" {
		t.Errorf("start date = %q, want custom field value", issue.StartDate)
	}
	if issue.DueDate != "2026-04-10" {
		t.Errorf("due date = %q", issue.DueDate)
	}
	if issue.EstimatedHours != 16 {
		t.Errorf("estimated hours = %v, want 16", issue.EstimatedHours)
	}
	if issue.RemainingHours != 8 {
		t.Errorf("remaining hours = %v, want 8", issue.RemainingHours)
	}
	if issue.ParentKey != "ROAD-1" {
		t.Errorf("parent key = %q", issue.ParentKey)
	}
	if len(issue.Components) != 2 || issue.Components[0] != "web" {
		t.Errorf("components = %v", issue.Components)
	}
	if len(issue.Subtasks) != 1 || issue.Subtasks[0].Key != "ROAD-8" {
		t.Errorf("subtasks = %v", issue.Subtasks)
	}
	if issue.Subtasks[0].Status != "To Do" {
		t.Errorf("subtask status = %q", issue.Subtasks[0].Status)
	}
}

func TestUpdateIssueDates(t *testing.T) {
	var gotPath string
	var gotBody map[string]map[string]string

	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding update body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	err := adapter.UpdateIssueDates(
		context.Background(),
		"ROAD-7",
		model.NewDate(2026, 4, 1),
		model.NewDate(2026, 4, 9),
	)
	if err != nil {
		t.Fatal(err)
	}

	if gotPath != "PUT /rest/api/2/issue/ROAD-7" {
		t.Errorf("request = %q", gotPath)
	}
	fields := gotBody["fields"]
	if fields["duedate"] != "2026-04-09" {
		t.Errorf("duedate = %q", fields["duedate"])
	}
	if fields["customfield_10015"] != "2026-04-01" {
		t.Errorf("start field = %q", fields["customfield_10015"])
	}
}

func TestGetProjects(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"key":"ROAD","name":"Roadmap"},{"key":"OPS","name":"Operations"}]`)
	})

	projects, err := adapter.GetProjects(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != 2 || projects[1].Key != "OPS" {
		t.Errorf("projects = %v", projects)
	}
}

func TestUnauthorizedIsAuthError(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := adapter.ValidateConnection(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	if !source.IsAuthError(err) {
		t.Errorf("error %v is not an AuthError", err)
	}
}
