package gantt

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/nhle/foundry/internal/model"
)

// fixedNow anchors date inference for deterministic tests.
var fixedNow = time.Date(2026, time.March, 2, 14, 30, 0, 0, time.UTC)

func TestTransformExplicitDates(t *testing.T) {
	issues := []model.Issue{{
		Key:       "PROJ-1",
		Summary:   "Build onboarding flow",
		Status:    "In Progress",
		IssueType: model.IssueTypeStory,
		StartDate: "2026-03-02",
		DueDate:   "2026-03-12",
	}}

	res := Transform(issues, fixedNow)
	if len(res.Tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(res.Tasks))
	}

	task := res.Tasks[0]
	if task.Start.String() != "2026-03-02" {
		t.Errorf("start = %s, want 2026-03-02", task.Start)
	}
	if task.End.String() != "2026-03-12" {
		t.Errorf("end = %s, want 2026-03-12", task.End)
	}
	if task.DurationDays != 10 {
		t.Errorf("duration = %d, want 10", task.DurationDays)
	}
	if task.Progress != 0.5 {
		t.Errorf("progress = %v, want 0.5", task.Progress)
	}
}

func TestTransformEstimateFallback(t *testing.T) {
	// The end-to-end scenario from the scheduling contract: a story with
	// no due date and a 16h estimate becomes a two-day bar from today.
	issues := []model.Issue{{
		Key:            "X-1",
		Summary:        "Spike",
		Status:         "To Do",
		IssueType:      model.IssueTypeStory,
		EstimatedHours: 16,
	}}

	res := Transform(issues, fixedNow)
	task := res.Tasks[0]

	if task.Start.String() != "2026-03-02" {
		t.Errorf("start = %s, want 2026-03-02", task.Start)
	}
	if task.End.String() != "2026-03-04" {
		t.Errorf("end = %s, want 2026-03-04", task.End)
	}
	if task.DurationDays != 2 {
		t.Errorf("duration = %d, want 2", task.DurationDays)
	}
	if task.Progress != 0 {
		t.Errorf("progress = %v, want 0", task.Progress)
	}
}

func TestTransformEstimateRoundsUp(t *testing.T) {
	issues := []model.Issue{{
		Key:            "X-2",
		Status:         "To Do",
		IssueType:      model.IssueTypeTask,
		EstimatedHours: 9,
	}}

	task := Transform(issues, fixedNow).Tasks[0]
	if task.DurationDays != 2 {
		t.Errorf("duration = %d, want 2 (ceil(9/8))", task.DurationDays)
	}
}

func TestTransformDefaultDuration(t *testing.T) {
	issues := []model.Issue{{
		Key:       "X-3",
		Status:    "To Do",
		IssueType: model.IssueTypeTask,
	}}

	task := Transform(issues, fixedNow).Tasks[0]
	if task.DurationDays != defaultDurationDays {
		t.Errorf("duration = %d, want %d", task.DurationDays, defaultDurationDays)
	}
	if task.Start.String() != "2026-03-02" {
		t.Errorf("start = %s, want transform-time date", task.Start)
	}
}

func TestTransformBackwardWindowForced(t *testing.T) {
	cases := []struct {
		name string
		due  string
	}{
		{"due equals start", "2026-03-02"},
		{"due before start", "2026-02-20"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			issues := []model.Issue{{
				Key:       "X-4",
				Status:    "To Do",
				IssueType: model.IssueTypeTask,
				StartDate: "2026-03-02",
				DueDate:   tc.due,
			}}

			task := Transform(issues, fixedNow).Tasks[0]
			if task.End.String() != "2026-03-03" {
				t.Errorf("end = %s, want start+1", task.End)
			}
			if task.DurationDays != 1 {
				t.Errorf("duration = %d, want 1", task.DurationDays)
			}
		})
	}
}

func TestTransformUnparseableDatesDefaulted(t *testing.T) {
	issues := []model.Issue{{
		Key:       "X-5",
		Status:    "To Do",
		IssueType: model.IssueTypeBug,
		StartDate: "not-a-date",
		DueDate:   "03/15/2026",
	}}

	task := Transform(issues, fixedNow).Tasks[0]
	if task.Start.String() != "2026-03-02" {
		t.Errorf("start = %s, want transform-time date", task.Start)
	}
	if task.DurationDays != defaultDurationDays {
		t.Errorf("duration = %d, want default", task.DurationDays)
	}
}

func TestTransformInvariants(t *testing.T) {
	issues := []model.Issue{
		{Key: "A-1", Status: "Done", IssueType: model.IssueTypeEpic,
			StartDate: "2026-01-01", DueDate: "2026-01-01"},
		{Key: "A-2", Status: "To Do", IssueType: model.IssueTypeStory,
			EstimatedHours: 0.5},
		{Key: "A-3", Status: "Blocked", IssueType: model.IssueTypeBug,
			DueDate: "2025-12-31"},
		{Key: "A-4", Status: "In Progress", IssueType: model.IssueTypeTask,
			Subtasks: []model.SubtaskSummary{
				{Key: "A-5", Summary: "part", Status: "To Do",
					IssueType: model.IssueTypeSubtask},
			}},
	}

	res := Transform(issues, fixedNow)
	if len(res.Tasks) != 5 {
		t.Fatalf("got %d tasks, want 5 (no issue dropped)", len(res.Tasks))
	}

	for _, task := range res.Tasks {
		if task.DurationDays < 1 {
			t.Errorf("task %s: duration %d < 1", task.ID, task.DurationDays)
		}
		if !task.End.After(task.Start.Time) {
			t.Errorf("task %s: end %s not after start %s",
				task.ID, task.End, task.Start)
		}
		if task.Progress < 0 || task.Progress > 1 {
			t.Errorf("task %s: progress %v outside [0,1]",
				task.ID, task.Progress)
		}
	}
}

func TestProgressTable(t *testing.T) {
	cases := []struct {
		status string
		want   float64
	}{
		{"To Do", 0},
		{"In Progress", 0.5},
		{"Done", 1},
		{"Closed", 1},
		{"Blocked", 0},
		{"", 0},
	}

	for _, tc := range cases {
		if got := ProgressForStatus(tc.status); got != tc.want {
			t.Errorf("ProgressForStatus(%q) = %v, want %v",
				tc.status, got, tc.want)
		}
	}
}

func TestKindMapping(t *testing.T) {
	if KindForIssueType(model.IssueTypeEpic) != model.KindProject {
		t.Error("epic should map to the project kind")
	}
	for _, it := range []string{
		model.IssueTypeStory, model.IssueTypeBug,
		model.IssueTypeTask, model.IssueTypeSubtask, "Improvement",
	} {
		if KindForIssueType(it) != model.KindTask {
			t.Errorf("%s should map to the task kind", it)
		}
	}
}

func TestSubtaskExpansion(t *testing.T) {
	issues := []model.Issue{{
		Key:       "E-1",
		Summary:   "Epic",
		Status:    "In Progress",
		IssueType: model.IssueTypeEpic,
		Assignee:  "dana",
		Reporter:  "lee",
		Priority:  "High",
		Labels:    []string{"q2"},
		StartDate: "2026-03-02",
		DueDate:   "2026-03-12", // duration 10
		Subtasks: []model.SubtaskSummary{
			{Key: "E-2", Summary: "one", Status: "Done", IssueType: model.IssueTypeSubtask},
			{Key: "E-3", Summary: "two", Status: "In Progress", IssueType: model.IssueTypeSubtask},
			{Key: "E-4", Summary: "three", Status: "To Do", IssueType: model.IssueTypeSubtask},
		},
	}}

	res := Transform(issues, fixedNow)
	if len(res.Tasks) != 4 {
		t.Fatalf("got %d tasks, want 4", len(res.Tasks))
	}

	parent := res.Tasks[0]
	subs := res.Tasks[1:]

	var total int
	for i, sub := range subs {
		if sub.Parent != "E-1" {
			t.Errorf("subtask %s: parent = %q, want E-1", sub.ID, sub.Parent)
		}
		if sub.DurationDays < 1 {
			t.Errorf("subtask %s: duration %d < 1", sub.ID, sub.DurationDays)
		}
		total += sub.DurationDays

		// Sequential, non-overlapping slices from the parent's start.
		wantStart := parent.Start.AddDays(i * 3)
		if !sub.Start.Equal(wantStart.Time) {
			t.Errorf("subtask %s: start = %s, want %s",
				sub.ID, sub.Start, wantStart)
		}
		if i > 0 && sub.Start.Before(subs[i-1].End.Time) {
			t.Errorf("subtask %s overlaps previous slice", sub.ID)
		}

		// People and labels inherited from the parent issue.
		if sub.Details.Assignee != "dana" || sub.Details.Priority != "High" {
			t.Errorf("subtask %s did not inherit parent fields", sub.ID)
		}
	}

	if total > parent.DurationDays {
		t.Errorf("subtask durations sum to %d > parent %d",
			total, parent.DurationDays)
	}
}

func TestSubtaskSliceFloorsAtOneDay(t *testing.T) {
	issues := []model.Issue{{
		Key:       "E-9",
		Status:    "To Do",
		IssueType: model.IssueTypeStory,
		StartDate: "2026-03-02",
		DueDate:   "2026-03-04", // duration 2, three subtasks
		Subtasks: []model.SubtaskSummary{
			{Key: "E-10", Status: "To Do"},
			{Key: "E-11", Status: "To Do"},
			{Key: "E-12", Status: "To Do"},
		},
	}}

	res := Transform(issues, fixedNow)
	for _, sub := range res.Tasks[1:] {
		if sub.DurationDays != 1 {
			t.Errorf("subtask %s: duration = %d, want 1",
				sub.ID, sub.DurationDays)
		}
	}
}

func TestDanglingParentCleared(t *testing.T) {
	issues := []model.Issue{{
		Key:       "B-1",
		Status:    "To Do",
		IssueType: model.IssueTypeStory,
		ParentKey: "GONE-99",
	}}

	res := Transform(issues, fixedNow)
	if res.Tasks[0].Parent != "" {
		t.Errorf("dangling parent not cleared: %q", res.Tasks[0].Parent)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "GONE-99") {
		t.Errorf("expected a dangling-parent warning, got %v", res.Warnings)
	}
}

func TestParentCycleDemoted(t *testing.T) {
	issues := []model.Issue{
		{Key: "C-1", Status: "To Do", IssueType: model.IssueTypeStory,
			ParentKey: "C-2"},
		{Key: "C-2", Status: "To Do", IssueType: model.IssueTypeStory,
			ParentKey: "C-1"},
	}

	res := Transform(issues, fixedNow)

	cleared := 0
	for _, task := range res.Tasks {
		if task.Parent == "" {
			cleared++
		}
	}
	if cleared == 0 {
		t.Error("cycle not broken: no parent edge was cleared")
	}
	if len(res.Warnings) == 0 {
		t.Error("expected a cycle warning")
	}

	// After demotion every remaining chain must terminate.
	index := map[string]int{}
	for i, task := range res.Tasks {
		index[task.ID] = i
	}
	for i := range res.Tasks {
		if formsCycle(res.Tasks, index, i) {
			t.Errorf("task %s still participates in a cycle", res.Tasks[i].ID)
		}
	}
}

func TestTransformIdempotent(t *testing.T) {
	issues := []model.Issue{
		{Key: "D-1", Summary: "a", Status: "Done",
			IssueType: model.IssueTypeEpic, StartDate: "2026-01-05",
			DueDate: "2026-02-05",
			Subtasks: []model.SubtaskSummary{
				{Key: "D-2", Summary: "b", Status: "To Do"},
			}},
		{Key: "D-3", Summary: "c", Status: "To Do",
			IssueType: model.IssueTypeBug, EstimatedHours: 3},
	}

	first := Transform(issues, fixedNow)
	second := Transform(issues, fixedNow)

	if !reflect.DeepEqual(first, second) {
		t.Error("transform is not deterministic for identical input")
	}
}

func TestTransformOutputOrder(t *testing.T) {
	issues := []model.Issue{
		{Key: "F-1", Status: "To Do", IssueType: model.IssueTypeEpic,
			Subtasks: []model.SubtaskSummary{
				{Key: "F-2", Status: "To Do"},
				{Key: "F-3", Status: "To Do"},
			}},
		{Key: "F-4", Status: "To Do", IssueType: model.IssueTypeTask},
	}

	res := Transform(issues, fixedNow)

	got := make([]string, len(res.Tasks))
	for i, task := range res.Tasks {
		got[i] = task.ID
	}
	want := []string{"F-1", "F-2", "F-3", "F-4"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("output order = %v, want %v", got, want)
	}
}
