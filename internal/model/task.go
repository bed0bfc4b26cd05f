package model

// TaskKind is a task's rendering category on the timeline.
type TaskKind string

const (
	// KindTask is a leaf bar.
	KindTask TaskKind = "task"

	// KindProject is a container/summary bar (epics).
	KindProject TaskKind = "project"

	// KindMilestone is part of the kind vocabulary but is not currently
	// produced by the transformer.
	KindMilestone TaskKind = "milestone"
)

// Task is the derived, schedulable unit rendered on the timeline.
// Start and End are always concrete dates: the transformer synthesizes
// them when the source issue carries none.
type Task struct {
	// ID is the originating issue key.
	ID string `json:"id"`

	// Label is the display text (type glyph + key + summary).
	Label string `json:"label"`

	// Start and End bound the bar. End is always strictly after Start.
	Start Date `json:"start"`
	End   Date `json:"end"`

	// DurationDays is the whole-day span between Start and End, never
	// less than 1.
	DurationDays int `json:"duration_days"`

	// Progress is the display fraction in [0,1], derived from status.
	Progress float64 `json:"progress"`

	// Kind selects the bar's rendering category.
	Kind TaskKind `json:"kind"`

	// Parent is the ID of the owning task, or empty. A task has at most
	// one parent; cycle-forming edges are demoted during transform.
	Parent string `json:"parent,omitempty"`

	// Details carries through the source issue's descriptive fields.
	Details TaskDetails `json:"details"`
}

// TaskDetails is the display payload carried from the source issue.
type TaskDetails struct {
	Summary     string   `json:"summary"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status"`
	IssueType   string   `json:"issue_type"`
	Assignee    string   `json:"assignee,omitempty"`
	Reporter    string   `json:"reporter,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	Labels      []string `json:"labels,omitempty"`
	Components  []string `json:"components,omitempty"`
	URL         string   `json:"url,omitempty"`
}

// WithDates returns a copy of the task rescheduled to the given window,
// recomputing the duration. The end is pushed forward a day if the
// window would collapse or invert.
func (t Task) WithDates(start, end Date) Task {
	if !end.After(start.Time) {
		end = start.AddDays(1)
	}
	t.Start = start
	t.End = end
	t.DurationDays = start.DaysUntil(end)
	if t.DurationDays < 1 {
		t.DurationDays = 1
	}
	return t
}
