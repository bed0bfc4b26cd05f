package model

// Issue type names as reported by the tracker.
const (
	IssueTypeEpic    = "Epic"
	IssueTypeStory   = "Story"
	IssueTypeBug     = "Bug"
	IssueTypeTask    = "Task"
	IssueTypeSubtask = "Sub-task"
)

// Issue is the normalized, read-only work item record fetched from the
// issue tracker. Date fields keep the tracker's raw string form; the
// gantt transformer owns parsing and defaulting.
type Issue struct {
	// Key is the project-scoped issue key (e.g. "PROJ-123").
	Key string `json:"key"`

	// Summary is the one-line issue title.
	Summary string `json:"summary"`

	// Description is the full body text.
	Description string `json:"description,omitempty"`

	// Status is the tracker status name (e.g. "To Do", "In Progress").
	Status string `json:"status"`

	// IssueType is the tracker issue type name (use IssueType* constants).
	IssueType string `json:"issue_type"`

	// Assignee and Reporter are display names; either may be empty.
	Assignee string `json:"assignee,omitempty"`
	Reporter string `json:"reporter,omitempty"`

	// Priority is the tracker priority name (e.g. "High").
	Priority string `json:"priority,omitempty"`

	// StartDate and DueDate are raw YYYY-MM-DD strings from the tracker;
	// either may be empty or unparseable.
	StartDate string `json:"start_date,omitempty"`
	DueDate   string `json:"due_date,omitempty"`

	// EstimatedHours and RemainingHours come from the tracker's time
	// tracking fields. Zero or negative means not set.
	EstimatedHours float64 `json:"estimated_hours,omitempty"`
	RemainingHours float64 `json:"remaining_hours,omitempty"`

	// ParentKey is the key of the parent issue for sub-tasks and for
	// stories under an epic. Empty for top-level issues.
	ParentKey string `json:"parent_key,omitempty"`

	Labels     []string `json:"labels,omitempty"`
	Components []string `json:"components,omitempty"`

	// Subtasks holds the embedded subtask summaries returned inline with
	// the issue. Subtasks carry no independent dates.
	Subtasks []SubtaskSummary `json:"subtasks,omitempty"`

	// ProjectKey identifies the tracker project the issue belongs to.
	ProjectKey string `json:"project_key,omitempty"`

	// URL is the direct link back to the issue in the tracker.
	URL string `json:"url,omitempty"`
}

// SubtaskSummary is the abbreviated subtask record embedded in a parent
// issue's payload.
type SubtaskSummary struct {
	Key       string `json:"key"`
	Summary   string `json:"summary"`
	Status    string `json:"status"`
	IssueType string `json:"issue_type"`
}
