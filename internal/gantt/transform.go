// Package gantt converts tracker issues into schedulable timeline tasks
// and models the interactive rescheduling of their bars.
package gantt

import (
	"fmt"
	"math"
	"time"

	"github.com/nhle/foundry/internal/model"
)

// workdayHours converts an estimate in hours into whole days.
const workdayHours = 8

// defaultDurationDays is the bar length used when the tracker supplies
// no due date and no estimate.
const defaultDurationDays = 5

// statusProgress is the fixed status-to-fraction table. Unknown statuses
// map to 0 rather than failing the sync.
var statusProgress = map[string]float64{
	"To Do":       0,
	"In Progress": 0.5,
	"Done":        1,
	"Closed":      1,
}

// typeGlyphs prefix the task label with a marker per issue type.
var typeGlyphs = map[string]string{
	model.IssueTypeEpic:    "◆",
	model.IssueTypeStory:   "▸",
	model.IssueTypeBug:     "✖",
	model.IssueTypeTask:    "•",
	model.IssueTypeSubtask: "·",
}

// Result is the output of a transform: the flat task list plus any
// parent-link problems found while building it.
type Result struct {
	Tasks []model.Task

	// Warnings reports demoted parent edges (dangling or cycle-forming).
	Warnings []string
}

// ProgressForStatus returns the display-progress fraction for a tracker
// status name.
func ProgressForStatus(status string) float64 {
	return statusProgress[status]
}

// KindForIssueType maps an issue type to a task rendering kind. Epics
// render as container bars; everything else is a leaf.
func KindForIssueType(issueType string) model.TaskKind {
	if issueType == model.IssueTypeEpic {
		return model.KindProject
	}
	return model.KindTask
}

// Transform converts a list of issues into a flat list of timeline
// tasks. Every issue yields exactly one task (plus one per embedded
// subtask); dates are synthesized when absent so every task is drawable.
// The now argument anchors the default start date and is injectable for
// deterministic tests.
func Transform(issues []model.Issue, now time.Time) Result {
	var res Result

	for _, issue := range issues {
		task := issueToTask(issue, now)
		res.Tasks = append(res.Tasks, task)

		// Subtasks appear immediately after their parent in output
		// order; their windows are proportional slices of the parent's.
		if len(issue.Subtasks) > 0 {
			res.Tasks = append(
				res.Tasks, expandSubtasks(issue, task)...,
			)
		}
	}

	res.Warnings = resolveParents(res.Tasks)
	return res
}

// issueToTask builds a single task from an issue, inferring dates.
func issueToTask(issue model.Issue, now time.Time) model.Task {
	start, end := inferDates(issue, now)

	duration := start.DaysUntil(end)
	if duration < 1 {
		duration = 1
	}

	return model.Task{
		ID:           issue.Key,
		Label:        taskLabel(issue.IssueType, issue.Key, issue.Summary),
		Start:        start,
		End:          end,
		DurationDays: duration,
		Progress:     ProgressForStatus(issue.Status),
		Kind:         KindForIssueType(issue.IssueType),
		Parent:       issue.ParentKey,
		Details: model.TaskDetails{
			Summary:     issue.Summary,
			Description: issue.Description,
			Status:      issue.Status,
			IssueType:   issue.IssueType,
			Assignee:    issue.Assignee,
			Reporter:    issue.Reporter,
			Priority:    issue.Priority,
			Labels:      issue.Labels,
			Components:  issue.Components,
			URL:         issue.URL,
		},
	}
}

// inferDates produces a concrete, forward window for an issue:
//
//  1. start = parsed start date, else today.
//  2. end = parsed due date, else start + ceil(estimate/8) days,
//     else start + 5 days.
//  3. end <= start is forced to start + 1 day.
func inferDates(issue model.Issue, now time.Time) (model.Date, model.Date) {
	start, err := model.ParseDate(issue.StartDate)
	if err != nil {
		start = model.DateOf(now)
	}

	end, err := model.ParseDate(issue.DueDate)
	if err != nil {
		days := defaultDurationDays
		if issue.EstimatedHours > 0 {
			days = int(math.Ceil(issue.EstimatedHours / workdayHours))
		}
		end = start.AddDays(days)
	}

	if !end.After(start.Time) {
		end = start.AddDays(1)
	}

	return start, end
}

// expandSubtasks slices the parent's window evenly across its embedded
// subtasks, laid out sequentially from the parent's start. Subtasks
// carry no dates of their own, so this is a display heuristic.
func expandSubtasks(issue model.Issue, parent model.Task) []model.Task {
	sliceDays := parent.DurationDays / len(issue.Subtasks)
	if sliceDays < 1 {
		sliceDays = 1
	}

	tasks := make([]model.Task, 0, len(issue.Subtasks))
	for i, sub := range issue.Subtasks {
		start := parent.Start.AddDays(i * sliceDays)
		end := start.AddDays(sliceDays)

		tasks = append(tasks, model.Task{
			ID:           sub.Key,
			Label:        taskLabel(sub.IssueType, sub.Key, sub.Summary),
			Start:        start,
			End:          end,
			DurationDays: sliceDays,
			Progress:     ProgressForStatus(sub.Status),
			Kind:         model.KindTask,
			Parent:       issue.Key,
			Details: model.TaskDetails{
				Summary:   sub.Summary,
				Status:    sub.Status,
				IssueType: sub.IssueType,
				// Subtask summaries carry no people or labels of
				// their own; inherit the parent's.
				Assignee:   issue.Assignee,
				Reporter:   issue.Reporter,
				Priority:   issue.Priority,
				Labels:     issue.Labels,
				Components: issue.Components,
			},
		})
	}

	return tasks
}

// resolveParents validates parent links over the whole task arena in a
// single pass per task. Dangling references and cycle-forming edges are
// demoted to "no parent" and reported.
func resolveParents(tasks []model.Task) []string {
	index := make(map[string]int, len(tasks))
	for i, t := range tasks {
		index[t.ID] = i
	}

	var warnings []string
	for i := range tasks {
		parent := tasks[i].Parent
		if parent == "" {
			continue
		}

		if _, ok := index[parent]; !ok {
			tasks[i].Parent = ""
			warnings = append(warnings, fmt.Sprintf(
				"task %s: parent %s not in schedule; link cleared",
				tasks[i].ID, parent,
			))
			continue
		}

		if formsCycle(tasks, index, i) {
			tasks[i].Parent = ""
			warnings = append(warnings, fmt.Sprintf(
				"task %s: parent %s forms a cycle; link cleared",
				tasks[i].ID, parent,
			))
		}
	}

	return warnings
}

// formsCycle walks the parent chain upward from tasks[start] and reports
// whether it revisits start before terminating.
func formsCycle(tasks []model.Task, index map[string]int, start int) bool {
	seen := map[int]bool{start: true}

	cur := start
	for {
		parent := tasks[cur].Parent
		if parent == "" {
			return false
		}
		next, ok := index[parent]
		if !ok {
			return false
		}
		if seen[next] {
			return true
		}
		seen[next] = true
		cur = next
	}
}

// taskLabel formats the display text for a task bar.
func taskLabel(issueType, key, summary string) string {
	glyph, ok := typeGlyphs[issueType]
	if !ok {
		glyph = "•"
	}
	return fmt.Sprintf("%s %s %s", glyph, key, summary)
}
