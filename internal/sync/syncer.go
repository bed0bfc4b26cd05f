package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/foundry/internal/gantt"
	"github.com/nhle/foundry/internal/model"
	"github.com/nhle/foundry/internal/source"
	"github.com/nhle/foundry/internal/store"
)

// State represents the current state of the issue source connection.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateError
)

// Status holds the sync state for the configured issue source.
type Status struct {
	State    State
	LastSync time.Time
	Error    error
}

// Filter narrows the fetched issue set before it is turned into a
// schedule. Empty fields match everything.
type Filter struct {
	IssueTypes []string
	Statuses   []string
	Priorities []string
	Text       string
}

// IsEmpty reports whether the filter matches all issues.
func (f Filter) IsEmpty() bool {
	return len(f.IssueTypes) == 0 &&
		len(f.Statuses) == 0 &&
		len(f.Priorities) == 0 &&
		f.Text == ""
}

// Match reports whether an issue passes the filter.
func (f Filter) Match(issue model.Issue) bool {
	if len(f.IssueTypes) > 0 && !containsFold(f.IssueTypes, issue.IssueType) {
		return false
	}
	if len(f.Statuses) > 0 && !containsFold(f.Statuses, issue.Status) {
		return false
	}
	if len(f.Priorities) > 0 && !containsFold(f.Priorities, issue.Priority) {
		return false
	}
	if f.Text != "" {
		needle := strings.ToLower(f.Text)
		haystack := strings.ToLower(issue.Key + " " + issue.Summary + " " + issue.Assignee)
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}

func containsFold(values []string, v string) bool {
	for _, candidate := range values {
		if strings.EqualFold(candidate, v) {
			return true
		}
	}
	return false
}

// RefreshedMsg is a tea.Msg sent when a fetch or filter change has
// produced a new schedule. Stale results are discarded before this
// message is ever emitted, so receivers can apply it unconditionally.
type RefreshedMsg struct {
	Result gantt.Result
	Issues []model.Issue
	Err    error
	Auth   *source.AuthError

	// Filtered marks a schedule narrowed by an active filter. Receivers
	// should render it but not persist it over the full schedule.
	Filtered bool
}

// PushResultMsg is a tea.Msg sent when a date change has been pushed to
// the remote tracker. Reverted is set when the remote rejected the
// change and the local document was rolled back to its prior state.
type PushResultMsg struct {
	Key      string
	Task     model.Task
	Err      error
	Reverted bool
}

// fetchTimeout bounds a full multi-project fetch.
const fetchTimeout = 60 * time.Second

// Syncer pulls issues from the configured tracker, applies the active
// filter, and transforms the result into a schedule. Filter changes are
// debounced: each change bumps a generation counter and only the result
// carrying the latest generation is delivered.
type Syncer struct {
	src      source.IssueSource
	store    store.Store
	now      func() time.Time
	debounce time.Duration

	mu         gosync.Mutex
	projects   []string
	jql        string
	maxResults int
	filter     Filter
	issues     []model.Issue
	generation uint64
	status     Status
}

// New creates a Syncer for the given source and store.
func New(src source.IssueSource, st store.Store, cfg model.JiraConfig, debounce time.Duration) *Syncer {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Syncer{
		src:        src,
		store:      st,
		now:        time.Now,
		debounce:   debounce,
		projects:   append([]string(nil), cfg.Projects...),
		jql:        cfg.JQL,
		maxResults: cfg.MaxResults,
	}
}

// SetProjects replaces the set of projects to fetch. Order is
// preserved: issues appear in the schedule grouped by project in the
// order the projects were selected.
func (s *Syncer) SetProjects(keys []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = append([]string(nil), keys...)
}

// Status returns the current connection status.
func (s *Syncer) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Refresh returns a tea.Cmd that fetches all configured projects and
// rebuilds the schedule. The fetch is sequential in project order; the
// per-project result sets are concatenated before filtering.
func (s *Syncer) Refresh() tea.Cmd {
	gen := s.nextGeneration()
	s.setState(StateRunning, nil)

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		issues, err := s.fetchAll(ctx)
		if err != nil {
			s.setState(StateError, err)
			msg := RefreshedMsg{Err: err}
			var authErr *source.AuthError
			if errors.As(err, &authErr) {
				msg.Auth = authErr
			}
			return msg
		}

		s.mu.Lock()
		s.issues = issues
		s.mu.Unlock()

		s.setState(StateIdle, nil)
		return s.buildResult(gen)
	}
}

// SetFilter updates the active filter and returns a tea.Cmd that
// rebuilds the schedule from the cached issue set after the debounce
// window. Rapid successive changes each bump the generation, so only
// the last change produces a RefreshedMsg. Clearing the filter skips
// the debounce and rebuilds immediately.
func (s *Syncer) SetFilter(f Filter) tea.Cmd {
	s.mu.Lock()
	clearing := f.IsEmpty() && !s.filter.IsEmpty()
	s.filter = f
	s.mu.Unlock()

	gen := s.nextGeneration()

	if clearing {
		return func() tea.Msg {
			return s.buildResult(gen)
		}
	}

	return func() tea.Msg {
		time.Sleep(s.debounce)
		return s.buildResult(gen)
	}
}

// PushDates returns a tea.Cmd that persists a rescheduled task and
// pushes its new dates to the remote tracker. The save happens first so
// the UI reflects the change; if the remote rejects it, the document is
// rolled back to the pre-change task and an error notification is
// recorded.
func (s *Syncer) PushDates(docID string, taskIndex int, task model.Task) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		doc, err := s.store.GetDocument(ctx, docID)
		if err != nil {
			return PushResultMsg{Key: task.ID, Err: err}
		}
		if taskIndex < 0 || taskIndex >= len(doc.Tasks) {
			return PushResultMsg{
				Key: task.ID,
				Err: fmt.Errorf("task index %d out of range for document %s", taskIndex, docID),
			}
		}

		prev := doc.Tasks[taskIndex]
		doc.Tasks[taskIndex] = task
		if err := s.store.SaveDocument(ctx, doc); err != nil {
			return PushResultMsg{Key: task.ID, Err: err}
		}

		if err := s.src.UpdateIssueDates(ctx, task.ID, task.Start, task.End); err != nil {
			doc.Tasks[taskIndex] = prev
			if rbErr := s.store.SaveDocument(ctx, doc); rbErr != nil {
				err = errors.Join(err, fmt.Errorf("rolling back %s: %w", task.ID, rbErr))
			}
			_ = s.store.CreateNotification(ctx, model.Notification{
				Ref:   task.ID,
				Level: model.NotifyError,
				Message: fmt.Sprintf(
					"%s: remote rejected date change, schedule reverted", task.ID,
				),
				CreatedAt: s.now(),
			})
			return PushResultMsg{Key: task.ID, Task: prev, Err: err, Reverted: true}
		}

		now := s.now()
		doc.LastSync = &now
		if err := s.store.SaveDocument(ctx, doc); err != nil {
			return PushResultMsg{Key: task.ID, Task: task, Err: err}
		}

		return PushResultMsg{Key: task.ID, Task: task}
	}
}

// fetchAll fetches every configured project sequentially and returns
// the concatenated issue list. With no projects configured, a single
// query using the raw JQL is issued.
func (s *Syncer) fetchAll(ctx context.Context) ([]model.Issue, error) {
	s.mu.Lock()
	projects := append([]string(nil), s.projects...)
	jql := s.jql
	maxResults := s.maxResults
	s.mu.Unlock()

	if len(projects) == 0 {
		return s.src.FetchIssues(ctx, source.IssueQuery{
			JQL:        jql,
			MaxResults: maxResults,
		})
	}

	var all []model.Issue
	for _, key := range projects {
		issues, err := s.src.FetchIssues(ctx, source.IssueQuery{
			ProjectKey: key,
			MaxResults: maxResults,
		})
		if err != nil {
			return nil, fmt.Errorf("fetching project %s: %w", key, err)
		}
		all = append(all, issues...)
	}
	return all, nil
}

// buildResult applies the active filter to the cached issues and
// transforms them. It returns nil when gen is no longer the latest
// generation, discarding the stale result.
func (s *Syncer) buildResult(gen uint64) tea.Msg {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return nil
	}
	filter := s.filter
	issues := make([]model.Issue, 0, len(s.issues))
	for _, issue := range s.issues {
		if filter.Match(issue) {
			issues = append(issues, issue)
		}
	}
	s.mu.Unlock()

	return RefreshedMsg{
		Result:   gantt.Transform(issues, s.now()),
		Issues:   issues,
		Filtered: !filter.IsEmpty(),
	}
}

func (s *Syncer) nextGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return s.generation
}

func (s *Syncer) setState(state State, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.State = state
	s.status.Error = err
	if state == StateIdle && err == nil {
		s.status.LastSync = s.now()
	}
}
