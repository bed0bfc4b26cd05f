package jira

import (
	"context"
	"fmt"
	"strings"

	"github.com/nhle/foundry/internal/model"
	"github.com/nhle/foundry/internal/source"
)

// defaultMaxResults caps a search when the query does not specify one.
const defaultMaxResults = 100

// fetchFields are the Jira fields requested during search queries.
// The configured start date field is appended at request time.
var fetchFields = []string{
	"summary", "description", "status", "priority", "assignee",
	"reporter", "issuetype", "project", "labels", "components",
	"duedate", "timetracking", "parent", "subtasks",
}

// Adapter implements source.IssueSource for Jira.
type Adapter struct {
	client         *Client
	baseURL        string
	startDateField string
}

// NewAdapter creates a new Jira source adapter. startDateField is the
// custom field id carrying the issue start date (empty disables start
// date handling entirely).
func NewAdapter(baseURL, email, token, startDateField string) *Adapter {
	return &Adapter{
		client:         NewClient(baseURL, email, token),
		baseURL:        strings.TrimRight(baseURL, "/"),
		startDateField: startDateField,
	}
}

// ValidateConnection verifies credentials by calling GET /rest/api/2/myself.
func (a *Adapter) ValidateConnection(
	ctx context.Context,
) (*source.ConnectionInfo, error) {
	var me Myself
	if err := a.client.Get(ctx, "/rest/api/2/myself", &me); err != nil {
		return nil, fmt.Errorf("validating Jira connection: %w", err)
	}
	return &source.ConnectionInfo{
		Host:        a.baseURL,
		AccountName: me.DisplayName,
	}, nil
}

// FetchIssues retrieves the flat list of issues matching the query.
func (a *Adapter) FetchIssues(
	ctx context.Context,
	q source.IssueQuery,
) ([]model.Issue, error) {
	jql := q.JQL
	if jql == "" {
		jql = fmt.Sprintf(
			`project = "%s" ORDER BY created ASC`, escapeJQL(q.ProjectKey),
		)
	}

	maxResults := q.MaxResults
	if maxResults < 1 {
		maxResults = defaultMaxResults
	}

	fields := fetchFields
	if a.startDateField != "" {
		fields = append(append([]string{}, fetchFields...), a.startDateField)
	}

	body := map[string]interface{}{
		"jql":        jql,
		"fields":     fields,
		"startAt":    0,
		"maxResults": maxResults,
	}

	var searchResp SearchResponse
	err := a.client.Post(ctx, "/rest/api/2/search", body, &searchResp)
	if err != nil {
		return nil, fmt.Errorf("fetching Jira issues: %w", err)
	}

	issues := make([]model.Issue, 0, len(searchResp.Issues))
	for _, issue := range searchResp.Issues {
		issues = append(issues, a.issueToRecord(issue))
	}

	return issues, nil
}

// UpdateIssueDates writes rescheduled dates back to the issue via
// PUT /rest/api/2/issue/{key}. A zero date leaves that field untouched.
func (a *Adapter) UpdateIssueDates(
	ctx context.Context,
	issueKey string,
	start, due model.Date,
) error {
	fields := make(map[string]interface{})
	if !due.IsZero() {
		fields["duedate"] = due.String()
	}
	if !start.IsZero() && a.startDateField != "" {
		fields[a.startDateField] = start.String()
	}
	if len(fields) == 0 {
		return nil
	}

	path := fmt.Sprintf("/rest/api/2/issue/%s", issueKey)
	payload := map[string]interface{}{"fields": fields}

	if err := a.client.Put(ctx, path, payload); err != nil {
		return fmt.Errorf("updating dates on %s: %w", issueKey, err)
	}
	return nil
}

// GetProjects lists the projects visible to the connected account.
func (a *Adapter) GetProjects(
	ctx context.Context,
) ([]source.ProjectInfo, error) {
	var raw []Project
	if err := a.client.Get(ctx, "/rest/api/2/project", &raw); err != nil {
		return nil, fmt.Errorf("listing Jira projects: %w", err)
	}

	projects := make([]source.ProjectInfo, 0, len(raw))
	for _, p := range raw {
		projects = append(projects, source.ProjectInfo{
			Key:  p.Key,
			Name: p.Name,
		})
	}
	return projects, nil
}

// issueToRecord converts a Jira issue to the normalized issue record.
// Date strings are passed through raw; parsing and defaulting belong to
// the transformer.
func (a *Adapter) issueToRecord(issue Issue) model.Issue {
	f := issue.Fields

	assignee := ""
	if f.Assignee != nil {
		assignee = f.Assignee.DisplayName
	}

	reporter := ""
	if f.Reporter != nil {
		reporter = f.Reporter.DisplayName
	}

	parentKey := ""
	if f.Parent != nil {
		parentKey = f.Parent.Key
	}

	var components []string
	for _, c := range f.Components {
		components = append(components, c.Name)
	}

	var estimated, remaining float64
	if f.TimeTracking != nil {
		estimated = f.TimeTracking.OriginalEstimateSeconds / 3600
		remaining = f.TimeTracking.RemainingEstimateSeconds / 3600
	}

	startDate := ""
	if a.startDateField != "" {
		startDate = f.StringField(a.startDateField)
	}

	var subtasks []model.SubtaskSummary
	for _, sub := range issue.Fields.Subtasks {
		subtasks = append(subtasks, model.SubtaskSummary{
			Key:       sub.Key,
			Summary:   sub.Fields.Summary,
			Status:    sub.Fields.Status.Name,
			IssueType: sub.Fields.IssueType.Name,
		})
	}

	return model.Issue{
		Key:            issue.Key,
		Summary:        f.Summary,
		Description:    f.Description,
		Status:         f.Status.Name,
		IssueType:      f.IssueType.Name,
		Assignee:       assignee,
		Reporter:       reporter,
		Priority:       f.Priority.Name,
		StartDate:      startDate,
		DueDate:        f.DueDate,
		EstimatedHours: estimated,
		RemainingHours: remaining,
		ParentKey:      parentKey,
		Labels:         f.Labels,
		Components:     components,
		Subtasks:       subtasks,
		ProjectKey:     f.Project.Key,
		URL:            a.baseURL + "/browse/" + issue.Key,
	}
}

// escapeJQL escapes special characters in a JQL string value.
func escapeJQL(s string) string {
	// Escape backslashes first, then double-quotes.
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}
