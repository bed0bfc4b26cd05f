package jira

import "encoding/json"

// SearchResponse is the response from POST /rest/api/2/search.
type SearchResponse struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

// Issue represents a single Jira issue from the REST API.
type Issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Self   string      `json:"self"`
	Fields IssueFields `json:"fields"`
}

// IssueFields contains the standard fields of a Jira issue. Custom
// fields (notably the start date, which API v2 has no standard field
// for) are retained in Custom for lookup by configured field id.
type IssueFields struct {
	Summary      string        `json:"summary"`
	Description  string        `json:"description,omitempty"`
	Status       Status        `json:"status"`
	Priority     Priority      `json:"priority"`
	IssueType    IssueType     `json:"issuetype"`
	Assignee     *User         `json:"assignee"`
	Reporter     *User         `json:"reporter"`
	Project      Project       `json:"project"`
	DueDate      string        `json:"duedate,omitempty"`
	Labels       []string      `json:"labels,omitempty"`
	Components   []Component   `json:"components,omitempty"`
	TimeTracking *TimeTracking `json:"timetracking,omitempty"`
	Parent       *ParentRef    `json:"parent,omitempty"`
	Subtasks     []Issue       `json:"subtasks,omitempty"`

	// Custom holds the raw field map for custom field access.
	Custom map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the typed fields and additionally retains the
// raw field map so configured custom fields can be read back.
func (f *IssueFields) UnmarshalJSON(data []byte) error {
	type fields IssueFields
	var typed fields
	if err := json.Unmarshal(data, &typed); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*f = IssueFields(typed)
	f.Custom = raw
	return nil
}

// StringField decodes a custom field value as a plain string. Returns
// the empty string for absent, null, or non-string values.
func (f *IssueFields) StringField(id string) string {
	raw, ok := f.Custom[id]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Status represents the status of a Jira issue.
type Status struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// Priority represents the priority level of a Jira issue.
type Priority struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// IssueType represents the type of a Jira issue (Bug, Story, etc.).
type IssueType struct {
	Name    string `json:"name"`
	ID      string `json:"id"`
	Subtask bool   `json:"subtask"`
}

// User represents a Jira user.
type User struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
}

// Project represents a Jira project.
type Project struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Component is a project component attached to an issue.
type Component struct {
	Name string `json:"name"`
}

// TimeTracking holds the estimate fields of an issue.
type TimeTracking struct {
	OriginalEstimateSeconds  float64 `json:"originalEstimateSeconds"`
	RemainingEstimateSeconds float64 `json:"remainingEstimateSeconds"`
}

// ParentRef points at the parent of a sub-task or epic child.
type ParentRef struct {
	Key string `json:"key"`
}

// Myself is the response from GET /rest/api/2/myself.
type Myself struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
	Active       bool   `json:"active"`
}

// ErrorResponse is the standard Jira error response format.
type ErrorResponse struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}
