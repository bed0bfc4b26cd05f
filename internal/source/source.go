// Package source defines the contract between the sync layer and the
// external issue tracker.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/foundry/internal/model"
)

// AuthError indicates that authentication has failed or expired for the
// tracker. It is returned by clients when a 401 response is received.
type AuthError struct {
	Host    string
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%s): %s", e.Host, e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// IssueQuery selects which issues to fetch. Exactly one of ProjectKey or
// JQL should be set; JQL wins when both are.
type IssueQuery struct {
	ProjectKey string
	JQL        string
	MaxResults int
}

// ProjectInfo identifies a tracker project available for syncing.
type ProjectInfo struct {
	Key  string
	Name string
}

// ConnectionInfo describes a validated tracker connection.
type ConnectionInfo struct {
	Host        string
	AccountName string
}

// IssueSource is the contract every issue tracker integration must
// implement: fetching raw issues, listing projects, and writing
// rescheduled dates back.
type IssueSource interface {
	// ValidateConnection verifies credentials and connectivity.
	ValidateConnection(ctx context.Context) (*ConnectionInfo, error)

	// FetchIssues retrieves the flat issue list matching the query.
	FetchIssues(ctx context.Context, q IssueQuery) ([]model.Issue, error)

	// UpdateIssueDates writes a task's rescheduled window back to the
	// originating issue. Zero dates leave the corresponding field alone.
	UpdateIssueDates(
		ctx context.Context,
		issueKey string,
		start, due model.Date,
	) error

	// GetProjects lists the projects visible to the connected account.
	GetProjects(ctx context.Context) ([]ProjectInfo, error)
}
