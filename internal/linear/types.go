package linear

import "time"

// StateRef is a workflow state reference as embedded in issues and history
// entries. Type is one of: triage, backlog, unstarted, started, completed,
// canceled.
type StateRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// TeamRef identifies the team an issue belongs to.
type TeamRef struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// UserRef identifies an assignee.
type UserRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
}

// HistoryEntry is a single state transition from an issue's history log.
// FromState and ToState are nil when the history event did not change state.
type HistoryEntry struct {
	ID        string    `json:"id"`
	CreatedAt string    `json:"createdAt"`
	FromState *StateRef `json:"fromState"`
	ToState   *StateRef `json:"toState"`
}

// HistoryConnection wraps the history node list.
type HistoryConnection struct {
	Nodes []HistoryEntry `json:"nodes"`
}

// RawIssue is a single issue node exactly as returned by the API.
// Timestamps stay as strings; they are parsed on demand via ParseTime so a
// single malformed date never poisons a whole page.
type RawIssue struct {
	ID         string    `json:"id"`
	Identifier string    `json:"identifier"`
	Title      string    `json:"title"`
	Priority   int       `json:"priority"`
	Estimate   *float64  `json:"estimate"`
	State      *StateRef `json:"state"`
	Team       *TeamRef  `json:"team"`
	Assignee   *UserRef  `json:"assignee"`

	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
	StartedAt   string `json:"startedAt"`
	CompletedAt string `json:"completedAt"`
	ArchivedAt  string `json:"archivedAt"`

	History HistoryConnection `json:"history"`
}

// PageInfo carries the cursor-pagination markers of a result page.
type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

// Page is one normalized page of issue results.
type Page struct {
	Issues   []RawIssue
	PageInfo PageInfo
}

// ParseTime parses an API timestamp (RFC 3339, usually with millisecond
// precision). The second return is false for empty or malformed input;
// callers treat that as "timestamp absent" rather than an error.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
