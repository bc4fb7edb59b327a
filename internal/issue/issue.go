// Package issue is the domain layer over raw API records: derived
// timestamps, lifecycle classification, and per-issue cycle/lead times.
// Every derivation is a pure function; a missing or malformed timestamp
// yields nil rather than an error.
package issue

import (
	"sort"
	"time"

	"linearflow/internal/linear"
)

const hoursPerDay = 24.0

// Issue wraps a raw record with computed flow properties. Construction is
// idempotent by type: there is only ever one representation.
type Issue struct {
	linear.RawIssue
}

// From wraps a raw API record.
func From(raw linear.RawIssue) Issue {
	return Issue{RawIssue: raw}
}

// FromAll wraps a full result set.
func FromAll(raws []linear.RawIssue) []Issue {
	issues := make([]Issue, len(raws))
	for i, r := range raws {
		issues[i] = From(r)
	}
	return issues
}

// CreatedTime returns the parsed creation timestamp.
func (i Issue) CreatedTime() (time.Time, bool) {
	return linear.ParseTime(i.CreatedAt)
}

// CompletedTime returns the parsed completion timestamp.
func (i Issue) CompletedTime() (time.Time, bool) {
	return linear.ParseTime(i.CompletedAt)
}

// StartedTime returns the explicit startedAt when present, otherwise the
// timestamp of the first history event transitioning into a "started"-type
// state. Entries with unparseable dates are skipped.
func (i Issue) StartedTime() (time.Time, bool) {
	if t, ok := linear.ParseTime(i.StartedAt); ok {
		return t, true
	}

	var candidates []time.Time
	for _, h := range i.History.Nodes {
		if h.ToState == nil || h.ToState.Type != "started" {
			continue
		}
		if t, ok := linear.ParseTime(h.CreatedAt); ok {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return time.Time{}, false
	}
	sort.Slice(candidates, func(a, b int) bool { return candidates[a].Before(candidates[b]) })
	return candidates[0], true
}

// Completed reports whether the issue has a completion timestamp.
func (i Issue) Completed() bool {
	_, ok := i.CompletedTime()
	return ok
}

// InProgress reports whether the issue has started but not completed.
func (i Issue) InProgress() bool {
	if i.Completed() {
		return false
	}
	_, started := i.StartedTime()
	return started
}

// Backlog reports whether the issue has neither started nor completed.
func (i Issue) Backlog() bool {
	return !i.Completed() && !i.InProgress()
}

// CycleTimeDays is completedAt - startedAt in days, nil if either is
// missing.
func (i Issue) CycleTimeDays() *float64 {
	completed, ok := i.CompletedTime()
	if !ok {
		return nil
	}
	started, ok := i.StartedTime()
	if !ok {
		return nil
	}
	days := completed.Sub(started).Hours() / hoursPerDay
	return &days
}

// LeadTimeDays is completedAt - createdAt in days, nil if either is
// missing.
func (i Issue) LeadTimeDays() *float64 {
	completed, ok := i.CompletedTime()
	if !ok {
		return nil
	}
	created, ok := i.CreatedTime()
	if !ok {
		return nil
	}
	days := completed.Sub(created).Hours() / hoursPerDay
	return &days
}

// TeamKey returns the owning team's key, empty when unassigned.
func (i Issue) TeamKey() string {
	if i.Team == nil {
		return ""
	}
	return i.Team.Key
}
