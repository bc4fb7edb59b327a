// Package timeline reconstructs the chronological state-transition history
// of an issue from its creation timestamp and history log.
package timeline

import (
	"sort"
	"time"

	"linearflow/internal/linear"
)

// Kind classifies a timeline event.
type Kind string

const (
	// Created is the synthetic event anchored to the issue's creation.
	Created Kind = "created"
	// Transition is a state change taken from the history log.
	Transition Kind = "transition"
)

// CreatedLabel is the display label of the synthetic creation event. It is
// not a workflow state; its FromType/ToType stay empty so activity
// classification never mistakes it for one.
const CreatedLabel = "created"

// Event is one entry in an issue's reconstructed timeline. FromState is
// empty for the creation event. FromType/ToType carry the workflow state
// *types* (backlog, unstarted, started, completed, canceled) so calculators
// can classify activity without relying on display names.
type Event struct {
	Date      time.Time
	FromState string
	ToState   string
	FromType  string
	ToType    string
	Kind      Kind
}

// Build returns the issue's events sorted ascending by timestamp. The
// creation event is emitted only when createdAt parses; history entries
// without a resolvable toState or with an unparseable date are dropped.
func Build(raw linear.RawIssue) []Event {
	var events []Event

	if t, ok := linear.ParseTime(raw.CreatedAt); ok {
		events = append(events, Event{
			Date:    t,
			ToState: CreatedLabel,
			Kind:    Created,
		})
	}

	for _, h := range raw.History.Nodes {
		if h.ToState == nil {
			continue
		}
		t, ok := linear.ParseTime(h.CreatedAt)
		if !ok {
			continue
		}
		e := Event{
			Date:    t,
			ToState: h.ToState.Name,
			ToType:  h.ToState.Type,
			Kind:    Transition,
		}
		if h.FromState != nil {
			e.FromState = h.FromState.Name
			e.FromType = h.FromState.Type
		}
		events = append(events, e)
	}

	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		// Creation anchors the timeline on timestamp ties.
		return events[i].Kind == Created && events[j].Kind != Created
	})

	return events
}
