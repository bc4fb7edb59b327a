package stats

import (
	"fmt"
	"sort"

	"linearflow/internal/issue"
	"linearflow/internal/timeline"
)

// TaggedEvent is a timeline event annotated with its owning issue.
type TaggedEvent struct {
	IssueID    string
	Identifier string
	Event      timeline.Event
}

// FlowTransition is one "from → to" edge with its observed frequency.
type FlowTransition struct {
	Transition string `json:"transition"`
	Count      int    `json:"count"`
}

// DailyCount is the per-state event count for one calendar date.
type DailyCount struct {
	Date   string         `json:"date"`
	Counts map[string]int `json:"counts"`
}

// Analyzer runs cross-issue aggregations over reconstructed timelines.
// All analyses are read-only; issues with empty or missing history simply
// contribute no events.
type Analyzer struct {
	issues []issue.Issue
}

// NewAnalyzer builds an analyzer over an issue set.
func NewAnalyzer(issues []issue.Issue) *Analyzer {
	return &Analyzer{issues: issues}
}

// GenerateTimeseries flattens every issue's timeline into a single
// date-sorted, issue-tagged event stream.
func (a *Analyzer) GenerateTimeseries() []TaggedEvent {
	var events []TaggedEvent
	for _, iss := range a.issues {
		for _, e := range timeline.Build(iss.RawIssue) {
			events = append(events, TaggedEvent{
				IssueID:    iss.ID,
				Identifier: iss.Identifier,
				Event:      e,
			})
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Event.Date.Before(events[j].Event.Date)
	})
	return events
}

// StatusFlow counts every consecutive transition edge across all issues,
// sorted descending by frequency (edge name breaks ties for determinism).
func (a *Analyzer) StatusFlow() []FlowTransition {
	counts := make(map[string]int)
	for _, iss := range a.issues {
		events := timeline.Build(iss.RawIssue)
		for i := 0; i+1 < len(events); i++ {
			key := fmt.Sprintf("%s → %s", events[i].ToState, events[i+1].ToState)
			counts[key]++
		}
	}

	result := make([]FlowTransition, 0, len(counts))
	for k, c := range counts {
		result = append(result, FlowTransition{Transition: k, Count: c})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Transition < result[j].Transition
	})
	return result
}

// AverageTimeInStatus accumulates elapsed days between consecutive events
// under the origin state's name and averages per state. States never
// departed contribute no samples.
func (a *Analyzer) AverageTimeInStatus() map[string]float64 {
	totals := make(map[string]float64)
	samples := make(map[string]int)

	for _, iss := range a.issues {
		events := timeline.Build(iss.RawIssue)
		for i := 0; i+1 < len(events); i++ {
			days := events[i+1].Date.Sub(events[i].Date).Hours() / 24.0
			totals[events[i].ToState] += days
			samples[events[i].ToState]++
		}
	}

	averages := make(map[string]float64, len(totals))
	for state, total := range totals {
		averages[state] = Round2(total / float64(samples[state]))
	}
	return averages
}

// DailyStatusCounts groups the flattened event stream by calendar date and
// counts occurrences per target state within each date, in date order.
func (a *Analyzer) DailyStatusCounts() []DailyCount {
	byDate := make(map[string]map[string]int)
	for _, te := range a.GenerateTimeseries() {
		date := te.Event.Date.Format("2006-01-02")
		if byDate[date] == nil {
			byDate[date] = make(map[string]int)
		}
		byDate[date][te.Event.ToState]++
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	result := make([]DailyCount, 0, len(dates))
	for _, d := range dates {
		result = append(result, DailyCount{Date: d, Counts: byDate[d]})
	}
	return result
}
