package stats

import (
	"linearflow/internal/issue"
	"linearflow/internal/timeline"
)

// activeType reports whether a workflow state type counts as active work
// for flow efficiency. The synthetic creation event carries an empty type
// and is therefore never active.
func activeType(stateType string) bool {
	return stateType == "started" || stateType == "unstarted"
}

// IssueFlowEfficiency walks consecutive timeline-event pairs and returns
// the fraction of total elapsed time spent in active states, in [0, 1].
// An issue with fewer than two events has no elapsed time and scores 0.
func IssueFlowEfficiency(events []timeline.Event) float64 {
	var total, active float64
	for i := 0; i+1 < len(events); i++ {
		elapsed := events[i+1].Date.Sub(events[i].Date).Hours()
		if elapsed <= 0 {
			continue
		}
		total += elapsed
		// Time between events i and i+1 is spent in the state the issue
		// entered at event i, so the origin event's target type decides.
		if activeType(events[i].ToType) {
			active += elapsed
		}
	}
	if total == 0 {
		return 0
	}
	return active / total
}

// FlowEfficiency is the mean of per-issue efficiencies expressed as a
// percentage rounded to two decimals. An empty issue set yields 0.0.
func FlowEfficiency(issues []issue.Issue) float64 {
	if len(issues) == 0 {
		return 0.0
	}
	var sum float64
	for _, iss := range issues {
		sum += IssueFlowEfficiency(timeline.Build(iss.RawIssue))
	}
	return Round2(sum / float64(len(issues)) * 100)
}
