package stats

import (
	"sort"

	"linearflow/internal/issue"
)

// OverallMetrics is the full metrics summary for one issue set.
type OverallMetrics struct {
	TotalIssues    int           `json:"total_issues"`
	Completed      int           `json:"completed"`
	InProgress     int           `json:"in_progress"`
	Backlog        int           `json:"backlog"`
	CycleTime      DurationStats `json:"cycle_time"`
	LeadTime       DurationStats `json:"lead_time"`
	FlowEfficiency float64       `json:"flow_efficiency"`
}

// TeamMetrics is the per-team breakdown.
type TeamMetrics struct {
	TeamKey string         `json:"team_key"`
	Metrics OverallMetrics `json:"metrics"`
}

// Overall computes the metrics summary for an issue set.
func Overall(issues []issue.Issue) OverallMetrics {
	m := OverallMetrics{
		TotalIssues:    len(issues),
		CycleTime:      CycleTime(issues),
		LeadTime:       LeadTime(issues),
		FlowEfficiency: FlowEfficiency(issues),
	}
	for _, iss := range issues {
		switch {
		case iss.Completed():
			m.Completed++
		case iss.InProgress():
			m.InProgress++
		default:
			m.Backlog++
		}
	}
	return m
}

// ByTeam partitions issues by team key and re-runs the overall calculators
// on each subset. Issues without a team are grouped under "unassigned".
// Results are sorted by team key for deterministic output.
func ByTeam(issues []issue.Issue) []TeamMetrics {
	byTeam := make(map[string][]issue.Issue)
	for _, iss := range issues {
		key := iss.TeamKey()
		if key == "" {
			key = "unassigned"
		}
		byTeam[key] = append(byTeam[key], iss)
	}

	keys := make([]string, 0, len(byTeam))
	for k := range byTeam {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	results := make([]TeamMetrics, 0, len(keys))
	for _, k := range keys {
		results = append(results, TeamMetrics{
			TeamKey: k,
			Metrics: Overall(byTeam[k]),
		})
	}
	return results
}
