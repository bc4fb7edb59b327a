package stats

import "linearflow/internal/issue"

// DurationStats aggregates a per-issue day metric over the subset of issues
// where it is defined.
type DurationStats struct {
	Count      int     `json:"count"`
	MeanDays   float64 `json:"mean_days"`
	MedianDays float64 `json:"median_days"`
}

// CycleTime aggregates cycle time (started -> completed) across issues.
// Issues without both endpoints are skipped, not counted as zero.
func CycleTime(issues []issue.Issue) DurationStats {
	return aggregate(issues, issue.Issue.CycleTimeDays)
}

// LeadTime aggregates lead time (created -> completed) across issues.
func LeadTime(issues []issue.Issue) DurationStats {
	return aggregate(issues, issue.Issue.LeadTimeDays)
}

func aggregate(issues []issue.Issue, metric func(issue.Issue) *float64) DurationStats {
	var values []float64
	for _, iss := range issues {
		if v := metric(iss); v != nil {
			values = append(values, *v)
		}
	}
	return DurationStats{
		Count:      len(values),
		MeanDays:   Round2(Mean(values)),
		MedianDays: Round2(Median(values)),
	}
}
