package stats

import (
	"testing"

	"linearflow/internal/issue"
	"linearflow/internal/linear"
)

func teamIssue(teamKey, completedAt string) issue.Issue {
	raw := linear.RawIssue{CompletedAt: completedAt}
	if teamKey != "" {
		raw.Team = &linear.TeamRef{Key: teamKey}
	}
	return issue.From(raw)
}

func TestOverall_Classification(t *testing.T) {
	issues := []issue.Issue{
		issue.From(linear.RawIssue{StartedAt: "2024-01-01T00:00:00Z", CompletedAt: "2024-01-03T00:00:00Z"}),
		issue.From(linear.RawIssue{StartedAt: "2024-01-01T00:00:00Z"}),
		issue.From(linear.RawIssue{CreatedAt: "2024-01-01T00:00:00Z"}),
	}

	got := Overall(issues)
	if got.TotalIssues != 3 || got.Completed != 1 || got.InProgress != 1 || got.Backlog != 1 {
		t.Errorf("unexpected classification: %+v", got)
	}
}

func TestByTeam_PartitionsAndSorts(t *testing.T) {
	issues := []issue.Issue{
		teamIssue("ROI", "2024-01-02T00:00:00Z"),
		teamIssue("ENG", ""),
		teamIssue("ROI", ""),
		teamIssue("", ""),
	}

	got := ByTeam(issues)
	if len(got) != 3 {
		t.Fatalf("expected 3 teams, got %+v", got)
	}
	if got[0].TeamKey != "ENG" || got[1].TeamKey != "ROI" || got[2].TeamKey != "unassigned" {
		t.Errorf("teams not sorted by key: %+v", got)
	}
	if got[1].Metrics.TotalIssues != 2 || got[1].Metrics.Completed != 1 {
		t.Errorf("ROI partition wrong: %+v", got[1].Metrics)
	}
}
