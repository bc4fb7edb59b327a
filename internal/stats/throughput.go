package stats

import (
	"fmt"
	"sort"
	"time"

	"linearflow/internal/issue"
)

// ThroughputBucket is the completed-issue count for one period.
type ThroughputBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ThroughputResult is the delivery volume summary.
type ThroughputResult struct {
	Completed int                `json:"completed"`
	Buckets   []ThroughputBucket `json:"buckets,omitempty"`
}

// Throughput counts completed issues, bucketed by completion period.
// Bucket is "day", "week", or "month"; anything else defaults to day.
// Buckets are emitted in chronological order and only for periods that
// saw at least one completion.
func Throughput(issues []issue.Issue, bucket string) ThroughputResult {
	counts := make(map[time.Time]int)
	completed := 0

	for _, iss := range issues {
		t, ok := iss.CompletedTime()
		if !ok {
			continue
		}
		completed++
		counts[SnapToStart(t, bucket)]++
	}

	starts := make([]time.Time, 0, len(counts))
	for s := range counts {
		starts = append(starts, s)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	result := ThroughputResult{Completed: completed}
	for _, s := range starts {
		result.Buckets = append(result.Buckets, ThroughputBucket{
			Label: BucketLabel(s, bucket),
			Count: counts[s],
		})
	}
	return result
}

// SnapToStart normalizes a timestamp to the beginning of its bucket.
func SnapToStart(t time.Time, bucket string) time.Time {
	switch bucket {
	case "month":
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	case "week":
		// Snap to Monday
		weekday := int(t.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday -> 7
		}
		return time.Date(t.Year(), t.Month(), t.Day()-(weekday-1), 0, 0, 0, 0, t.Location())
	default: // day
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
}

// BucketLabel renders a human-readable period label ("2024-01-02",
// "2024-W01", "Jan 2024").
func BucketLabel(t time.Time, bucket string) string {
	switch bucket {
	case "month":
		return t.Format("Jan 2006")
	case "week":
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	default: // day
		return t.Format("2006-01-02")
	}
}
