// Package report renders metric summaries for the terminal. It is a thin
// presentation layer over the stats package.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/rs/zerolog/log"

	"linearflow/internal/stats"
	"linearflow/internal/visuals"
)

// Format selects the output rendering.
type Format string

const (
	FormatTable   Format = "table"
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatMermaid Format = "mermaid"
)

// ParseFormat validates a format string, falling back to table with a
// warning on unknown input.
func ParseFormat(s string) Format {
	switch Format(s) {
	case FormatTable, FormatCSV, FormatJSON, FormatMermaid, "":
		if s == "" {
			return FormatTable
		}
		return Format(s)
	default:
		log.Warn().Str("format", s).Msg("Unknown output format, using table")
		return FormatTable
	}
}

// Summary bundles everything the metrics report shows.
type Summary struct {
	Overall    stats.OverallMetrics   `json:"overall"`
	Teams      []stats.TeamMetrics    `json:"teams"`
	Throughput stats.ThroughputResult `json:"throughput"`
}

// Render writes the metrics summary in the requested format.
func Render(w io.Writer, f Format, s Summary) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case FormatCSV:
		return renderCSV(w, s)
	case FormatMermaid:
		if chart := visuals.GenerateThroughputChart(s.Throughput); chart != "" {
			fmt.Fprintln(w, chart)
		}
		return renderTable(w, s)
	default:
		return renderTable(w, s)
	}
}

func renderTable(w io.Writer, s Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METRIC\tVALUE")
	fmt.Fprintf(tw, "Issues\t%d\n", s.Overall.TotalIssues)
	fmt.Fprintf(tw, "Completed\t%d\n", s.Overall.Completed)
	fmt.Fprintf(tw, "In progress\t%d\n", s.Overall.InProgress)
	fmt.Fprintf(tw, "Backlog\t%d\n", s.Overall.Backlog)
	fmt.Fprintf(tw, "Cycle time (mean/median days)\t%.2f / %.2f\n", s.Overall.CycleTime.MeanDays, s.Overall.CycleTime.MedianDays)
	fmt.Fprintf(tw, "Lead time (mean/median days)\t%.2f / %.2f\n", s.Overall.LeadTime.MeanDays, s.Overall.LeadTime.MedianDays)
	fmt.Fprintf(tw, "Flow efficiency\t%.2f%%\n", s.Overall.FlowEfficiency)

	if len(s.Teams) > 0 {
		fmt.Fprintln(tw, "\nTEAM\tISSUES\tDONE\tCYCLE p50\tLEAD p50\tFLOW EFF")
		for _, t := range s.Teams {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f\t%.2f\t%.2f%%\n",
				t.TeamKey, t.Metrics.TotalIssues, t.Metrics.Completed,
				t.Metrics.CycleTime.MedianDays, t.Metrics.LeadTime.MedianDays, t.Metrics.FlowEfficiency)
		}
	}

	if len(s.Throughput.Buckets) > 0 {
		fmt.Fprintln(tw, "\nPERIOD\tCOMPLETED")
		for _, b := range s.Throughput.Buckets {
			fmt.Fprintf(tw, "%s\t%d\n", b.Label, b.Count)
		}
	}
	return tw.Flush()
}

func renderCSV(w io.Writer, s Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"team", "issues", "completed", "in_progress", "backlog", "cycle_median_days", "lead_median_days", "flow_efficiency"}); err != nil {
		return err
	}
	rows := append([]stats.TeamMetrics{{TeamKey: "all", Metrics: s.Overall}}, s.Teams...)
	for _, t := range rows {
		record := []string{
			t.TeamKey,
			strconv.Itoa(t.Metrics.TotalIssues),
			strconv.Itoa(t.Metrics.Completed),
			strconv.Itoa(t.Metrics.InProgress),
			strconv.Itoa(t.Metrics.Backlog),
			strconv.FormatFloat(t.Metrics.CycleTime.MedianDays, 'f', 2, 64),
			strconv.FormatFloat(t.Metrics.LeadTime.MedianDays, 'f', 2, 64),
			strconv.FormatFloat(t.Metrics.FlowEfficiency, 'f', 2, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// TimeseriesReport bundles the timeseries analyzer outputs.
type TimeseriesReport struct {
	StatusFlow          []stats.FlowTransition `json:"status_flow"`
	AverageTimeInStatus map[string]float64     `json:"average_time_in_status"`
	DailyStatusCounts   []stats.DailyCount     `json:"daily_status_counts"`
}

// RenderTimeseries writes the timeseries analyses in the requested format.
func RenderTimeseries(w io.Writer, f Format, r TimeseriesReport) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"transition", "count"}); err != nil {
			return err
		}
		for _, ft := range r.StatusFlow {
			if err := cw.Write([]string{ft.Transition, strconv.Itoa(ft.Count)}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	case FormatMermaid:
		if chart := visuals.GenerateStatusFlowChart(r.StatusFlow); chart != "" {
			fmt.Fprintln(w, chart)
		}
		return renderTimeseriesTable(w, r)
	default:
		return renderTimeseriesTable(w, r)
	}
}

func renderTimeseriesTable(w io.Writer, r TimeseriesReport) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TRANSITION\tCOUNT")
	for _, ft := range r.StatusFlow {
		fmt.Fprintf(tw, "%s\t%d\n", ft.Transition, ft.Count)
	}

	if len(r.AverageTimeInStatus) > 0 {
		fmt.Fprintln(tw, "\nSTATUS\tAVG DAYS")
		states := make([]string, 0, len(r.AverageTimeInStatus))
		for s := range r.AverageTimeInStatus {
			states = append(states, s)
		}
		sort.Strings(states)
		for _, s := range states {
			fmt.Fprintf(tw, "%s\t%.2f\n", s, r.AverageTimeInStatus[s])
		}
	}

	if len(r.DailyStatusCounts) > 0 {
		fmt.Fprintln(tw, "\nDATE\tSTATE\tCOUNT")
		for _, d := range r.DailyStatusCounts {
			states := make([]string, 0, len(d.Counts))
			for s := range d.Counts {
				states = append(states, s)
			}
			sort.Strings(states)
			for _, s := range states {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", d.Date, s, d.Counts[s])
			}
		}
	}
	return tw.Flush()
}
