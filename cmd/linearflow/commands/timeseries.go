package commands

import (
	"os"

	"linearflow/internal/issue"
	"linearflow/internal/report"
	"linearflow/internal/stats"

	"github.com/spf13/cobra"
)

var timeseriesCmd = &cobra.Command{
	Use:   "timeseries",
	Short: "Cross-issue status-flow analyses",
	Long: `Aggregates every issue's reconstructed timeline into status-flow
transition frequencies, average time in status, and daily status counts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		issues, err := fetchIssues(cmd)
		if err != nil {
			return err
		}

		analyzer := stats.NewAnalyzer(issue.FromAll(issues))
		ts := report.TimeseriesReport{
			StatusFlow:          analyzer.StatusFlow(),
			AverageTimeInStatus: analyzer.AverageTimeInStatus(),
			DailyStatusCounts:   analyzer.DailyStatusCounts(),
		}
		return report.RenderTimeseries(os.Stdout, report.ParseFormat(flagFormat), ts)
	},
}

func init() {
	rootCmd.AddCommand(timeseriesCmd)
}
