package commands

import (
	"fmt"
	"os"

	"linearflow/internal/cache"
	"linearflow/internal/config"
	"linearflow/internal/issue"
	"linearflow/internal/linear"
	"linearflow/internal/logging"
	"linearflow/internal/report"
	"linearflow/internal/stats"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig

	flagTeam            string
	flagStart           string
	flagEnd             string
	flagPageSize        string
	flagNoCache         bool
	flagIncludeArchived bool
	flagFormat          string
	flagBucket          string
)

var rootCmd = &cobra.Command{
	Use:   "linearflow",
	Short: "Linearflow reports kanban flow metrics from Linear",
	Long: `A batch reporting CLI that fetches issues from the Linear GraphQL API,
caches responses locally, and computes flow metrics (cycle time, lead time,
throughput, flow efficiency) per run and per team.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
		if cfg.Debug {
			logging.EnableDebug()
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("linearflow starting")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		issues, err := fetchIssues(cmd)
		if err != nil {
			return err
		}

		domain := issue.FromAll(issues)
		summary := report.Summary{
			Overall:    stats.Overall(domain),
			Teams:      stats.ByTeam(domain),
			Throughput: stats.Throughput(domain, flagBucket),
		}
		return report.Render(os.Stdout, report.ParseFormat(flagFormat), summary)
	},
}

// fetchIssues runs the full fetch pipeline for the current flag set.
// It fails the run when nothing was found, so the CLI can exit non-zero.
func fetchIssues(cmd *cobra.Command) ([]linear.RawIssue, error) {
	opts := linear.NewQueryOptions(
		flagTeam, flagStart, flagEnd,
		linear.NormalizePageSize(flagPageSize),
		flagNoCache, flagIncludeArchived,
	)

	var store linear.CacheStore
	if cfg.CacheDirOverride != "" {
		store = cache.NewWithDir(cfg.CacheDirOverride)
	} else {
		store = cache.New(cfg.CacheRoot, cfg.Environment)
	}

	client := linear.NewClient(linear.NewTransport(cfg.APIToken), store)
	issues, err := client.FetchIssues(cmd.Context(), opts)
	if err != nil {
		return nil, err
	}
	if len(issues) == 0 {
		return nil, fmt.Errorf("no issues found")
	}

	log.Info().Int("issues", len(issues)).Msg("Issues loaded")
	return issues, nil
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&flagTeam, "team", "t", "", "team key or UUID to filter by")
	rootCmd.PersistentFlags().StringVar(&flagStart, "start", "", "start date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&flagEnd, "end", "", "end date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&flagPageSize, "page-size", "", "issues per page (1-250, default 250)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "bypass the response cache")
	rootCmd.PersistentFlags().BoolVar(&flagIncludeArchived, "include-archived", false, "include archived issues")
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "table", "output format (table, csv, json, mermaid)")
	rootCmd.Flags().StringVar(&flagBucket, "bucket", "week", "throughput bucket (day, week, month)")
}
