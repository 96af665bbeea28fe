package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/chainguard-dev/clog"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-tags/internal/config"
	"github.com/naka-gawa/github-tags/internal/domain"
	"github.com/naka-gawa/github-tags/internal/gateway"
	"github.com/naka-gawa/github-tags/internal/input"
	"github.com/naka-gawa/github-tags/internal/report"
	"github.com/naka-gawa/github-tags/internal/usecase"
)

type reportOptions struct {
	input   string
	repos   string
	output  string
	format  string
	token   string
	summary bool
	partial bool
}

var reportOpts reportOptions

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Reports the latest tag and merged PRs since it for each repository",
	Long: `Reports, for each repository, the latest [v]X.Y.Z tag, the date of that tag and the
number of pull requests merged after that date. Repositories are read from --input,
from --repos, or taken from a built-in list of desihub repositories.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := newLogger(cmd)
		if err := runReport(ctx, reportOpts, nil, cmd.OutOrStdout(), logger); err != nil {
			logger.Error("Failed to build report", "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&reportOpts.input, "input", "i", "", "Path to file with repository URLs (one per line)")
	reportCmd.Flags().StringVarP(&reportOpts.repos, "repos", "r", "", "Comma separated list of repository names (under the default organization), owner/name pairs or GitHub URLs")
	reportCmd.Flags().StringVarP(&reportOpts.output, "output", "o", "", "Write output to file (default: stdout)")
	reportCmd.Flags().StringVarP(&reportOpts.format, "format", "f", config.FormatCSV, "Output format: csv, md (Markdown table), table or json")
	reportCmd.Flags().StringVarP(&reportOpts.token, "token", "t", "", "GitHub personal access token (or set GITHUB_TOKEN env var)")
	reportCmd.Flags().BoolVar(&reportOpts.summary, "summary", false, "Log a summary of merged PR counts")
	reportCmd.Flags().BoolVar(&reportOpts.partial, "partial", false, "Write the rows collected so far when a repository fails")
}

// runReport loads the configuration, resolves every repository and writes the
// report. A nil lookuper reads the process environment.
func runReport(ctx context.Context, opts reportOptions, lookuper envconfig.Lookuper, stdout io.Writer, logger *clog.Logger) error {
	cfg, err := config.Load(ctx, lookuper)
	if err != nil {
		return err
	}
	if opts.token != "" {
		cfg.Token = opts.token
	}
	cfg.Output, cfg.Format = opts.output, opts.format
	if err := cfg.Validate(); err != nil {
		return err
	}

	ids, err := input.Identifiers(opts.input, opts.repos)
	if err != nil {
		return err
	}

	if cfg.Authenticated() {
		logger.Info("Using provided GitHub token for authenticated requests.")
	} else {
		logger.Info("No GitHub token supplied - you are limited to 60 requests/hour.")
	}

	fetcher, err := gateway.NewGitHubGateway(gateway.NewHTTPClient(cfg.Token), cfg.APIURL, gateway.DefaultRetryPolicy(), logger)
	if err != nil {
		return fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	resolver := usecase.NewResolver(cfg, fetcher, logger)

	results, runErr := resolver.Resolve(ctx, ids)
	if runErr != nil && !opts.partial {
		return runErr
	}
	if runErr != nil {
		logger.Warn("Writing partial report", "rows", len(results), "requested", len(ids))
	}

	if err := writeReport(cfg, results, stdout); err != nil {
		return err
	}
	if opts.summary {
		if err := logSummary(logger, results); err != nil {
			return err
		}
	}
	return runErr
}

func writeReport(cfg *config.Config, results []domain.RepoResult, stdout io.Writer) error {
	if cfg.Output == "" {
		return report.Write(stdout, cfg.Format, results)
	}
	f, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := report.Write(f, cfg.Format, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func logSummary(logger *clog.Logger, results []domain.RepoResult) error {
	s, err := report.Summarize(results)
	if err != nil {
		return err
	}
	logger.Info("Summary",
		"repositories", s.Repositories,
		"counted", s.Counted,
		"merged_prs_total", s.Total,
		"merged_prs_mean", s.Mean,
		"merged_prs_median", s.Median,
		"merged_prs_max", s.Max)
	return nil
}
