// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"log/slog"
	"os"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "github-tags",
	Short: "A CLI tool to summarize the latest tags of GitHub repositories.",
	Long: `github-tags is a CLI tool that reports, for a list of GitHub repositories,
the latest version tag, the date of that tag and the number of pull requests
merged since then.

Without a token, GitHub API rate limits mean you can only query a few repositories.
Generate a classic token at https://github.com/settings/tokens with no additional
scope options selected.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}

// newLogger logs to standard error, at debug level when verbose.
func newLogger(cmd *cobra.Command) *clog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return clog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
