package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for newsverdict.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "newsverdict",
		Short: "Analyze news articles with one model and verify the analysis with another",
		Long: `newsverdict fetches recent news articles from NewsAPI or RSS feeds, extracts
a gist, sentiment, tone and key entities for each article with a language model,
and has a second model call judge whether that analysis is correct.

Results are written to raw_articles.json, analysis_results.json and
final_report.md, and every run is kept in a local history database.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
