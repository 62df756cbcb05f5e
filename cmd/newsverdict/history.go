package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/newsverdict/internal/config"
	"github.com/nao1215/newsverdict/internal/database"
	"github.com/nao1215/newsverdict/internal/model"
	"github.com/nao1215/newsverdict/internal/report"
	"github.com/nao1215/newsverdict/internal/server"
)

// latestRun selects the most recent run wherever a run ID is accepted.
const latestRun = "latest"

// errNoHistory is returned when the history database has not been created yet.
var errNoHistory = errors.New("no run history found: use 'newsverdict run' first")

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id|latest]",
		Short: "Show, list and compare past runs",
		Long: `History reads the runs recorded by 'newsverdict run'.

Without flags it prints the report of the given run, or of the latest run
when no ID is given.

Examples:
  # Show the latest run
  newsverdict history

  # List recent runs
  newsverdict history --list

  # Compare the latest run with an earlier one
  newsverdict history --compare 1b4e28ba-2fa1-11d2-883f-0016d3cca427

  # Show how one article was judged across runs
  newsverdict history --article 3f2a9c0d1e4b5a67

  # Print a run as Markdown
  newsverdict history --markdown 1b4e28ba-2fa1-11d2-883f-0016d3cca427`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list", "l", false, "List recorded runs")
	cmd.Flags().Int("limit", server.DefaultListLimit, "Maximum number of runs to list (0 lists all)")
	cmd.Flags().String("compare", "", "Compare the selected run with this earlier run ID")
	cmd.Flags().String("article", "", "Show the results of one article across runs")

	cmd.Flags().BoolP("json", "j", false, "Output in JSON format")
	cmd.Flags().BoolP("markdown", "m", false, "Output in Markdown format")
	cmd.Flags().Bool("raw", false, "Include raw model answers in Markdown output")

	cmd.Flags().String("db-dir", config.XDGDataDir(), "Directory holding the history database")

	return cmd
}

// historyOptions are the parsed flags of the history command.
type historyOptions struct {
	list     bool
	limit    int
	compare  string
	article  string
	json     bool
	markdown bool
	raw      bool
	dbDir    string
}

func parseHistoryOptions(cmd *cobra.Command) (historyOptions, error) {
	var (
		opts historyOptions
		err  error
	)
	flags := cmd.Flags()
	if opts.list, err = flags.GetBool("list"); err != nil {
		return opts, err
	}
	if opts.limit, err = flags.GetInt("limit"); err != nil {
		return opts, err
	}
	if opts.compare, err = flags.GetString("compare"); err != nil {
		return opts, err
	}
	if opts.article, err = flags.GetString("article"); err != nil {
		return opts, err
	}
	if opts.json, err = flags.GetBool("json"); err != nil {
		return opts, err
	}
	if opts.markdown, err = flags.GetBool("markdown"); err != nil {
		return opts, err
	}
	if opts.raw, err = flags.GetBool("raw"); err != nil {
		return opts, err
	}
	if opts.dbDir, err = flags.GetString("db-dir"); err != nil {
		return opts, err
	}
	if opts.json && opts.markdown {
		return opts, errors.New("--json and --markdown cannot be used together")
	}
	return opts, nil
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	opts, err := parseHistoryOptions(cmd)
	if err != nil {
		return err
	}

	db, err := database.Open(opts.dbDir, database.Options{EnableWAL: true})
	if err != nil {
		if errors.Is(err, database.ErrDatabaseNotFound) {
			return errNoHistory
		}
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	switch {
	case opts.list:
		return listRuns(ctx, out, db, opts)
	case opts.article != "":
		return showArticleHistory(ctx, out, db, opts)
	}

	runID := latestRun
	if len(args) == 1 {
		runID = args[0]
	}
	current, err := loadRun(ctx, db, runID)
	if err != nil {
		return err
	}

	if opts.compare != "" {
		previous, err := loadRun(ctx, db, opts.compare)
		if err != nil {
			return err
		}
		comparison := compareRuns(previous, current)
		switch {
		case opts.json:
			return outputComparisonJSON(out, comparison)
		case opts.markdown:
			return outputComparisonMarkdown(out, comparison)
		default:
			return outputComparisonText(out, comparison)
		}
	}

	var w report.Writer
	switch {
	case opts.json:
		w = report.NewFullJSONWriter(out, getVersion(), report.WithPrettyPrint())
	case opts.markdown:
		w = report.NewMarkdownWriter(out, report.WithRawResponses(opts.raw))
	default:
		w = report.NewSimpleWriter(out, report.WithVerbose(getVerboseFlag(cmd)))
	}
	_, err = w.Write(current)
	return err
}

// loadRun fetches a run by ID, or the most recent one for "latest".
func loadRun(ctx context.Context, db *database.RunDB, id string) (*model.Report, error) {
	var (
		rep *model.Report
		err error
	)
	if id == latestRun {
		rep, err = db.GetLatestRun(ctx)
	} else {
		rep, err = db.GetRun(ctx, id)
	}
	if errors.Is(err, database.ErrNotFound) {
		if id == latestRun {
			return nil, errNoHistory
		}
		return nil, fmt.Errorf("run %s: %w", id, err)
	}
	return rep, err
}

// listRuns prints the recorded runs, most recent first.
func listRuns(ctx context.Context, out io.Writer, db *database.RunDB, opts historyOptions) error {
	runs, err := db.ListRuns(ctx, opts.limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if opts.json {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs found in the database.")
		fmt.Fprintln(out, "\nUse 'newsverdict run' to analyze news articles.")
		return nil
	}

	fmt.Fprintf(out, "Recorded runs (%d):\n\n", len(runs))
	fmt.Fprintf(out, "  %-36s  %-19s  %-8s  %s\n", "ID", "Date", "Articles", "Summary")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 90))
	for _, r := range runs {
		fmt.Fprintf(out, "  %-36s  %-19s  %-8d  %s\n",
			r.ID,
			r.GeneratedAt.Local().Format("2006-01-02 15:04:05"),
			r.Articles,
			formatRunSummary(r.Summary),
		)
	}
	fmt.Fprintln(out, "\nUse 'newsverdict history <id>' to show a run.")
	fmt.Fprintln(out, "Use 'newsverdict history --compare <id>' to compare it with the latest run.")

	return nil
}

// formatRunSummary condenses a summary to sentiment and verdict counts.
func formatRunSummary(s model.ReportSummary) string {
	return fmt.Sprintf("P:%d N:%d Neu:%d ?:%d | %s%d %s%d %s%d",
		s.Positive, s.Negative, s.Neutral, s.Unknown,
		model.VerdictCorrect.Symbol(), s.Correct,
		model.VerdictPartiallyCorrect.Symbol(), s.PartiallyCorrect,
		model.VerdictIncorrect.Symbol(), s.Incorrect,
	)
}

// showArticleHistory prints how one article was judged in each run.
func showArticleHistory(ctx context.Context, out io.Writer, db *database.RunDB, opts historyOptions) error {
	results, err := db.GetArticleHistory(ctx, opts.article)
	if err != nil {
		return err
	}

	if opts.json {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintf(out, "No history found for article %s\n", opts.article)
		return nil
	}

	fmt.Fprintf(out, "History of %q (%d runs):\n\n", results[0].Title, len(results))
	fmt.Fprintf(out, "  %-36s  %-19s  %-9s  %-18s  %s\n", "Run", "Date", "Sentiment", "Verdict", "Confidence")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 100))
	for _, r := range results {
		confidence := "-"
		if r.Confidence != nil {
			confidence = fmt.Sprintf("%.2f", *r.Confidence)
		}
		fmt.Fprintf(out, "  %-36s  %-19s  %-9s  %-18s  %s\n",
			r.RunID,
			r.GeneratedAt.Local().Format("2006-01-02 15:04:05"),
			r.Sentiment,
			r.Verdict.Symbol()+" "+report.VerdictTitle(r.Verdict),
			confidence,
		)
	}
	return nil
}
