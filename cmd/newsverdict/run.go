package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nao1215/newsverdict/internal/aggregate"
	"github.com/nao1215/newsverdict/internal/analyst"
	"github.com/nao1215/newsverdict/internal/cache"
	"github.com/nao1215/newsverdict/internal/config"
	"github.com/nao1215/newsverdict/internal/database"
	"github.com/nao1215/newsverdict/internal/fetch"
	"github.com/nao1215/newsverdict/internal/llm"
	nvlog "github.com/nao1215/newsverdict/internal/log"
	"github.com/nao1215/newsverdict/internal/model"
	"github.com/nao1215/newsverdict/internal/pipeline"
	"github.com/nao1215/newsverdict/internal/report"
)

// dotEnvFile is loaded into the environment before configuration is read.
const dotEnvFile = ".env"

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch, analyze and validate news articles",
		Long: `Run fetches articles, analyzes each one, validates every analysis and writes
the reports.

For every valid article the analyzer model extracts a gist, a sentiment
(Positive, Negative or Neutral), a tone, key entities and why the story
matters. The validator model then judges the analysis as correct, partially
correct or incorrect. A failure on one article never stops the run; it is
recorded in the report instead.

Output files (in --output-dir):
  raw_articles.json      articles as fetched
  analysis_results.json  full structured results
  final_report.md        human-readable report

Examples:
  # Analyze NewsAPI articles with Gemini (needs NEWSAPI_API_KEY and GEMINI_API_KEY)
  newsverdict run

  # Try the whole pipeline offline with canned model answers
  newsverdict run --backend mock

  # Analyze RSS feeds with a local Ollama model
  newsverdict run --source rss --feed https://example.com/rss --backend ollama

  # Print the report as Markdown
  newsverdict run --format markdown`,
		Args: cobra.NoArgs,
		RunE: runRunCmd,
	}

	// Fetch flags
	cmd.Flags().StringP("source", "s", config.DefaultSource, "Article source: newsapi or rss")
	cmd.Flags().StringP("query", "q", config.DefaultQuery, "NewsAPI search query")
	cmd.Flags().IntP("max-articles", "n", config.DefaultMaxArticles, "Maximum number of articles to fetch")
	cmd.Flags().StringArray("feed", nil, "RSS feed URL (repeatable)")

	// Model flags
	cmd.Flags().StringP("backend", "b", config.DefaultBackend, "Model backend: gemini, openai, ollama or mock")
	cmd.Flags().String("analyzer-model", "", "Analyzer model (default depends on backend)")
	cmd.Flags().String("validator-model", "", "Validator model (default depends on backend)")
	cmd.Flags().Duration("min-interval", 0, "Minimum time between model calls (default 13s for gemini, 0 otherwise)")

	// Output flags
	cmd.Flags().StringP("output-dir", "o", config.DefaultOutputDir, "Directory for report files")
	cmd.Flags().StringP("format", "f", config.DefaultFormat, "Summary printed to stdout: text, json or markdown")
	cmd.Flags().Bool("no-db", false, "Do not save the run to the history database")

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .newsverdict in current or home directory)")

	return cmd
}

// runRunCmd executes the run command.
func runRunCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildRunConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := nvlog.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := newRunDeps(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close(logger)

	return executeRun(ctx, cfg, deps, cmd.OutOrStdout(), logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildRunConfig layers defaults, the config file, the environment and the
// flags that were set explicitly, in that order.
func buildRunConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	if err := config.LoadDotEnv(dotEnvFile); err != nil {
		return nil, err
	}

	configFlag, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath = configFlag

	if path := config.FindConfigFile(configFlag); path != "" {
		file, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		file.Apply(cfg)
	} else if configFlag != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, configFlag)
	}

	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}

	if err := applyRunFlags(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyRunFlags copies the flags the user set onto cfg.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	var err error
	if flags.Changed("source") {
		if cfg.Source, err = flags.GetString("source"); err != nil {
			return err
		}
	}
	if flags.Changed("query") {
		if cfg.Query, err = flags.GetString("query"); err != nil {
			return err
		}
	}
	if flags.Changed("max-articles") {
		if cfg.MaxArticles, err = flags.GetInt("max-articles"); err != nil {
			return err
		}
	}
	if flags.Changed("feed") {
		if cfg.Feeds, err = flags.GetStringArray("feed"); err != nil {
			return err
		}
	}
	if flags.Changed("backend") {
		if cfg.Backend, err = flags.GetString("backend"); err != nil {
			return err
		}
	}
	if flags.Changed("analyzer-model") {
		if cfg.Analyzer.Model, err = flags.GetString("analyzer-model"); err != nil {
			return err
		}
	}
	if flags.Changed("validator-model") {
		if cfg.Validator.Model, err = flags.GetString("validator-model"); err != nil {
			return err
		}
	}
	if flags.Changed("min-interval") {
		if cfg.MinInterval, err = flags.GetDuration("min-interval"); err != nil {
			return err
		}
	}
	if flags.Changed("output-dir") {
		if cfg.OutputDir, err = flags.GetString("output-dir"); err != nil {
			return err
		}
	}
	if flags.Changed("format") {
		if cfg.Format, err = flags.GetString("format"); err != nil {
			return err
		}
	}
	noDB, err := flags.GetBool("no-db")
	if err != nil {
		return err
	}
	if noDB {
		cfg.SaveToDB = false
	}
	return nil
}

// runDeps are the collaborators of one run.
type runDeps struct {
	source    fetch.Source
	generator llm.Generator
	cache     cache.Cache
}

// Close releases the generator and the cache.
func (d *runDeps) Close(logger *slog.Logger) {
	if d.generator != nil {
		if err := d.generator.Close(); err != nil {
			logger.Warn("failed to close model backend", "error", err)
		}
	}
	if d.cache != nil {
		if err := d.cache.Close(); err != nil {
			logger.Warn("failed to close cache", "error", err)
		}
	}
}

// newRunDeps builds the source and the generator stack described by cfg.
// Cache hits bypass the rate limiter.
func newRunDeps(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*runDeps, error) {
	source, err := newSource(cfg, logger)
	if err != nil {
		return nil, err
	}

	gen, err := llm.New(ctx, llm.Options{
		Backend:       cfg.Backend,
		GeminiAPIKey:  cfg.GeminiAPIKey,
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		OllamaHost:    cfg.OllamaHost,
		Timeout:       cfg.LLMTimeout,
		Logger:        logger,
	})
	if err != nil {
		return nil, err
	}
	gen = llm.NewRateLimited(gen, cfg.EffectiveMinInterval())

	deps := &runDeps{source: source, generator: gen}
	if !cfg.CacheEnabled {
		return deps, nil
	}

	if cfg.RedisAddr != "" {
		r, err := cache.NewRedis(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warn("redis unavailable, using in-memory cache", "addr", cfg.RedisAddr, "error", err)
			deps.cache = cache.NewMemory()
		} else {
			deps.cache = r
		}
	} else {
		deps.cache = cache.NewMemory()
	}
	deps.generator = llm.NewCached(gen, deps.cache, cfg.CacheTTL, logger)
	return deps, nil
}

// newSource creates the article source selected by cfg.
func newSource(cfg *config.Config, logger *slog.Logger) (fetch.Source, error) {
	client := &http.Client{Timeout: cfg.RequestTimeout}

	if cfg.Source == config.SourceRSS {
		rss, err := fetch.NewRSS(cfg.Feeds,
			fetch.WithRSSHTTPClient(client),
			fetch.WithMaxArticles(cfg.MaxArticles),
			fetch.WithRSSLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		return rss, nil
	}

	newsAPI, err := fetch.NewNewsAPI(cfg.NewsAPIKey, cfg.Query,
		fetch.WithEndpoint(cfg.NewsAPIURL),
		fetch.WithHTTPClient(client),
		fetch.WithPageSize(cfg.MaxArticles),
		fetch.WithMinContentLength(cfg.MinContentLength),
		fetch.WithNewsAPILogger(logger),
	)
	if err != nil {
		return nil, err
	}
	return newsAPI, nil
}

// executeRun fetches, processes, reports and records one run. An interrupted
// run still writes a report of the articles finished so far.
func executeRun(ctx context.Context, cfg *config.Config, deps *runDeps, out io.Writer, logger *slog.Logger) error {
	runID := uuid.NewString()
	logger.Info("starting run",
		"run_id", runID,
		"source", deps.source.Name(),
		"backend", deps.generator.Name(),
	)

	fetchedAt := time.Now()
	raws, err := deps.source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch articles: %w", err)
	}
	if len(raws) > cfg.MaxArticles {
		raws = raws[:cfg.MaxArticles]
	}

	rawPath, err := report.SaveRawArticles(cfg.OutputDir, deps.source.Name(), fetchedAt, raws)
	if err != nil {
		return err
	}
	logger.Debug("saved raw articles", "path", rawPath, "count", len(raws))

	analyzerStage := cfg.AnalyzerStage()
	validatorStage := cfg.ValidatorStage()
	analyzer := analyst.NewAnalyzer(deps.generator, stageOf(analyzerStage), analyst.WithLogger(logger))
	validator := analyst.NewValidator(deps.generator, stageOf(validatorStage), analyst.WithLogger(logger))

	runner := pipeline.NewRunner(
		pipeline.NewNewsPipeline(analyzer, validator, pipeline.WithLogger(logger)),
		pipeline.WithRunnerLogger(logger),
	)
	runs, skipped, runErr := runner.Run(ctx, raws, func(run *model.ArticleRun, index, total int) {
		logger.Info("article processed",
			"index", index,
			"total", total,
			"article_id", run.Record.ID,
			"status", run.Status,
		)
	})
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	summary, details := aggregate.Aggregate(aggregate.FromRuns(runs))
	rep := &model.Report{
		RunID:       runID,
		GeneratedAt: time.Now(),
		Query:       queryOf(cfg),
		Source:      deps.source.Name(),
		Backend:     deps.generator.Name(),
		Fetched:     len(raws),
		Skipped:     skipped,
		Summary:     summary,
		Details:     details,
	}

	files, err := report.SaveFiles(cfg.OutputDir, rep, getVersion())
	if err != nil {
		return err
	}

	if cfg.SaveToDB {
		if err := saveRun(cfg.DBDir, rep); err != nil {
			// The report files are already on disk.
			logger.Warn("failed to save run history", "error", err)
		}
	}

	if err := writeSummary(out, cfg.Format, rep, cfg.Verbose); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nReports written:\n  - %s\n  - %s\n  - %s\n", rawPath, files.Analysis, files.Markdown)

	return runErr
}

func saveRun(dbDir string, rep *model.Report) error {
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return err
	}
	defer db.Close()

	// Use a fresh context so that an interrupted run is still recorded.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return db.SaveRun(ctx, rep)
}

// writeSummary prints rep to out in the requested format.
func writeSummary(out io.Writer, format string, rep *model.Report, verbose bool) error {
	var w report.Writer
	switch format {
	case config.FormatJSON:
		w = report.NewJSONWriter(out, report.WithPrettyPrint())
	case config.FormatMarkdown:
		w = report.NewMarkdownWriter(out)
	default:
		w = report.NewSimpleWriter(out, report.WithVerbose(verbose))
	}
	_, err := w.Write(rep)
	return err
}

func stageOf(s config.StageConfig) analyst.Stage {
	return analyst.Stage{
		Model:       s.Model,
		Temperature: s.Temperature,
		MaxTokens:   s.MaxTokens,
	}
}

// queryOf returns the query recorded in the report.
func queryOf(cfg *config.Config) string {
	if cfg.Source == config.SourceRSS {
		return ""
	}
	return cfg.Query
}
