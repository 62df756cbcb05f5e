package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/newsverdict/internal/model"
)

// FileName is the database file created inside the database directory.
const FileName = "newsverdict.db"

// timeLayout is fixed-width so that stored timestamps sort as text.
const timeLayout = "2006-01-02 15:04:05.000000000"

var (
	// ErrNotFound is returned when a requested run does not exist.
	ErrNotFound = errors.New("run not found")

	// ErrDatabaseNotFound is returned by Open when the file is missing and
	// CreateIfNotExists is false.
	ErrDatabaseNotFound = errors.New("database not found")

	// ErrInvalidRun is returned by SaveRun for a report without a run ID.
	ErrInvalidRun = errors.New("run has no id")
)

// RunDB stores reports of past runs.
type RunDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures RunDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the run database inside dbDir.
func Open(dbDir string, opts Options) (*RunDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a new file.
	dsn := dbPath + "?mode=rwc"
	if !opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RunDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Path returns the database file path.
func (r *RunDB) Path() string {
	return r.dbPath
}

// Close closes the database connection.
func (r *RunDB) Close() error {
	return r.db.Close()
}

func (r *RunDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		generated_at TEXT NOT NULL,
		query TEXT,
		source TEXT,
		backend TEXT,
		articles INTEGER NOT NULL DEFAULT 0,
		summary_json TEXT NOT NULL,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_generated_at ON runs(generated_at);

	CREATE TABLE IF NOT EXISTS article_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		article_id TEXT NOT NULL,
		title TEXT,
		url TEXT,
		source TEXT,
		sentiment TEXT NOT NULL,
		verdict TEXT NOT NULL,
		confidence REAL,
		status TEXT NOT NULL,
		generated_at TEXT NOT NULL,
		UNIQUE(run_id, article_id)
	);

	CREATE INDEX IF NOT EXISTS idx_results_article ON article_results(article_id);
	`

	_, err := r.db.ExecContext(context.Background(), schema)
	return err
}

// RunSummary is a stored run without its details.
type RunSummary struct {
	ID          string              `json:"id"`
	GeneratedAt time.Time           `json:"generated_at"`
	Query       string              `json:"query"`
	Source      string              `json:"source"`
	Backend     string              `json:"backend"`
	Articles    int                 `json:"articles"`
	Summary     model.ReportSummary `json:"summary"`
}

// ArticleResult is one article's outcome in one run.
type ArticleResult struct {
	RunID       string          `json:"run_id"`
	ArticleID   string          `json:"article_id"`
	Title       string          `json:"title"`
	URL         string          `json:"url"`
	Source      string          `json:"source"`
	Sentiment   model.Sentiment `json:"sentiment"`
	Verdict     model.Verdict   `json:"verdict"`
	Confidence  *float64        `json:"confidence,omitempty"`
	Status      model.Status    `json:"status"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// SaveRun stores report. Saving a run ID again replaces the earlier copy.
func (r *RunDB) SaveRun(ctx context.Context, report *model.Report) error {
	if report == nil || report.RunID == "" {
		return ErrInvalidRun
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}
	summaryJSON, err := json.Marshal(report.Summary)
	if err != nil {
		return fmt.Errorf("failed to serialize summary: %w", err)
	}
	generatedAt := report.GeneratedAt.UTC().Format(timeLayout)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM article_results WHERE run_id = ?`, report.RunID); err != nil {
		return fmt.Errorf("failed to clear article results: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, report.RunID); err != nil {
		return fmt.Errorf("failed to clear run: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
	INSERT INTO runs (id, generated_at, query, source, backend, articles, summary_json, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		report.RunID,
		generatedAt,
		report.Query,
		report.Source,
		report.Backend,
		len(report.Details),
		string(summaryJSON),
		string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT OR REPLACE INTO article_results
		(run_id, article_id, title, url, source, sentiment, verdict, confidence, status, generated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare article insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range report.Details {
		var confidence sql.NullFloat64
		if d.Confidence != nil {
			confidence = sql.NullFloat64{Float64: *d.Confidence, Valid: true}
		}
		_, err := stmt.ExecContext(ctx,
			report.RunID,
			d.ArticleID,
			d.Title,
			d.URL,
			d.Source,
			d.Sentiment.String(),
			d.Verdict.String(),
			confidence,
			string(d.Status),
			generatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save article %s: %w", d.ArticleID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (r *RunDB) GetRun(ctx context.Context, id string) (*model.Report, error) {
	return r.queryReport(ctx, `SELECT report_json FROM runs WHERE id = ?`, id)
}

// GetLatestRun retrieves the most recent run.
func (r *RunDB) GetLatestRun(ctx context.Context) (*model.Report, error) {
	return r.queryReport(ctx, `SELECT report_json FROM runs ORDER BY generated_at DESC, seq DESC LIMIT 1`)
}

func (r *RunDB) queryReport(ctx context.Context, query string, args ...any) (*model.Report, error) {
	var reportJSON string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var report model.Report
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &report, nil
}

// ListRuns returns the most recent runs first. A non-positive limit returns
// every run.
func (r *RunDB) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.QueryContext(ctx, `
	SELECT id, generated_at, query, source, backend, articles, summary_json
	FROM runs
	ORDER BY generated_at DESC, seq DESC
	LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]RunSummary, 0)
	for rows.Next() {
		var (
			s           RunSummary
			generatedAt string
			query       sql.NullString
			source      sql.NullString
			backend     sql.NullString
			summaryJSON string
		)
		if err := rows.Scan(&s.ID, &generatedAt, &query, &source, &backend, &s.Articles, &summaryJSON); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		s.GeneratedAt = parseTimestamp(generatedAt)
		s.Query = query.String
		s.Source = source.String
		s.Backend = backend.String
		if err := json.Unmarshal([]byte(summaryJSON), &s.Summary); err != nil {
			return nil, fmt.Errorf("failed to parse summary of run %s: %w", s.ID, err)
		}
		runs = append(runs, s)
	}

	return runs, rows.Err()
}

// GetArticleHistory returns the outcomes of one article across runs, most
// recent first.
func (r *RunDB) GetArticleHistory(ctx context.Context, articleID string) ([]ArticleResult, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT a.run_id, a.article_id, a.title, a.url, a.source, a.sentiment, a.verdict, a.confidence, a.status, a.generated_at
	FROM article_results a
	JOIN runs r ON r.id = a.run_id
	WHERE a.article_id = ?
	ORDER BY a.generated_at DESC, r.seq DESC
	`, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get article history: %w", err)
	}
	defer rows.Close()

	results := make([]ArticleResult, 0)
	for rows.Next() {
		var (
			res         ArticleResult
			title       sql.NullString
			url         sql.NullString
			source      sql.NullString
			sentiment   string
			verdict     string
			confidence  sql.NullFloat64
			status      string
			generatedAt string
		)
		if err := rows.Scan(&res.RunID, &res.ArticleID, &title, &url, &source, &sentiment, &verdict, &confidence, &status, &generatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan article result: %w", err)
		}
		res.Title = title.String
		res.URL = url.String
		res.Source = source.String
		res.Sentiment, _ = model.ParseSentiment(sentiment)
		res.Verdict, _ = model.ParseVerdict(verdict)
		if confidence.Valid {
			c := confidence.Float64
			res.Confidence = &c
		}
		res.Status = model.Status(status)
		res.GeneratedAt = parseTimestamp(generatedAt)
		results = append(results, res)
	}

	return results, rows.Err()
}

// timestampFormats contains the timestamp formats that may be stored.
var timestampFormats = []string{
	timeLayout,
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

// parseTimestamp parses a stored UTC timestamp. Unknown formats yield the
// zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
