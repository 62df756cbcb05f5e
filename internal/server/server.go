// Package server exposes stored run history over HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/newsverdict/internal/database"
	"github.com/nao1215/newsverdict/internal/model"
	"github.com/nao1215/newsverdict/internal/report"
)

// DefaultListLimit is the number of runs GET /runs returns without ?limit.
const DefaultListLimit = 20

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 5 * time.Second

// Store is the read side of the run database.
type Store interface {
	GetRun(ctx context.Context, id string) (*model.Report, error)
	GetLatestRun(ctx context.Context) (*model.Report, error)
	ListRuns(ctx context.Context, limit int) ([]database.RunSummary, error)
	GetArticleHistory(ctx context.Context, articleID string) ([]database.ArticleResult, error)
}

// Server serves the run history API.
type Server struct {
	store  Store
	engine *gin.Engine
	logger *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger for request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New builds the HTTP API over store.
func New(store Store, opts ...Option) *Server {
	s := &Server{store: store}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger())

	engine.GET("/healthz", s.health)
	engine.GET("/runs", s.listRuns)
	engine.GET("/runs/latest", s.latestRun)
	engine.GET("/runs/:id", s.getRun)
	engine.GET("/runs/:id/markdown", s.getRunMarkdown)
	engine.GET("/articles/:id/history", s.articleHistory)

	s.engine = engine
	return s
}

// Handler returns the http.Handler of the API.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listRuns(c *gin.Context) {
	limit := DefaultListLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	runs, err := s.store.ListRuns(c.Request.Context(), limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) latestRun(c *gin.Context) {
	r, err := s.store.GetLatestRun(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) getRun(c *gin.Context) {
	r, err := s.store.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) getRunMarkdown(c *gin.Context) {
	r, err := s.store.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}

	var buf bytes.Buffer
	if _, err := report.NewMarkdownWriter(&buf).Write(r); err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", buf.Bytes())
}

func (s *Server) articleHistory(c *gin.Context) {
	id := c.Param("id")
	history, err := s.store.GetArticleHistory(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"article_id": id, "history": history})
}

// fail maps err to a JSON error response.
func (s *Server) fail(c *gin.Context, err error) {
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	s.logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
