package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/newsverdict/internal/database"
	"github.com/nao1215/newsverdict/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeStore serves fixed runs.
type fakeStore struct {
	runs    map[string]*model.Report
	latest  string
	history map[string][]database.ArticleResult
	err     error

	gotLimit int
}

func (f *fakeStore) GetRun(_ context.Context, id string) (*model.Report, error) {
	if f.err != nil {
		return nil, f.err
	}
	r, ok := f.runs[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return r, nil
}

func (f *fakeStore) GetLatestRun(ctx context.Context) (*model.Report, error) {
	if f.latest == "" {
		return nil, database.ErrNotFound
	}
	return f.GetRun(ctx, f.latest)
}

func (f *fakeStore) ListRuns(_ context.Context, limit int) ([]database.RunSummary, error) {
	f.gotLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	out := make([]database.RunSummary, 0, len(f.runs))
	for id, r := range f.runs {
		out = append(out, database.RunSummary{ID: id, Articles: len(r.Details), Summary: r.Summary})
	}
	return out, nil
}

func (f *fakeStore) GetArticleHistory(_ context.Context, articleID string) ([]database.ArticleResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	h := f.history[articleID]
	if h == nil {
		h = []database.ArticleResult{}
	}
	return h, nil
}

func newFakeStore() *fakeStore {
	r := &model.Report{
		RunID:       "run-1",
		GeneratedAt: time.Date(2025, 10, 6, 9, 30, 0, 0, time.UTC),
		Summary:     model.ReportSummary{Neutral: 1, Correct: 1},
		Details: []model.DetailEntry{{
			ArticleID: "a1", Title: "Election dates", Sentiment: model.SentimentNeutral,
			Verdict: model.VerdictCorrect, Issues: []string{}, Status: model.StatusValidated,
		}},
	}
	return &fakeStore{
		runs:   map[string]*model.Report{"run-1": r},
		latest: "run-1",
		history: map[string][]database.ArticleResult{
			"a1": {{RunID: "run-1", ArticleID: "a1", Sentiment: model.SentimentNeutral, Verdict: model.VerdictCorrect}},
		},
	}
}

func do(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	h.ServeHTTP(w, req)
	return w
}

func TestRoutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{name: "health", path: "/healthz", wantStatus: http.StatusOK, wantBody: `"status":"ok"`},
		{name: "list", path: "/runs", wantStatus: http.StatusOK, wantBody: `"id":"run-1"`},
		{name: "latest", path: "/runs/latest", wantStatus: http.StatusOK, wantBody: `"run_id":"run-1"`},
		{name: "by id", path: "/runs/run-1", wantStatus: http.StatusOK, wantBody: `"verdict":"correct"`},
		{name: "missing run", path: "/runs/nope", wantStatus: http.StatusNotFound, wantBody: "run not found"},
		{name: "markdown", path: "/runs/run-1/markdown", wantStatus: http.StatusOK, wantBody: "# News Analysis Report"},
		{name: "missing markdown", path: "/runs/nope/markdown", wantStatus: http.StatusNotFound},
		{name: "history", path: "/articles/a1/history", wantStatus: http.StatusOK, wantBody: `"run_id":"run-1"`},
		{name: "empty history", path: "/articles/zz/history", wantStatus: http.StatusOK, wantBody: `"history":[]`},
		{name: "bad limit", path: "/runs?limit=abc", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := New(newFakeStore()).Handler()
			w := do(t, h, tt.path)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d (%s)", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantBody != "" && !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("expected body to contain %q, got %s", tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestListRunsLimit(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	h := New(store).Handler()

	do(t, h, "/runs")
	if store.gotLimit != DefaultListLimit {
		t.Errorf("expected default limit %d, got %d", DefaultListLimit, store.gotLimit)
	}

	do(t, h, "/runs?limit=5")
	if store.gotLimit != 5 {
		t.Errorf("expected limit 5, got %d", store.gotLimit)
	}
}

func TestLatestRunEmpty(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.latest = ""
	w := do(t, New(store).Handler(), "/runs/latest")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestStoreFailureHidesDetails(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.err = errors.New("disk I/O error at /home/user/.local/share")
	w := do(t, New(store).Handler(), "/runs/run-1")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if body["error"] != "internal error" {
		t.Errorf("expected generic error, got %q", body["error"])
	}
}

func TestRunShutsDownOnCancel(t *testing.T) {
	t.Parallel()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := l.Addr().String()
	_ = l.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(newFakeStore()).Run(ctx, addr)
	}()

	// Wait for the server to accept connections.
	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err == nil {
			_ = resp.Body.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not start: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
