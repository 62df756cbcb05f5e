package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const newsAPIBody = `{
  "status": "ok",
  "totalResults": 4,
  "articles": [
    {
      "source": {"id": null, "name": "The Hindu"},
      "title": "Election Commission announces dates",
      "description": "Five states will vote next month.",
      "content": "The Election Commission of India on Monday announced the schedule for assembly elections in five states.",
      "url": "https://example.com/ec",
      "publishedAt": "2025-10-06T09:30:00Z"
    },
    {
      "source": {"id": null, "name": ""},
      "title": "Rural broadband push",
      "description": "The ministry unveiled a plan to connect every village with fibre by next year, officials said.",
      "content": null,
      "url": "https://example.com/bb",
      "publishedAt": "not a date"
    },
    {
      "source": {"name": "Short"},
      "title": "Teaser",
      "description": null,
      "content": "Too short to analyze.",
      "url": "https://example.com/short"
    },
    {
      "source": {"name": "NoTitle"},
      "title": "",
      "content": "This article has plenty of content but no title at all, so it cannot be used.",
      "url": "https://example.com/notitle"
    }
  ]
}`

func newTestNewsAPI(t *testing.T, url string, opts ...NewsAPIOption) *NewsAPI {
	t.Helper()

	opts = append([]NewsAPIOption{WithEndpoint(url), WithRetry(3, time.Millisecond)}, opts...)
	n, err := NewNewsAPI("test-key", "India politics", opts...)
	if err != nil {
		t.Fatalf("NewNewsAPI: %v", err)
	}
	return n
}

func TestNewNewsAPI_MissingKey(t *testing.T) {
	t.Parallel()

	if _, err := NewNewsAPI(" ", "q"); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestNewsAPI_Fetch(t *testing.T) {
	t.Parallel()

	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"q":        q.Get("q"),
			"language": q.Get("language"),
			"sortBy":   q.Get("sortBy"),
			"pageSize": q.Get("pageSize"),
			"apiKey":   q.Get("apiKey"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(newsAPIBody))
	}))
	defer srv.Close()

	n := newTestNewsAPI(t, srv.URL, WithPageSize(5))
	articles, err := n.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]string{
		"q": "India politics", "language": "en", "sortBy": "publishedAt", "pageSize": "5", "apiKey": "test-key",
	}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("expected query %s=%q, got %q", k, v, gotQuery[k])
		}
	}

	if len(articles) != 2 {
		t.Fatalf("expected 2 usable articles, got %d", len(articles))
	}

	first := articles[0]
	if first.Source != "The Hindu" || first.URL != "https://example.com/ec" {
		t.Errorf("unexpected first article %+v", first)
	}
	if first.PublishedAt == nil || first.PublishedAt.Year() != 2025 {
		t.Errorf("expected parsed publish time, got %v", first.PublishedAt)
	}

	second := articles[1]
	if second.Source != "Unknown" {
		t.Errorf("expected missing source to become Unknown, got %q", second.Source)
	}
	if !strings.HasPrefix(second.Content, "The ministry unveiled") {
		t.Errorf("expected content to fall back to description, got %q", second.Content)
	}
	if second.PublishedAt != nil {
		t.Errorf("expected unparsable date to be nil, got %v", second.PublishedAt)
	}
}

func TestNewsAPI_RetriesRetryableStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(newsAPIBody))
	}))
	defer srv.Close()

	articles, err := newTestNewsAPI(t, srv.URL).Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 calls, got %d", calls.Load())
	}
	if len(articles) != 2 {
		t.Errorf("expected 2 articles, got %d", len(articles))
	}
}

func TestNewsAPI_GivesUpAfterMaxTries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestNewsAPI(t, srv.URL).Fetch(context.Background())
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Fatalf("expected ErrUnexpectedStatus, got %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 calls, got %d", calls.Load())
	}
}

func TestNewsAPI_DoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid."}`))
	}))
	defer srv.Close()

	_, err := newTestNewsAPI(t, srv.URL).Fetch(context.Background())
	if !errors.Is(err, ErrAPI) {
		t.Fatalf("expected ErrAPI, got %v", err)
	}
	if !strings.Contains(err.Error(), "apiKeyInvalid") {
		t.Errorf("expected error code in message, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected a single call, got %d", calls.Load())
	}
}

func TestNewsAPI_NoUsableArticles(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok","totalResults":0,"articles":[]}`))
	}))
	defer srv.Close()

	_, err := newTestNewsAPI(t, srv.URL).Fetch(context.Background())
	if !errors.Is(err, ErrNoArticles) {
		t.Errorf("expected ErrNoArticles, got %v", err)
	}
}

func TestNewsAPI_MinContentLength(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(newsAPIBody))
	}))
	defer srv.Close()

	articles, err := newTestNewsAPI(t, srv.URL, WithMinContentLength(0)).Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) != 3 {
		t.Errorf("expected short article to be kept without minimum, got %d articles", len(articles))
	}
}
