package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/nao1215/newsverdict/internal/model"
)

// Defaults for NewsAPI requests.
const (
	DefaultNewsAPIURL       = "https://newsapi.org/v2/everything"
	DefaultPageSize         = 12
	DefaultMinContentLength = 50
	DefaultMaxTries         = 3
	DefaultRetryInterval    = time.Second
	DefaultTimeout          = 10 * time.Second
)

// retryableStatus lists the HTTP statuses that are retried with backoff.
var retryableStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// NewsAPI fetches articles from the NewsAPI "everything" endpoint.
type NewsAPI struct {
	client           *http.Client
	endpoint         string
	apiKey           string
	query            string
	language         string
	pageSize         int
	minContentLength int
	maxTries         uint
	retryInterval    time.Duration
	logger           *slog.Logger
}

// NewsAPIOption configures a NewsAPI source.
type NewsAPIOption func(*NewsAPI)

// WithEndpoint overrides the API endpoint.
func WithEndpoint(endpoint string) NewsAPIOption {
	return func(n *NewsAPI) {
		if endpoint != "" {
			n.endpoint = endpoint
		}
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c *http.Client) NewsAPIOption {
	return func(n *NewsAPI) {
		if c != nil {
			n.client = c
		}
	}
}

// WithPageSize sets how many articles are requested.
func WithPageSize(size int) NewsAPIOption {
	return func(n *NewsAPI) {
		if size > 0 {
			n.pageSize = size
		}
	}
}

// WithMinContentLength drops articles whose content is shorter than length.
func WithMinContentLength(length int) NewsAPIOption {
	return func(n *NewsAPI) {
		if length >= 0 {
			n.minContentLength = length
		}
	}
}

// WithRetry sets the number of attempts and the initial backoff interval.
func WithRetry(maxTries uint, initial time.Duration) NewsAPIOption {
	return func(n *NewsAPI) {
		if maxTries > 0 {
			n.maxTries = maxTries
		}
		if initial > 0 {
			n.retryInterval = initial
		}
	}
}

// WithNewsAPILogger sets the logger.
func WithNewsAPILogger(logger *slog.Logger) NewsAPIOption {
	return func(n *NewsAPI) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// NewNewsAPI creates a NewsAPI source for query.
// It returns ErrMissingAPIKey when apiKey is empty.
func NewNewsAPI(apiKey, query string, opts ...NewsAPIOption) (*NewsAPI, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}

	n := &NewsAPI{
		client:           &http.Client{Timeout: DefaultTimeout},
		endpoint:         DefaultNewsAPIURL,
		apiKey:           apiKey,
		query:            query,
		language:         "en",
		pageSize:         DefaultPageSize,
		minContentLength: DefaultMinContentLength,
		maxTries:         DefaultMaxTries,
		retryInterval:    DefaultRetryInterval,
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// Name returns "NewsAPI".
func (n *NewsAPI) Name() string {
	return "NewsAPI"
}

type newsAPIResponse struct {
	Status       string           `json:"status"`
	Code         string           `json:"code"`
	Message      string           `json:"message"`
	TotalResults int              `json:"totalResults"`
	Articles     []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
	URL         string  `json:"url"`
	PublishedAt string  `json:"publishedAt"`
}

// Fetch queries NewsAPI and returns the usable articles in the order received.
// 429 and 5xx answers and transport errors are retried with exponential backoff.
// It returns ErrNoArticles when every article was filtered out.
func (n *NewsAPI) Fetch(ctx context.Context) ([]model.RawArticle, error) {
	reqURL, err := n.requestURL()
	if err != nil {
		return nil, err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = n.retryInterval

	attempt := 0
	body, err := backoff.Retry(ctx, func() (*newsAPIResponse, error) {
		attempt++
		return n.get(ctx, reqURL)
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(n.maxTries),
		backoff.WithNotify(func(err error, wait time.Duration) {
			n.logger.Warn("newsapi request failed, retrying", "attempt", attempt, "wait", wait, "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news: %w", err)
	}

	articles := n.convert(body.Articles)
	n.logger.Debug("newsapi fetch complete",
		"received", len(body.Articles), "usable", len(articles), "total_results", body.TotalResults)
	if len(articles) == 0 {
		return nil, ErrNoArticles
	}
	return articles, nil
}

func (n *NewsAPI) requestURL() (string, error) {
	u, err := url.Parse(n.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid newsapi endpoint: %w", err)
	}
	q := u.Query()
	q.Set("q", n.query)
	q.Set("language", n.language)
	q.Set("sortBy", "publishedAt")
	q.Set("pageSize", strconv.Itoa(n.pageSize))
	q.Set("apiKey", n.apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (n *NewsAPI) get(ctx context.Context, reqURL string) (*newsAPIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(ctx.Err())
		}
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if retryableStatus[resp.StatusCode] {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var body newsAPIResponse
	if err := json.Unmarshal(data, &body); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, backoff.Permanent(fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode))
		}
		return nil, backoff.Permanent(fmt.Errorf("failed to decode newsapi response: %w", err))
	}
	if body.Status == "error" {
		return nil, backoff.Permanent(fmt.Errorf("%w: %s: %s", ErrAPI, body.Code, body.Message))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, backoff.Permanent(fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode))
	}
	return &body, nil
}

// convert filters and maps NewsAPI articles. Content falls back to the description.
func (n *NewsAPI) convert(in []newsAPIArticle) []model.RawArticle {
	out := make([]model.RawArticle, 0, len(in))
	for _, a := range in {
		title := strings.TrimSpace(a.Title)

		content := ""
		if a.Content != nil {
			content = strings.TrimSpace(*a.Content)
		}
		if content == "" && a.Description != nil {
			content = strings.TrimSpace(*a.Description)
		}

		if title == "" || len([]rune(content)) < n.minContentLength {
			continue
		}

		source := strings.TrimSpace(a.Source.Name)
		if source == "" {
			source = "Unknown"
		}

		out = append(out, model.RawArticle{
			Title:       title,
			Description: a.Description,
			Content:     content,
			Source:      source,
			URL:         a.URL,
			PublishedAt: parseTime(a.PublishedAt),
		})
	}
	return out
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, time.RFC3339Nano, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
