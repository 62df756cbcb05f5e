package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/newsverdict/internal/model"
)

// DefaultFeedConcurrency is how many feeds are downloaded at once.
const DefaultFeedConcurrency = 4

// RSS fetches articles from RSS, Atom and JSON feeds.
type RSS struct {
	feeds       []string
	maxArticles int
	concurrency int
	client      *http.Client
	logger      *slog.Logger
}

// RSSOption configures an RSS source.
type RSSOption func(*RSS)

// WithRSSHTTPClient sets the HTTP client used for feed downloads.
func WithRSSHTTPClient(c *http.Client) RSSOption {
	return func(r *RSS) {
		if c != nil {
			r.client = c
		}
	}
}

// WithMaxArticles limits the total number of articles returned.
func WithMaxArticles(n int) RSSOption {
	return func(r *RSS) {
		if n > 0 {
			r.maxArticles = n
		}
	}
}

// WithConcurrency sets how many feeds are downloaded in parallel.
func WithConcurrency(n int) RSSOption {
	return func(r *RSS) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithRSSLogger sets the logger.
func WithRSSLogger(logger *slog.Logger) RSSOption {
	return func(r *RSS) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRSS creates a source over feeds. It returns ErrNoFeeds when feeds is empty.
func NewRSS(feeds []string, opts ...RSSOption) (*RSS, error) {
	if len(feeds) == 0 {
		return nil, ErrNoFeeds
	}

	r := &RSS{
		feeds:       append([]string(nil), feeds...),
		maxArticles: DefaultPageSize,
		concurrency: DefaultFeedConcurrency,
		client:      &http.Client{Timeout: DefaultTimeout},
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Name returns "RSS".
func (r *RSS) Name() string {
	return "RSS"
}

// Fetch downloads all feeds concurrently and returns their items in feed order,
// limited to the configured maximum. A feed that fails is logged and skipped;
// the fetch only fails when no feed produced an article.
func (r *RSS) Fetch(ctx context.Context) ([]model.RawArticle, error) {
	results := make([][]model.RawArticle, len(r.feeds))
	errs := make([]error, len(r.feeds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, feedURL := range r.feeds {
		g.Go(func() error {
			articles, err := r.fetchFeed(gctx, feedURL)
			if err != nil {
				errs[i] = err
				r.logger.Warn("feed fetch failed", "feed", feedURL, "error", err)
				return nil
			}
			results[i] = articles
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []model.RawArticle
	for _, articles := range results {
		for _, a := range articles {
			if len(out) >= r.maxArticles {
				break
			}
			out = append(out, a)
		}
	}

	if len(out) == 0 {
		for _, err := range errs {
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrNoArticles, err)
			}
		}
		return nil, ErrNoArticles
	}
	return out, nil
}

func (r *RSS) fetchFeed(ctx context.Context, feedURL string) ([]model.RawArticle, error) {
	parser := gofeed.NewParser()
	parser.Client = r.client

	feed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", feedURL, err)
	}

	source := strings.TrimSpace(feed.Title)
	if source == "" {
		source = "Unknown"
	}

	articles := make([]model.RawArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		articles = append(articles, itemToArticle(item, source))
	}
	r.logger.Debug("feed fetched", "feed", feedURL, "items", len(articles))
	return articles, nil
}

// itemToArticle converts a feed item. The full content is preferred over the
// description; when only a description exists it serves as both.
func itemToArticle(item *gofeed.Item, source string) model.RawArticle {
	description := HTMLToText(item.Description)
	content := HTMLToText(item.Content)
	if content == "" {
		content = description
	}

	a := model.RawArticle{
		Title:       HTMLToText(item.Title),
		Content:     content,
		Source:      source,
		URL:         item.Link,
		PublishedAt: item.PublishedParsed,
	}
	if description != "" {
		a.Description = &description
	}
	if a.PublishedAt == nil {
		a.PublishedAt = item.UpdatedParsed
	}
	return a
}
