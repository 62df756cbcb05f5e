package fetch

import (
	"context"
	"errors"

	"github.com/nao1215/newsverdict/internal/model"
)

// Source produces a batch of raw articles.
type Source interface {
	// Fetch returns the articles in source order.
	Fetch(ctx context.Context) ([]model.RawArticle, error)

	// Name identifies the source in logs and reports.
	Name() string
}

var (
	// ErrMissingAPIKey is returned when NewsAPI is used without NEWSAPI_API_KEY.
	ErrMissingAPIKey = errors.New("missing NEWSAPI_API_KEY")

	// ErrNoArticles is returned when a source yields no usable article.
	ErrNoArticles = errors.New("no valid articles found")

	// ErrUnexpectedStatus is returned for an HTTP status that is not retried.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrAPI is returned when NewsAPI answers with status "error".
	ErrAPI = errors.New("newsapi error")

	// ErrNoFeeds is returned when an RSS source has no feed URLs.
	ErrNoFeeds = errors.New("no feed URLs configured")
)
