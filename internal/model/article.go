package model

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/sha3"
)

// GistPlaceholder is the gist used when an article has no description.
const GistPlaceholder = "N/A"

// articleIDLength is the number of hex characters kept from the SHA3-256 digest.
const articleIDLength = 16

// RawArticle is an article exactly as a fetch source produced it.
// It is never modified after creation; Normalize turns it into an ArticleRecord.
type RawArticle struct {
	// Title is the headline. Required.
	Title string `json:"title"`

	// Description is the short teaser text supplied by the source.
	// Nil means the source had no description at all.
	Description *string `json:"description,omitempty"`

	// Content is the article body (or the longest text the source exposes). Required.
	Content string `json:"content"`

	// Source is the publisher name, e.g. "The Hindu".
	Source string `json:"source"`

	// URL is the canonical link to the article.
	URL string `json:"url"`

	// PublishedAt is the publication time if the source reported one.
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// ArticleRecord is a validated article ready to be sent to the analyzer.
type ArticleRecord struct {
	// ID is stable across runs for the same URL, see ArticleID.
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Gist        string     `json:"gist"`
	Content     string     `json:"content"`
	Source      string     `json:"source"`
	URL         string     `json:"url"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// ValidationReason identifies why a RawArticle was rejected.
type ValidationReason int

const (
	// ReasonMissingTitle means the title was empty or whitespace only.
	ReasonMissingTitle ValidationReason = iota + 1

	// ReasonMissingContent means the content was empty or whitespace only.
	ReasonMissingContent
)

// String returns a short description of the reason.
func (r ValidationReason) String() string {
	switch r {
	case ReasonMissingTitle:
		return "missing title"
	case ReasonMissingContent:
		return "missing content"
	default:
		return "invalid article"
	}
}

var (
	// ErrMissingTitle matches a ValidationError with ReasonMissingTitle.
	ErrMissingTitle = errors.New("article has no title")

	// ErrMissingContent matches a ValidationError with ReasonMissingContent.
	ErrMissingContent = errors.New("article has no content")
)

// ValidationError is returned by Normalize when an article cannot be processed.
// Use errors.Is with ErrMissingTitle or ErrMissingContent to test the reason.
type ValidationError struct {
	Reason ValidationReason
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid article: %s", e.Reason)
}

// Is reports whether target is the sentinel for this error's reason.
func (e *ValidationError) Is(target error) bool {
	switch e.Reason {
	case ReasonMissingTitle:
		return target == ErrMissingTitle
	case ReasonMissingContent:
		return target == ErrMissingContent
	default:
		return false
	}
}

// Normalize validates raw and converts it into an ArticleRecord.
// The title is checked before the content, so an article missing both
// reports ReasonMissingTitle. An absent or blank description yields
// GistPlaceholder as the gist.
func Normalize(raw RawArticle) (ArticleRecord, error) {
	title := strings.TrimSpace(raw.Title)
	if title == "" {
		return ArticleRecord{}, &ValidationError{Reason: ReasonMissingTitle}
	}

	content := strings.TrimSpace(raw.Content)
	if content == "" {
		return ArticleRecord{}, &ValidationError{Reason: ReasonMissingContent}
	}

	gist := GistPlaceholder
	if raw.Description != nil {
		if d := strings.TrimSpace(*raw.Description); d != "" {
			gist = d
		}
	}

	return ArticleRecord{
		ID:          ArticleID(raw.URL, title),
		Title:       title,
		Gist:        gist,
		Content:     content,
		Source:      strings.TrimSpace(raw.Source),
		URL:         strings.TrimSpace(raw.URL),
		PublishedAt: raw.PublishedAt,
	}, nil
}

// ArticleID derives a stable identifier from the article URL, falling back
// to the title when the URL is empty.
func ArticleID(url, title string) string {
	key := strings.TrimSpace(url)
	if key == "" {
		key = strings.TrimSpace(title)
	}
	sum := sha3.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:articleIDLength]
}
