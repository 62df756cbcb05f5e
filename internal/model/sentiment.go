package model

import (
	"fmt"
	"strings"
)

// Sentiment is the analyzer's classification of an article's overall mood.
type Sentiment int

const (
	// SentimentUnknown means the analyzer output did not contain a recognizable
	// sentiment, or the analyzer call failed.
	SentimentUnknown Sentiment = iota

	// SentimentPositive is an article with a favourable outlook.
	SentimentPositive

	// SentimentNegative is an article with an unfavourable outlook.
	SentimentNegative

	// SentimentNeutral is a factual article without a clear leaning.
	SentimentNeutral
)

// Sentiments lists the known sentiment values in report order.
var Sentiments = []Sentiment{
	SentimentPositive,
	SentimentNegative,
	SentimentNeutral,
	SentimentUnknown,
}

// String returns the display name of the sentiment.
func (s Sentiment) String() string {
	switch s {
	case SentimentPositive:
		return "Positive"
	case SentimentNegative:
		return "Negative"
	case SentimentNeutral:
		return "Neutral"
	default:
		return "Unknown"
	}
}

// ParseSentiment matches s case-insensitively against the sentiment vocabulary.
// The second return value is false when s is not one of Positive, Negative or Neutral.
func ParseSentiment(s string) (Sentiment, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive":
		return SentimentPositive, true
	case "negative":
		return SentimentNegative, true
	case "neutral":
		return SentimentNeutral, true
	default:
		return SentimentUnknown, false
	}
}

// MarshalText encodes the sentiment as its lower-case name.
func (s Sentiment) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(s.String())), nil
}

// UnmarshalText decodes a sentiment name. "unknown" and unrecognized names decode to
// SentimentUnknown; only non-string garbage is rejected by the JSON layer itself.
func (s *Sentiment) UnmarshalText(text []byte) error {
	if s == nil {
		return fmt.Errorf("model: UnmarshalText on nil *Sentiment")
	}
	v, _ := ParseSentiment(string(text))
	*s = v
	return nil
}
