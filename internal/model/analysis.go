package model

// AnalysisResult is the structured form of the analyzer's answer for one article.
type AnalysisResult struct {
	ArticleID string `json:"article_id"`

	// Gist is the one-to-two sentence summary. Empty when the analyzer gave none.
	Gist string `json:"gist"`

	// Sentiment is Unknown whenever SentimentText is not in the vocabulary.
	Sentiment Sentiment `json:"sentiment"`

	// SentimentText is the label value as written by the analyzer.
	SentimentText string `json:"sentiment_text,omitempty"`

	Tone         string   `json:"tone"`
	Entities     []string `json:"entities,omitempty"`
	WhyItMatters string   `json:"why_it_matters,omitempty"`

	// RawText is the analyzer output verbatim.
	RawText string `json:"raw_text"`
}

// ValidationResult is the structured form of the validator's answer.
type ValidationResult struct {
	ArticleID string  `json:"article_id"`
	Verdict   Verdict `json:"verdict"`

	// Confidence is in [0,1] when set. Nil means the validator gave no usable value.
	Confidence *float64 `json:"confidence,omitempty"`

	Issues     []string `json:"issues"`
	Strengths  []string `json:"strengths,omitempty"`
	Assessment string   `json:"overall_assessment,omitempty"`

	// RawText is the validator output verbatim, fences included.
	RawText string `json:"raw_text"`
}
