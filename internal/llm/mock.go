package llm

import (
	"context"
	"sync"
)

// mockAnalyses are canned analyzer answers, in the labeled format the
// analyzer prompt asks for.
var mockAnalyses = []string{
	`GIST: India's Election Commission announces dates for upcoming state assembly elections in five states.

SENTIMENT: Neutral

TONE: Analytical

KEY ENTITIES: Election Commission of India, five state assemblies, Chief Election Commissioner

WHY THIS MATTERS: These elections will serve as a crucial indicator of political sentiment ahead of the national elections, potentially shifting the balance of power in key regional governments.`,

	`GIST: Government launches new digital infrastructure initiative aimed at improving rural connectivity across India.

SENTIMENT: Positive

TONE: Optimistic

KEY ENTITIES: Ministry of Electronics and IT, rural India, digital infrastructure, broadband expansion

WHY THIS MATTERS: This initiative addresses the digital divide, potentially transforming rural access to education, healthcare, and economic opportunities through improved internet connectivity.`,

	`GIST: Opposition parties criticize government's handling of inflation, calling for immediate policy intervention.

SENTIMENT: Negative

TONE: Critical

KEY ENTITIES: Opposition coalition, Reserve Bank of India, inflation rate, economic policy

WHY THIS MATTERS: Rising inflation affects millions of citizens' purchasing power and could influence voter sentiment in upcoming elections, making it a critical political and economic issue.`,
}

// mockValidations are canned validator answers. The first is fenced the way
// hosted models often wrap JSON.
var mockValidations = []string{
	"```json\n" + `{
  "verdict": "correct",
  "confidence": 0.92,
  "issues": [],
  "strengths": [
    "Accurately summarizes the main announcement",
    "Correctly identifies neutral tone of official announcement",
    "Properly contextualizes political significance"
  ],
  "overall_assessment": "The analysis accurately captures the factual content and maintains objectivity appropriate for an official announcement."
}` + "\n```",

	`{
  "verdict": "correct",
  "confidence": 0.88,
  "issues": [],
  "strengths": [
    "Identifies the positive development accurately",
    "Correctly assesses optimistic tone",
    "Highlights meaningful societal impact"
  ],
  "overall_assessment": "Analysis correctly identifies the positive nature of the initiative and its potential benefits."
}`,

	`{
  "verdict": "partially_correct",
  "confidence": 0.75,
  "issues": [
    "Could provide more specific data on inflation rates",
    "Sentiment classification is slightly subjective"
  ],
  "strengths": [
    "Captures the critical tone of opposition statements",
    "Identifies key political actors correctly"
  ],
  "overall_assessment": "Generally accurate but could benefit from more specific economic data to support the sentiment classification."
}`,
}

// Mock answers with canned analyses and validations, cycling through them
// per call. It needs no network and is safe for concurrent use.
type Mock struct {
	mu        sync.Mutex
	analyzed  int
	validated int
}

// NewMock creates a mock generator.
func NewMock() *Mock {
	return &Mock{}
}

// Name returns "mock".
func (m *Mock) Name() string {
	return BackendMock
}

// Generate returns the next canned answer for params.Purpose.
func (m *Mock) Generate(ctx context.Context, _ string, params Params) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if params.Purpose == PurposeValidate {
		answer := mockValidations[m.validated%len(mockValidations)]
		m.validated++
		return answer, nil
	}
	answer := mockAnalyses[m.analyzed%len(mockAnalyses)]
	m.analyzed++
	return answer, nil
}

// Close implements Generator.
func (m *Mock) Close() error {
	return nil
}
