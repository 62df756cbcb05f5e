package analyst

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nao1215/newsverdict/internal/llm"
	"github.com/nao1215/newsverdict/internal/model"
)

// fakeGenerator records the last call and answers with a fixed text.
type fakeGenerator struct {
	answer string
	err    error

	prompt string
	params llm.Params
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string, params llm.Params) (string, error) {
	f.prompt = prompt
	f.params = params
	return f.answer, f.err
}

func (f *fakeGenerator) Name() string { return "fake" }
func (f *fakeGenerator) Close() error { return nil }

var testRecord = model.ArticleRecord{
	ID:      "0123456789abcdef",
	Title:   "Election Commission announces dates",
	Gist:    "Five states will vote next month.",
	Content: "The Election Commission of India on Monday announced the schedule.",
	Source:  "The Hindu",
	URL:     "https://example.com/ec",
}

func TestAnalyzerAnalyze(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{answer: "GIST: Dates announced.\nSENTIMENT: Neutral\nTONE: Analytical\nKEY ENTITIES: Election Commission, India\nWHY THIS MATTERS: Sets the calendar."}
	a := NewAnalyzer(gen, Stage{Model: "gemini-2.0-flash", Temperature: 0.3, MaxTokens: 512})

	got, err := a.Analyze(context.Background(), testRecord)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if got.ArticleID != testRecord.ID {
		t.Errorf("expected article id %q, got %q", testRecord.ID, got.ArticleID)
	}
	if got.Sentiment != model.SentimentNeutral {
		t.Errorf("expected Neutral, got %v", got.Sentiment)
	}
	if got.Gist != "Dates announced." {
		t.Errorf("expected gist %q, got %q", "Dates announced.", got.Gist)
	}
	if gen.params.Purpose != llm.PurposeAnalyze || gen.params.Model != "gemini-2.0-flash" || gen.params.MaxTokens != 512 {
		t.Errorf("unexpected params %+v", gen.params)
	}
	for _, want := range []string{
		"Title: " + testRecord.Title,
		"Description: " + testRecord.Gist,
		"Content: " + testRecord.Content,
		"WHY THIS MATTERS:",
	} {
		if !strings.Contains(gen.prompt, want) {
			t.Errorf("expected prompt to contain %q", want)
		}
	}
}

func TestAnalyzerUnparseableOutput(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{answer: "I cannot help with that."}
	got, err := NewAnalyzer(gen, Stage{}).Analyze(context.Background(), testRecord)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got.Sentiment != model.SentimentUnknown {
		t.Errorf("expected Unknown, got %v", got.Sentiment)
	}
	if got.RawText != gen.answer {
		t.Errorf("expected raw text kept, got %q", got.RawText)
	}
}

func TestAnalyzerGeneratorError(t *testing.T) {
	t.Parallel()

	boom := errors.New("quota exceeded")
	_, err := NewAnalyzer(&fakeGenerator{err: boom}, Stage{}).Analyze(context.Background(), testRecord)
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped generator error, got %v", err)
	}
}

func TestValidatorValidate(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{answer: "```json\n{\"verdict\": \"correct\", \"confidence\": 0.9, \"issues\": [], \"strengths\": [\"accurate\"], \"overall_assessment\": \"good\"}\n```"}
	v := NewValidator(gen, Stage{Model: "gemini-2.5-flash", Temperature: 0.2, MaxTokens: 1024})

	analysis := model.AnalysisResult{ArticleID: testRecord.ID, RawText: "GIST: Dates announced."}
	got, err := v.Validate(context.Background(), testRecord, analysis)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if got.Verdict != model.VerdictCorrect {
		t.Errorf("expected Correct, got %v", got.Verdict)
	}
	if got.Confidence == nil || *got.Confidence != 0.9 {
		t.Errorf("expected confidence 0.9, got %v", got.Confidence)
	}
	if got.ArticleID != testRecord.ID {
		t.Errorf("expected article id %q, got %q", testRecord.ID, got.ArticleID)
	}
	if gen.params.Purpose != llm.PurposeValidate || gen.params.MaxTokens != 1024 {
		t.Errorf("unexpected params %+v", gen.params)
	}
	if !strings.Contains(gen.prompt, "AI ANALYSIS TO VALIDATE:\nGIST: Dates announced.") {
		t.Errorf("expected prompt to quote the analysis, got %q", gen.prompt)
	}
}

func TestValidatorGeneratorError(t *testing.T) {
	t.Parallel()

	boom := errors.New("timeout")
	_, err := NewValidator(&fakeGenerator{err: boom}, Stage{}).Validate(context.Background(), testRecord, model.AnalysisResult{})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped generator error, got %v", err)
	}
}

func TestValidatePromptRendersFields(t *testing.T) {
	t.Parallel()

	analysis := model.AnalysisResult{
		Gist:         "Dates announced.",
		Sentiment:    model.SentimentPositive,
		Tone:         "Optimistic",
		Entities:     []string{"EC", "India"},
		WhyItMatters: "Calendar.",
	}
	prompt := ValidatePrompt(testRecord, analysis)

	for _, want := range []string{"GIST: Dates announced.", "SENTIMENT: Positive", "KEY ENTITIES: EC, India"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("expected prompt to contain %q", want)
		}
	}
}
