package parse

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/nao1215/newsverdict/internal/model"
)

// NormalizeValidation extracts a verdict, confidence and issues from validator output.
//
// Fenced blocks are unwrapped, then the text is decoded as a JSON object; if that
// fails, the outermost {...} span is tried if it carries a verdict, confidence
// or issues key. When no object can be decoded the text is
// scanned for the words "partially", "incorrect"/"wrong" and "correct", in that order
// of precedence. Confidence is clamped to [0,1]. Issues is never nil.
func NormalizeValidation(text string) model.ValidationResult {
	body := stripFence(text)
	result := firstOf(body, validationFromKeywords, validationFromJSON, validationFromEmbeddedJSON)
	result.RawText = text
	if result.Issues == nil {
		result.Issues = []string{}
	}
	return result
}

func validationFromJSON(text string) (model.ValidationResult, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "{") {
		return model.ValidationResult{}, false
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return model.ValidationResult{}, false
	}
	fields := lowerKeys(raw)

	result := model.ValidationResult{Verdict: model.VerdictUnknown}
	if v, ok := jsonString(fields, "verdict"); ok {
		result.Verdict, _ = model.ParseVerdict(v)
	}
	result.Confidence = confidence(fields["confidence"])
	result.Issues = jsonStringList(fields, "issues")
	result.Strengths = jsonStringList(fields, "strengths")
	if a, ok := jsonString(fields, "overall_assessment", "assessment"); ok {
		result.Assessment = strings.TrimSpace(a)
	}
	return result, true
}

func validationFromEmbeddedJSON(text string) (model.ValidationResult, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return model.ValidationResult{}, false
	}
	span := text[start : end+1]

	// A stray object in prose must not hide the verdict the prose states.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(span), &raw); err != nil {
		return model.ValidationResult{}, false
	}
	fields := lowerKeys(raw)
	if !hasAnyKey(fields, "verdict", "confidence", "issues") {
		return model.ValidationResult{}, false
	}
	return validationFromJSON(span)
}

func hasAnyKey(fields map[string]json.RawMessage, keys ...string) bool {
	for _, k := range keys {
		if _, ok := fields[k]; ok {
			return true
		}
	}
	return false
}

func validationFromKeywords(text string) model.ValidationResult {
	words := make(map[string]bool)
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		words[w] = true
	}

	verdict := model.VerdictUnknown
	switch {
	case words["partially"]:
		verdict = model.VerdictPartiallyCorrect
	case words["incorrect"], words["wrong"]:
		verdict = model.VerdictIncorrect
	case words["correct"]:
		verdict = model.VerdictCorrect
	}
	return model.ValidationResult{Verdict: verdict}
}

// confidence accepts a JSON number or a numeric string and clamps it to [0,1].
func confidence(raw json.RawMessage) *float64 {
	if raw == nil {
		return nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil
		}
		f = parsed
	}
	if math.IsNaN(f) {
		return nil
	}

	f = math.Max(0, math.Min(1, f))
	return &f
}
