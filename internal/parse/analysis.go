package parse

import (
	"encoding/json"
	"strings"
	"unicode"

	"github.com/nao1215/newsverdict/internal/model"
)

// Labels recognized in analyzer output.
const (
	LabelGist         = "GIST"
	LabelSentiment    = "SENTIMENT"
	LabelTone         = "TONE"
	LabelKeyEntities  = "KEY ENTITIES"
	LabelWhyItMatters = "WHY THIS MATTERS"
)

// labelOrder lists the labels in matching order. Multi-word labels come
// first so that a head naming several labels resolves to the longest one.
var labelOrder = []string{
	LabelKeyEntities,
	LabelWhyItMatters,
	LabelGist,
	LabelSentiment,
	LabelTone,
}

// emphasisChars are stripped from label heads and from the ends of values.
const emphasisChars = "*_`#"

// ParseAnalysis extracts gist, sentiment and tone from analyzer output.
//
// A JSON object answer is decoded first. Otherwise lines of the form
// "LABEL: value" are scanned, tolerating markdown emphasis and list markers
// around the label; when a label repeats, the last occurrence wins. Text with
// no GIST, SENTIMENT or TONE label yields empty fields and Unknown sentiment.
// RawText always holds text unchanged.
func ParseAnalysis(text string) model.AnalysisResult {
	result := firstOf(text, unknownAnalysis, analysisFromJSON, analysisFromLabels)
	result.RawText = text
	return result
}

func unknownAnalysis(string) model.AnalysisResult {
	return model.AnalysisResult{Sentiment: model.SentimentUnknown}
}

func analysisFromLabels(text string) (model.AnalysisResult, bool) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	fields := make(map[string]string, len(labelOrder))

	for i, line := range lines {
		label, value, ok := splitLabel(line)
		if !ok {
			continue
		}
		if value == "" {
			value = continuation(lines[i+1:])
		}
		fields[label] = value
	}

	_, hasGist := fields[LabelGist]
	_, hasSentiment := fields[LabelSentiment]
	_, hasTone := fields[LabelTone]
	if !hasGist && !hasSentiment && !hasTone {
		return model.AnalysisResult{}, false
	}

	result := model.AnalysisResult{
		Gist:          fields[LabelGist],
		SentimentText: fields[LabelSentiment],
		Sentiment:     sentimentOf(fields[LabelSentiment]),
		Tone:          fields[LabelTone],
		Entities:      splitList(fields[LabelKeyEntities]),
		WhyItMatters:  fields[LabelWhyItMatters],
	}
	return result, true
}

// continuation returns the first non-blank line that is not itself a label line.
func continuation(lines []string) string {
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if _, _, ok := splitLabel(line); ok {
			return ""
		}
		return cleanValue(line)
	}
	return ""
}

// splitLabel splits a "LABEL: value" line. The text before the first colon
// is a label head when it contains a known label as whole words, so
// "Overall Sentiment:" and "GIST (1-2 sentences):" both qualify.
func splitLabel(line string) (label, value string, ok bool) {
	head, rest, found := strings.Cut(line, ":")
	if !found {
		return "", "", false
	}

	head = strings.Map(func(r rune) rune {
		if strings.ContainsRune(emphasisChars, r) {
			return -1
		}
		return r
	}, head)
	head = stripListMarker(strings.TrimSpace(head))

	label, ok = findLabel(head)
	if !ok {
		return "", "", false
	}
	return label, cleanValue(rest), true
}

// findLabel returns the first label of labelOrder whose words appear
// contiguously, case-insensitively, among the words of head.
func findLabel(head string) (string, bool) {
	words := strings.FieldsFunc(strings.ToUpper(head), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, label := range labelOrder {
		if containsWords(words, strings.Fields(label)) {
			return label, true
		}
	}
	return "", false
}

func containsWords(words, target []string) bool {
	for i := 0; i+len(target) <= len(words); i++ {
		match := true
		for j, t := range target {
			if words[i+j] != t {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// stripListMarker removes a leading "-", "•", "1." or "2)" marker.
func stripListMarker(s string) string {
	switch {
	case strings.HasPrefix(s, "-"):
		return strings.TrimSpace(strings.TrimPrefix(s, "-"))
	case strings.HasPrefix(s, "•"):
		return strings.TrimSpace(strings.TrimPrefix(s, "•"))
	}

	digits := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	if digits > 0 && (s[digits] == '.' || s[digits] == ')') {
		return strings.TrimSpace(s[digits+1:])
	}
	return s
}

func cleanValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "*_`")
	return strings.TrimSpace(s)
}

func sentimentOf(value string) model.Sentiment {
	s, _ := model.ParseSentiment(strings.TrimRight(strings.TrimSpace(value), ".!"))
	return s
}

// splitList splits a comma or semicolon separated list, dropping empty items.
func splitList(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	var out []string
	for _, p := range parts {
		if p = cleanValue(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// analysisFromJSON decodes answers such as {"gist": "...", "sentiment": "Positive"}.
func analysisFromJSON(text string) (model.AnalysisResult, bool) {
	body := stripFence(text)
	if !strings.HasPrefix(body, "{") {
		return model.AnalysisResult{}, false
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return model.AnalysisResult{}, false
	}
	fields := lowerKeys(raw)

	gist, hasGist := jsonString(fields, "gist")
	sentiment, hasSentiment := jsonString(fields, "sentiment")
	tone, hasTone := jsonString(fields, "tone")
	if !hasGist && !hasSentiment && !hasTone {
		return model.AnalysisResult{}, false
	}

	why, _ := jsonString(fields, "why_this_matters", "why_it_matters")
	result := model.AnalysisResult{
		Gist:          strings.TrimSpace(gist),
		SentimentText: strings.TrimSpace(sentiment),
		Sentiment:     sentimentOf(sentiment),
		Tone:          strings.TrimSpace(tone),
		Entities:      jsonStringList(fields, "key_entities", "entities"),
		WhyItMatters:  strings.TrimSpace(why),
	}
	if result.Entities == nil {
		if s, ok := jsonString(fields, "key_entities", "entities"); ok {
			result.Entities = splitList(s)
		}
	}
	return result, true
}
