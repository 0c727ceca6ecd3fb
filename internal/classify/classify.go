// Package classify splits raw section text into semantically typed lines for rendering.
package classify

import (
	"regexp"
	"strings"

	"github.com/jonathan/profile-report/internal/types"
)

// Kind is the semantic type of a classified line
type Kind int

// Line kinds. The order of the rule table below, not of these constants, decides precedence.
const (
	KindPlain Kind = iota
	KindScore
	KindInsight
	KindSuggestionsHeader
	KindSuggestion
)

// String returns the lowercase name of the kind
func (k Kind) String() string {
	switch k {
	case KindScore:
		return "score"
	case KindInsight:
		return "insight"
	case KindSuggestionsHeader:
		return "suggestions_header"
	case KindSuggestion:
		return "suggestion"
	default:
		return "plain"
	}
}

// MarshalText lets kinds appear by name in JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ClassifiedLine is one non-blank line of section text tagged with its kind
type ClassifiedLine struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// suggestionLabel matches "Suggestion", an optional numeral and an optional colon.
var suggestionLabel = regexp.MustCompile(`(?i)^suggestion\s*\d*\s*:?\s*`)

type rule struct {
	kind   Kind
	prefix string
	text   func(body string) string
}

func keep(body string) string { return body }

func stripSuggestionLabel(body string) string {
	return strings.TrimSpace(suggestionLabel.ReplaceAllString(body, ""))
}

// rules is evaluated top to bottom; first match wins.
// "suggestions" must stay ahead of "suggestion".
var rules = []rule{
	{kind: KindScore, prefix: "score", text: keep},
	{kind: KindInsight, prefix: "insight", text: keep},
	{kind: KindSuggestionsHeader, prefix: "suggestions", text: keep},
	{kind: KindSuggestion, prefix: "suggestion", text: stripSuggestionLabel},
}

// Classify parses raw text into an ordered sequence of classified lines.
// Blank lines are dropped; empty input yields an empty sequence.
func Classify(raw string) []ClassifiedLine {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var lines []ClassifiedLine
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, ClassifyLine(line))
	}
	return lines
}

// ClassifyLine classifies a single non-blank line.
func ClassifyLine(line string) ClassifiedLine {
	body := stripListMarker(strings.TrimSpace(line))
	lower := strings.ToLower(body)

	for _, r := range rules {
		if strings.HasPrefix(lower, r.prefix) {
			return ClassifiedLine{Kind: r.kind, Text: r.text(body)}
		}
	}
	return ClassifiedLine{Kind: KindPlain, Text: line}
}

// ClassifySection classifies the named section of result. A nil result or an
// absent section classifies as empty input.
func ClassifySection(result *types.AnalysisResult, key types.SectionKey) []ClassifiedLine {
	return Classify(result.Section(key))
}

// stripListMarker removes one leading "-", "*" or "•" bullet so that
// "- Suggestion 1: tip" classifies like "Suggestion 1: tip".
func stripListMarker(body string) string {
	for _, marker := range []string{"-", "*", "•"} {
		if rest, ok := strings.CutPrefix(body, marker); ok {
			return strings.TrimSpace(rest)
		}
	}
	return body
}
