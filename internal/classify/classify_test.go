package classify

import (
	"encoding/json"
	"testing"

	"github.com/jonathan/profile-report/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(lines []ClassifiedLine) []Kind {
	out := make([]Kind, len(lines))
	for i, l := range lines {
		out[i] = l.Kind
	}
	return out
}

func TestClassify_AllKinds(t *testing.T) {
	lines := Classify("Score: 80\nInsight: good\nSuggestions:\nSuggestion 1: improve bio\nrandom note")

	require.Len(t, lines, 5)
	assert.Equal(t, []Kind{KindScore, KindInsight, KindSuggestionsHeader, KindSuggestion, KindPlain}, kinds(lines))
	assert.Equal(t, "improve bio", lines[3].Text)
	assert.Equal(t, "random note", lines[4].Text)
	assert.Equal(t, "Score: 80", lines[0].Text)
}

func TestClassify_EmptyInput(t *testing.T) {
	assert.Empty(t, Classify(""))
	assert.Empty(t, Classify("   \n\t\n"))
	assert.Empty(t, ClassifySection(nil, types.SectionAbout))
}

func TestClassify_DropsBlankLines(t *testing.T) {
	lines := Classify("first\n\n   \nsecond\r\n")

	require.Len(t, lines, 2)
	assert.Equal(t, "first", lines[0].Text)
	assert.Equal(t, "second", lines[1].Text)
}

func TestClassify_PluralBeforeSingular(t *testing.T) {
	lines := Classify("Suggestions: improve your summary")

	require.Len(t, lines, 1)
	assert.Equal(t, KindSuggestionsHeader, lines[0].Kind)
	assert.Equal(t, "Suggestions: improve your summary", lines[0].Text)
}

func TestClassify_SuggestionLabelVariants(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{line: "Suggestion 1: improve bio", want: "improve bio"},
		{line: "Suggestion: do X", want: "do X"},
		{line: "suggestion 12:add metrics", want: "add metrics"},
		{line: "SUGGESTION 3 : shorten headline", want: "shorten headline"},
		{line: "Suggestion add a photo", want: "add a photo"},
		{line: "- Suggestion 2: list certifications", want: "list certifications"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := ClassifyLine(tt.line)
			assert.Equal(t, KindSuggestion, got.Kind)
			assert.Equal(t, tt.want, got.Text)
		})
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	assert.Equal(t, KindScore, ClassifyLine("SCORE: 9/10").Kind)
	assert.Equal(t, KindInsight, ClassifyLine("insight: strong summary").Kind)
	assert.Equal(t, KindSuggestionsHeader, ClassifyLine("SUGGESTIONS").Kind)
}

func TestClassify_PlainKeepsTextUnchanged(t *testing.T) {
	line := "  Consider adding volunteer work  "
	got := ClassifyLine(line)

	assert.Equal(t, KindPlain, got.Kind)
	assert.Equal(t, line, got.Text)
}

func TestClassify_IsIdempotentAndOrderPreserving(t *testing.T) {
	raw := "Insight: a\nrandom\nScore: 1\nrandom\nSuggestion 1: x"

	first := Classify(raw)
	second := Classify(raw)

	assert.Equal(t, first, second)
	assert.Equal(t, []Kind{KindInsight, KindPlain, KindScore, KindPlain, KindSuggestion}, kinds(first))
}

func TestClassifySection(t *testing.T) {
	result := &types.AnalysisResult{Skills: "Score: 6/10\nInsight: broad"}

	lines := ClassifySection(result, types.SectionSkills)
	require.Len(t, lines, 2)
	assert.Empty(t, ClassifySection(result, types.SectionAbout))
}

func TestKind_MarshalsByName(t *testing.T) {
	data, err := json.Marshal(ClassifiedLine{Kind: KindSuggestionsHeader, Text: "Suggestions:"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"suggestions_header","text":"Suggestions:"}`, string(data))
}
