package rendering

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/jonathan/profile-report/internal/classify"
	"github.com/jonathan/profile-report/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func sampleResult() types.AnalysisResult {
	return types.AnalysisResult{
		OverallScore: 72,
		About:        "Score: 8/10\nInsight: good\nSuggestions:\nSuggestion 1: improve bio\nSuggestion 2: add a banner\nrandom note",
		Experience:   "Score: 6/10\nInsight: thin on metrics",
		Skills:       "",
	}
}

func TestRender_SectionsInOrder(t *testing.T) {
	r, err := Render(uuid.New(), sampleResult(), nil)
	require.NoError(t, err)

	out, err := r.HTML()
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)

	var keys []string
	doc.Find("#report-content section").Each(func(_ int, s *goquery.Selection) {
		k, _ := s.Attr("data-section")
		keys = append(keys, k)
	})
	assert.Equal(t, []string{"about", "experience", "skills", "completeness"}, keys)
}

func TestRender_ClassifiedLines(t *testing.T) {
	r, err := Render(uuid.New(), sampleResult(), nil)
	require.NoError(t, err)

	about := r.Section(types.SectionAbout)
	assert.Equal(t, "Score: 8/10", about.Find(".line-score").Text())
	assert.Equal(t, "Insight: good", about.Find(".line-insight").Text())
	assert.Equal(t, "Suggestions:", about.Find(".line-suggestions_header").Text())
	assert.Equal(t, 1, about.Find("ul").Length())
	assert.Equal(t, 2, about.Find("ul > li.line-suggestion").Length())
	assert.Equal(t, "improve bio", about.Find("li.line-suggestion").First().Text())
	assert.Equal(t, "random note", about.Find(".line-plain").Text())
}

func TestRender_Placeholder(t *testing.T) {
	r, err := Render(uuid.New(), sampleResult(), nil)
	require.NoError(t, err)

	for _, key := range []types.SectionKey{types.SectionSkills, types.SectionCompleteness} {
		assert.Equal(t, PlaceholderText, r.Section(key).Find(".placeholder").Text(), string(key))
	}
	assert.Zero(t, r.Section(types.SectionAbout).Find(".placeholder").Length())
}

func TestRender_ProgressWidthIsClamped(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{score: -5, want: "width: 0%"},
		{score: 50, want: "width: 50%"},
		{score: 150, want: "width: 100%"},
	}

	for _, tt := range tests {
		r, err := Render(uuid.New(), types.AnalysisResult{OverallScore: tt.score}, nil)
		require.NoError(t, err)

		style, ok := r.Section(types.SectionAbout).Find(".fill").Attr("style")
		require.True(t, ok)
		assert.True(t, strings.HasPrefix(style, tt.want), "score %d: %s", tt.score, style)
	}
}

func TestRender_GaugeAndHeadline(t *testing.T) {
	r, err := Render(uuid.New(), sampleResult(), &types.ProfileMeta{Name: "Jane Doe", Email: "jane@example.com"})
	require.NoError(t, err)

	out, err := r.HTML()
	require.NoError(t, err)
	assert.Contains(t, out, "Overall Profile Score: 72/100")
	assert.Contains(t, out, `src="data:image/png;base64,`)
	assert.Contains(t, out, `alt="72%"`)
	assert.Contains(t, out, "Jane Doe · jane@example.com")
}

func TestRender_EscapesSectionText(t *testing.T) {
	r, err := Render(uuid.New(), types.AnalysisResult{About: "Insight: <script>alert(1)</script>"}, nil)
	require.NoError(t, err)

	out, err := r.HTML()
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>alert(1)</script>")
	assert.Equal(t, 0, r.Section(types.SectionAbout).Find("script").Length())
}

func TestReport_RootIsReportContent(t *testing.T) {
	r, err := Render(uuid.New(), sampleResult(), nil)
	require.NoError(t, err)

	root := r.Root()
	require.NotNil(t, root)
	assert.Equal(t, "div", root.Data)

	var id string
	for _, a := range root.Attr {
		if a.Key == "id" {
			id = a.Val
		}
	}
	assert.Equal(t, RootID, id)
}

func TestReport_ExportLockBlocksReaders(t *testing.T) {
	r, err := Render(uuid.New(), sampleResult(), nil)
	require.NoError(t, err)

	lock := r.ExportLock()
	lock.Lock()

	done := make(chan string, 1)
	go func() {
		out, _ := r.HTML()
		done <- out
	}()

	root := r.Root()
	root.Attr = append(root.Attr, html.Attribute{Key: "data-busy", Val: "1"})
	select {
	case <-done:
		t.Fatal("reader ran while the export lock was held")
	case <-time.After(50 * time.Millisecond):
	}
	root.Attr = root.Attr[:len(root.Attr)-1]
	lock.Unlock()

	assert.NotContains(t, <-done, "data-busy")
}

func TestGroupBlocks(t *testing.T) {
	lines := classify.Classify("Suggestion 1: a\nSuggestion 2: b\nnote\nSuggestion 3: c")
	blocks := groupBlocks(lines)

	require.Len(t, blocks, 3)
	assert.True(t, blocks[0].List)
	assert.Len(t, blocks[0].Lines, 2)
	assert.False(t, blocks[1].List)
	assert.True(t, blocks[2].List)
}

func TestReport_Gauge(t *testing.T) {
	r, err := Render(uuid.New(), sampleResult(), nil)
	require.NoError(t, err)

	png, err := r.Gauge(2)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
}

func TestReport_SectionIsDetachedCopy(t *testing.T) {
	r, err := Render(uuid.New(), sampleResult(), nil)
	require.NoError(t, err)

	about := r.Section(types.SectionAbout)
	before, err := goquery.OuterHtml(about)
	require.NoError(t, err)

	// neutralize the live DOM the way an export does
	lock := r.ExportLock()
	lock.Lock()
	for n := range r.Root().Descendants() {
		if n.Type == html.ElementNode {
			n.Attr = append(n.Attr, html.Attribute{Key: "data-neutral", Val: "1"})
		}
	}
	lock.Unlock()

	after, err := goquery.OuterHtml(about)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.NotContains(t, after, "data-neutral")
	assert.Nil(t, about.Get(0).Parent)
}
