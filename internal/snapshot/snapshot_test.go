package snapshot

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const themedPage = `<!DOCTYPE html>
<html><head><title>t</title></head>
<body style="background-color: #fff7ed">
<div id="report-content" class="card" style="background-image: linear-gradient(90deg, #f97316, #ef4444); color: rgba(0,0,0,.8); padding: 24px">
  <p class="score" style="color:#ea580c;font-weight:bold">Score: 8/10</p>
  <p class="insight">Insight: good</p>
  <div class="bar"><div class="fill" style="width: 72%; box-shadow: 0 0 8px #f97316; filter: blur(1px)"></div></div>
  <img alt="gauge" src="data:image/png;base64,AAAA" style="background: url('a;b.png')">
</div>
<footer style="color: red">outside</footer>
</body></html>`

func parse(t *testing.T, page string) (*goquery.Document, *html.Node) {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	root := doc.Find("#report-content")
	require.Equal(t, 1, root.Length())
	return doc, root.Get(0)
}

func render(t *testing.T, doc *goquery.Document) string {
	t.Helper()
	out, err := doc.Html()
	require.NoError(t, err)
	return out
}

func TestBeginEnd_IsIdentity(t *testing.T) {
	doc, root := parse(t, themedPage)
	before := render(t, doc)

	snap := Begin(root)
	assert.NotEqual(t, before, render(t, doc))
	snap.End()

	assert.Equal(t, before, render(t, doc))
	assert.Zero(t, snap.Skipped())
}

func TestBegin_NeutralizesEveryElementInSubtree(t *testing.T) {
	doc, root := parse(t, themedPage)

	snap := Begin(root)
	defer snap.End()

	// root, p, p, div.bar, div.fill, img
	assert.Equal(t, 6, snap.Len())

	doc.Find("#report-content, #report-content *").Each(func(_ int, sel *goquery.Selection) {
		style, ok := sel.Attr("style")
		require.True(t, ok)
		decls := parseStyle(style)
		for prop, want := range NeutralValues {
			got, found := decls.get(string(prop))
			assert.True(t, found, "%s missing on <%s>", prop, goquery.NodeName(sel))
			assert.Equal(t, want, got)
		}
	})
}

func TestBegin_LeavesOutsideSubtreeAlone(t *testing.T) {
	doc, root := parse(t, themedPage)

	snap := Begin(root)
	defer snap.End()

	footer, _ := doc.Find("footer").Attr("style")
	assert.Equal(t, "color: red", footer)
	body, _ := doc.Find("body").Attr("style")
	assert.Equal(t, "background-color: #fff7ed", body)
}

func TestBegin_PreservesUnmanagedDeclarations(t *testing.T) {
	doc, root := parse(t, themedPage)

	snap := Begin(root)
	defer snap.End()

	style, _ := doc.Find(".fill").Attr("style")
	decls := parseStyle(style)
	width, ok := decls.get("width")
	assert.True(t, ok)
	assert.Equal(t, "72%", width)
}

func TestEnd_RestoresAfterIntermediateMutation(t *testing.T) {
	doc, root := parse(t, themedPage)

	snap := Begin(root)
	fill := doc.Find(".fill")
	fill.SetAttr("style", "width: 10%; color: green; filter: none")
	doc.Find(".insight").SetAttr("style", "color: blue")
	snap.End()

	style, _ := fill.Attr("style")
	decls := parseStyle(style)
	shadow, _ := decls.get("box-shadow")
	filter, _ := decls.get("filter")
	width, _ := decls.get("width")
	_, hasColor := decls.get("color")
	_, hasBg := decls.get("background-color")

	assert.Equal(t, "0 0 8px #f97316", shadow)
	assert.Equal(t, "blur(1px)", filter)
	assert.Equal(t, "10%", width)
	assert.False(t, hasColor, "color was not inline before Begin")
	assert.False(t, hasBg)

	_, insightStyled := doc.Find(".insight").Attr("style")
	assert.False(t, insightStyled, "managed-only style should be dropped entirely")
}

func TestEnd_SkipsDetachedNodes(t *testing.T) {
	doc, root := parse(t, themedPage)

	snap := Begin(root)
	doc.Find(".score").Remove()
	assert.NotPanics(t, snap.End)

	assert.Equal(t, 1, snap.Skipped())
	style, _ := doc.Find(".insight").Attr("style")
	assert.Empty(t, style)
	rootStyle, _ := doc.Find("#report-content").Attr("style")
	assert.Equal(t, "background-image: linear-gradient(90deg, #f97316, #ef4444); color: rgba(0,0,0,.8); padding: 24px", rootStyle)
}

func TestEnd_IsIdempotent(t *testing.T) {
	doc, root := parse(t, themedPage)
	before := render(t, doc)

	snap := Begin(root)
	snap.End()
	doc.Find(".score").SetAttr("style", "color: purple")
	snap.End()

	style, _ := doc.Find(".score").Attr("style")
	assert.Equal(t, "color: purple", style)
	assert.NotEqual(t, before, render(t, doc))
}

func TestDo_RestoresOnError(t *testing.T) {
	doc, root := parse(t, themedPage)
	before := render(t, doc)

	err := Do(root, func() error {
		style, _ := doc.Find("#report-content").Attr("style")
		assert.Contains(t, style, "background-image: none")
		return errors.New("rasterizer exploded")
	})

	assert.EqualError(t, err, "rasterizer exploded")
	assert.Equal(t, before, render(t, doc))
}

func TestDo_RestoresOnPanic(t *testing.T) {
	doc, root := parse(t, themedPage)
	before := render(t, doc)

	assert.Panics(t, func() {
		_ = Do(root, func() error { panic("boom") })
	})
	assert.Equal(t, before, render(t, doc))
}

func TestBegin_NilRoot(t *testing.T) {
	snap := Begin(nil)
	assert.Zero(t, snap.Len())
	assert.NotPanics(t, snap.End)
}
