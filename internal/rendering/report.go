package rendering

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/jonathan/profile-report/internal/classify"
	"github.com/jonathan/profile-report/internal/score"
	"github.com/jonathan/profile-report/internal/types"
	"golang.org/x/net/html"
)

// RootID is the element id of the exportable report subtree
const RootID = "report-content"

// PlaceholderText is shown for sections without content
const PlaceholderText = "No content available for this section."

//go:embed templates/report.html.tmpl
var templateFS embed.FS

var reportTemplate = template.Must(template.ParseFS(templateFS, "templates/report.html.tmpl"))

// Report is a rendered, live report DOM. Readers serialize it under a shared
// lock; exporters mutate it under the exclusive lock.
type Report struct {
	ID        uuid.UUID
	Result    types.AnalysisResult
	Meta      *types.ProfileMeta
	CreatedAt time.Time

	mu   sync.RWMutex
	doc  *goquery.Document
	root *html.Node
}

// pageData is the view model handed to the template
type pageData struct {
	ID         uuid.UUID
	Title      string
	Score      int
	ScoreLabel string
	GaugeURI   template.URL
	FillStyle  template.CSS
	Meta       *types.ProfileMeta
	Sections   []sectionView
}

type sectionView struct {
	Key    types.SectionKey
	Empty  bool
	Blocks []block
}

// block groups consecutive lines; suggestion runs render as one list
type block struct {
	List  bool
	Lines []lineView
}

type lineView struct {
	Kind string
	Text string
}

// Render builds the report DOM for result. The result is copied and never modified.
func Render(id uuid.UUID, result types.AnalysisResult, meta *types.ProfileMeta) (*Report, error) {
	data, err := buildPageData(id, &result, meta)
	if err != nil {
		return nil, &RenderError{
			ReportID: id,
			Message:  "failed to build page data",
			Cause:    err,
		}
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return nil, &TemplateError{
			Template: reportTemplate.Name(),
			Cause:    err,
		}
	}

	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		return nil, &RenderError{
			ReportID: id,
			Message:  "failed to parse rendered report",
			Cause:    err,
		}
	}

	root := doc.Find("#" + RootID)
	if root.Length() != 1 {
		return nil, &RenderError{ReportID: id, Message: fmt.Sprintf("expected one #%s element, found %d", RootID, root.Length())}
	}

	return &Report{
		ID:        id,
		Result:    result,
		Meta:      meta,
		CreatedAt: time.Now().UTC(),
		doc:       doc,
		root:      root.Get(0),
	}, nil
}

func buildPageData(id uuid.UUID, result *types.AnalysisResult, meta *types.ProfileMeta) (*pageData, error) {
	pair := score.GradientFor(result.OverallScore)

	gauge, err := score.EncodePNG(score.RenderGauge(result.OverallScore, pair, score.GaugeOptions{}))
	if err != nil {
		return nil, err
	}

	start, end := pair.Hex()
	data := &pageData{
		ID:         id,
		Title:      "LinkedIn Profile Report",
		Score:      result.OverallScore,
		ScoreLabel: score.Label(result.OverallScore),
		GaugeURI:   template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(gauge)),
		FillStyle:  template.CSS(fmt.Sprintf("width: %d%%; background-image: linear-gradient(90deg, %s, %s)", score.ProgressWidth(result.OverallScore), start, end)),
		Meta:       meta,
	}

	for _, key := range types.SectionKeys() {
		lines := classify.ClassifySection(result, key)
		data.Sections = append(data.Sections, sectionView{
			Key:    key,
			Empty:  len(lines) == 0,
			Blocks: groupBlocks(lines),
		})
	}

	return data, nil
}

// groupBlocks folds consecutive suggestion lines into list blocks.
func groupBlocks(lines []classify.ClassifiedLine) []block {
	var blocks []block
	for _, line := range lines {
		isList := line.Kind == classify.KindSuggestion
		view := lineView{Kind: line.Kind.String(), Text: line.Text}

		if n := len(blocks); n > 0 && blocks[n-1].List == isList && isList {
			blocks[n-1].Lines = append(blocks[n-1].Lines, view)
			continue
		}
		blocks = append(blocks, block{List: isList, Lines: []lineView{view}})
	}
	return blocks
}

// Root returns the exportable report subtree.
func (r *Report) Root() *html.Node {
	return r.root
}

// HTML serializes the live document.
func (r *Report) HTML() (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out, err := r.doc.Html()
	if err != nil {
		return "", &RenderError{ReportID: r.ID, Message: "failed to serialize report", Cause: err}
	}
	return out, nil
}

// Section returns a detached copy of the rendered element for key. The copy
// is taken under the read lock, so it never reflects an export in progress
// and later exports never reach it.
func (r *Report) Section(key types.SectionKey) *goquery.Selection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.doc.Find("#section-" + string(key)).Clone()
}

// ExportLock returns the writer side of the report lock. Holding it keeps
// views from observing a neutralized DOM while an export runs.
func (r *Report) ExportLock() sync.Locker {
	return &r.mu
}

// Gauge renders the score gauge as PNG at the given scale.
func (r *Report) Gauge(scale float64) ([]byte, error) {
	pair := score.GradientFor(r.Result.OverallScore)
	return score.EncodePNG(score.RenderGauge(r.Result.OverallScore, pair, score.GaugeOptions{Scale: scale}))
}
