// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/profile-report/internal/classify"
	"github.com/jonathan/profile-report/internal/score"
	"github.com/jonathan/profile-report/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// barWidth is the number of cells in the score bar
	barWidth = 40
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads s to the box content width, counting runes.
func pad(s string) string {
	width := boxWidth - 4
	n := utf8.RuneCountInString(s)
	if n > width {
		runes := []rune(s)
		return string(runes[:width-3]) + "..."
	}
	return s + strings.Repeat(" ", width-n)
}

// ScoreBar renders a clamped score as a fixed-width text bar.
func ScoreBar(value int) string {
	filled := score.ProgressWidth(value) * barWidth / 100
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled) + "]"
}

// band names the gradient band a score falls into
func band(value int) string {
	switch {
	case value <= 40:
		return "needs work"
	case value <= 75:
		return "fair"
	default:
		return "strong"
	}
}

// PrintReport outputs the overall score followed by each classified section.
func (p *Printer) PrintReport(result *types.AnalysisResult, meta *types.ProfileMeta) {
	if result == nil {
		return
	}

	var sb strings.Builder
	if meta != nil && meta.Name != "" {
		sb.WriteString(fmt.Sprintf("Profile:  %s\n", meta.Name))
	}
	sb.WriteString(fmt.Sprintf("Score:    %d/100 (%s)\n", result.OverallScore, band(result.OverallScore)))
	sb.WriteString(ScoreBar(result.OverallScore))
	p.printBox("LINKEDIN PROFILE REPORT", sb.String())

	for _, key := range types.SectionKeys() {
		p.PrintSection(key, classify.ClassifySection(result, key))
	}
}

// PrintSection outputs one section's classified lines.
func (p *Printer) PrintSection(key types.SectionKey, lines []classify.ClassifiedLine) {
	title := strings.ToUpper(string(key))
	if len(lines) == 0 {
		p.printBox(title, "No content available for this section.")
		return
	}

	var sb strings.Builder
	for _, line := range lines {
		switch line.Kind {
		case classify.KindScore, classify.KindInsight:
			sb.WriteString(fmt.Sprintf("%s\n", line.Text))
		case classify.KindSuggestionsHeader:
			sb.WriteString(fmt.Sprintf("\n%s\n", line.Text))
		case classify.KindSuggestion:
			sb.WriteString(fmt.Sprintf("  • %s\n", line.Text))
		default:
			sb.WriteString(fmt.Sprintf("  %s\n", line.Text))
		}
	}
	p.printBox(title, sb.String())
}

// PrintExport outputs where an exported PDF went.
func (p *Printer) PrintExport(path string, pages, size int) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File:   %s\n", path))
	sb.WriteString(fmt.Sprintf("Pages:  %d\n", pages))
	sb.WriteString(fmt.Sprintf("Size:   %d bytes", size))
	p.printBox("PDF EXPORTED", sb.String())
}

// PrintReportList outputs a summary table of stored reports.
func (p *Printer) PrintReportList(reports []types.ReportSummary) {
	if len(reports) == 0 {
		p.printBox("REPORTS", "No reports stored.")
		return
	}

	var sb strings.Builder
	count := min(len(reports), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := reports[i]
		name := r.Name
		if name == "" {
			name = "(unnamed)"
		}
		sb.WriteString(fmt.Sprintf("%3d  %-24s %s\n", r.OverallScore, name, r.CreatedAt.Format("2006-01-02 15:04")))
	}
	if len(reports) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(reports)-maxItemsToShow))
	}
	p.printBox(fmt.Sprintf("REPORTS (%d)", len(reports)), sb.String())
}
