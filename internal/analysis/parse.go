package analysis

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/profile-report/internal/types"
)

var (
	overallScorePattern = regexp.MustCompile(`(?i)^overall score[:\s]*([0-9]{1,3})`)

	sectionHeaders = []struct {
		pattern *regexp.Regexp
		key     types.SectionKey
	}{
		{regexp.MustCompile(`(?i)^about[:\s]*$`), types.SectionAbout},
		{regexp.MustCompile(`(?i)^experience[:\s]*$`), types.SectionExperience},
		{regexp.MustCompile(`(?i)^skills[:\s]*$`), types.SectionSkills},
		{regexp.MustCompile(`(?i)^(completeness|structure|formatting)[:\s]*$`), types.SectionCompleteness},
	}
)

// PointsPerSection is the fallback score credited for each non-empty section
// when the text carries no overall score.
const PointsPerSection = 25

// ParseResponse splits free-form analysis text into sections. Lines before
// the first header are dropped; a missing or zero overall score falls back
// to PointsPerSection per non-empty section.
func ParseResponse(raw string) types.AnalysisResult {
	var result types.AnalysisResult

	var current types.SectionKey
	var buffer []string

	flush := func() {
		if current != "" && len(buffer) > 0 {
			text := result.Section(current) + strings.TrimSpace(strings.Join(buffer, "\n")) + "\n"
			result.SetSection(current, text)
		}
		buffer = buffer[:0]
	}

	scanner := bufio.NewScanner(strings.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

lines:
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if m := overallScorePattern.FindStringSubmatch(line); m != nil {
			flush()
			result.OverallScore, _ = strconv.Atoi(m[1])
			current = ""
			continue
		}

		for _, h := range sectionHeaders {
			if h.pattern.MatchString(line) {
				flush()
				current = h.key
				continue lines
			}
		}

		if current != "" {
			buffer = append(buffer, line)
		}
	}
	flush()

	if result.OverallScore == 0 {
		result.OverallScore = result.NonEmptySections() * PointsPerSection
	}

	return result
}
