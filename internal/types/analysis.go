// Package types provides type definitions for structured data used throughout the profile-report system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// SectionKey names one category of analysis feedback
type SectionKey string

// Section keys in report order
const (
	SectionAbout        SectionKey = "about"
	SectionExperience   SectionKey = "experience"
	SectionSkills       SectionKey = "skills"
	SectionCompleteness SectionKey = "completeness"
)

// SectionKeys returns the fixed section set in the order sections are rendered.
func SectionKeys() []SectionKey {
	return []SectionKey{SectionAbout, SectionExperience, SectionSkills, SectionCompleteness}
}

// AnalysisResult is the payload produced by the remote analysis service.
// Missing keys decode to empty strings and are treated as absent content.
type AnalysisResult struct {
	OverallScore int    `json:"overallscore"`
	About        string `json:"about,omitempty"`
	Experience   string `json:"experience,omitempty"`
	Skills       string `json:"skills,omitempty"`
	Completeness string `json:"completeness,omitempty"`
}

// Section returns the raw text stored under key, or "" for unknown keys.
func (r *AnalysisResult) Section(key SectionKey) string {
	if r == nil {
		return ""
	}
	switch key {
	case SectionAbout:
		return r.About
	case SectionExperience:
		return r.Experience
	case SectionSkills:
		return r.Skills
	case SectionCompleteness:
		return r.Completeness
	default:
		return ""
	}
}

// SetSection stores text under key. Unknown keys are ignored.
func (r *AnalysisResult) SetSection(key SectionKey, text string) {
	switch key {
	case SectionAbout:
		r.About = text
	case SectionExperience:
		r.Experience = text
	case SectionSkills:
		r.Skills = text
	case SectionCompleteness:
		r.Completeness = text
	}
}

// NonEmptySections counts sections that carry any content.
func (r *AnalysisResult) NonEmptySections() int {
	count := 0
	for _, key := range SectionKeys() {
		if r.Section(key) != "" {
			count++
		}
	}
	return count
}

// ProfileMeta holds contact details the analysis service extracted from the profile
type ProfileMeta struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// UploadResponse is the JSON body returned by the analysis service's /upload endpoint
type UploadResponse struct {
	Suggestions *AnalysisResult `json:"suggestions"`
	Meta        *ProfileMeta    `json:"meta,omitempty"`
	Error       string          `json:"error,omitempty"`
}
