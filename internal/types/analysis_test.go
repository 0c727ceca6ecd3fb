package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionKeys_Order(t *testing.T) {
	assert.Equal(t, []SectionKey{"about", "experience", "skills", "completeness"}, SectionKeys())
}

func TestAnalysisResult_Section(t *testing.T) {
	r := &AnalysisResult{About: "a", Experience: "e", Skills: "s", Completeness: "c"}

	assert.Equal(t, "a", r.Section(SectionAbout))
	assert.Equal(t, "e", r.Section(SectionExperience))
	assert.Equal(t, "s", r.Section(SectionSkills))
	assert.Equal(t, "c", r.Section(SectionCompleteness))
	assert.Equal(t, "", r.Section("education"))
}

func TestAnalysisResult_SectionOnNil(t *testing.T) {
	var r *AnalysisResult
	assert.Equal(t, "", r.Section(SectionAbout))
}

func TestAnalysisResult_SetSection(t *testing.T) {
	var r AnalysisResult
	r.SetSection(SectionSkills, "Go")
	r.SetSection("unknown", "ignored")

	assert.Equal(t, "Go", r.Skills)
	assert.Equal(t, 1, r.NonEmptySections())
}

func TestUploadResponse_MissingKeysAreAbsent(t *testing.T) {
	body := `{"suggestions": {"overallscore": 72, "about": "Score: 7/10"}, "meta": {"name": "Jane Doe"}}`

	var resp UploadResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.NotNil(t, resp.Suggestions)

	assert.Equal(t, 72, resp.Suggestions.OverallScore)
	assert.Equal(t, "Score: 7/10", resp.Suggestions.About)
	assert.Empty(t, resp.Suggestions.Experience)
	assert.Empty(t, resp.Suggestions.Skills)
	assert.Empty(t, resp.Suggestions.Completeness)
	assert.Equal(t, "Jane Doe", resp.Meta.Name)
}

func TestUploadResponse_ErrorBody(t *testing.T) {
	var resp UploadResponse
	require.NoError(t, json.Unmarshal([]byte(`{"error": "No file provided"}`), &resp))

	assert.Nil(t, resp.Suggestions)
	assert.Equal(t, "No file provided", resp.Error)
}
