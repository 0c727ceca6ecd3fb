package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/profile-report/internal/types"
)

// DefaultListLimit caps ListReports when no limit is given
const DefaultListLimit = 50

// Report represents a stored report record
type Report struct {
	ID         uuid.UUID            `json:"id"`
	Result     types.AnalysisResult `json:"result"`
	Meta       *types.ProfileMeta   `json:"meta,omitempty"`
	Filename   string               `json:"filename,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
	ExportedAt *time.Time           `json:"exported_at,omitempty"`
}

// Summary returns the listing view of the record.
func (r *Report) Summary() types.ReportSummary {
	s := types.ReportSummary{
		ID:           r.ID,
		Filename:     r.Filename,
		OverallScore: r.Result.OverallScore,
		CreatedAt:    r.CreatedAt,
		ExportedAt:   r.ExportedAt,
	}
	if r.Meta != nil {
		s.Name = r.Meta.Name
		s.Email = r.Meta.Email
		s.LinkedIn = r.Meta.LinkedIn
	}
	return s
}

// metaColumns flattens optional meta into column values
func metaColumns(meta *types.ProfileMeta) (name, email, linkedin string) {
	if meta == nil {
		return "", "", ""
	}
	return meta.Name, meta.Email, meta.LinkedIn
}

// metaFromColumns returns nil when every column is empty
func metaFromColumns(name, email, linkedin string) *types.ProfileMeta {
	if name == "" && email == "" && linkedin == "" {
		return nil
	}
	return &types.ProfileMeta{Name: name, Email: email, LinkedIn: linkedin}
}
