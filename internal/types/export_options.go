// Package types provides type definitions for structured data used throughout the profile-report system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// DefaultExportFilename is the name given to exported reports
const DefaultExportFilename = "linkedin_report.pdf"

// DefaultExportScale is the capture scale factor used for rasterization
const DefaultExportScale = 3.0

// ExportOptions represents the caller-controlled knobs of a PDF export.
type ExportOptions struct {
	Filename string  `json:"filename" validate:"required,max=255,endswith=.pdf,excludesall=/\\"`
	Scale    float64 `json:"scale" validate:"gte=1,lte=4"`
}

// DefaultExportOptions returns the options used when the caller provides none.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Filename: DefaultExportFilename,
		Scale:    DefaultExportScale,
	}
}

// Validate validates the ExportOptions using the validator.
func (o *ExportOptions) Validate() error {
	validate := validator.New()
	return validate.Struct(o)
}

// CreateReportRequest represents a request to create a report from an analysis result.
// Either the bare result or the service envelope ({"suggestions": ...}) is accepted.
type CreateReportRequest struct {
	Suggestions *AnalysisResult `json:"suggestions" validate:"required"`
	Meta        *ProfileMeta    `json:"meta,omitempty"`
}

// Validate validates the CreateReportRequest using the validator.
func (r *CreateReportRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ReportSummary is the listing view of a stored report.
type ReportSummary struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name,omitempty"`
	Email        string     `json:"email,omitempty"`
	LinkedIn     string     `json:"linkedin,omitempty"`
	Filename     string     `json:"filename,omitempty"`
	OverallScore int        `json:"score"`
	CreatedAt    time.Time  `json:"timestamp"`
	ExportedAt   *time.Time `json:"exported_at,omitempty"`
}
