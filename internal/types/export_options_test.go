package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExportOptions_Defaults(t *testing.T) {
	opts := DefaultExportOptions()

	assert.Equal(t, "linkedin_report.pdf", opts.Filename)
	assert.Equal(t, 3.0, opts.Scale)
	assert.NoError(t, opts.Validate())
}

func TestExportOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    ExportOptions
		wantErr bool
	}{
		{name: "valid", opts: ExportOptions{Filename: "report.pdf", Scale: 2}},
		{name: "missing filename", opts: ExportOptions{Scale: 3}, wantErr: true},
		{name: "wrong extension", opts: ExportOptions{Filename: "report.png", Scale: 3}, wantErr: true},
		{name: "path separator", opts: ExportOptions{Filename: "../etc/report.pdf", Scale: 3}, wantErr: true},
		{name: "backslash", opts: ExportOptions{Filename: `..\report.pdf`, Scale: 3}, wantErr: true},
		{name: "scale too low", opts: ExportOptions{Filename: "report.pdf", Scale: 0.5}, wantErr: true},
		{name: "scale too high", opts: ExportOptions{Filename: "report.pdf", Scale: 8}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateReportRequest_Validate(t *testing.T) {
	valid := CreateReportRequest{Suggestions: &AnalysisResult{OverallScore: 50}}
	assert.NoError(t, valid.Validate())

	missing := CreateReportRequest{}
	assert.Error(t, missing.Validate())
}
