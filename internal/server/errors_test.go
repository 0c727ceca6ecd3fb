package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/profile-report/internal/analysis"
	"github.com/jonathan/profile-report/internal/export"
	"github.com/stretchr/testify/assert"
)

func TestErrReportNotFound(t *testing.T) {
	id := uuid.New()
	err := &ErrReportNotFound{ID: id}
	assert.Equal(t, "report not found: "+id.String(), err.Error())
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "filename", Message: "must end in .pdf"}
	assert.Equal(t, "validation error: filename - must end in .pdf", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "wrapped not found",
			err:      fmt.Errorf("lookup: %w", &ErrReportNotFound{ID: uuid.New()}),
			expected: http.StatusNotFound,
		},
		{
			name:     "export in flight",
			err:      export.ErrExportInProgress,
			expected: http.StatusConflict,
		},
		{
			name:     "export validation",
			err:      &export.Error{Stage: export.StageValidate, Cause: errors.New("bad name")},
			expected: http.StatusBadRequest,
		},
		{
			name:     "export capture",
			err:      &export.Error{Stage: export.StageCapture, Cause: errors.New("no chrome")},
			expected: http.StatusInternalServerError,
		},
		{
			name:     "analysis service failure",
			err:      &analysis.Error{URL: "http://x/upload", Message: "down"},
			expected: http.StatusBadGateway,
		},
		{
			name:     "not a pdf",
			err:      &analysis.Error{URL: "http://x/upload", Message: "refusing", Cause: analysis.ErrNotPDF},
			expected: http.StatusBadRequest,
		},
		{
			name:     "unknown",
			err:      errors.New("boom"),
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}
