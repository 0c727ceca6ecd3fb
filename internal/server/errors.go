// Package server provides the HTTP REST API for profile reports.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/profile-report/internal/analysis"
	"github.com/jonathan/profile-report/internal/export"
)

// ErrReportNotFound indicates the report does not exist
type ErrReportNotFound struct {
	ID uuid.UUID
}

func (e *ErrReportNotFound) Error() string {
	return fmt.Sprintf("report not found: %s", e.ID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		notFound    *ErrReportNotFound
		validation  *ErrValidation
		analysisErr *analysis.Error
		exportErr   *export.Error
	)

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, export.ErrExportInProgress):
		return http.StatusConflict
	case errors.Is(err, analysis.ErrNotPDF):
		return http.StatusBadRequest
	case errors.As(err, &analysisErr):
		return http.StatusBadGateway
	case errors.As(err, &exportErr) && exportErr.Stage == export.StageValidate:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
