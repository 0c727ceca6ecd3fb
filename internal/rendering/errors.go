// Package rendering builds the HTML report DOM from an analysis result.
package rendering

import (
	"fmt"

	"github.com/google/uuid"
)

// TemplateError reports a failure executing the embedded report template.
type TemplateError struct {
	Template string
	Cause    error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("report template %q: %v", e.Template, e.Cause)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError reports a failure building or serializing one report's DOM.
type RenderError struct {
	ReportID uuid.UUID
	Message  string
	Cause    error
}

func (e *RenderError) Error() string {
	msg := fmt.Sprintf("report %s: %s", e.ReportID, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
