// Package analysis talks to the remote profile analysis service and parses
// its free-form output into an AnalysisResult.
package analysis

import "fmt"

// Error represents a failed analysis request
type Error struct {
	URL        string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("analysis error for %s: %s: %v", e.URL, msg, e.Cause)
	}
	return fmt.Sprintf("analysis error for %s: %s", e.URL, msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
