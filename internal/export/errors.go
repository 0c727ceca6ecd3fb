// Package export turns a live report subtree into a static, print-safe PDF.
package export

import (
	"errors"
	"fmt"
)

// Stage names the export step that failed
type Stage string

const (
	StageValidate  Stage = "validate"
	StageSerialize Stage = "serialize"
	StageCapture   Stage = "capture"
	StagePaginate  Stage = "paginate"
	StageAssemble  Stage = "assemble"
	StageDeliver   Stage = "deliver"
)

// ErrExportInProgress is returned when the same subtree is already being exported
var ErrExportInProgress = errors.New("export already in progress for this report")

// ErrNoRoot is returned when Export is called without a subtree
var ErrNoRoot = errors.New("export root is nil")

// Error represents a failed export step
type Error struct {
	Stage Stage
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("export failed at %s: %v", e.Stage, e.Cause)
	}
	return fmt.Sprintf("export failed at %s", e.Stage)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func stageError(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		return err
	}
	return &Error{Stage: stage, Cause: err}
}
