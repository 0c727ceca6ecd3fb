package export

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	cause := errors.New("chrome exited")
	err := &Error{Stage: StageCapture, Cause: cause}

	assert.Equal(t, "export failed at capture: chrome exited", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "export failed at deliver", (&Error{Stage: StageDeliver}).Error())
}

func TestStageError_KeepsInnermostStage(t *testing.T) {
	inner := &Error{Stage: StagePaginate, Cause: errors.New("empty raster")}

	got := stageError(StageAssemble, inner)

	var e *Error
	assert.True(t, errors.As(got, &e))
	assert.Equal(t, StagePaginate, e.Stage)
	assert.Nil(t, stageError(StageAssemble, nil))
}
