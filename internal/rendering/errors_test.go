package rendering

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRenderError(t *testing.T) {
	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	cause := errors.New("boom")

	err := &RenderError{ReportID: id, Message: "failed to serialize report", Cause: cause}
	assert.Equal(t, "report 11111111-2222-3333-4444-555555555555: failed to serialize report: boom", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := &RenderError{ReportID: id, Message: "no root"}
	assert.Equal(t, "report 11111111-2222-3333-4444-555555555555: no root", bare.Error())
}

func TestTemplateError(t *testing.T) {
	cause := errors.New("missing field")
	err := &TemplateError{Template: "report.html.tmpl", Cause: cause}

	assert.Equal(t, `report template "report.html.tmpl": missing field`, err.Error())
	assert.ErrorIs(t, err, cause)
}
