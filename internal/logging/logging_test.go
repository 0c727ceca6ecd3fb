package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Level(t *testing.T) {
	prev := L()
	t.Cleanup(func() { SetLogger(prev) })

	require.NoError(t, Init("debug", ""))
	assert.Equal(t, logrus.DebugLevel, L().GetLevel())

	require.NoError(t, Init("not-a-level", ""))
	assert.Equal(t, logrus.InfoLevel, L().GetLevel())
}

func TestInit_File(t *testing.T) {
	prev := L()
	t.Cleanup(func() { SetLogger(prev) })

	path := filepath.Join(t.TempDir(), "report.log")
	require.NoError(t, Init("info", path))

	L().WithField("report_id", "abc").Info("exported")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "exported")
	assert.Contains(t, string(data), "report_id=abc")
}

func TestInit_BadFile(t *testing.T) {
	err := Init("info", filepath.Join(t.TempDir(), "missing", "dir", "x.log"))
	assert.Error(t, err)
}
