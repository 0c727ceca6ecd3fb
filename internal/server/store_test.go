package server

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/profile-report/internal/rendering"
	"github.com/jonathan/profile-report/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRender(t *testing.T, score int, created time.Time) *rendering.Report {
	t.Helper()
	r, err := rendering.Render(uuid.New(), types.AnalysisResult{OverallScore: score}, &types.ProfileMeta{Name: "Jane"})
	require.NoError(t, err)
	r.CreatedAt = created
	return r
}

func TestStore_PutIfAbsentKeepsExisting(t *testing.T) {
	s := newStore()
	first := mustRender(t, 10, time.Now())
	s.put(first)

	dup, err := rendering.Render(first.ID, types.AnalysisResult{OverallScore: 99}, nil)
	require.NoError(t, err)

	got := s.putIfAbsent(dup)
	assert.Same(t, first, got)

	stored, ok := s.get(first.ID)
	require.True(t, ok)
	assert.Equal(t, 10, stored.Result.OverallScore)
}

func TestStore_SummariesNewestFirst(t *testing.T) {
	s := newStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.put(mustRender(t, 1, base))
	s.put(mustRender(t, 3, base.Add(2*time.Hour)))
	s.put(mustRender(t, 2, base.Add(time.Hour)))

	list := s.summaries()
	require.Len(t, list, 3)
	assert.Equal(t, []int{3, 2, 1}, []int{list[0].OverallScore, list[1].OverallScore, list[2].OverallScore})
	assert.Equal(t, "Jane", list[0].Name)
}

func TestStore_GetMissing(t *testing.T) {
	_, ok := newStore().get(uuid.New())
	assert.False(t, ok)
}
