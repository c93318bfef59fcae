package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageIndex(t *testing.T) {
	t.Parallel()
	i, ok := StageIndex(StageIdea)
	require.True(t, ok)
	assert.Equal(t, 0, i)

	j, ok := StageIndex(StageMature)
	require.True(t, ok)
	assert.Equal(t, len(Stages())-1, j)

	_, ok = StageIndex(Stage("unicorn"))
	assert.False(t, ok)
}

func TestStageDistance(t *testing.T) {
	t.Parallel()
	d, ok := StageDistance(StageSeed, StageSeriesA)
	require.True(t, ok)
	assert.Equal(t, 1, d)

	d, ok = StageDistance(StageGrowth, StageIdea)
	require.True(t, ok)
	assert.Equal(t, 6, d)

	_, ok = StageDistance(StageSeed, Stage("unknown"))
	assert.False(t, ok)
}

func TestStagesOrdering(t *testing.T) {
	t.Parallel()
	st := Stages()
	require.Len(t, st, 8)
	assert.Equal(t, StageIdea, st[0])
	assert.Equal(t, StageMVP, st[1])
	assert.Equal(t, StagePreSeed, st[2])
	assert.Equal(t, StageSeed, st[3])
}
