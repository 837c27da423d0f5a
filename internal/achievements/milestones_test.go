package achievements

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCityMilestone(t *testing.T) {
	m := CityMilestone(100)
	require.NotNil(t, m)
	assert.Equal(t, "Географ", m.Name)

	m = CityMilestone(500)
	require.NotNil(t, m)
	assert.Equal(t, "Геополитик", m.Name)

	// Exact thresholds only; crossing past one later does not re-trigger.
	assert.Nil(t, CityMilestone(99))
	assert.Nil(t, CityMilestone(101))
	assert.Nil(t, CityMilestone(0))
}

func TestWinMilestone(t *testing.T) {
	m := WinMilestone(10)
	require.NotNil(t, m)
	assert.Equal(t, "Чемпион", m.Name)

	assert.Nil(t, WinMilestone(9))
	assert.Nil(t, WinMilestone(11))
}
