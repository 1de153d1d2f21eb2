package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankMinDescendingTies(t *testing.T) {
	assert.Equal(t, []int{1, 1, 3}, rankMin([]float64{90, 90, 85}, true))
}

func TestRankMinAscending(t *testing.T) {
	assert.Equal(t, []int{1, 3, 1}, rankMin([]float64{10, 12, 10}, false))
}

func TestRankMinSingleValue(t *testing.T) {
	assert.Equal(t, []int{1}, rankMin([]float64{42}, true))
}

func TestRankMinEmpty(t *testing.T) {
	assert.Empty(t, rankMin(nil, true))
}
