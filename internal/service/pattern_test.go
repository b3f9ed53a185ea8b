package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBlockPattern(t *testing.T) {
	assert.Equal(t, []int{2, 2, 1}, ParseBlockPattern("2+2+1"))
	assert.Equal(t, []int{3}, ParseBlockPattern("3"))
	assert.Equal(t, []int{2, 1}, ParseBlockPattern("2, 1"))
	assert.Equal(t, []int{2}, ParseBlockPattern(""))
	assert.Equal(t, []int{2}, ParseBlockPattern("abc"))
	assert.Equal(t, []int{2}, ParseBlockPattern("0+0"))
	assert.Equal(t, []int{4}, ParseBlockPattern("0+4"))
}

func TestExpandBlockPattern(t *testing.T) {
	assert.Equal(t, []int{2, 2, 1}, ExpandBlockPattern([]int{2, 2, 1}, 5))
	assert.Equal(t, []int{2, 2, 1, 2}, ExpandBlockPattern([]int{2, 2, 1}, 7))
	assert.Equal(t, []int{3, 3, 1}, ExpandBlockPattern([]int{3}, 7))
	assert.Nil(t, ExpandBlockPattern([]int{2, 2, 1}, 0))
	assert.Equal(t, []int{2, 2}, ExpandBlockPattern(nil, 4))
	assert.Equal(t, []int{2, 1}, ExpandBlockPattern([]int{0, 0}, 3))
}

func TestExpandBlockPatternSumInvariant(t *testing.T) {
	patterns := [][]int{{2}, {2, 2, 1}, {3}, {1}, {4, 2}, nil}
	for _, pattern := range patterns {
		for total := 0; total <= 40; total++ {
			durations := ExpandBlockPattern(pattern, total)
			sum := 0
			for _, d := range durations {
				assert.GreaterOrEqual(t, d, 1)
				sum += d
			}
			assert.Equal(t, total, sum, "pattern %v total %d", pattern, total)
		}
	}
}
