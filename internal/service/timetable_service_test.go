package service

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fatih-calik/dersdagitim-sub001/internal/models"
)

func TestGapForHours(t *testing.T) {
	assert.Equal(t, 0, GapForHours(nil))
	assert.Equal(t, 0, GapForHours([]int{3}))
	assert.Equal(t, 0, GapForHours([]int{1, 2, 3}))
	assert.Equal(t, 2, GapForHours([]int{1, 2, 5}))
	assert.Equal(t, 2, GapForHours([]int{5, 2, 1}), "order must not matter")
	assert.Equal(t, 2, GapForHours([]int{1, 1, 2, 5}), "duplicates count once")
}

func TestBuildCacheLinesFormats(t *testing.T) {
	b := block(1, 10, 2, 1, 3, 100, 200)
	b.RoomIDs = pq.Int64Array{500, 0}

	lines := BuildCacheLines([]models.DistributionBlock{b},
		map[int64]string{10: "9A"},
		map[int64]string{100: "AYSE", 200: "KEMAL"})

	byOwner := make(map[string][]models.ScheduleCacheLine)
	for _, line := range lines {
		byOwner[line.OwnerType] = append(byOwner[line.OwnerType], line)
	}

	require.Len(t, byOwner[models.OwnerClass], 2, "one class line per hour")
	assert.Equal(t, "MAT - AYSE, KEMAL", byOwner[models.OwnerClass][0].Line)
	assert.Equal(t, 3, byOwner[models.OwnerClass][0].Hour)
	assert.Equal(t, 4, byOwner[models.OwnerClass][1].Hour)

	require.Len(t, byOwner[models.OwnerTeacher], 4, "two teachers, two hours")
	assert.Equal(t, "9A    MAT", byOwner[models.OwnerTeacher][0].Line)

	require.Len(t, byOwner[models.OwnerRoom], 2, "only the paired room emits lines")
	assert.Equal(t, int64(500), byOwner[models.OwnerRoom][0].OwnerID)
	assert.Equal(t, "9A    MAT    AYSE", byOwner[models.OwnerRoom][0].Line)
}

func TestBuildCacheLinesUnknownNamesFallBack(t *testing.T) {
	b := block(1, 10, 1, 2, 2, 100)

	lines := BuildCacheLines([]models.DistributionBlock{b}, nil, nil)

	require.NotEmpty(t, lines)
	assert.Equal(t, "MAT - #100", lines[0].Line)
	assert.Equal(t, "#10    MAT", lines[1].Line)
}

func TestBuildCacheLinesDeterministic(t *testing.T) {
	placed := []models.DistributionBlock{
		block(2, 11, 1, 2, 5, 200),
		block(1, 10, 2, 1, 3, 100, 200),
	}
	names := map[int64]string{10: "9A", 11: "9B"}
	teachers := map[int64]string{100: "AYSE", 200: "KEMAL"}

	first := BuildCacheLines(placed, names, teachers)
	second := BuildCacheLines(placed, names, teachers)

	assert.Equal(t, first, second, "rebuilding from the same blocks is a fixed point")
}

func TestBuildGrid(t *testing.T) {
	lines := []models.ScheduleCacheLine{
		{OwnerType: models.OwnerClass, OwnerID: 10, Day: 1, Hour: 1, Line: "MAT - AYSE", BlockID: 1},
		{OwnerType: models.OwnerClass, OwnerID: 10, Day: 1, Hour: 2, Line: "MAT - AYSE", BlockID: 1},
		{OwnerType: models.OwnerClass, OwnerID: 10, Day: 1, Hour: 5, Line: "FIZ - KEMAL", BlockID: 2},
		{OwnerType: models.OwnerClass, OwnerID: 10, Day: 3, Hour: 1, Line: "TAR - VELI", BlockID: 3},
	}

	grid := buildGrid(models.OwnerClass, 10, lines)

	require.Len(t, grid.Days, 2, "empty days are omitted")
	assert.Equal(t, 1, grid.Days[0].Day)
	assert.Equal(t, 3, grid.Days[0].Scheduled)
	assert.Equal(t, 2, grid.Days[0].Gap, "hours 3 and 4 are idle between 1-2 and 5")
	assert.Equal(t, 3, grid.Days[1].Day)
	assert.Equal(t, 0, grid.Days[1].Gap)
	assert.Equal(t, 4, grid.TotalScheduled)
	assert.Equal(t, 2, grid.TotalGap)

	require.Len(t, grid.Days[0].Cells, 3)
	assert.Equal(t, []int64{1}, grid.Days[0].Cells[0].BlockIDs)
	assert.Equal(t, []string{"FIZ - KEMAL"}, grid.Days[0].Cells[2].Lines)
}

func TestBuildGridMergesParallelLines(t *testing.T) {
	lines := []models.ScheduleCacheLine{
		{OwnerType: models.OwnerTeacher, OwnerID: 100, Day: 2, Hour: 4, Line: "9A    MAT", BlockID: 1},
		{OwnerType: models.OwnerTeacher, OwnerID: 100, Day: 2, Hour: 4, Line: "9B    MAT", BlockID: 2},
	}

	grid := buildGrid(models.OwnerTeacher, 100, lines)

	require.Len(t, grid.Days, 1)
	require.Len(t, grid.Days[0].Cells, 1, "same slot collapses into one cell")
	assert.Equal(t, []string{"9A    MAT", "9B    MAT"}, grid.Days[0].Cells[0].Lines)
	assert.Equal(t, []int64{1, 2}, grid.Days[0].Cells[0].BlockIDs)
}
