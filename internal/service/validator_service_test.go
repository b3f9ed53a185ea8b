package service

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fatih-calik/dersdagitim-sub001/internal/models"
)

func classOwners(b *models.DistributionBlock) []int64 { return []int64{b.ClassID} }

func teacherOwners(b *models.DistributionBlock) []int64 { return b.Teachers() }

func TestResolveCollisionsKeepsSmallestFreeID(t *testing.T) {
	placed := []models.DistributionBlock{
		block(1, 10, 2, 1, 3, 100),
		block(2, 10, 1, 1, 4, 200),
		block(3, 10, 1, 1, 4, 300),
	}

	losers, standing := resolveCollisions(placed, classOwners)

	assert.Equal(t, []int64{2, 3}, losers, "block 1 reached hour 4 first by id")
	assert.Empty(t, standing)
}

func TestResolveCollisionsProtectedWinsOverFree(t *testing.T) {
	free := block(1, 10, 1, 1, 4, 100)
	locked := block(5, 10, 1, 1, 4, 200)
	locked.Locked = true

	losers, standing := resolveCollisions([]models.DistributionBlock{free, locked}, classOwners)

	assert.Equal(t, []int64{1}, losers, "the smaller free id still loses to a protected block")
	assert.Empty(t, standing)
}

func TestResolveCollisionsProtectedPairStands(t *testing.T) {
	a := block(1, 10, 1, 1, 4, 100)
	a.Locked = true
	b := block(2, 10, 1, 1, 4, 200)
	b.Manual = true

	losers, standing := resolveCollisions([]models.DistributionBlock{a, b}, classOwners)

	assert.Empty(t, losers, "protected blocks are never auto-unplaced")
	require.Len(t, standing, 1)
	assert.Contains(t, standing[0], "blocks 1,2")
}

func TestResolveCollisionsTeacherDimension(t *testing.T) {
	placed := []models.DistributionBlock{
		block(1, 10, 2, 1, 3, 100),
		block(2, 11, 1, 1, 4, 100),
		block(3, 12, 1, 1, 4, 999),
	}

	losers, _ := resolveCollisions(placed, teacherOwners)

	assert.Equal(t, []int64{2}, losers, "different classes, same teacher at hour 4")
}

func TestResolveCollisionsLoserFreesItsOtherSlots(t *testing.T) {
	// Block 2 collides with block 1 at hour 4 and with block 3 at hour 5.
	// Once it loses the first collision, block 3 keeps hour 5 uncontested.
	placed := []models.DistributionBlock{
		block(1, 10, 1, 1, 4, 100),
		block(2, 10, 2, 1, 4, 200),
		block(3, 10, 1, 1, 5, 300),
	}

	losers, standing := resolveCollisions(placed, classOwners)

	assert.Equal(t, []int64{2}, losers)
	assert.Empty(t, standing)
}

func TestResolveCollisionsSecondPassIsClean(t *testing.T) {
	winner := block(1, 10, 2, 1, 3, 100)
	classLoser := block(2, 10, 1, 1, 4, 200)
	lockedA := block(3, 11, 1, 1, 4, 300)
	lockedA.Locked = true
	manualB := block(4, 11, 1, 1, 4, 400)
	manualB.Manual = true
	teacherLoser := block(5, 12, 1, 1, 3, 100)

	placed := []models.DistributionBlock{winner, classLoser, lockedA, manualB, teacherLoser}

	classLosers, classStanding := resolveCollisions(placed, classOwners)
	placed = dropBlocks(placed, classLosers)
	teacherLosers, teacherStanding := resolveCollisions(placed, teacherOwners)
	placed = dropBlocks(placed, teacherLosers)

	assert.Equal(t, []int64{2}, classLosers)
	assert.Equal(t, []int64{5}, teacherLosers)
	require.Len(t, classStanding, 1, "the protected pair stays in place")

	// With the losers gone, a rerun must leave the remaining blocks alone.
	againClass, againClassStanding := resolveCollisions(placed, classOwners)
	againTeacher, againTeacherStanding := resolveCollisions(placed, teacherOwners)

	assert.Empty(t, againClass)
	assert.Empty(t, againTeacher)
	assert.Equal(t, classStanding, againClassStanding, "standing conflicts are stable across runs")
	assert.Equal(t, teacherStanding, againTeacherStanding)
}

func TestDropBlocks(t *testing.T) {
	blocks := []models.DistributionBlock{block(1, 10, 1, 1, 1, 100), block(2, 10, 1, 1, 2, 100), block(3, 10, 1, 1, 3, 100)}

	kept := dropBlocks(blocks, []int64{2})

	require.Len(t, kept, 2)
	assert.Equal(t, int64(1), kept[0].ID)
	assert.Equal(t, int64(3), kept[1].ID)
}

func TestGroupByAssignment(t *testing.T) {
	a := block(1, 10, 1, 0, 0, 100)
	a.ClassLessonID = 7
	b := block(2, 10, 1, 0, 0, 100)
	b.ClassLessonID = 7
	c := block(3, 11, 1, 0, 0, 100)
	c.ClassLessonID = 8

	grouped := groupByAssignment([]models.DistributionBlock{a, b, c})

	assert.Len(t, grouped[7], 2)
	assert.Len(t, grouped[8], 1)
}

func TestSameMultiset(t *testing.T) {
	assert.True(t, sameMultiset([]int{2, 2, 1}, []int{1, 2, 2}))
	assert.True(t, sameMultiset(nil, nil))
	assert.False(t, sameMultiset([]int{2, 2, 1}, []int{2, 2, 2}))
	assert.False(t, sameMultiset([]int{2, 2}, []int{2, 2, 1}))
}

func TestSameSlots(t *testing.T) {
	assert.True(t, sameSlots(pq.Int64Array{1, 0, 3}, pq.Int64Array{1, 0, 3}))
	assert.False(t, sameSlots(pq.Int64Array{1, 0, 3}, pq.Int64Array{1, 3, 0}), "positions matter")
	assert.False(t, sameSlots(pq.Int64Array{1}, pq.Int64Array{1, 0}))
}
