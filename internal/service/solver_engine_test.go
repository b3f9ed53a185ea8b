package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fatih-calik/dersdagitim-sub001/internal/models"
)

func solverParams() models.SolverParams {
	return models.SolverParams{
		Engine: "greedy",
		Mode:   models.ModeKeepLocked,
		SolverWeights: models.SolverWeights{
			GapPenalty:      10,
			MorningWeight:   1,
			AdjacencyReward: 5,
			BalancePenalty:  2,
		},
	}
}

func TestGreedyPlacesAllWhenRoomEnough(t *testing.T) {
	engine := NewGreedyEngine()
	input := SolverInput{
		Candidates: []models.DistributionBlock{
			block(1, 10, 2, 0, 0, 100),
			block(2, 10, 2, 0, 0, 100),
			block(3, 11, 1, 0, 0, 200),
		},
		Snapshot: &PlacementSnapshot{},
	}

	result, err := engine.Solve(context.Background(), input, solverParams(), nil)
	require.NoError(t, err)

	assert.Empty(t, result.Unplaced)
	require.Len(t, result.Placements, 3)

	// Replaying the choices against a fresh snapshot must stay conflict-free.
	snap := &PlacementSnapshot{}
	for i := range input.Candidates {
		b := input.Candidates[i]
		slot, ok := result.Placements[b.ID]
		require.True(t, ok)
		require.True(t, snap.IsValid(&b, slot.Day, slot.Hour))
		b.Day, b.Hour = slot.Day, slot.Hour
		snap.Placed = append(snap.Placed, b)
	}
}

func TestGreedyRespectsPrePlacedBlocks(t *testing.T) {
	locked := block(9, 10, 2, 1, 1, 100)
	locked.Locked = true

	engine := NewGreedyEngine()
	input := SolverInput{
		Candidates: []models.DistributionBlock{block(1, 10, 2, 0, 0, 100)},
		Snapshot:   &PlacementSnapshot{Placed: []models.DistributionBlock{locked}},
	}

	result, err := engine.Solve(context.Background(), input, solverParams(), nil)
	require.NoError(t, err)

	slot, ok := result.Placements[1]
	require.True(t, ok)
	for offset := 0; offset < 2; offset++ {
		assert.False(t, locked.Covers(slot.Day, slot.Hour+offset), "must not overlap the locked block")
	}
}

func TestGreedyRespectsConstraints(t *testing.T) {
	closed := make(models.ConstraintMap)
	for day := models.MinDay; day <= models.MaxDay; day++ {
		for hour := models.MinHour; hour <= models.MaxHour; hour++ {
			if day != 3 {
				closed[models.TimeSlot{Day: day, Hour: hour}] = models.ConstraintClosed
			}
		}
	}

	engine := NewGreedyEngine()
	input := SolverInput{
		Candidates: []models.DistributionBlock{block(1, 10, 1, 0, 0, 100)},
		Snapshot: &PlacementSnapshot{
			ClassConstraints: map[int64]models.ConstraintMap{10: closed},
		},
	}

	result, err := engine.Solve(context.Background(), input, solverParams(), nil)
	require.NoError(t, err)

	slot, ok := result.Placements[1]
	require.True(t, ok)
	assert.Equal(t, 3, slot.Day, "only day 3 is open for the class")
}

func TestGreedyReportsUnplaceable(t *testing.T) {
	closed := make(models.ConstraintMap)
	for day := models.MinDay; day <= models.MaxDay; day++ {
		for hour := models.MinHour; hour <= models.MaxHour; hour++ {
			closed[models.TimeSlot{Day: day, Hour: hour}] = models.ConstraintClosed
		}
	}

	engine := NewGreedyEngine()
	input := SolverInput{
		Candidates: []models.DistributionBlock{block(1, 10, 1, 0, 0, 100)},
		Snapshot: &PlacementSnapshot{
			ClassConstraints: map[int64]models.ConstraintMap{10: closed},
		},
	}

	result, err := engine.Solve(context.Background(), input, solverParams(), nil)
	require.NoError(t, err)

	assert.Empty(t, result.Placements)
	assert.Equal(t, []int64{1}, result.Unplaced)
}

func TestGreedyStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := NewGreedyEngine()
	input := SolverInput{
		Candidates: []models.DistributionBlock{
			block(1, 10, 1, 0, 0, 100),
			block(2, 11, 1, 0, 0, 200),
		},
		Snapshot: &PlacementSnapshot{},
	}

	result, err := engine.Solve(ctx, input, solverParams(), nil)
	require.NoError(t, err)

	assert.Empty(t, result.Placements)
	assert.ElementsMatch(t, []int64{1, 2}, result.Unplaced)
}

func TestGreedyOrdersHardestFirst(t *testing.T) {
	long := block(5, 10, 3, 0, 0, 100)
	short := block(1, 11, 1, 0, 0, 200)

	engine := NewGreedyEngine()
	input := SolverInput{
		Candidates: []models.DistributionBlock{short, long},
		Snapshot:   &PlacementSnapshot{},
	}

	var first string
	result, err := engine.Solve(context.Background(), input, solverParams(), func(msg string) {
		if first == "" {
			first = msg
		}
	})
	require.NoError(t, err)
	require.Len(t, result.Placements, 2)
	assert.Contains(t, first, "2 candidates")
}

func TestGreedyPrefersMorningForWeightedLesson(t *testing.T) {
	b := block(1, 10, 1, 0, 0, 100)

	engine := NewGreedyEngine()
	input := SolverInput{
		Candidates:     []models.DistributionBlock{b},
		Snapshot:       &PlacementSnapshot{},
		MorningWeights: map[string]int{"MAT": 3},
	}

	result, err := engine.Solve(context.Background(), input, solverParams(), nil)
	require.NoError(t, err)

	slot, ok := result.Placements[1]
	require.True(t, ok)
	assert.Equal(t, models.MinHour, slot.Hour, "morning-weighted lesson takes the earliest hour")
}
