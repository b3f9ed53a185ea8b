package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/fatih-calik/dersdagitim-sub001/internal/models"
)

// SolverInput is everything an engine may consult: the candidate blocks to
// place, a snapshot holding the placements that must be respected, and the
// per-lesson morning preference.
type SolverInput struct {
	Candidates     []models.DistributionBlock
	Snapshot       *PlacementSnapshot
	MorningWeights map[string]int
}

// SolverResult maps candidate block ids to their chosen slots; candidates the
// engine could not fit are listed in Unplaced.
type SolverResult struct {
	Placements map[int64]models.TimeSlot
	Unplaced   []int64
}

// Solver is a pluggable placement engine. Implementations must honour the
// context deadline, never move blocks outside Candidates, and only emit slots
// that are valid against the snapshot.
type Solver interface {
	Name() string
	Solve(ctx context.Context, input SolverInput, params models.SolverParams, progress func(string)) (SolverResult, error)
}

// greedyEngine places the hardest blocks first: longest duration, then
// strongest morning preference. For each block it scores every feasible slot
// and takes the best, updating the snapshot so later blocks see it.
type greedyEngine struct{}

// NewGreedyEngine returns the baseline engine.
func NewGreedyEngine() Solver {
	return greedyEngine{}
}

func (greedyEngine) Name() string { return "greedy" }

func (e greedyEngine) Solve(ctx context.Context, input SolverInput, params models.SolverParams, progress func(string)) (SolverResult, error) {
	if progress == nil {
		progress = func(string) {}
	}
	result := SolverResult{Placements: make(map[int64]models.TimeSlot)}

	candidates := append([]models.DistributionBlock(nil), input.Candidates...)
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Duration != b.Duration {
			return a.Duration > b.Duration
		}
		wa, wb := input.MorningWeights[a.LessonCode], input.MorningWeights[b.LessonCode]
		if wa != wb {
			return wa > wb
		}
		return a.ID < b.ID
	})

	snapshot := &PlacementSnapshot{
		Placed:             append([]models.DistributionBlock(nil), input.Snapshot.Placed...),
		ClassConstraints:   input.Snapshot.ClassConstraints,
		TeacherConstraints: input.Snapshot.TeacherConstraints,
	}

	progress(fmt.Sprintf("greedy: %d candidates, %d pre-placed", len(candidates), len(snapshot.Placed)))

	for i := range candidates {
		if err := ctx.Err(); err != nil {
			for _, rest := range candidates[i:] {
				result.Unplaced = append(result.Unplaced, rest.ID)
			}
			progress(fmt.Sprintf("greedy: time budget exhausted after %d blocks", i))
			return result, nil
		}
		block := &candidates[i]

		best := models.TimeSlot{}
		bestScore := 0
		found := false
		for day := models.MinDay; day <= models.MaxDay; day++ {
			for hour := models.MinHour; hour+block.Duration-1 <= models.MaxHour; hour++ {
				if !snapshot.IsValid(block, day, hour) {
					continue
				}
				score := e.scoreSlot(snapshot, input.MorningWeights, params, block, day, hour)
				if !found || score > bestScore {
					best = models.TimeSlot{Day: day, Hour: hour}
					bestScore = score
					found = true
				}
			}
		}
		if !found {
			result.Unplaced = append(result.Unplaced, block.ID)
			continue
		}

		block.Day, block.Hour = best.Day, best.Hour
		snapshot.Placed = append(snapshot.Placed, *block)
		result.Placements[block.ID] = best

		if placed := len(result.Placements); placed%25 == 0 {
			progress(fmt.Sprintf("greedy: placed %d/%d", placed, len(candidates)))
		}
	}

	progress(fmt.Sprintf("greedy: done, placed %d, unplaced %d", len(result.Placements), len(result.Unplaced)))
	return result, nil
}

// scoreSlot values a feasible slot for one block. Higher is better: adjacency
// to a sibling block is rewarded, morning slots attract morning-weighted
// lessons, new class-day gaps and piling onto busy days are penalised.
func (greedyEngine) scoreSlot(snapshot *PlacementSnapshot, morning map[string]int, params models.SolverParams, block *models.DistributionBlock, day, hour int) int {
	score := 0

	dayHours := make([]int, 0, 8)
	sameDayCount := 0
	adjacent := false
	for i := range snapshot.Placed {
		other := &snapshot.Placed[i]
		if other.Day != day {
			continue
		}
		if other.ClassID == block.ClassID {
			sameDayCount++
			for offset := 0; offset < other.Duration; offset++ {
				dayHours = append(dayHours, other.Hour+offset)
			}
		}
		if other.ClassLessonID == block.ClassLessonID &&
			(other.Hour+other.Duration == hour || hour+block.Duration == other.Hour) {
			adjacent = true
		}
	}

	if adjacent {
		score += params.AdjacencyReward
	}
	score += morning[block.LessonCode] * params.MorningWeight * (models.MaxHour - hour)

	before := GapForHours(dayHours)
	for offset := 0; offset < block.Duration; offset++ {
		dayHours = append(dayHours, hour+offset)
	}
	score -= params.GapPenalty * (GapForHours(dayHours) - before)
	score -= params.BalancePenalty * sameDayCount

	return score
}
