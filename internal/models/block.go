package models

import (
	"time"

	"github.com/lib/pq"
)

// MaxTeacherSlots bounds co-teachers (and paired rooms) per block.
const MaxTeacherSlots = 7

// Placement type tags.
const (
	PlacementAuto   = "auto"
	PlacementManual = "manual"
)

// DistributionBlock is the placement unit: a contiguous run of hours for one
// class-lesson, carrying up to seven ordered teacher slots with positionally
// paired rooms. Day/Hour (0,0) means unplaced; both components are zero or
// both non-zero, never mixed. A zero entry inside TeacherIDs/RoomIDs keeps
// the position occupied but empty.
type DistributionBlock struct {
	ID             int64         `db:"id" json:"id"`
	ClassLessonID  int64         `db:"class_lesson_id" json:"class_lesson_id"`
	ClassID        int64         `db:"class_id" json:"class_id"`
	LessonCode     string        `db:"lesson_code" json:"lesson_code"`
	Duration       int           `db:"duration" json:"duration"`
	TeacherIDs     pq.Int64Array `db:"teacher_ids" json:"teacher_ids"`
	RoomIDs        pq.Int64Array `db:"room_ids" json:"room_ids"`
	Day            int           `db:"day" json:"day"`
	Hour           int           `db:"hour" json:"hour"`
	Locked         bool          `db:"locked" json:"locked"`
	Manual         bool          `db:"manual" json:"manual"`
	PlacementType  string        `db:"placement_type" json:"placement_type"`
	GapScore       float64       `db:"gap_score" json:"gap_score"`
	AdjacencyScore float64       `db:"adjacency_score" json:"adjacency_score"`
	TotalScore     float64       `db:"total_score" json:"total_score"`
	GroupID        *int64        `db:"group_id" json:"group_id,omitempty"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updated_at"`
}

// Placed reports whether the block has a grid anchor.
func (b *DistributionBlock) Placed() bool {
	return b.Day != 0 && b.Hour != 0
}

// Covers reports whether the placed block occupies (day, hour).
func (b *DistributionBlock) Covers(day, hour int) bool {
	return b.Placed() && b.Day == day && hour >= b.Hour && hour < b.Hour+b.Duration
}

// Teachers returns the non-empty teacher ids, order preserved.
func (b *DistributionBlock) Teachers() []int64 {
	var ids []int64
	for _, id := range b.TeacherIDs {
		if id != 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// Rooms returns the non-empty room ids, order preserved.
func (b *DistributionBlock) Rooms() []int64 {
	var ids []int64
	for _, id := range b.RoomIDs {
		if id != 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// Protected reports whether the validator must never auto-unplace the block.
func (b *DistributionBlock) Protected() bool {
	return b.Locked || b.Manual
}
