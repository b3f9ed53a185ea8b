package models

import "time"

// ClassLessonAssignment is the weekly-hour contract between a class and a
// lesson. It owns an ordered list of teacher assignments; the sum of its
// distribution block durations must equal TotalHours whenever at least one
// teacher is assigned.
type ClassLessonAssignment struct {
	ID         int64     `db:"id" json:"id"`
	ClassID    int64     `db:"class_id" json:"class_id"`
	LessonID   int64     `db:"lesson_id" json:"lesson_id"`
	TotalHours int       `db:"total_hours" json:"total_hours"`
	GroupID    *int64    `db:"group_id" json:"group_id,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// TeacherAssignment links one teacher to a class-lesson assignment.
// Position is the 0-based roster slot mirrored onto block teacher slots.
type TeacherAssignment struct {
	ID            int64     `db:"id" json:"id"`
	ClassLessonID int64     `db:"class_lesson_id" json:"class_lesson_id"`
	TeacherID     int64     `db:"teacher_id" json:"teacher_id"`
	Position      int       `db:"position" json:"position"`
	AssignedHours int       `db:"assigned_hours" json:"assigned_hours"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// AssignmentDetail joins the assignment with its lesson and class names for
// list responses.
type AssignmentDetail struct {
	ClassLessonAssignment
	ClassName  string `db:"class_name" json:"class_name"`
	LessonCode string `db:"lesson_code" json:"lesson_code"`
	LessonName string `db:"lesson_name" json:"lesson_name"`
}
