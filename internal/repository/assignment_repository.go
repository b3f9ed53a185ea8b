package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fatih-calik/dersdagitim-sub001/internal/models"
)

// AssignmentRepository persists class-lesson assignments and their ordered
// teacher rosters.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// BeginTxx starts a transaction on the underlying store.
func (r *AssignmentRepository) BeginTxx(ctx context.Context) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, nil)
}

// List returns all assignments with class and lesson detail.
func (r *AssignmentRepository) List(ctx context.Context) ([]models.AssignmentDetail, error) {
	const query = `
SELECT cl.id, cl.class_id, cl.lesson_id, cl.total_hours, cl.group_id, cl.created_at, cl.updated_at,
       c.name AS class_name, l.code AS lesson_code, l.name AS lesson_name
FROM class_lessons cl
JOIN classes c ON c.id = cl.class_id
JOIN lessons l ON l.id = cl.lesson_id
ORDER BY c.name ASC, l.code ASC`
	var assignments []models.AssignmentDetail
	if err := r.db.SelectContext(ctx, &assignments, query); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// ListAll returns every assignment without joins, for validator scans.
func (r *AssignmentRepository) ListAll(ctx context.Context) ([]models.ClassLessonAssignment, error) {
	const query = `SELECT id, class_id, lesson_id, total_hours, group_id, created_at, updated_at FROM class_lessons ORDER BY id ASC`
	var assignments []models.ClassLessonAssignment
	if err := r.db.SelectContext(ctx, &assignments, query); err != nil {
		return nil, fmt.Errorf("list all assignments: %w", err)
	}
	return assignments, nil
}

// FindByID loads an assignment by id.
func (r *AssignmentRepository) FindByID(ctx context.Context, id int64) (*models.ClassLessonAssignment, error) {
	const query = `SELECT id, class_id, lesson_id, total_hours, group_id, created_at, updated_at FROM class_lessons WHERE id = $1`
	var assignment models.ClassLessonAssignment
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// Create stores a new assignment inside the given transaction.
func (r *AssignmentRepository) Create(ctx context.Context, exec sqlx.ExtContext, assignment *models.ClassLessonAssignment) error {
	now := time.Now().UTC()
	assignment.CreatedAt = now
	assignment.UpdatedAt = now
	const query = `INSERT INTO class_lessons (class_id, lesson_id, total_hours, group_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := sqlx.GetContext(ctx, exec, &assignment.ID, query,
		assignment.ClassID, assignment.LessonID, assignment.TotalHours, assignment.GroupID, assignment.CreatedAt, assignment.UpdatedAt); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// UpdateTotalHours adjusts the weekly-hour contract.
func (r *AssignmentRepository) UpdateTotalHours(ctx context.Context, exec sqlx.ExtContext, id int64, totalHours int) error {
	const query = `UPDATE class_lessons SET total_hours = $2, updated_at = $3 WHERE id = $1`
	if _, err := exec.ExecContext(ctx, query, id, totalHours, time.Now().UTC()); err != nil {
		return fmt.Errorf("update assignment hours: %w", err)
	}
	return nil
}

// Delete removes an assignment inside the given transaction. Blocks and
// teacher assignments are cascaded by the caller.
func (r *AssignmentRepository) Delete(ctx context.Context, exec sqlx.ExtContext, id int64) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM class_lessons WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}

// DeleteByClassMissing removes assignments whose class no longer exists and
// returns the deleted ids so the caller can cascade.
func (r *AssignmentRepository) DeleteByClassMissing(ctx context.Context, exec sqlx.ExtContext) ([]int64, error) {
	const query = `DELETE FROM class_lessons WHERE class_id NOT IN (SELECT id FROM classes) RETURNING id`
	var ids []int64
	if err := sqlx.SelectContext(ctx, exec, &ids, query); err != nil {
		return nil, fmt.Errorf("delete orphaned assignments: %w", err)
	}
	return ids, nil
}

// ListTeachers returns the ordered roster for one assignment.
func (r *AssignmentRepository) ListTeachers(ctx context.Context, classLessonID int64) ([]models.TeacherAssignment, error) {
	const query = `SELECT id, class_lesson_id, teacher_id, position, assigned_hours, created_at
		FROM teacher_assignments WHERE class_lesson_id = $1 ORDER BY position ASC`
	var teachers []models.TeacherAssignment
	if err := r.db.SelectContext(ctx, &teachers, query, classLessonID); err != nil {
		return nil, fmt.Errorf("list teacher assignments: %w", err)
	}
	return teachers, nil
}

// ListAllTeachers returns every roster entry keyed for validator scans.
func (r *AssignmentRepository) ListAllTeachers(ctx context.Context) ([]models.TeacherAssignment, error) {
	const query = `SELECT id, class_lesson_id, teacher_id, position, assigned_hours, created_at
		FROM teacher_assignments ORDER BY class_lesson_id ASC, position ASC`
	var teachers []models.TeacherAssignment
	if err := r.db.SelectContext(ctx, &teachers, query); err != nil {
		return nil, fmt.Errorf("list all teacher assignments: %w", err)
	}
	return teachers, nil
}

// ReplaceTeachers overwrites the ordered roster for an assignment.
func (r *AssignmentRepository) ReplaceTeachers(ctx context.Context, exec sqlx.ExtContext, classLessonID int64, teachers []models.TeacherAssignment) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM teacher_assignments WHERE class_lesson_id = $1`, classLessonID); err != nil {
		return fmt.Errorf("clear teacher assignments: %w", err)
	}
	now := time.Now().UTC()
	const query = `INSERT INTO teacher_assignments (class_lesson_id, teacher_id, position, assigned_hours, created_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`
	for i := range teachers {
		teachers[i].ClassLessonID = classLessonID
		teachers[i].Position = i
		teachers[i].CreatedAt = now
		if err := sqlx.GetContext(ctx, exec, &teachers[i].ID, query,
			classLessonID, teachers[i].TeacherID, i, teachers[i].AssignedHours, now); err != nil {
			return fmt.Errorf("insert teacher assignment: %w", err)
		}
	}
	return nil
}

// DeleteTeachersByAssignment removes roster rows for a deleted assignment.
func (r *AssignmentRepository) DeleteTeachersByAssignment(ctx context.Context, exec sqlx.ExtContext, classLessonID int64) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM teacher_assignments WHERE class_lesson_id = $1`, classLessonID); err != nil {
		return fmt.Errorf("delete teacher assignments: %w", err)
	}
	return nil
}

// DeleteTeachersOrphaned removes roster rows whose assignment is gone.
func (r *AssignmentRepository) DeleteTeachersOrphaned(ctx context.Context, exec sqlx.ExtContext) (int64, error) {
	result, err := exec.ExecContext(ctx, `DELETE FROM teacher_assignments WHERE class_lesson_id NOT IN (SELECT id FROM class_lessons)`)
	if err != nil {
		return 0, fmt.Errorf("delete orphaned teacher assignments: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count orphaned teacher assignments: %w", err)
	}
	return affected, nil
}
