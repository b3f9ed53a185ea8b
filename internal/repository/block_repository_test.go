package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fatih-calik/dersdagitim-sub001/internal/models"
)

func newBlockMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func blockRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "class_lesson_id", "class_id", "lesson_code", "duration", "teacher_ids", "room_ids",
		"day", "hour", "locked", "manual", "placement_type", "gap_score", "adjacency_score", "total_score",
		"group_id", "created_at", "updated_at",
	})
}

func TestBlockRepositoryListPlaced(t *testing.T) {
	db, mock, cleanup := newBlockMock(t)
	defer cleanup()
	repo := NewBlockRepository(db)

	now := time.Now()
	rows := blockRows().
		AddRow(1, 7, 10, "MAT", 2, pq.Int64Array{100, 200}, pq.Int64Array{0, 0},
			1, 3, false, false, "auto", 0.0, 0.0, 0.0, nil, now, now).
		AddRow(2, 7, 10, "MAT", 1, pq.Int64Array{100, 200}, pq.Int64Array{0, 0},
			2, 1, true, false, "auto", 0.0, 0.0, 0.0, nil, now, now)
	mock.ExpectQuery(`SELECT (.+) FROM distribution_blocks WHERE day <> 0 AND hour <> 0 ORDER BY id ASC`).
		WillReturnRows(rows)

	blocks, err := repo.ListPlaced(context.Background())
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, int64(1), blocks[0].ID)
	assert.Equal(t, []int64{100, 200}, blocks[0].Teachers())
	assert.True(t, blocks[1].Protected())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlockRepositoryUpdatePlacementAndUnplace(t *testing.T) {
	db, mock, cleanup := newBlockMock(t)
	defer cleanup()
	repo := NewBlockRepository(db)

	mock.ExpectExec(`UPDATE distribution_blocks`).
		WithArgs(int64(1), 1, 3, true, true, "manual", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdatePlacement(context.Background(), db, 1, 1, 3, true, true, models.PlacementManual))

	mock.ExpectExec(`UPDATE distribution_blocks`).
		WithArgs(int64(1), "auto", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Unplace(context.Background(), db, 1))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlockRepositoryInsertBatchAssignsIDs(t *testing.T) {
	db, mock, cleanup := newBlockMock(t)
	defer cleanup()
	repo := NewBlockRepository(db)

	mock.ExpectQuery(`INSERT INTO distribution_blocks`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectQuery(`INSERT INTO distribution_blocks`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

	blocks := []models.DistributionBlock{
		{ClassLessonID: 7, ClassID: 10, LessonCode: "MAT", Duration: 2, TeacherIDs: pq.Int64Array{100}, RoomIDs: pq.Int64Array{0}},
		{ClassLessonID: 7, ClassID: 10, LessonCode: "MAT", Duration: 1, TeacherIDs: pq.Int64Array{100}, RoomIDs: pq.Int64Array{0}},
	}
	require.NoError(t, repo.InsertBatch(context.Background(), db, blocks))
	assert.Equal(t, int64(11), blocks[0].ID)
	assert.Equal(t, int64(12), blocks[1].ID)
	assert.Equal(t, models.PlacementAuto, blocks[0].PlacementType, "empty placement type defaults to auto")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlockRepositoryDeleteOrphaned(t *testing.T) {
	db, mock, cleanup := newBlockMock(t)
	defer cleanup()
	repo := NewBlockRepository(db)

	mock.ExpectExec(`DELETE FROM distribution_blocks WHERE class_lesson_id NOT IN`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	affected, err := repo.DeleteOrphaned(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, int64(3), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}
