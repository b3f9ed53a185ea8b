package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fatih-calik/dersdagitim-sub001/internal/models"
)

func newConstraintMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestConstraintRepositoryMapByOwner(t *testing.T) {
	db, mock, cleanup := newConstraintMock(t)
	defer cleanup()
	repo := NewConstraintRepository(db)

	rows := sqlmock.NewRows([]string{"id", "owner_type", "owner_id", "day", "hour", "state"}).
		AddRow(1, models.OwnerTeacher, 100, 2, 1, models.ConstraintClosed).
		AddRow(2, models.OwnerTeacher, 100, 2, 2, models.ConstraintClosed)
	mock.ExpectQuery(`SELECT id, owner_type, owner_id, day, hour, state FROM slot_constraints`).
		WithArgs(models.OwnerTeacher, int64(100)).
		WillReturnRows(rows)

	m, err := repo.MapByOwner(context.Background(), models.OwnerTeacher, 100)
	require.NoError(t, err)
	assert.True(t, m.Closed(2, 1))
	assert.True(t, m.Closed(2, 2))
	assert.False(t, m.Closed(2, 3), "absent slots are open")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConstraintRepositoryMapsByTypeGroupsOwners(t *testing.T) {
	db, mock, cleanup := newConstraintMock(t)
	defer cleanup()
	repo := NewConstraintRepository(db)

	rows := sqlmock.NewRows([]string{"id", "owner_type", "owner_id", "day", "hour", "state"}).
		AddRow(1, models.OwnerClass, 10, 1, 1, models.ConstraintClosed).
		AddRow(2, models.OwnerClass, 11, 5, 8, models.ConstraintClosed)
	mock.ExpectQuery(`SELECT id, owner_type, owner_id, day, hour, state FROM slot_constraints`).
		WithArgs(models.OwnerClass).
		WillReturnRows(rows)

	maps, err := repo.MapsByType(context.Background(), models.OwnerClass)
	require.NoError(t, err)
	require.Len(t, maps, 2)
	assert.True(t, maps[10].Closed(1, 1))
	assert.True(t, maps[11].Closed(5, 8))
	assert.False(t, maps[10].Closed(5, 8))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConstraintRepositoryUpsertAndDelete(t *testing.T) {
	db, mock, cleanup := newConstraintMock(t)
	defer cleanup()
	repo := NewConstraintRepository(db)

	mock.ExpectQuery(`INSERT INTO slot_constraints`).
		WithArgs(models.OwnerTeacher, int64(100), 2, 1, models.ConstraintClosed).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	constraint := &models.SlotConstraint{OwnerType: models.OwnerTeacher, OwnerID: 100, Day: 2, Hour: 1, State: models.ConstraintClosed}
	require.NoError(t, repo.Upsert(context.Background(), constraint))
	assert.Equal(t, int64(5), constraint.ID)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM slot_constraints WHERE owner_type = $1 AND owner_id = $2 AND day = $3 AND hour = $4")).
		WithArgs(models.OwnerTeacher, int64(100), 2, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), models.OwnerTeacher, 100, 2, 1))

	assert.NoError(t, mock.ExpectationsWereMet())
}
