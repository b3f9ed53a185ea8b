package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fatih-calik/dersdagitim-sub001/internal/models"
	appErrors "github.com/fatih-calik/dersdagitim-sub001/pkg/errors"
)

func block(id, classID int64, duration, day, hour int, teachers ...int64) models.DistributionBlock {
	return models.DistributionBlock{
		ID:            id,
		ClassLessonID: id,
		ClassID:       classID,
		LessonCode:    "MAT",
		Duration:      duration,
		TeacherIDs:    pq.Int64Array(teachers),
		Day:           day,
		Hour:          hour,
	}
}

func TestSnapshotIsValidBounds(t *testing.T) {
	snap := &PlacementSnapshot{}
	b := block(1, 10, 2, 0, 0, 100)

	assert.True(t, snap.IsValid(&b, 1, 1))
	assert.True(t, snap.IsValid(&b, 1, models.MaxHour-1))
	assert.False(t, snap.IsValid(&b, 1, models.MaxHour), "tail must stay inside the day")
	assert.False(t, snap.IsValid(&b, 0, 1))
	assert.False(t, snap.IsValid(&b, 8, 1))
	assert.False(t, snap.IsValid(&b, 1, 0))
}

func TestSnapshotIsValidOverlaps(t *testing.T) {
	placed := block(2, 10, 2, 1, 3, 100)
	placed.RoomIDs = pq.Int64Array{500}
	snap := &PlacementSnapshot{Placed: []models.DistributionBlock{placed}}

	sameClass := block(3, 10, 1, 0, 0, 999)
	assert.False(t, snap.IsValid(&sameClass, 1, 4), "class busy at hour 4")
	assert.True(t, snap.IsValid(&sameClass, 1, 5))

	sameTeacher := block(4, 11, 2, 0, 0, 100)
	assert.False(t, snap.IsValid(&sameTeacher, 1, 2), "tail reaches the teacher's hour 3")
	assert.True(t, snap.IsValid(&sameTeacher, 2, 2))

	sameRoom := block(5, 12, 1, 0, 0, 999)
	sameRoom.RoomIDs = pq.Int64Array{500}
	assert.False(t, snap.IsValid(&sameRoom, 1, 3))
	assert.True(t, snap.IsValid(&sameRoom, 1, 5))
}

func TestSnapshotIsValidIgnoresOwnPlacement(t *testing.T) {
	placed := block(7, 10, 2, 1, 3, 100)
	snap := &PlacementSnapshot{Placed: []models.DistributionBlock{placed}}

	moved := placed
	assert.True(t, snap.IsValid(&moved, 1, 4), "a block never collides with itself")
}

func TestSnapshotIsValidConstraints(t *testing.T) {
	snap := &PlacementSnapshot{
		ClassConstraints: map[int64]models.ConstraintMap{
			10: {models.TimeSlot{Day: 2, Hour: 1}: models.ConstraintClosed},
		},
		TeacherConstraints: map[int64]models.ConstraintMap{
			100: {models.TimeSlot{Day: 3, Hour: 5}: models.ConstraintClosed},
		},
	}
	b := block(1, 10, 2, 0, 0, 100)

	assert.False(t, snap.IsValid(&b, 2, 1), "class closed the slot")
	assert.False(t, snap.IsValid(&b, 3, 4), "tail lands on the teacher's closed slot")
	assert.True(t, snap.IsValid(&b, 4, 1))
}

type stubBlockStore struct {
	db     *sqlx.DB
	blocks map[int64]*models.DistributionBlock
}

func newStubBlockStore(t *testing.T, blocks ...models.DistributionBlock) (*stubBlockStore, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	store := &stubBlockStore{
		db:     sqlx.NewDb(mockDB, "sqlmock"),
		blocks: make(map[int64]*models.DistributionBlock),
	}
	for i := range blocks {
		b := blocks[i]
		store.blocks[b.ID] = &b
	}
	return store, mock
}

func (s *stubBlockStore) FindByID(_ context.Context, id int64) (*models.DistributionBlock, error) {
	b, ok := s.blocks[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	out := *b
	return &out, nil
}

func (s *stubBlockStore) ListAll(_ context.Context) ([]models.DistributionBlock, error) {
	var out []models.DistributionBlock
	for _, b := range s.blocks {
		out = append(out, *b)
	}
	return out, nil
}

func (s *stubBlockStore) ListPlaced(_ context.Context) ([]models.DistributionBlock, error) {
	var out []models.DistributionBlock
	for _, b := range s.blocks {
		if b.Placed() {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *stubBlockStore) BeginTxx(ctx context.Context) (*sqlx.Tx, error) {
	return s.db.BeginTxx(ctx, nil)
}

func (s *stubBlockStore) UpdatePlacement(_ context.Context, _ sqlx.ExtContext, id int64, day, hour int, locked, manual bool, placementType string) error {
	b, ok := s.blocks[id]
	if !ok {
		return sql.ErrNoRows
	}
	b.Day, b.Hour = day, hour
	b.Locked, b.Manual = locked, manual
	b.PlacementType = placementType
	return nil
}

func (s *stubBlockStore) Unplace(_ context.Context, _ sqlx.ExtContext, id int64) error {
	b, ok := s.blocks[id]
	if !ok {
		return sql.ErrNoRows
	}
	b.Day, b.Hour = 0, 0
	b.Locked, b.Manual = false, false
	b.PlacementType = models.PlacementAuto
	return nil
}

type stubConstraintReader struct {
	class   map[int64]models.ConstraintMap
	teacher map[int64]models.ConstraintMap
}

func (s *stubConstraintReader) MapsByType(_ context.Context, ownerType string) (map[int64]models.ConstraintMap, error) {
	if ownerType == models.OwnerClass {
		return s.class, nil
	}
	return s.teacher, nil
}

func TestPlacementCommitLifecycle(t *testing.T) {
	store, mock := newStubBlockStore(t,
		block(1, 10, 2, 0, 0, 100),
		block(2, 11, 1, 1, 1, 200),
	)
	mock.ExpectBegin()
	mock.ExpectCommit()

	svc := NewPlacementService(store, &stubConstraintReader{}, nil, nil, nil)

	session, err := svc.Pick(context.Background(), 1)
	require.NoError(t, err)
	require.NotEmpty(t, session.ID)

	ok, err := svc.Preview(session.ID, 1, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	committed, err := svc.Commit(context.Background(), session.ID, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, committed.Day)
	assert.Equal(t, 3, committed.Hour)
	assert.True(t, committed.Locked)
	assert.True(t, committed.Manual)
	assert.Equal(t, models.PlacementManual, committed.PlacementType)

	_, err = svc.Preview(session.ID, 1, 5)
	require.Error(t, err, "session ended on commit")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlacementCommitRejectsConflict(t *testing.T) {
	store, _ := newStubBlockStore(t,
		block(1, 10, 2, 0, 0, 100),
		block(2, 10, 1, 1, 3, 200),
	)
	svc := NewPlacementService(store, &stubConstraintReader{}, nil, nil, nil)
	before := *store.blocks[1]

	session, err := svc.Pick(context.Background(), 1)
	require.NoError(t, err)

	_, err = svc.Commit(context.Background(), session.ID, 1, 3)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrPlacementInvalid.Code, appErr.Code)

	assert.Equal(t, before, *store.blocks[1], "a rejected commit writes nothing")

	_, err = svc.Preview(session.ID, 1, 5)
	assert.Error(t, err, "failed commit cancels the session")
}

func TestPlacementSessionGoesStaleOnMutation(t *testing.T) {
	store, _ := newStubBlockStore(t, block(1, 10, 1, 0, 0, 100))
	svc := NewPlacementService(store, &stubConstraintReader{}, nil, nil, nil)

	session, err := svc.Pick(context.Background(), 1)
	require.NoError(t, err)

	svc.MarkMutation()

	_, err = svc.Preview(session.ID, 1, 1)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrSessionStale.Code, appErr.Code)
}

func TestPlacementPickRefusesLockedBlock(t *testing.T) {
	locked := block(1, 10, 1, 1, 1, 100)
	locked.Locked = true
	store, _ := newStubBlockStore(t, locked)
	svc := NewPlacementService(store, &stubConstraintReader{}, nil, nil, nil)

	_, err := svc.Pick(context.Background(), 1)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrLocked.Code, appErr.Code)
}

func TestPlacementUnplaceReleasesFlags(t *testing.T) {
	placed := block(1, 10, 2, 1, 3, 100)
	placed.Locked = true
	placed.Manual = true
	placed.PlacementType = models.PlacementManual
	store, mock := newStubBlockStore(t, placed)
	mock.ExpectBegin()
	mock.ExpectCommit()

	svc := NewPlacementService(store, &stubConstraintReader{}, nil, nil, nil)

	updated, err := svc.Unplace(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, updated.Placed())
	assert.False(t, updated.Locked)
	assert.False(t, updated.Manual)
	assert.Equal(t, models.PlacementAuto, updated.PlacementType)
	require.NoError(t, mock.ExpectationsWereMet())
}
