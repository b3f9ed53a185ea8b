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

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, code, appErr.Code)
}

func TestRosterSlots(t *testing.T) {
	roster := []models.TeacherAssignment{
		{TeacherID: 100, Position: 0},
		{TeacherID: 200, Position: 1},
	}

	teacherIDs, roomIDs := rosterSlots(roster)

	assert.Equal(t, pq.Int64Array{100, 200}, teacherIDs)
	assert.Equal(t, pq.Int64Array{0, 0}, roomIDs, "rooms start unpaired")
}

func TestRosterSlotsCapped(t *testing.T) {
	roster := make([]models.TeacherAssignment, models.MaxTeacherSlots+2)
	for i := range roster {
		roster[i] = models.TeacherAssignment{TeacherID: int64(i + 1), Position: i}
	}

	teacherIDs, roomIDs := rosterSlots(roster)

	assert.Len(t, teacherIDs, models.MaxTeacherSlots)
	assert.Len(t, roomIDs, models.MaxTeacherSlots)
	assert.Equal(t, int64(models.MaxTeacherSlots), teacherIDs[models.MaxTeacherSlots-1])
}

type regenBlockStore struct {
	db       *sqlx.DB
	blocks   map[int64]*models.DistributionBlock
	inserted []models.DistributionBlock
	deleted  []int64
}

func newRegenBlockStore(t *testing.T) (*regenBlockStore, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return &regenBlockStore{
		db:     sqlx.NewDb(mockDB, "sqlmock"),
		blocks: make(map[int64]*models.DistributionBlock),
	}, mock
}

func (s *regenBlockStore) BeginTxx(ctx context.Context) (*sqlx.Tx, error) {
	return s.db.BeginTxx(ctx, nil)
}

func (s *regenBlockStore) ListAll(context.Context) ([]models.DistributionBlock, error) {
	return nil, nil
}

func (s *regenBlockStore) ListPlaced(context.Context) ([]models.DistributionBlock, error) {
	return nil, nil
}

func (s *regenBlockStore) ListUnplaced(context.Context) ([]models.DistributionBlock, error) {
	return nil, nil
}

func (s *regenBlockStore) ListByAssignment(context.Context, int64) ([]models.DistributionBlock, error) {
	return nil, nil
}

func (s *regenBlockStore) FindByID(_ context.Context, id int64) (*models.DistributionBlock, error) {
	b, ok := s.blocks[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	out := *b
	return &out, nil
}

func (s *regenBlockStore) InsertBatch(_ context.Context, _ sqlx.ExtContext, blocks []models.DistributionBlock) error {
	s.inserted = append(s.inserted, blocks...)
	return nil
}

func (s *regenBlockStore) DeleteByAssignment(_ context.Context, _ sqlx.ExtContext, classLessonID int64) error {
	s.deleted = append(s.deleted, classLessonID)
	return nil
}

func (s *regenBlockStore) OverwriteTeacherSlots(_ context.Context, _ sqlx.ExtContext, id int64, teacherIDs, roomIDs pq.Int64Array) error {
	b, ok := s.blocks[id]
	if !ok {
		return sql.ErrNoRows
	}
	b.TeacherIDs = teacherIDs
	b.RoomIDs = roomIDs
	return nil
}

type stubAssignmentReader struct {
	assignment *models.ClassLessonAssignment
	roster     []models.TeacherAssignment
}

func (s *stubAssignmentReader) FindByID(_ context.Context, id int64) (*models.ClassLessonAssignment, error) {
	if s.assignment == nil || s.assignment.ID != id {
		return nil, sql.ErrNoRows
	}
	return s.assignment, nil
}

func (s *stubAssignmentReader) ListTeachers(context.Context, int64) ([]models.TeacherAssignment, error) {
	return s.roster, nil
}

type stubLessonReader struct {
	lesson *models.Lesson
}

func (s *stubLessonReader) FindByID(_ context.Context, id int64) (*models.Lesson, error) {
	if s.lesson == nil || s.lesson.ID != id {
		return nil, sql.ErrNoRows
	}
	return s.lesson, nil
}

type stubRoomReader struct {
	rooms map[int64]*models.SharedRoom
}

func (s *stubRoomReader) FindByID(_ context.Context, id int64) (*models.SharedRoom, error) {
	room, ok := s.rooms[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return room, nil
}

func TestRegenerateExpandsPattern(t *testing.T) {
	store, mock := newRegenBlockStore(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	assignments := &stubAssignmentReader{
		assignment: &models.ClassLessonAssignment{ID: 7, ClassID: 10, LessonID: 3, TotalHours: 5},
		roster: []models.TeacherAssignment{
			{TeacherID: 100, Position: 0},
			{TeacherID: 200, Position: 1},
		},
	}
	lessons := &stubLessonReader{lesson: &models.Lesson{ID: 3, Code: "MAT", BlockPattern: "2+2"}}

	svc := NewBlockService(store, assignments, lessons, &stubRoomReader{}, nil, nil, nil, nil)

	blocks, err := svc.Regenerate(context.Background(), 7)
	require.NoError(t, err)

	require.Len(t, blocks, 3, "pattern 2+2 over 5 hours gives 2,2,1")
	assert.Equal(t, []int64{7}, store.deleted)
	durations := []int{blocks[0].Duration, blocks[1].Duration, blocks[2].Duration}
	assert.Equal(t, []int{2, 2, 1}, durations)
	for _, b := range blocks {
		assert.False(t, b.Placed(), "regenerated blocks start unplaced")
		assert.Equal(t, pq.Int64Array{100, 200}, b.TeacherIDs)
		assert.Equal(t, pq.Int64Array{0, 0}, b.RoomIDs)
		assert.Equal(t, models.PlacementAuto, b.PlacementType)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegenerateRequiresRoster(t *testing.T) {
	store, _ := newRegenBlockStore(t)
	assignments := &stubAssignmentReader{
		assignment: &models.ClassLessonAssignment{ID: 7, ClassID: 10, LessonID: 3, TotalHours: 5},
	}
	lessons := &stubLessonReader{lesson: &models.Lesson{ID: 3, Code: "MAT"}}

	svc := NewBlockService(store, assignments, lessons, &stubRoomReader{}, nil, nil, nil, nil)

	_, err := svc.Regenerate(context.Background(), 7)
	require.Error(t, err)
	assertAppError(t, err, appErrors.ErrPreconditionFailed.Code)
}

func TestPairRoomSetsAndClears(t *testing.T) {
	store, mock := newRegenBlockStore(t)
	b := block(1, 10, 2, 0, 0, 100, 200)
	store.blocks[1] = &b
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rooms := &stubRoomReader{rooms: map[int64]*models.SharedRoom{500: {ID: 500, Name: "LAB1"}}}
	svc := NewBlockService(store, &stubAssignmentReader{}, &stubLessonReader{}, rooms, nil, nil, nil, nil)

	updated, err := svc.PairRoom(context.Background(), 1, PairRoomRequest{Position: 1, RoomID: 500})
	require.NoError(t, err)
	assert.Equal(t, pq.Int64Array{0, 500}, updated.RoomIDs)

	updated, err = svc.PairRoom(context.Background(), 1, PairRoomRequest{Position: 1, RoomID: 0})
	require.NoError(t, err)
	assert.Equal(t, pq.Int64Array{0, 0}, updated.RoomIDs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPairRoomRejectsEmptyPosition(t *testing.T) {
	store, _ := newRegenBlockStore(t)
	b := block(1, 10, 2, 0, 0, 100)
	store.blocks[1] = &b

	svc := NewBlockService(store, &stubAssignmentReader{}, &stubLessonReader{}, &stubRoomReader{}, nil, nil, nil, nil)

	_, err := svc.PairRoom(context.Background(), 1, PairRoomRequest{Position: 3, RoomID: 500})
	require.Error(t, err)
	assertAppError(t, err, appErrors.ErrPreconditionFailed.Code)
}

func TestPairRoomRejectsUnknownRoom(t *testing.T) {
	store, _ := newRegenBlockStore(t)
	b := block(1, 10, 2, 0, 0, 100)
	store.blocks[1] = &b

	svc := NewBlockService(store, &stubAssignmentReader{}, &stubLessonReader{}, &stubRoomReader{}, nil, nil, nil, nil)

	_, err := svc.PairRoom(context.Background(), 1, PairRoomRequest{Position: 0, RoomID: 999})
	require.Error(t, err)
	assertAppError(t, err, appErrors.ErrNotFound.Code)
}
