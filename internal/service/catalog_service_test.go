package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fatih-calik/dersdagitim-sub001/internal/models"
	appErrors "github.com/fatih-calik/dersdagitim-sub001/pkg/errors"
)

type stubClassStore struct {
	classes map[int64]*models.SchoolClass
	nextID  int64
}

func newStubClassStore(classes ...models.SchoolClass) *stubClassStore {
	store := &stubClassStore{classes: make(map[int64]*models.SchoolClass)}
	for i := range classes {
		c := classes[i]
		store.classes[c.ID] = &c
		if c.ID > store.nextID {
			store.nextID = c.ID
		}
	}
	return store
}

func (s *stubClassStore) List(_ context.Context) ([]models.SchoolClass, error) {
	var out []models.SchoolClass
	for _, c := range s.classes {
		out = append(out, *c)
	}
	return out, nil
}

func (s *stubClassStore) FindByID(_ context.Context, id int64) (*models.SchoolClass, error) {
	c, ok := s.classes[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	out := *c
	return &out, nil
}

func (s *stubClassStore) Create(_ context.Context, class *models.SchoolClass) error {
	s.nextID++
	class.ID = s.nextID
	stored := *class
	s.classes[class.ID] = &stored
	return nil
}

func (s *stubClassStore) Update(_ context.Context, class *models.SchoolClass) error {
	if _, ok := s.classes[class.ID]; !ok {
		return sql.ErrNoRows
	}
	stored := *class
	s.classes[class.ID] = &stored
	return nil
}

func (s *stubClassStore) Delete(_ context.Context, id int64) error {
	delete(s.classes, id)
	return nil
}

func TestCreateClassStoresGradeText(t *testing.T) {
	store := newStubClassStore()
	svc := NewCatalogService(nil, store, nil, nil, nil, nil)

	class, err := svc.CreateClass(context.Background(), ClassPayload{Name: "9A", Grade: "9"})
	require.NoError(t, err)
	assert.NotZero(t, class.ID)
	assert.Equal(t, "9A", class.Name)
	assert.Equal(t, "9", class.Grade)
}

func TestUpdateClassRewritesGrade(t *testing.T) {
	store := newStubClassStore(models.SchoolClass{ID: 7, Name: "9A", Grade: "9"})
	svc := NewCatalogService(nil, store, nil, nil, nil, nil)

	class, err := svc.UpdateClass(context.Background(), 7, ClassPayload{Name: "10A", Grade: "10"})
	require.NoError(t, err)
	assert.Equal(t, "10A", class.Name)
	assert.Equal(t, "10", class.Grade)
	assert.Equal(t, "10", store.classes[7].Grade)
}

func TestCreateClassRequiresGrade(t *testing.T) {
	store := newStubClassStore()
	svc := NewCatalogService(nil, store, nil, nil, nil, nil)

	_, err := svc.CreateClass(context.Background(), ClassPayload{Name: "9A"})
	assertAppError(t, err, appErrors.ErrValidation.Code)
	assert.Empty(t, store.classes)
}

func TestGetClassNotFound(t *testing.T) {
	svc := NewCatalogService(nil, newStubClassStore(), nil, nil, nil, nil)

	_, err := svc.GetClass(context.Background(), 42)
	assertAppError(t, err, appErrors.ErrNotFound.Code)
}
