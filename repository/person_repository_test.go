package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/muster-archive/musterbackend/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Person{}, &models.Form{}))
	return db
}

func TestListAllNaturalOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPersonRepository(db)

	for _, sourceID := range []string{"APV0010", "APV0002", "APV0001"} {
		require.NoError(t, repo.Create(&models.Person{SourceID: sourceID}))
	}

	people, err := repo.ListAll()
	require.NoError(t, err)
	require.Len(t, people, 3)
	assert.Equal(t, "APV0001", people[0].SourceID)
	assert.Equal(t, "APV0002", people[1].SourceID)
	assert.Equal(t, "APV0010", people[2].SourceID)
}

func TestGetByIDPreloadsForms(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPersonRepository(db)

	person := &models.Person{SourceID: "APV0001"}
	require.NoError(t, repo.Create(person))
	require.NoError(t, db.Create(&models.Form{PersonID: person.ID, FormImage: "APV0001/page1.jpg"}).Error)

	got, err := repo.GetByID(person.ID)
	require.NoError(t, err)
	require.Len(t, got.Forms, 1)
	assert.Equal(t, "APV0001/page1.jpg", got.Forms[0].FormImage)
}

func TestGetByIDNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPersonRepository(db)

	_, err := repo.GetByID(999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListBySourceIDOrderedByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPersonRepository(db)

	first := &models.Person{SourceID: "APV0001"}
	second := &models.Person{SourceID: "APV0001"}
	other := &models.Person{SourceID: "APV0002"}
	require.NoError(t, repo.Create(first))
	require.NoError(t, repo.Create(second))
	require.NoError(t, repo.Create(other))

	people, err := repo.ListBySourceID("APV0001")
	require.NoError(t, err)
	require.Len(t, people, 2)
	assert.Equal(t, first.ID, people[0].ID)
	assert.Equal(t, second.ID, people[1].ID)
}

func TestSaveRequiresID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPersonRepository(db)

	err := repo.Save(&models.Person{SourceID: "APV0001"})
	assert.Error(t, err)
}
