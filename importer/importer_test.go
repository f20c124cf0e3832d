package importer

import (
	"os"
	"path/filepath"
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

func writeAnswerSet(t *testing.T, dir, name, lastname, firstname string) string {
	t.Helper()
	doc := `{
		"models": {
			"pipeline-v2": {
				"questions": {
					"B102r_1_Last_name": {"answer": "` + lastname + `"},
					"B102r_2_First_name": {"answer": "` + firstname + `"},
					"B102r_3_Army_number": {"answer": "1234567"},
					"B102r_7_DOB": {"answer": "17/04/1923"},
					"B102r_Form_type": {"answer": "B102r"}
				}
			}
		}
	}`
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	return path
}

func TestSourceIDFromFilename(t *testing.T) {
	cases := map[string]string{
		"APV0001_page1_img1.jpg.json":         "APV0001",
		"/tmp/drop/APV0023_page4.jpg.json":    "APV0023",
		"APV0001_page22_img1.jpg_w800px.json": "APV0001",
		"noseparator.json":                    "noseparator.json",
	}
	for input, want := range cases {
		assert.Equal(t, want, SourceIDFromFilename(input), input)
	}
}

func TestImageName(t *testing.T) {
	cases := map[string]string{
		"APV0001_page1_img1.jpg.json":         "APV0001_page1_img1.jpg",
		"APV0001_page22_img1.jpg_w800px.json": "APV0001_page22_img1.jpg",
		"APV0001_page1.png.json":              "APV0001_page1.png",
	}
	for input, want := range cases {
		assert.Equal(t, want, ImageName(input), input)
	}
}

func TestParseAnswerSet(t *testing.T) {
	dir := t.TempDir()
	path := writeAnswerSet(t, dir, "APV0001_page1_img1.jpg.json", "Smith", "John")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	set, err := ParseAnswerSet(data)
	require.NoError(t, err)
	questions, err := set.FirstSection()
	require.NoError(t, err)

	require.NotNil(t, Answer(questions, "B102r_1_Last_name"))
	assert.Equal(t, "Smith", *Answer(questions, "B102r_1_Last_name"))
	assert.Nil(t, Answer(questions, "B102r_19_Location"))
}

func TestFirstSectionEmpty(t *testing.T) {
	set := &AnswerSet{}
	_, err := set.FirstSection()
	assert.Error(t, err)
}

func TestExtractForm(t *testing.T) {
	lastname := "Smith"
	dob := "17/04/1923"
	questions := map[string]Question{
		"B102r_1_Last_name": {Answer: &lastname},
		"B102r_7_DOB":       {Answer: &dob},
	}

	form := ExtractForm("APV0001_page1_img1.jpg.json", questions)

	assert.Equal(t, "APV0001/APV0001_page1_img1.jpg", form.FormImage)
	require.NotNil(t, form.LastnameRaw)
	require.NotNil(t, form.Lastname)
	assert.Equal(t, "Smith", *form.LastnameRaw)
	assert.Equal(t, "Smith", *form.Lastname)
	// corrected starts as an independent copy, not an alias
	assert.NotSame(t, form.LastnameRaw, form.Lastname)

	require.NotNil(t, form.DOBDate)
	assert.Equal(t, 1923, form.DOBDate.Year())

	assert.Nil(t, form.FirstnameRaw)
	assert.Nil(t, form.Firstname)
	assert.Nil(t, form.DateOfEnlistmentDate)
}

func TestImportFileCreatesPersonAndForm(t *testing.T) {
	db := setupTestDB(t)
	im := NewImporter(db)
	dir := t.TempDir()
	path := writeAnswerSet(t, dir, "APV0001_page1_img1.jpg.json", "Smith", "John")

	require.NoError(t, im.ImportFile(path))

	var people []models.Person
	require.NoError(t, db.Find(&people).Error)
	require.Len(t, people, 1)
	assert.Equal(t, "APV0001", people[0].SourceID)
	assert.Equal(t, "Smith", *people[0].Lastname)

	var forms []models.Form
	require.NoError(t, db.Find(&forms).Error)
	require.Len(t, forms, 1)
	assert.Equal(t, people[0].ID, forms[0].PersonID)
	assert.Equal(t, "APV0001/APV0001_page1_img1.jpg", forms[0].FormImage)
}

func TestImportTwoFilesSameSourceShareOnePerson(t *testing.T) {
	db := setupTestDB(t)
	im := NewImporter(db)
	dir := t.TempDir()
	first := writeAnswerSet(t, dir, "APV0001_page1_img1.jpg.json", "Smith", "John")
	second := writeAnswerSet(t, dir, "APV0001_page2_img1.jpg.json", "Smith", "John")

	require.NoError(t, im.ImportFile(first))
	require.NoError(t, im.ImportFile(second))

	var peopleCount, formCount int64
	require.NoError(t, db.Model(&models.Person{}).Count(&peopleCount).Error)
	require.NoError(t, db.Model(&models.Form{}).Count(&formCount).Error)
	assert.EqualValues(t, 1, peopleCount)
	assert.EqualValues(t, 2, formCount)
}

func TestResolvePersonMultiplePeoplePicksLowestID(t *testing.T) {
	db := setupTestDB(t)
	im := NewImporter(db)

	first := &models.Person{SourceID: "APV0001"}
	second := &models.Person{SourceID: "APV0001"}
	require.NoError(t, db.Create(first).Error)
	require.NoError(t, db.Create(second).Error)

	person, err := im.ResolvePerson("APV0001", &models.Form{})
	require.NoError(t, err)
	assert.Equal(t, first.ID, person.ID)
}

func TestImportDirSkipsBadFiles(t *testing.T) {
	db := setupTestDB(t)
	im := NewImporter(db)
	dir := t.TempDir()
	writeAnswerSet(t, dir, "APV0001_page1_img1.jpg.json", "Smith", "John")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "APV0002_page1.jpg.json"), []byte("not json"), 0644))

	imported, err := im.ImportDir(dir)
	assert.Equal(t, 1, imported)
	assert.Error(t, err)

	var formCount int64
	require.NoError(t, db.Model(&models.Form{}).Count(&formCount).Error)
	assert.EqualValues(t, 1, formCount)
}

func TestImportDirEmpty(t *testing.T) {
	db := setupTestDB(t)
	im := NewImporter(db)

	imported, err := im.ImportDir(t.TempDir())
	assert.NoError(t, err)
	assert.Equal(t, 0, imported)
}
