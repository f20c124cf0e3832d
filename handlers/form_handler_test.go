package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/muster-archive/musterbackend/models"
	"github.com/muster-archive/musterbackend/repository"
	"github.com/muster-archive/musterbackend/services"
)

func strPtr(s string) *string { return &s }

func setupFormRouter(t *testing.T) (*gorm.DB, chi.Router) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Person{}, &models.Form{}, &models.AuditEntry{}))

	fh := &FormHandler{
		FormRepo:  repository.NewFormRepository(db),
		AuditRepo: repository.NewAuditRepository(db),
		Audit:     services.NewAuditService(db),
		Sessions:  services.NewEditSessionStore(),
	}

	r := chi.NewRouter()
	r.Get("/api/forms/{form_id}", fh.GetForm)
	r.Get("/api/forms/{form_id}/audit", fh.GetFormHistory)
	r.Post("/api/forms/{form_id}/edit", fh.BeginEdit)
	r.Put("/api/forms/{form_id}", fh.UpdateForm)
	return db, r
}

func createTestForm(t *testing.T, db *gorm.DB) *models.Form {
	t.Helper()
	person := &models.Person{SourceID: "APV0001"}
	require.NoError(t, db.Create(person).Error)
	form := &models.Form{PersonID: person.ID, Lastname: strPtr("Apple"), LastnameRaw: strPtr("Apple")}
	require.NoError(t, db.Create(form).Error)
	return form
}

func TestGetFormNotFound(t *testing.T) {
	_, router := setupFormRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/forms/999", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetFormInvalidID(t *testing.T) {
	_, router := setupFormRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/forms/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEditFlowAuditsChange(t *testing.T) {
	db, router := setupFormRouter(t)
	form := createTestForm(t, db)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/forms/1/edit", nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	var began struct {
		EditSessionID string `json:"edit_session_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &began))
	require.NotEmpty(t, began.EditSessionID)

	payload := map[string]interface{}{
		"edit_session_id": began.EditSessionID,
		"change_reason":   "OCR misread",
		"person_id":       form.PersonID,
		"lastname":        "Acai",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/forms/1", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var stored models.Form
	require.NoError(t, db.First(&stored, form.ID).Error)
	assert.Equal(t, "Acai", *stored.Lastname)
	assert.Equal(t, "Apple", *stored.LastnameRaw)

	var entries []models.AuditEntry
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, "lastname", entries[0].FieldName)
	assert.Equal(t, "OCR misread", entries[0].ChangeReason)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/forms/1/audit", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var history []models.AuditEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 1)
	assert.Equal(t, `{"label":"Acai"}`, history[0].NewValue)
}

func TestUpdateFormWithoutSessionIsRejected(t *testing.T) {
	db, router := setupFormRouter(t)
	createTestForm(t, db)

	payload := map[string]interface{}{
		"edit_session_id": "nonexistent",
		"lastname":        "Acai",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/forms/1", bytes.NewReader(body)))
	assert.Equal(t, http.StatusConflict, rec.Code)

	var stored models.Form
	require.NoError(t, db.First(&stored, 1).Error)
	assert.Equal(t, "Apple", *stored.Lastname)
}

func TestUpdateFormSessionIsSingleUse(t *testing.T) {
	db, router := setupFormRouter(t)
	form := createTestForm(t, db)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/forms/1/edit", nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	var began struct {
		EditSessionID string `json:"edit_session_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &began))

	payload := map[string]interface{}{
		"edit_session_id": began.EditSessionID,
		"person_id":       form.PersonID,
		"lastname":        "Acai",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/forms/1", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	// the session was consumed by the save
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/forms/1", bytes.NewReader(body)))
	assert.Equal(t, http.StatusConflict, rec.Code)
}
