package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/muster-archive/musterbackend/models"
	"github.com/muster-archive/musterbackend/repository"
	"github.com/muster-archive/musterbackend/services"
)

type FormHandler struct {
	FormRepo  repository.FormRepositoryInterface
	AuditRepo repository.AuditRepositoryInterface
	Audit     *services.AuditService
	Sessions  *services.EditSessionStore
}

// FormUpdatePayload carries the complete corrected field set of one form. The
// review UI posts the whole form back, so every field here replaces the stored
// value; nulls clear. Raw columns are absent deliberately: they are write-once
// and any attempt to edit them is discarded by the audited save.
type FormUpdatePayload struct {
	EditSessionID string `json:"edit_session_id"`
	ChangeReason  string `json:"change_reason"`

	PersonID *uint `json:"person_id"`

	FormType          *string `json:"form_type"`
	Lastname          *string `json:"lastname"`
	Firstname         *string `json:"firstname"`
	ArmyNumber        *string `json:"army_number"`
	DOB               *string `json:"dob"`
	DateOfEnlistment  *string `json:"date_of_enlistment"`
	NonEffectiveCause *string `json:"non_effective_cause"`
	Location          *string `json:"location"`

	Regiment          *string `json:"regiment"`
	RegimentID        *int64  `json:"regiment_id"`
	Engagement        *string `json:"engagement"`
	EngagementID      *int64  `json:"engagement_id"`
	Nationality       *string `json:"nationality"`
	NationalityID     *int64  `json:"nationality_id"`
	Religion          *string `json:"religion"`
	ReligionID        *int64  `json:"religion_id"`
	Industry          *string `json:"industry"`
	IndustryID        *int64  `json:"industry_id"`
	Occupation        *string `json:"occupation"`
	OccupationID      *int64  `json:"occupation_id"`
	MaritalStatus     *string `json:"marital_status"`
	MaritalStatusID   *int64  `json:"marital_status_id"`
	Hometown          *string `json:"hometown"`
	HometownID        *int64  `json:"hometown_id"`
	Rank              *string `json:"rank"`
	RankID            *int64  `json:"rank_id"`
	ServiceTrade      *string `json:"service_trade"`
	ServiceTradeID    *int64  `json:"service_trade_id"`
	MedicalCategory   *string `json:"medical_category"`
	MedicalCategoryID *int64  `json:"medical_category_id"`
}

func (fh *FormHandler) ListForms(w http.ResponseWriter, r *http.Request) {
	forms, err := fh.FormRepo.ListAll()
	if err != nil {
		log.Printf("Error listing forms: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "list_failed", "Failed to retrieve forms")
		return
	}
	if forms == nil {
		forms = []models.Form{}
	}
	writeJSON(w, http.StatusOK, forms)
}

func (fh *FormHandler) GetForm(w http.ResponseWriter, r *http.Request) {
	form, ok := fh.formFromURL(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// BeginEdit opens an edit session pinning the form's pre-edit snapshot. The
// audited save diffs against this snapshot, not whatever is stored at save
// time, so a reviewer always audits exactly what they saw.
func (fh *FormHandler) BeginEdit(w http.ResponseWriter, r *http.Request) {
	form, ok := fh.formFromURL(w, r)
	if !ok {
		return
	}
	session := fh.Sessions.BeginForm(form)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"edit_session_id": session.ID,
		"started_at":      session.StartedAt,
		"form":            form,
	})
}

func (fh *FormHandler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	form, ok := fh.formFromURL(w, r)
	if !ok {
		return
	}

	var payload FormUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body: "+err.Error())
		return
	}

	session, found := fh.Sessions.Get(payload.EditSessionID)
	if !found || session.Form == nil || session.RecordID != form.ID {
		WriteAPIError(w, http.StatusConflict, "invalid_edit_session", "No active edit session for this form; no changes were saved")
		return
	}

	updated := *session.Form
	applyFormPayload(&updated, &payload)

	sessionID := SessionIDFromContext(r.Context())
	if err := fh.Audit.SaveForm(&updated, session.Form, payload.ChangeReason, sessionID); err != nil {
		if errors.Is(err, services.ErrMissingRecordID) {
			WriteAPIError(w, http.StatusBadRequest, "missing_record_id", "Form has no ID; no changes were saved")
			return
		}
		log.Printf("Error saving form %d: %v", form.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "save_failed", "Failed to save form; no changes were saved")
		return
	}
	fh.Sessions.End(session.ID)

	saved, err := fh.FormRepo.GetByID(form.ID)
	if err != nil {
		log.Printf("Error fetching saved form %d: %v", form.ID, err)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Form updated successfully"})
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// GetFormHistory serves the form's full change history, oldest first.
func (fh *FormHandler) GetFormHistory(w http.ResponseWriter, r *http.Request) {
	form, ok := fh.formFromURL(w, r)
	if !ok {
		return
	}
	entries, err := fh.AuditRepo.ListByRecord(models.Form{}.TableName(), form.ID)
	if err != nil {
		log.Printf("Error listing audit history for form %d: %v", form.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "query_failed", "Failed to retrieve form history")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (fh *FormHandler) formFromURL(w http.ResponseWriter, r *http.Request) (*models.Form, bool) {
	idStr := chi.URLParam(r, "form_id")
	formID, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid form ID format")
		return nil, false
	}

	form, err := fh.FormRepo.GetByID(uint(formID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Form not found")
		} else {
			log.Printf("Error getting form %d: %v", formID, err)
			WriteAPIError(w, http.StatusInternalServerError, "get_failed", "Failed to retrieve form")
		}
		return nil, false
	}
	return form, true
}

func applyFormPayload(form *models.Form, p *FormUpdatePayload) {
	if p.PersonID != nil {
		form.PersonID = *p.PersonID
	}
	form.FormType = p.FormType
	form.Lastname = p.Lastname
	form.Firstname = p.Firstname
	form.ArmyNumber = p.ArmyNumber
	form.DOB = p.DOB
	form.DateOfEnlistment = p.DateOfEnlistment
	form.NonEffectiveCause = p.NonEffectiveCause
	form.Location = p.Location
	form.Regiment = p.Regiment
	form.RegimentID = p.RegimentID
	form.Engagement = p.Engagement
	form.EngagementID = p.EngagementID
	form.Nationality = p.Nationality
	form.NationalityID = p.NationalityID
	form.Religion = p.Religion
	form.ReligionID = p.ReligionID
	form.Industry = p.Industry
	form.IndustryID = p.IndustryID
	form.Occupation = p.Occupation
	form.OccupationID = p.OccupationID
	form.MaritalStatus = p.MaritalStatus
	form.MaritalStatusID = p.MaritalStatusID
	form.Hometown = p.Hometown
	form.HometownID = p.HometownID
	form.Rank = p.Rank
	form.RankID = p.RankID
	form.ServiceTrade = p.ServiceTrade
	form.ServiceTradeID = p.ServiceTradeID
	form.MedicalCategory = p.MedicalCategory
	form.MedicalCategoryID = p.MedicalCategoryID
}
