package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/muster-archive/musterbackend/dates"
	"github.com/muster-archive/musterbackend/models"
	"github.com/muster-archive/musterbackend/repository"
	"github.com/muster-archive/musterbackend/services"
)

type PersonHandler struct {
	PersonRepo repository.PersonRepositoryInterface
	AuditRepo  repository.AuditRepositoryInterface
	Audit      *services.AuditService
	Sessions   *services.EditSessionStore
}

// PersonUpdatePayload is the full editable field set of an individual. The
// date of birth travels as a string in either archive format and is rejected
// before anything is written if it parses as neither.
type PersonUpdatePayload struct {
	EditSessionID string `json:"edit_session_id"`
	ChangeReason  string `json:"change_reason"`

	Lastname   *string `json:"lastname"`
	Firstname  *string `json:"firstname"`
	ArmyNumber *string `json:"army_number"`
	DOB        *string `json:"dob"`
}

func (ph *PersonHandler) ListPeople(w http.ResponseWriter, r *http.Request) {
	people, err := ph.PersonRepo.ListAll()
	if err != nil {
		log.Printf("Error listing people: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "list_failed", "Failed to retrieve people")
		return
	}
	if people == nil {
		people = []models.Person{}
	}
	writeJSON(w, http.StatusOK, people)
}

func (ph *PersonHandler) GetPerson(w http.ResponseWriter, r *http.Request) {
	person, ok := ph.personFromURL(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, person)
}

func (ph *PersonHandler) BeginEdit(w http.ResponseWriter, r *http.Request) {
	person, ok := ph.personFromURL(w, r)
	if !ok {
		return
	}
	session := ph.Sessions.BeginPerson(person)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"edit_session_id": session.ID,
		"started_at":      session.StartedAt,
		"person":          person,
	})
}

func (ph *PersonHandler) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	person, ok := ph.personFromURL(w, r)
	if !ok {
		return
	}

	var payload PersonUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body: "+err.Error())
		return
	}

	session, found := ph.Sessions.Get(payload.EditSessionID)
	if !found || session.Person == nil || session.RecordID != person.ID {
		WriteAPIError(w, http.StatusConflict, "invalid_edit_session", "No active edit session for this person; no changes were saved")
		return
	}

	updated := *session.Person
	updated.Lastname = payload.Lastname
	updated.Firstname = payload.Firstname
	updated.ArmyNumber = payload.ArmyNumber
	if payload.DOB != nil {
		dob, err := dates.Normalize(*payload.DOB)
		if err != nil {
			var formatErr *dates.FormatError
			if errors.As(err, &formatErr) {
				WriteAPIError(w, http.StatusBadRequest, "invalid_date", "Date of birth must be YYYY-MM-DD or DD/MM/YYYY; no changes were saved")
				return
			}
			log.Printf("Error normalizing dob for person %d: %v", person.ID, err)
			WriteAPIError(w, http.StatusInternalServerError, "save_failed", "Failed to save person; no changes were saved")
			return
		}
		updated.DOB = dob
	} else {
		updated.DOB = nil
	}

	sessionID := SessionIDFromContext(r.Context())
	if err := ph.Audit.SavePerson(&updated, session.Person, payload.ChangeReason, sessionID); err != nil {
		if errors.Is(err, services.ErrMissingRecordID) {
			WriteAPIError(w, http.StatusBadRequest, "missing_record_id", "Person has no ID; no changes were saved")
			return
		}
		log.Printf("Error saving person %d: %v", person.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "save_failed", "Failed to save person; no changes were saved")
		return
	}
	ph.Sessions.End(session.ID)

	saved, err := ph.PersonRepo.GetByID(person.ID)
	if err != nil {
		log.Printf("Error fetching saved person %d: %v", person.ID, err)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Person updated successfully"})
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// GetPersonHistory serves the person's full change history, oldest first.
func (ph *PersonHandler) GetPersonHistory(w http.ResponseWriter, r *http.Request) {
	person, ok := ph.personFromURL(w, r)
	if !ok {
		return
	}
	entries, err := ph.AuditRepo.ListByRecord(models.Person{}.TableName(), person.ID)
	if err != nil {
		log.Printf("Error listing audit history for person %d: %v", person.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "query_failed", "Failed to retrieve person history")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (ph *PersonHandler) personFromURL(w http.ResponseWriter, r *http.Request) (*models.Person, bool) {
	idStr := chi.URLParam(r, "person_id")
	personID, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid person ID format")
		return nil, false
	}

	person, err := ph.PersonRepo.GetByID(uint(personID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Person not found")
		} else {
			log.Printf("Error getting person %d: %v", personID, err)
			WriteAPIError(w, http.StatusInternalServerError, "get_failed", "Failed to retrieve person")
		}
		return nil, false
	}
	return person, true
}
