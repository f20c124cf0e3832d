package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/muster-archive/musterbackend/models"
)

// EditSession is the session-scoped context of one in-progress correction. It
// pins the pre-edit snapshot the audited save will diff against, so concurrent
// reviewers can never corrupt each other's baselines through shared state.
type EditSession struct {
	ID        string         `json:"id"`
	TableName string         `json:"table_name"`
	RecordID  uint           `json:"record_id"`
	StartedAt time.Time      `json:"started_at"`
	Form      *models.Form   `json:"-"`
	Person    *models.Person `json:"-"`
}

// sessionMaxAge bounds how long an abandoned edit survives; a reviewer who
// walks away mid-correction must re-open the record against fresh state.
const sessionMaxAge = 2 * time.Hour

// EditSessionStore holds active edit sessions keyed by id. Expired sessions
// are pruned lazily on Get and whenever a new session is opened, so abandoned
// edits cannot accumulate for the life of the process.
type EditSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*EditSession
}

// NewEditSessionStore creates an empty store.
func NewEditSessionStore() *EditSessionStore {
	return &EditSessionStore{sessions: make(map[string]*EditSession)}
}

// BeginForm opens an edit session for a form, snapshotting its current state.
func (s *EditSessionStore) BeginForm(form *models.Form) *EditSession {
	snapshot := *form
	snapshot.Person = nil
	session := &EditSession{
		ID:        uuid.NewString(),
		TableName: models.Form{}.TableName(),
		RecordID:  form.ID,
		StartedAt: time.Now().UTC(),
		Form:      &snapshot,
	}
	s.put(session)
	return session
}

// BeginPerson opens an edit session for a person, snapshotting their current
// state.
func (s *EditSessionStore) BeginPerson(person *models.Person) *EditSession {
	snapshot := *person
	snapshot.Forms = nil
	session := &EditSession{
		ID:        uuid.NewString(),
		TableName: models.Person{}.TableName(),
		RecordID:  person.ID,
		StartedAt: time.Now().UTC(),
		Person:    &snapshot,
	}
	s.put(session)
	return session
}

// Get retrieves an active session by id. Sessions older than sessionMaxAge
// are discarded rather than returned.
func (s *EditSessionStore) Get(id string) (*EditSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if time.Since(session.StartedAt) > sessionMaxAge {
		delete(s.sessions, id)
		return nil, false
	}
	return session, true
}

// End discards a session after a save or an explicit cancel.
func (s *EditSessionStore) End(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *EditSessionStore) put(session *EditSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if time.Since(sess.StartedAt) > sessionMaxAge {
			delete(s.sessions, id)
		}
	}
	s.sessions[session.ID] = session
}
