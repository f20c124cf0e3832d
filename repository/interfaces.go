package repository

import (
	"github.com/muster-archive/musterbackend/models"
)

// PersonRepositoryInterface defines the methods for person data operations
type PersonRepositoryInterface interface {
	Create(person *models.Person) error
	GetByID(id uint) (*models.Person, error)
	ListAll() ([]models.Person, error)
	ListBySourceID(sourceID string) ([]models.Person, error)
	Save(person *models.Person) error
}

// FormRepositoryInterface defines the methods for form data operations
type FormRepositoryInterface interface {
	Create(form *models.Form) error
	GetByID(id uint) (*models.Form, error)
	ListAll() ([]models.Form, error)
	ListByPersonID(personID uint) ([]models.Form, error)
}

// AuditRepositoryInterface defines the methods for audit ledger operations.
// The ledger is append-only; no update or delete methods exist.
type AuditRepositoryInterface interface {
	Append(entry *models.AuditEntry) error
	ListByRecord(tableName string, recordID uint) ([]models.AuditEntry, error)
}

// UserRepositoryInterface defines the methods for reviewer account operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	Count() (int64, error)
}
