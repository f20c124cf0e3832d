package repository

import (
	"errors"
	"fmt"
	"sort"

	"github.com/facette/natsort"
	"github.com/muster-archive/musterbackend/models"
	"gorm.io/gorm"
)

// PersonRepository handles database operations for Person entities
type PersonRepository struct {
	DB *gorm.DB
}

// NewPersonRepository creates a new instance of PersonRepository
func NewPersonRepository(db *gorm.DB) *PersonRepository {
	return &PersonRepository{DB: db}
}

// Create creates a new person record in the database
func (r *PersonRepository) Create(person *models.Person) error {
	err := r.DB.Create(person).Error
	if err != nil {
		return fmt.Errorf("failed to create person for source %s: %w", person.SourceID, err)
	}
	return nil
}

// GetByID retrieves a person by their ID, preloading their forms
func (r *PersonRepository) GetByID(id uint) (*models.Person, error) {
	var person models.Person
	err := r.DB.Preload("Forms").First(&person, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get person by ID %d: %w", id, err)
	}
	return &person, nil
}

// ListAll retrieves all people in natural source-id order, so APV0002 sorts
// before APV0010
func (r *PersonRepository) ListAll() ([]models.Person, error) {
	var people []models.Person
	err := r.DB.Find(&people).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	sort.SliceStable(people, func(i, j int) bool {
		return natsort.Compare(people[i].SourceID, people[j].SourceID)
	})
	return people, nil
}

// ListBySourceID retrieves all people sharing a source id, ordered by id so
// ambiguous bundles resolve deterministically
func (r *PersonRepository) ListBySourceID(sourceID string) ([]models.Person, error) {
	var people []models.Person
	err := r.DB.Where("source_id = ?", sourceID).Order("id ASC").Find(&people).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list people for source %s: %w", sourceID, err)
	}
	return people, nil
}

// Save persists the current state of an existing person
func (r *PersonRepository) Save(person *models.Person) error {
	if person.ID == 0 {
		return fmt.Errorf("cannot save person without an ID")
	}
	err := r.DB.Save(person).Error
	if err != nil {
		return fmt.Errorf("failed to save person ID %d: %w", person.ID, err)
	}
	return nil
}
