package repository

import (
	"errors"
	"fmt"

	"github.com/muster-archive/musterbackend/models"
	"gorm.io/gorm"
)

// FormRepository handles database operations for Form entities
type FormRepository struct {
	DB *gorm.DB
}

// NewFormRepository creates a new instance of FormRepository
func NewFormRepository(db *gorm.DB) *FormRepository {
	return &FormRepository{DB: db}
}

// Create creates a new form record in the database
func (r *FormRepository) Create(form *models.Form) error {
	err := r.DB.Create(form).Error
	if err != nil {
		return fmt.Errorf("failed to create form for image %s: %w", form.FormImage, err)
	}
	return nil
}

// GetByID retrieves a form by its ID, preloading the owning person
func (r *FormRepository) GetByID(id uint) (*models.Form, error) {
	var form models.Form
	err := r.DB.Preload("Person").First(&form, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get form by ID %d: %w", id, err)
	}
	return &form, nil
}

// ListAll retrieves all forms ordered by corrected lastname
func (r *FormRepository) ListAll() ([]models.Form, error) {
	var forms []models.Form
	err := r.DB.Order("lastname ASC").Find(&forms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list forms: %w", err)
	}
	return forms, nil
}

// ListByPersonID retrieves all forms attached to a person, ordered by id
func (r *FormRepository) ListByPersonID(personID uint) ([]models.Form, error) {
	var forms []models.Form
	err := r.DB.Where("person_id = ?", personID).Order("id ASC").Find(&forms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list forms for person ID %d: %w", personID, err)
	}
	return forms, nil
}
