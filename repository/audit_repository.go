package repository

import (
	"fmt"

	"github.com/muster-archive/musterbackend/models"
	"gorm.io/gorm"
)

// AuditRepository handles database operations for the append-only audit
// ledger. There are deliberately no update or delete methods.
type AuditRepository struct {
	DB *gorm.DB
}

// NewAuditRepository creates a new instance of AuditRepository
func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{DB: db}
}

// Append inserts one audit entry
func (r *AuditRepository) Append(entry *models.AuditEntry) error {
	err := r.DB.Create(entry).Error
	if err != nil {
		return fmt.Errorf("failed to append audit entry for %s.%s: %w", entry.TableName, entry.FieldName, err)
	}
	return nil
}

// ListByRecord retrieves the change history of one record, oldest first
func (r *AuditRepository) ListByRecord(tableName string, recordID uint) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	err := r.DB.Where("table_name = ? AND record_id = ?", tableName, recordID).
		Order("id ASC").Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries for %s %d: %w", tableName, recordID, err)
	}
	return entries, nil
}
