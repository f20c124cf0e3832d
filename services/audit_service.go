package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/muster-archive/musterbackend/audit"
	"github.com/muster-archive/musterbackend/dates"
	"github.com/muster-archive/musterbackend/models"
)

// ErrMissingRecordID is returned when an audited save is attempted on a record
// that has no primary key yet. It is raised before any storage interaction.
var ErrMissingRecordID = errors.New("record must have an ID to be saved")

// AuditService persists reviewer corrections together with their audit trail.
// Every save compares the updated record against its pre-edit snapshot and
// appends exactly one audit entry per changed field; the record update and all
// entries are committed in one transaction, so a failure leaves the stored
// record exactly as it was.
type AuditService struct {
	DB *gorm.DB
}

// NewAuditService creates a new instance of AuditService
func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{DB: db}
}

// SaveForm persists a corrected form, auditing every changed field against the
// original snapshot. Raw columns are write-once: whatever the caller sent, the
// original's raw values are carried forward. Canonical date shadow columns are
// recomputed from their corrected text fields on every save; unparseable text
// normalizes the shadow to nil rather than blocking the save.
func (s *AuditService) SaveForm(updated, original *models.Form, changeReason, sessionID string) error {
	if updated.ID == 0 || original.ID == 0 {
		return ErrMissingRecordID
	}
	if updated.ID != original.ID {
		return fmt.Errorf("updated form ID %d does not match original form ID %d", updated.ID, original.ID)
	}

	carryRawFields(updated, original)
	updated.DOBDate = normalizeOrNil(updated.DOB)
	updated.DateOfEnlistmentDate = normalizeOrNil(updated.DateOfEnlistment)

	changes := audit.Diff(audit.FormFields, original, updated)

	return s.DB.Transaction(func(tx *gorm.DB) error {
		return saveWithEntries(tx, updated, models.Form{}.TableName(), updated.ID, changes, changeReason, sessionID)
	})
}

// SavePerson persists a corrected person, auditing every changed field against
// the original snapshot.
func (s *AuditService) SavePerson(updated, original *models.Person, changeReason, sessionID string) error {
	if updated.ID == 0 || original.ID == 0 {
		return ErrMissingRecordID
	}
	if updated.ID != original.ID {
		return fmt.Errorf("updated person ID %d does not match original person ID %d", updated.ID, original.ID)
	}

	changes := audit.Diff(audit.PersonFields, original, updated)

	return s.DB.Transaction(func(tx *gorm.DB) error {
		return saveWithEntries(tx, updated, models.Person{}.TableName(), updated.ID, changes, changeReason, sessionID)
	})
}

// saveWithEntries writes the record update and its audit entries inside the
// caller's transaction. Partial application is not an outcome: any failure
// rolls back everything.
func saveWithEntries(tx *gorm.DB, record interface{}, tableName string, recordID uint, changes []audit.Change, changeReason, sessionID string) error {
	if err := tx.Save(record).Error; err != nil {
		return fmt.Errorf("failed to save %s ID %d: %w", tableName, recordID, err)
	}

	now := time.Now().UTC()
	for _, c := range changes {
		entry := models.AuditEntry{
			TableName:    tableName,
			RecordID:     recordID,
			FieldName:    c.Field,
			FieldType:    c.Type,
			OldValue:     c.Old.Envelope(),
			NewValue:     c.New.Envelope(),
			ChangeReason: changeReason,
			SessionID:    sessionID,
			Timestamp:    now,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to append audit entry for %s.%s: %w", tableName, c.Field, err)
		}
	}
	return nil
}

// carryRawFields copies every write-once raw column from the original snapshot
// onto the updated record, discarding any attempted edit.
func carryRawFields(updated, original *models.Form) {
	updated.FormTypeRaw = original.FormTypeRaw
	updated.LastnameRaw = original.LastnameRaw
	updated.FirstnameRaw = original.FirstnameRaw
	updated.ArmyNumberRaw = original.ArmyNumberRaw
	updated.DOBRaw = original.DOBRaw
	updated.DateOfEnlistmentRaw = original.DateOfEnlistmentRaw
	updated.NonEffectiveCauseRaw = original.NonEffectiveCauseRaw
	updated.LocationRaw = original.LocationRaw
	updated.RegimentRaw = original.RegimentRaw
	updated.EngagementRaw = original.EngagementRaw
	updated.NationalityRaw = original.NationalityRaw
	updated.ReligionRaw = original.ReligionRaw
	updated.IndustryRaw = original.IndustryRaw
	updated.OccupationRaw = original.OccupationRaw
	updated.MaritalStatusRaw = original.MaritalStatusRaw
	updated.HometownRaw = original.HometownRaw
	updated.RankRaw = original.RankRaw
	updated.ServiceTradeRaw = original.ServiceTradeRaw
	updated.MedicalCategoryRaw = original.MedicalCategoryRaw
}

// normalizeOrNil applies the date normalizer to a corrected text field,
// treating a format failure as nil so an unparseable date never aborts a save.
func normalizeOrNil(text *string) *time.Time {
	if text == nil {
		return nil
	}
	d, err := dates.Normalize(*text)
	if err != nil {
		return nil
	}
	return d
}
