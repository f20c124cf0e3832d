package models

import "time"

// AuditEntry is one append-only record of a single field's change on a single
// save. Entries are only ever inserted; nothing in the codebase updates or
// deletes them. It corresponds to the 'audit_entries' table.
type AuditEntry struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	TableName string `gorm:"not null;index" json:"table_name"`
	RecordID  uint   `gorm:"not null;index" json:"record_id"`
	FieldName string `gorm:"not null" json:"field_name"`

	// primitive type name ("string", "date") or, for lookup references, the
	// referenced lookup table's name
	FieldType string `json:"field_type"`

	// {label, id?} JSON envelopes; id present only for lookup references
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`

	ChangeReason string    `json:"change_reason"`
	SessionID    string    `json:"session_id"`
	Timestamp    time.Time `gorm:"not null" json:"timestamp"` // UTC
}
