package models

import "time"

// Person represents one real individual aggregated from one or more muster
// forms. It corresponds to the 'people' table.
type Person struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	SourceID string `gorm:"index" json:"source_id"` // scan-batch code, e.g. "APV0001"

	Lastname   *string `json:"lastname,omitempty"`
	Firstname  *string `json:"firstname,omitempty"`
	ArmyNumber *string `json:"army_number,omitempty"` // historically alphanumeric, never numeric

	DOB *time.Time `gorm:"column:dob" json:"dob,omitempty"` // canonical calendar date

	// Relationships
	Forms []Form `gorm:"foreignKey:PersonID" json:"forms,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Person) TableName() string {
	return "people"
}
