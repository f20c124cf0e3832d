package models

import "time"

// Form represents one digitized B102r muster form. Every semantic field is
// stored twice: a `_raw` column holding the verbatim OCR/VLM output (write-once
// at import) and a corrected column the reviewer may edit. Date-bearing fields
// additionally carry a `_date` shadow column holding the canonical calendar
// date recomputed from the corrected text on every save. It corresponds to the
// 'forms' table.
type Form struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	PersonID uint    `gorm:"not null;index" json:"person_id"`
	Person   *Person `gorm:"foreignKey:PersonID" json:"person,omitempty"`

	// path to the scanned page image, relative to the images root:
	// <sourceId>/<sourceId>_page<N>_img<M>.<ext>
	FormImage string `json:"form_image"`

	FormTypeRaw *string `json:"form_type_raw,omitempty"`
	FormType    *string `json:"form_type,omitempty"`

	// Personal info
	LastnameRaw   *string `json:"lastname_raw,omitempty"`
	Lastname      *string `json:"lastname,omitempty"`
	FirstnameRaw  *string `json:"firstname_raw,omitempty"`
	Firstname     *string `json:"firstname,omitempty"`
	ArmyNumberRaw *string `json:"army_number_raw,omitempty"`
	ArmyNumber    *string `json:"army_number,omitempty"`

	DOBRaw  *string    `gorm:"column:dob_raw" json:"dob_raw,omitempty"`
	DOB     *string    `gorm:"column:dob" json:"dob,omitempty"`
	DOBDate *time.Time `gorm:"column:dob_date" json:"dob_date,omitempty"`

	DateOfEnlistmentRaw  *string    `json:"date_of_enlistment_raw,omitempty"`
	DateOfEnlistment     *string    `json:"date_of_enlistment,omitempty"`
	DateOfEnlistmentDate *time.Time `json:"date_of_enlistment_date,omitempty"`

	NonEffectiveCauseRaw *string `json:"non_effective_cause_raw,omitempty"`
	NonEffectiveCause    *string `json:"non_effective_cause,omitempty"`
	LocationRaw          *string `json:"location_raw,omitempty"`
	Location             *string `json:"location,omitempty"`

	// Categorical fields: raw + corrected text, plus a lookup-table FK assigned
	// once a corrected value has been categorized
	RegimentRaw *string `json:"regiment_raw,omitempty"`
	Regiment    *string `json:"regiment,omitempty"`
	RegimentID  *int64  `json:"regiment_id,omitempty"`

	EngagementRaw *string `json:"engagement_raw,omitempty"`
	Engagement    *string `json:"engagement,omitempty"`
	EngagementID  *int64  `json:"engagement_id,omitempty"`

	NationalityRaw *string `json:"nationality_raw,omitempty"`
	Nationality    *string `json:"nationality,omitempty"`
	NationalityID  *int64  `json:"nationality_id,omitempty"`

	ReligionRaw *string `json:"religion_raw,omitempty"`
	Religion    *string `json:"religion,omitempty"`
	ReligionID  *int64  `json:"religion_id,omitempty"`

	IndustryRaw *string `json:"industry_raw,omitempty"`
	Industry    *string `json:"industry,omitempty"`
	IndustryID  *int64  `json:"industry_id,omitempty"`

	OccupationRaw *string `json:"occupation_raw,omitempty"`
	Occupation    *string `json:"occupation,omitempty"`
	OccupationID  *int64  `json:"occupation_id,omitempty"`

	MaritalStatusRaw *string `json:"marital_status_raw,omitempty"`
	MaritalStatus    *string `json:"marital_status,omitempty"`
	MaritalStatusID  *int64  `json:"marital_status_id,omitempty"`

	HometownRaw *string `json:"hometown_raw,omitempty"`
	Hometown    *string `json:"hometown,omitempty"`
	HometownID  *int64  `json:"hometown_id,omitempty"` // references places

	RankRaw *string `json:"rank_raw,omitempty"`
	Rank    *string `json:"rank,omitempty"`
	RankID  *int64  `json:"rank_id,omitempty"`

	ServiceTradeRaw *string `json:"service_trade_raw,omitempty"`
	ServiceTrade    *string `json:"service_trade,omitempty"`
	ServiceTradeID  *int64  `json:"service_trade_id,omitempty"`

	MedicalCategoryRaw *string `json:"medical_category_raw,omitempty"`
	MedicalCategory    *string `json:"medical_category,omitempty"`
	MedicalCategoryID  *int64  `json:"medical_category_id,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Form) TableName() string {
	return "forms"
}
