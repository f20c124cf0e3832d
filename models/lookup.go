package models

// Lookup tables for categorical form fields. Each is a small enumerable set of
// {id, label, description?} rows referenced from forms by id once a corrected
// value has been categorized.

type Regiment struct {
	ID          int64   `gorm:"primaryKey" json:"id"`
	Label       string  `gorm:"not null" json:"label"`
	Description *string `json:"description,omitempty"`
}

func (Regiment) TableName() string { return "regiments" }

type Rank struct {
	ID          int64   `gorm:"primaryKey" json:"id"`
	Label       string  `gorm:"not null" json:"label"`
	Description *string `json:"description,omitempty"`
}

func (Rank) TableName() string { return "ranks" }

type Engagement struct {
	ID          int64   `gorm:"primaryKey" json:"id"`
	Label       string  `gorm:"not null" json:"label"`
	Description *string `json:"description,omitempty"` // expanded form, e.g. "T.A." -> "Territorial Army"
}

func (Engagement) TableName() string { return "engagements" }

type Nationality struct {
	ID          int64   `gorm:"primaryKey" json:"id"`
	Label       string  `gorm:"not null" json:"label"`
	Description *string `json:"description,omitempty"`
}

func (Nationality) TableName() string { return "nationalities" }

type Religion struct {
	ID          int64   `gorm:"primaryKey" json:"id"`
	Label       string  `gorm:"not null" json:"label"`
	Description *string `json:"description,omitempty"`
}

func (Religion) TableName() string { return "religions" }

type Industry struct {
	ID          int64   `gorm:"primaryKey" json:"id"`
	Label       string  `gorm:"not null" json:"label"`
	Description *string `json:"description,omitempty"`
}

func (Industry) TableName() string { return "industries" }

type Occupation struct {
	ID          int64   `gorm:"primaryKey" json:"id"`
	Label       string  `gorm:"not null" json:"label"`
	Description *string `json:"description,omitempty"`
}

func (Occupation) TableName() string { return "occupations" }

type ServiceTrade struct {
	ID          int64   `gorm:"primaryKey" json:"id"`
	Label       string  `gorm:"not null" json:"label"`
	Description *string `json:"description,omitempty"`
}

func (ServiceTrade) TableName() string { return "service_trades" }

type MaritalStatus struct {
	ID          int64   `gorm:"primaryKey" json:"id"`
	Label       string  `gorm:"not null" json:"label"`
	Description *string `json:"description,omitempty"`
}

func (MaritalStatus) TableName() string { return "marital_statuses" }

type MedicalCategory struct {
	ID          int64   `gorm:"primaryKey" json:"id"`
	Label       string  `gorm:"not null" json:"label"`
	Description *string `json:"description,omitempty"`
}

func (MedicalCategory) TableName() string { return "medical_categories" }

// Place is the lookup target for hometown references. Unlike the other lookup
// tables it carries optional coordinates and an external gazetteer URI.
type Place struct {
	ID          int64    `gorm:"primaryKey" json:"id"`
	Label       string   `gorm:"not null" json:"label"` // toponym
	Description *string  `json:"description,omitempty"`
	Lat         *float64 `json:"lat,omitempty"`
	Long        *float64 `json:"long,omitempty"`
	ExternalURI *string  `gorm:"uniqueIndex" json:"external_uri,omitempty"`
}

func (Place) TableName() string { return "places" }
