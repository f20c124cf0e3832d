// Package audit defines the field-level change-tracking schema for records
// that are saved through the audited path. Each auditable record type carries
// a static metadata table enumerating its auditable columns: the column name,
// its semantic type (a primitive type name, or the referenced lookup table's
// name for foreign-key columns), and a typed getter. The tables are the single
// source of truth for what gets audited; primary keys and `_raw` columns are
// never listed, so no edit can ever produce an audit row for them.
package audit

import (
	"encoding/json"
	"time"

	"github.com/muster-archive/musterbackend/dates"
	"github.com/muster-archive/musterbackend/models"
)

// FieldValue is the {label, id?} envelope a field's value is recorded as in
// the audit ledger. ID is populated only for lookup-table references.
type FieldValue struct {
	Label string `json:"label"`
	ID    *int64 `json:"id,omitempty"`
}

// Envelope renders the value as its JSON envelope string.
func (v FieldValue) Envelope() string {
	b, err := json.Marshal(v)
	if err != nil {
		// a struct of string and *int64 cannot fail to marshal
		return `{"label":""}`
	}
	return string(b)
}

// Equal reports structural equality of two field values.
func (v FieldValue) Equal(other FieldValue) bool {
	return v.Label == other.Label && v.EqualID(other)
}

// EqualID reports equality of the id components alone.
func (v FieldValue) EqualID(other FieldValue) bool {
	if (v.ID == nil) != (other.ID == nil) {
		return false
	}
	return v.ID == nil || *v.ID == *other.ID
}

// FieldSpec describes one auditable column of record type T.
type FieldSpec[T any] struct {
	Name string // column name as recorded in the ledger
	Type string // "string", "date", or a lookup table name
	Get  func(*T) FieldValue

	// CompareID restricts change detection to the id component. Lookup
	// reference envelopes carry the companion text label for display, but the
	// stored column is the id alone; comparing the label too would record a
	// change on the id column when only the text was corrected.
	CompareID bool
}

// Change is one field's value difference between two snapshots of a record.
type Change struct {
	Field string
	Type  string
	Old   FieldValue
	New   FieldValue
}

// Diff walks the field specs comparing the original and updated snapshots and
// returns one Change per field whose value differs. Fields absent from the
// specs are never compared.
func Diff[T any](specs []FieldSpec[T], original, updated *T) []Change {
	var changes []Change
	for _, spec := range specs {
		oldVal := spec.Get(original)
		newVal := spec.Get(updated)
		equal := oldVal.Equal(newVal)
		if spec.CompareID {
			equal = oldVal.EqualID(newVal)
		}
		if !equal {
			changes = append(changes, Change{
				Field: spec.Name,
				Type:  spec.Type,
				Old:   oldVal,
				New:   newVal,
			})
		}
	}
	return changes
}

func textValue(s *string) FieldValue {
	if s == nil {
		return FieldValue{}
	}
	return FieldValue{Label: *s}
}

func dateValue(d *time.Time) FieldValue {
	return FieldValue{Label: dates.FormatISO(d)}
}

// lookupValue pairs the corrected text label with the assigned lookup id.
func lookupValue(label *string, id *int64) FieldValue {
	v := textValue(label)
	v.ID = id
	return v
}

func idValue(id uint) FieldValue {
	signed := int64(id)
	return FieldValue{ID: &signed}
}

// FormFields is the audit schema for models.Form. Raw columns and the primary
// key are deliberately absent.
var FormFields = []FieldSpec[models.Form]{
	{Name: "person_id", Type: "people", Get: func(f *models.Form) FieldValue { return idValue(f.PersonID) }},
	{Name: "form_image", Type: "string", Get: func(f *models.Form) FieldValue { return FieldValue{Label: f.FormImage} }},
	{Name: "form_type", Type: "string", Get: func(f *models.Form) FieldValue { return textValue(f.FormType) }},
	{Name: "lastname", Type: "string", Get: func(f *models.Form) FieldValue { return textValue(f.Lastname) }},
	{Name: "firstname", Type: "string", Get: func(f *models.Form) FieldValue { return textValue(f.Firstname) }},
	{Name: "army_number", Type: "string", Get: func(f *models.Form) FieldValue { return textValue(f.ArmyNumber) }},
	{Name: "dob", Type: "string", Get: func(f *models.Form) FieldValue { return textValue(f.DOB) }},
	{Name: "dob_date", Type: "date", Get: func(f *models.Form) FieldValue { return dateValue(f.DOBDate) }},
	{Name: "date_of_enlistment", Type: "string", Get: func(f *models.Form) FieldValue { return textValue(f.DateOfEnlistment) }},
	{Name: "date_of_enlistment_date", Type: "date", Get: func(f *models.Form) FieldValue { return dateValue(f.DateOfEnlistmentDate) }},
	{Name: "non_effective_cause", Type: "string", Get: func(f *models.Form) FieldValue { return textValue(f.NonEffectiveCause) }},
	{Name: "location", Type: "string", Get: func(f *models.Form) FieldValue { return textValue(f.Location) }},
	{Name: "regiment", Type: "string", Get: func(f *models.Form) FieldValue { return textValue(f.Regiment) }},
	{Name: "regiment_id", Type: "regiments", Get: func(f *models.Form) FieldValue { return lookupValue(f.Regiment, f.RegimentID) }, CompareID: true},
	{Name: "engagement", Type: "string", Get: func(f *models.Form) FieldValue { return textValue(f.Engagement) }},
	{Name: "engagement_id", Type: "engagements", Get: func(f *models.Form) FieldValue { return lookupValue(f.Engagement, f.EngagementID) }, CompareID: true},
	{Name: "nationality", Type: "string", Get: func(f *models.Form) FieldValue { return textValue(f.Nationality) }},
	{Name: "nationality_id", Type: "nationalities", Get: func(f *models.Form) FieldValue { return lookupValue(f.Nationality, f.NationalityID) }, CompareID: true},
	{Name: "religion", Type: "string", Get: func(f *models.Form) FieldValue { return textValue(f.Religion) }},
	{Name: "religion_id", Type: "religions", Get: func(f *models.Form) FieldValue { return lookupValue(f.Religion, f.ReligionID) }, CompareID: true},
	{Name: "industry", Type: "string", Get: func(f *models.Form) FieldValue { return textValue(f.Industry) }},
	{Name: "industry_id", Type: "industries", Get: func(f *models.Form) FieldValue { return lookupValue(f.Industry, f.IndustryID) }, CompareID: true},
	{Name: "occupation", Type: "string", Get: func(f *models.Form) FieldValue { return textValue(f.Occupation) }},
	{Name: "occupation_id", Type: "occupations", Get: func(f *models.Form) FieldValue { return lookupValue(f.Occupation, f.OccupationID) }, CompareID: true},
	{Name: "marital_status", Type: "string", Get: func(f *models.Form) FieldValue { return textValue(f.MaritalStatus) }},
	{Name: "marital_status_id", Type: "marital_statuses", Get: func(f *models.Form) FieldValue { return lookupValue(f.MaritalStatus, f.MaritalStatusID) }, CompareID: true},
	{Name: "hometown", Type: "string", Get: func(f *models.Form) FieldValue { return textValue(f.Hometown) }},
	{Name: "hometown_id", Type: "places", Get: func(f *models.Form) FieldValue { return lookupValue(f.Hometown, f.HometownID) }, CompareID: true},
	{Name: "rank", Type: "string", Get: func(f *models.Form) FieldValue { return textValue(f.Rank) }},
	{Name: "rank_id", Type: "ranks", Get: func(f *models.Form) FieldValue { return lookupValue(f.Rank, f.RankID) }, CompareID: true},
	{Name: "service_trade", Type: "string", Get: func(f *models.Form) FieldValue { return textValue(f.ServiceTrade) }},
	{Name: "service_trade_id", Type: "service_trades", Get: func(f *models.Form) FieldValue { return lookupValue(f.ServiceTrade, f.ServiceTradeID) }, CompareID: true},
	{Name: "medical_category", Type: "string", Get: func(f *models.Form) FieldValue { return textValue(f.MedicalCategory) }},
	{Name: "medical_category_id", Type: "medical_categories", Get: func(f *models.Form) FieldValue { return lookupValue(f.MedicalCategory, f.MedicalCategoryID) }, CompareID: true},
}

// PersonFields is the audit schema for models.Person.
var PersonFields = []FieldSpec[models.Person]{
	{Name: "source_id", Type: "string", Get: func(p *models.Person) FieldValue { return FieldValue{Label: p.SourceID} }},
	{Name: "lastname", Type: "string", Get: func(p *models.Person) FieldValue { return textValue(p.Lastname) }},
	{Name: "firstname", Type: "string", Get: func(p *models.Person) FieldValue { return textValue(p.Firstname) }},
	{Name: "army_number", Type: "string", Get: func(p *models.Person) FieldValue { return textValue(p.ArmyNumber) }},
	{Name: "dob", Type: "date", Get: func(p *models.Person) FieldValue { return dateValue(p.DOB) }},
}
