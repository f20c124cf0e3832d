package audit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muster-archive/musterbackend/dates"
	"github.com/muster-archive/musterbackend/models"
)

func strPtr(s string) *string { return &s }
func i64Ptr(v int64) *int64   { return &v }

func TestEnvelopePlainValue(t *testing.T) {
	assert.Equal(t, `{"label":"Apple"}`, FieldValue{Label: "Apple"}.Envelope())
}

func TestEnvelopeLookupValue(t *testing.T) {
	assert.Equal(t, `{"label":"Royal Artillery","id":3}`,
		FieldValue{Label: "Royal Artillery", ID: i64Ptr(3)}.Envelope())
}

func TestEnvelopeAbsentValue(t *testing.T) {
	assert.Equal(t, `{"label":""}`, FieldValue{}.Envelope())
}

func TestFieldValueEqual(t *testing.T) {
	assert.True(t, FieldValue{Label: "x"}.Equal(FieldValue{Label: "x"}))
	assert.False(t, FieldValue{Label: "x"}.Equal(FieldValue{Label: "y"}))
	assert.False(t, FieldValue{Label: "x"}.Equal(FieldValue{Label: "x", ID: i64Ptr(1)}))
	assert.True(t, FieldValue{Label: "x", ID: i64Ptr(1)}.Equal(FieldValue{Label: "x", ID: i64Ptr(1)}))
	assert.False(t, FieldValue{Label: "x", ID: i64Ptr(1)}.Equal(FieldValue{Label: "x", ID: i64Ptr(2)}))
}

func TestDiffNoChanges(t *testing.T) {
	form := &models.Form{ID: 1, Lastname: strPtr("Smith")}
	other := *form
	assert.Empty(t, Diff(FormFields, form, &other))
}

func TestDiffSingleTextChange(t *testing.T) {
	original := &models.Form{ID: 1, Lastname: strPtr("Apple")}
	updated := &models.Form{ID: 1, Lastname: strPtr("Acai")}

	changes := Diff(FormFields, original, updated)
	require.Len(t, changes, 1)
	assert.Equal(t, "lastname", changes[0].Field)
	assert.Equal(t, "string", changes[0].Type)
	assert.Equal(t, `{"label":"Apple"}`, changes[0].Old.Envelope())
	assert.Equal(t, `{"label":"Acai"}`, changes[0].New.Envelope())
}

func TestDiffLookupChangeCarriesLabelAndID(t *testing.T) {
	original := &models.Form{ID: 1, Regiment: strPtr("Royal Artillery")}
	updated := &models.Form{ID: 1, Regiment: strPtr("Royal Artillery"), RegimentID: i64Ptr(3)}

	changes := Diff(FormFields, original, updated)
	require.Len(t, changes, 1)
	assert.Equal(t, "regiment_id", changes[0].Field)
	assert.Equal(t, "regiments", changes[0].Type)
	assert.Equal(t, `{"label":"Royal Artillery"}`, changes[0].Old.Envelope())
	assert.Equal(t, `{"label":"Royal Artillery","id":3}`, changes[0].New.Envelope())
}

func TestDiffLabelOnlyChangeSkipsIDColumn(t *testing.T) {
	// correcting the text while the assigned id stays put changes one stored
	// column, so exactly one entry is recorded
	original := &models.Form{ID: 1, Regiment: strPtr("RA"), RegimentID: i64Ptr(3)}
	updated := &models.Form{ID: 1, Regiment: strPtr("Royal Artillery"), RegimentID: i64Ptr(3)}

	changes := Diff(FormFields, original, updated)
	require.Len(t, changes, 1)
	assert.Equal(t, "regiment", changes[0].Field)
}

func TestDiffIDOnlyChangeRecordsIDColumn(t *testing.T) {
	original := &models.Form{ID: 1, Hometown: strPtr("Leeds"), HometownID: i64Ptr(7)}
	updated := &models.Form{ID: 1, Hometown: strPtr("Leeds"), HometownID: i64Ptr(9)}

	changes := Diff(FormFields, original, updated)
	require.Len(t, changes, 1)
	assert.Equal(t, "hometown_id", changes[0].Field)
	assert.Equal(t, `{"label":"Leeds","id":7}`, changes[0].Old.Envelope())
	assert.Equal(t, `{"label":"Leeds","id":9}`, changes[0].New.Envelope())
}

func TestDiffDateChangeRendersISO(t *testing.T) {
	dob := dates.Date(1923, 4, 17)
	original := &models.Person{ID: 1}
	updated := &models.Person{ID: 1, DOB: &dob}

	changes := Diff(PersonFields, original, updated)
	require.Len(t, changes, 1)
	assert.Equal(t, "dob", changes[0].Field)
	assert.Equal(t, "date", changes[0].Type)
	assert.Equal(t, `{"label":""}`, changes[0].Old.Envelope())
	assert.Equal(t, `{"label":"1923-04-17"}`, changes[0].New.Envelope())
}

func TestDiffNilToEmptyIsNoChange(t *testing.T) {
	// nil and "" both render as an empty label, so flipping between them is
	// not a recordable change
	original := &models.Form{ID: 1, Firstname: nil}
	updated := &models.Form{ID: 1, Firstname: strPtr("")}
	assert.Empty(t, Diff(FormFields, original, updated))
}

func TestSchemasNeverListRawOrKeyColumns(t *testing.T) {
	for _, spec := range FormFields {
		assert.False(t, strings.HasSuffix(spec.Name, "_raw"), spec.Name)
		assert.NotEqual(t, "id", spec.Name)
		if strings.HasSuffix(spec.Name, "_id") && spec.Name != "person_id" {
			assert.True(t, spec.CompareID, spec.Name)
		}
	}
	for _, spec := range PersonFields {
		assert.False(t, strings.HasSuffix(spec.Name, "_raw"), spec.Name)
		assert.NotEqual(t, "id", spec.Name)
	}
}
