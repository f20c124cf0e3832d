package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/muster-archive/musterbackend/models"
)

func strPtr(s string) *string { return &s }

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"Smith":         "smith",
		"  Smith  ":     "smith",
		"O'Donnell":     "odonnell",
		"SMITH-JONES":   "smithjones",
		"van der Berg":  "vanderberg",
		"St. John":      "stjohn",
		"":              "",
		"  \t ":         "",
		"D'Arcy-Irvine": "darcyirvine",
	}
	for input, want := range cases {
		assert.Equal(t, want, NormalizeName(strPtr(input)), "%q", input)
	}
}

func TestNormalizeNameNil(t *testing.T) {
	assert.Equal(t, "", NormalizeName(nil))
}

func TestIsMatch(t *testing.T) {
	tests := []struct {
		name          string
		personLast    *string
		personFirst   *string
		formLastRaw   *string
		formFirstRaw  *string
		expectedMatch bool
	}{
		{"exact match", strPtr("Smith"), strPtr("John"), strPtr("Smith"), strPtr("John"), true},
		{"case and spacing differ", strPtr("SMITH "), strPtr(" john"), strPtr("smith"), strPtr("John"), true},
		{"punctuation stripped", strPtr("O'Donnell"), strPtr("Sean"), strPtr("ODonnell"), strPtr("Sean"), true},
		{"lastname only", strPtr("Smith"), strPtr("John"), strPtr("Smith"), strPtr("James"), false},
		{"firstname only", strPtr("Smith"), strPtr("John"), strPtr("Smythe"), strPtr("John"), false},
		{"neither", strPtr("Smith"), strPtr("John"), strPtr("Brown"), strPtr("James"), false},
		{"both nil on both sides", nil, nil, nil, nil, true},
		{"nil versus empty string", nil, strPtr("John"), strPtr(""), strPtr("John"), true},
		{"nil versus value", strPtr("Smith"), nil, strPtr("Smith"), strPtr("John"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			person := &models.Person{ID: 1, SourceID: "APV0001", Lastname: tt.personLast, Firstname: tt.personFirst}
			form := &models.Form{FormImage: "APV0001/page1.jpg", LastnameRaw: tt.formLastRaw, FirstnameRaw: tt.formFirstRaw}
			assert.Equal(t, tt.expectedMatch, IsMatch(person, form))
		})
	}
}

func TestIsMatchDoesNotMutate(t *testing.T) {
	person := &models.Person{ID: 1, Lastname: strPtr(" SMITH "), Firstname: strPtr("John")}
	form := &models.Form{LastnameRaw: strPtr("smith"), FirstnameRaw: strPtr("john")}
	IsMatch(person, form)
	assert.Equal(t, " SMITH ", *person.Lastname)
	assert.Equal(t, "smith", *form.LastnameRaw)
}
