// Package matching implements the identity-matching heuristic that decides
// whether a Person and a freshly imported Form refer to the same individual.
package matching

import (
	"log"
	"strings"
	"unicode"

	"github.com/muster-archive/musterbackend/models"
)

// NormalizeName normalizes a name for comparison: trim, lowercase, then strip
// all punctuation and all whitespace. Absent values normalize to "".
func NormalizeName(s *string) string {
	if s == nil {
		return ""
	}
	lowered := strings.ToLower(strings.TrimSpace(*s))
	return strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, lowered)
}

// IsMatch reports whether the Person is a perfect match for the data on the
// form.
//
// A match is determined by comparing the two name fields, lastname and
// firstname, each normalized identically on both sides. Each equal comparison
// scores one point; the Person is a match only when both fields match. A
// single-field match is deliberately insufficient: with noisy OCR this trades
// recall for precision. Per-field outcomes are logged for manual audit but
// never used to merge identities.
//
// Lastname and firstname are currently the only fields present on both
// records. IsMatch never mutates its inputs.
func IsMatch(person *models.Person, form *models.Form) bool {
	pLastname := NormalizeName(person.Lastname)
	pFirstname := NormalizeName(person.Firstname)
	fLastname := NormalizeName(form.LastnameRaw)
	fFirstname := NormalizeName(form.FirstnameRaw)

	matches := 0

	if pLastname == fLastname {
		matches++
		log.Printf("person id=%d and form image=%s match on lastname: %s, %s",
			person.ID, form.FormImage, deref(person.Lastname), deref(form.LastnameRaw))
	} else {
		log.Printf("person id=%d and form image=%s do not match on lastname: %s, %s",
			person.ID, form.FormImage, deref(person.Lastname), deref(form.LastnameRaw))
	}

	if pFirstname == fFirstname {
		matches++
		log.Printf("person id=%d and form image=%s match on firstname: %s, %s",
			person.ID, form.FormImage, deref(person.Firstname), deref(form.FirstnameRaw))
	} else {
		log.Printf("person id=%d and form image=%s do not match on firstname: %s, %s",
			person.ID, form.FormImage, deref(person.Firstname), deref(form.FirstnameRaw))
	}

	log.Printf("match result for source_id=%s: %d of 2 fields", person.SourceID, matches)

	return matches == 2
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
